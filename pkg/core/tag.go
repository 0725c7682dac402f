package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/buildtrace/artpack/pkg/errors"
	"github.com/buildtrace/artpack/pkg/model"
	"github.com/buildtrace/artpack/pkg/storage"
	storagestatus "github.com/buildtrace/artpack/pkg/storage/status"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// RegisterTag points (project, tag) at a bundle fingerprint.
//
// Registration is an atomic check-and-set on the backend: without
// force, a concurrent or prior registration of the same tag surfaces
// as ErrTagExists and the stored pointer is left untouched. With
// force, the pointer is replaced; the previously tagged bundle stays
// retrievable by its own fingerprint.
func RegisterTag(ctx context.Context, stores Stores, project, tag, fp string, force bool, opts ...Option) (*model.TagDescriptor, error) {
	s := defaultSettings(opts)
	if err := model.ValidateProject(project); err != nil {
		return nil, err
	}
	if err := model.ValidateTag(tag); err != nil {
		return nil, err
	}
	desc := model.NewTagDescriptor(project, tag, fp)
	buf, err := yaml.Marshal(desc)
	if err != nil {
		return nil, err
	}
	exclusive := storage.NoOverWrite
	if force {
		exclusive = storage.OverWrite
	}
	err = stores.Meta().Put(ctx, model.GetArchivePathToTag(project, tag), bytes.NewReader(buf), exclusive)
	if err != nil {
		if errors.Is(err, storagestatus.ErrExists) {
			return nil, fmt.Errorf("register tag %s/%s: %w", project, tag, status.ErrTagExists.Wrap(err))
		}
		return nil, fmt.Errorf("register tag %s/%s (fingerprint %s): %w", project, tag, fp, err)
	}
	s.l.Info("registered tag",
		zap.String("project", project),
		zap.String("tag", tag),
		zap.String("fingerprint", fp),
		zap.Bool("force", force),
	)
	return desc, nil
}

// ResolveTag returns the descriptor the tag currently points at, or
// ErrTagNotFound.
func ResolveTag(ctx context.Context, stores Stores, project, tag string) (*model.TagDescriptor, error) {
	if err := model.ValidateProject(project); err != nil {
		return nil, err
	}
	if err := model.ValidateTag(tag); err != nil {
		return nil, err
	}
	buf, err := storage.ReadAll(ctx, stores.Meta(), model.GetArchivePathToTag(project, tag))
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotFound) {
			return nil, fmt.Errorf("resolve tag %s/%s: %w", project, tag, status.ErrTagNotFound.Wrap(err))
		}
		return nil, fmt.Errorf("resolve tag %s/%s: %w", project, tag, err)
	}
	var desc model.TagDescriptor
	if err := yaml.Unmarshal(buf, &desc); err != nil {
		return nil, fmt.Errorf("resolve tag %s/%s: corrupt tag descriptor: %w", project, tag, err)
	}
	if desc.Name == "" {
		desc.Name = tag
	}
	if desc.Project == "" {
		desc.Project = project
	}
	return &desc, nil
}
