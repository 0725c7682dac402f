package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/buildtrace/artpack/pkg/errors"
	"github.com/buildtrace/artpack/pkg/fingerprint"
	"github.com/buildtrace/artpack/pkg/model"
	"github.com/buildtrace/artpack/pkg/storage"
	storagestatus "github.com/buildtrace/artpack/pkg/storage/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Pull materializes the bundle referenced by a tag (or directly by a
// fingerprint) into the destination directory.
//
// The destination is fully replaced, not merged: any prior content at
// dest is removed first. A provenance file is written alongside the
// unit files; only tag pulls produce a frozen bundle that the
// deployment resolver accepts.
func Pull(ctx context.Context, stores Stores, project, nameOrFingerprint string, fs afero.Fs, dest string, opts ...Option) (*model.BundleProvenance, error) {
	s := defaultSettings(opts)

	var (
		fp  string
		tag string
	)
	if fingerprint.IsDigest(nameOrFingerprint) {
		fp = nameOrFingerprint
	} else {
		desc, err := ResolveTag(ctx, stores, project, nameOrFingerprint)
		if err != nil {
			return nil, err
		}
		tag = desc.Name
		fp = desc.Fingerprint
	}

	entries, err := readBundleEntries(ctx, stores, fp)
	if err != nil {
		return nil, err
	}

	// full replace, not merge
	if err := fs.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("clear destination %q: %w", dest, err)
	}
	if err := fs.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("create destination %q: %w", dest, err)
	}

	for _, entry := range entries {
		data, err := storage.ReadAll(ctx, stores.Blob(), model.GetArchivePathToBlob(entry.Hash))
		if err != nil {
			return nil, fmt.Errorf("download unit %q (blob %s): %w", entry.QualifiedName, entry.Hash, err)
		}
		if got := unitDigest.Object(data); got != entry.Hash {
			return nil, fmt.Errorf("unit %q: %w",
				entry.QualifiedName,
				status.ErrBundleCorrupted.Wrap(fmt.Errorf("blob digest %s does not match index entry %s", got, entry.Hash)))
		}
		target := filepath.Join(dest, filepath.FromSlash(entry.Path))
		if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, err
		}
		if err := afero.WriteFile(fs, target, data, 0644); err != nil {
			return nil, fmt.Errorf("materialize unit %q at %q: %w", entry.QualifiedName, target, err)
		}
	}

	prov := &model.BundleProvenance{
		Project:     project,
		Tag:         tag,
		Fingerprint: fp,
		PulledAt:    time.Now().UTC(),
		Entries:     entries,
	}
	if err := writeProvenance(fs, dest, prov); err != nil {
		return nil, err
	}
	s.l.Info("pulled bundle",
		zap.String("project", project),
		zap.String("tag", tag),
		zap.String("fingerprint", fp),
		zap.Int("units", len(entries)),
		zap.String("dest", dest),
	)
	return prov, nil
}

func readBundleEntries(ctx context.Context, stores Stores, fp string) ([]model.BundleEntry, error) {
	descBuf, err := storage.ReadAll(ctx, stores.Meta(), model.GetArchivePathToBundle(fp))
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotFound) {
			return nil, fmt.Errorf("bundle %s: %w", fp, status.ErrBundleNotFound.Wrap(err))
		}
		return nil, fmt.Errorf("read bundle descriptor %s: %w", fp, err)
	}
	var desc model.BundleDescriptor
	if err := yaml.Unmarshal(descBuf, &desc); err != nil {
		return nil, fmt.Errorf("corrupt bundle descriptor %s: %w", fp, err)
	}

	entriesBuf, err := storage.ReadAll(ctx, stores.Meta(), model.GetArchivePathToBundleEntries(fp))
	if err != nil {
		return nil, fmt.Errorf("read unit index for bundle %s: %w", fp, err)
	}
	var entries model.BundleEntries
	if err := yaml.Unmarshal(entriesBuf, &entries); err != nil {
		return nil, fmt.Errorf("corrupt unit index for bundle %s: %w", fp, err)
	}
	if uint64(len(entries.Entries)) != desc.UnitCount {
		return nil, fmt.Errorf("bundle %s: %w",
			fp,
			status.ErrBundleCorrupted.Wrap(fmt.Errorf("unit index has %d entries, descriptor says %d", len(entries.Entries), desc.UnitCount)))
	}
	return entries.Entries, nil
}

func writeProvenance(fs afero.Fs, dest string, prov *model.BundleProvenance) error {
	buf, err := yaml.Marshal(prov)
	if err != nil {
		return err
	}
	dir := filepath.Join(dest, model.ConsumableDirName)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(dest, filepath.FromSlash(model.GetConsumablePathToProvenance())), buf, 0644)
}
