package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/buildtrace/artpack/pkg/model"
	"github.com/buildtrace/artpack/pkg/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// PushResult reports what a push actually did
type PushResult struct {
	Tag           *model.TagDescriptor
	Fingerprint   string
	Deduped       bool // bundle content was already stored under this fingerprint
	UploadedUnits int
	UploadedBytes int64
}

// Push uploads a local bundle and registers it under (project, tag).
//
// Content is fingerprint-addressed: when the fingerprint is already
// present in storage the upload is skipped entirely and only the tag
// pointer is written. Without force, pushing onto an existing tag
// fails with ErrTagExists; the uploaded content (if any) remains
// stored and addressable by fingerprint.
func Push(ctx context.Context, stores Stores, bundle *LocalBundle, project, tag string, force bool, opts ...Option) (*PushResult, error) {
	s := defaultSettings(opts)
	if err := model.ValidateProject(project); err != nil {
		return nil, err
	}
	if err := model.ValidateTag(tag); err != nil {
		return nil, err
	}
	fp := bundle.Fingerprint()
	res := &PushResult{Fingerprint: fp}

	stored, err := stores.Meta().Has(ctx, model.GetArchivePathToBundle(fp))
	if err != nil {
		return nil, fmt.Errorf("check bundle %s: %w", fp, err)
	}
	if stored {
		res.Deduped = true
		s.l.Debug("bundle already stored, skipping upload", zap.String("fingerprint", fp))
	} else {
		if err := uploadBundle(ctx, stores, bundle, res, s); err != nil {
			return nil, err
		}
	}

	desc, err := RegisterTag(ctx, stores, project, tag, fp, force, opts...)
	if err != nil {
		return nil, err
	}
	res.Tag = desc
	return res, nil
}

func uploadBundle(ctx context.Context, stores Stores, bundle *LocalBundle, res *PushResult, s settings) error {
	fp := bundle.Fingerprint()
	for _, entry := range bundle.Entries {
		blobKey := model.GetArchivePathToBlob(entry.Hash)
		has, err := stores.Blob().Has(ctx, blobKey)
		if err != nil {
			return fmt.Errorf("check blob %s for unit %q: %w", entry.Hash, entry.QualifiedName, err)
		}
		if has {
			// identical unit content already stored by some other bundle
			continue
		}
		data, _ := bundle.unitFile(entry.QualifiedName)
		if err := stores.Blob().Put(ctx, blobKey, bytes.NewReader(data), storage.OverWrite); err != nil {
			return fmt.Errorf("upload unit %q (blob %s): %w", entry.QualifiedName, entry.Hash, err)
		}
		res.UploadedUnits++
		res.UploadedBytes += int64(len(data))
		s.l.Debug("uploaded unit",
			zap.String("unit", entry.QualifiedName),
			zap.String("blob", entry.Hash),
		)
	}

	entriesBuf, err := yaml.Marshal(model.BundleEntries{Entries: bundle.Entries})
	if err != nil {
		return err
	}
	if err := stores.Meta().Put(ctx, model.GetArchivePathToBundleEntries(fp), bytes.NewReader(entriesBuf), storage.OverWrite); err != nil {
		return fmt.Errorf("upload unit index for bundle %s: %w", fp, err)
	}

	descBuf, err := yaml.Marshal(bundle.Descriptor)
	if err != nil {
		return err
	}
	// the descriptor goes last: a bundle observed as stored is complete
	if err := stores.Meta().Put(ctx, model.GetArchivePathToBundle(fp), bytes.NewReader(descBuf), storage.OverWrite); err != nil {
		return fmt.Errorf("upload descriptor for bundle %s: %w", fp, err)
	}
	s.l.Info("uploaded bundle",
		zap.String("fingerprint", fp),
		zap.Int("units", res.UploadedUnits),
		zap.Int64("bytes", res.UploadedBytes),
	)
	return nil
}
