// Package core implements the artifact store client: push a local
// bundle of compiled units under a project-scoped tag, pull a tagged
// bundle back into a local directory, diff a local bundle against a
// stored one, and resolve units out of a pulled, frozen bundle.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/buildtrace/artpack/pkg/fingerprint"
	"github.com/buildtrace/artpack/pkg/model"
	"github.com/spf13/afero"
)

// domain-separated digest makers: a unit digest can never collide with
// a bundle fingerprint
var (
	unitDigest        = fingerprint.New(fingerprint.Prefix("artpack.unit.v1\n"))
	bundleFingerprint = fingerprint.New(fingerprint.Prefix("artpack.bundle.v1\n"))
)

// LocalBundle is a bundle loaded from a local directory tree: one JSON
// unit file per compiled unit, as produced by the build tool.
type LocalBundle struct {
	Descriptor model.BundleDescriptor
	Entries    []model.BundleEntry

	files map[string][]byte // qualified name → raw unit file bytes
}

// LoadBundle reads a compiler output directory and computes its
// content fingerprint.
//
// Unit files are identified by their .json extension; files generated
// by the store itself (provenance metadata) are skipped.
func LoadBundle(fs afero.Fs, path string) (*LocalBundle, error) {
	b := &LocalBundle{
		files: make(map[string][]byte),
	}
	seen := make(map[string]string) // qualified name → file path
	err := afero.Walk(fs, path, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, file)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if model.IsGeneratedPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if model.IsGeneratedPath(rel) || !strings.HasSuffix(rel, ".json") {
			return nil
		}
		data, err := afero.ReadFile(fs, file)
		if err != nil {
			return err
		}
		unit, err := model.UnmarshalUnit(data)
		if err != nil {
			return fmt.Errorf("unit file %q: %w", rel, err)
		}
		qualified := unit.QualifiedName()
		if prior, dupe := seen[qualified]; dupe {
			return fmt.Errorf("duplicate unit %q: defined by both %q and %q", qualified, prior, rel)
		}
		seen[qualified] = rel
		b.Entries = append(b.Entries, model.BundleEntry{
			Path:          rel,
			QualifiedName: qualified,
			Hash:          unitDigest.Object(data),
			Size:          uint64(len(data)),
		})
		b.files[qualified] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading bundle at %q: %w", path, err)
	}
	if len(b.Entries) == 0 {
		return nil, status.ErrEmptyBundle.Wrap(fmt.Errorf("no unit files under %q", path))
	}
	sort.Slice(b.Entries, func(i, j int) bool {
		return b.Entries[i].QualifiedName < b.Entries[j].QualifiedName
	})
	b.Descriptor = *model.NewBundleDescriptor(fingerprintOf(b.Entries), uint64(len(b.Entries)))
	return b, nil
}

// fingerprintOf combines per-unit digests into the bundle fingerprint,
// independent of unit ordering
func fingerprintOf(entries []model.BundleEntry) string {
	pairs := make([]fingerprint.Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, fingerprint.Pair{Name: e.QualifiedName, Digest: e.Hash})
	}
	return bundleFingerprint.Combine(pairs)
}

// Fingerprint of the loaded bundle
func (b *LocalBundle) Fingerprint() string {
	return b.Descriptor.Fingerprint
}

// Unit returns the raw file bytes of a unit by qualified name
func (b *LocalBundle) unitFile(qualified string) ([]byte, bool) {
	data, ok := b.files[qualified]
	return data, ok
}
