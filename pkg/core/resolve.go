package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/buildtrace/artpack/pkg/model"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// FrozenBundle is a bundle materialized by an explicit tag pull.
//
// It is the only sanctioned input to deployment: every unit resolved
// from it is traceable to a named, immutable release. Local builds and
// fingerprint-only pulls are refused.
type FrozenBundle struct {
	Provenance model.BundleProvenance

	fs      afero.Fs
	root    string
	entries map[string]model.BundleEntry
}

// OpenFrozen loads a pulled bundle from its destination directory.
//
// Fails with ErrNotFrozen when the directory was not produced by a tag
// pull (no provenance, or provenance without a tag).
func OpenFrozen(fs afero.Fs, root string) (*FrozenBundle, error) {
	buf, err := afero.ReadFile(fs, filepath.Join(root, filepath.FromSlash(model.GetConsumablePathToProvenance())))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("bundle at %q: %w",
				root, status.ErrNotFrozen.Wrap(fmt.Errorf("no provenance file: not produced by pull")))
		}
		return nil, fmt.Errorf("read provenance at %q: %w", root, err)
	}
	var prov model.BundleProvenance
	if err := yaml.Unmarshal(buf, &prov); err != nil {
		return nil, fmt.Errorf("corrupt provenance at %q: %w", root, err)
	}
	if prov.Tag == "" {
		return nil, fmt.Errorf("bundle at %q: %w",
			root, status.ErrNotFrozen.Wrap(fmt.Errorf("pulled by fingerprint %s, not by tag", prov.Fingerprint)))
	}
	b := &FrozenBundle{
		Provenance: prov,
		fs:         fs,
		root:       root,
		entries:    make(map[string]model.BundleEntry, len(prov.Entries)),
	}
	for _, e := range prov.Entries {
		b.entries[e.QualifiedName] = e
	}
	return b, nil
}

// ResolveUnit returns the compiled unit for a qualified name, or
// ErrUnitNotFound when the name is absent from the bundle.
//
// The unit file is verified against the digest recorded at pull time:
// content altered since the pull is refused rather than resolved.
func (b *FrozenBundle) ResolveUnit(qualified string) (*model.CompiledUnit, error) {
	entry, ok := b.entries[qualified]
	if !ok {
		return nil, fmt.Errorf("unit %q in bundle %s/%s: %w",
			qualified, b.Provenance.Project, b.Provenance.Tag, status.ErrUnitNotFound)
	}
	data, err := afero.ReadFile(b.fs, filepath.Join(b.root, filepath.FromSlash(entry.Path)))
	if err != nil {
		return nil, fmt.Errorf("read unit %q: %w", qualified, err)
	}
	if got := unitDigest.Object(data); got != entry.Hash {
		return nil, fmt.Errorf("unit %q: %w",
			qualified,
			status.ErrBundleCorrupted.Wrap(fmt.Errorf("file digest %s does not match pulled digest %s", got, entry.Hash)))
	}
	return model.UnmarshalUnit(data)
}

// QualifiedNames lists the bundle's units in lexicographic order,
// enough structure for an external binding generator to walk the
// bundle.
func (b *FrozenBundle) QualifiedNames() []string {
	names := make([]string, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tag this bundle was pulled for
func (b *FrozenBundle) Tag() string {
	return b.Provenance.Tag
}

// Fingerprint of this bundle
func (b *FrozenBundle) Fingerprint() string {
	return b.Provenance.Fingerprint
}
