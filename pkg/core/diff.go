package core

import (
	"context"
	"sort"

	"github.com/buildtrace/artpack/pkg/model"
)

const (
	// DiffEntryTypeAdd indicates a unit present in the target bundle only
	DiffEntryTypeAdd DiffEntryType = iota
	// DiffEntryTypeDel indicates a unit present in the base bundle only
	DiffEntryTypeDel
	// DiffEntryTypeMod indicates a unit whose content differs between the bundles
	DiffEntryTypeMod
)

// DiffEntryType qualifies one difference between two bundles
type DiffEntryType uint

func (det DiffEntryType) String() string {
	switch det {
	case DiffEntryTypeAdd:
		return "A"
	case DiffEntryTypeDel:
		return "D"
	case DiffEntryTypeMod:
		return "M"
	default:
		return "?"
	}
}

// DiffEntry describes a single point of difference between two bundles
type DiffEntry struct {
	Type DiffEntryType
	Name string
	Base model.BundleEntry
	Target model.BundleEntry
}

// DiffReport describes all differences between a base bundle and a
// target bundle. Units with byte-identical content appear only in the
// Unchanged count, never as entries, regardless of unit ordering.
type DiffReport struct {
	BaseFingerprint   string
	TargetFingerprint string
	Entries           []DiffEntry
	Unchanged         int
}

// HasChanges tells whether the two bundles differ at all
func (r DiffReport) HasChanges() bool {
	return len(r.Entries) > 0
}

// Diff compares a local bundle (base) against the stored bundle a tag
// points at (target), unit by unit.
func Diff(ctx context.Context, stores Stores, base *LocalBundle, project, targetTag string, opts ...Option) (DiffReport, error) {
	desc, err := ResolveTag(ctx, stores, project, targetTag)
	if err != nil {
		return DiffReport{}, err
	}
	report := DiffReport{
		BaseFingerprint:   base.Fingerprint(),
		TargetFingerprint: desc.Fingerprint,
	}
	if report.BaseFingerprint == report.TargetFingerprint {
		// identical fingerprints imply identical unit sets
		report.Unchanged = len(base.Entries)
		return report, nil
	}
	targetEntries, err := readBundleEntries(ctx, stores, desc.Fingerprint)
	if err != nil {
		return DiffReport{}, err
	}
	report.Entries, report.Unchanged = diffEntries(base.Entries, targetEntries)
	return report, nil
}

func diffEntries(base, target []model.BundleEntry) ([]DiffEntry, int) {
	baseByName := make(map[string]model.BundleEntry, len(base))
	for _, e := range base {
		baseByName[e.QualifiedName] = e
	}
	targetByName := make(map[string]model.BundleEntry, len(target))
	for _, e := range target {
		targetByName[e.QualifiedName] = e
	}

	entries := make([]DiffEntry, 0)
	unchanged := 0
	for name, baseEntry := range baseByName {
		targetEntry, ok := targetByName[name]
		switch {
		case !ok:
			entries = append(entries, DiffEntry{Type: DiffEntryTypeDel, Name: name, Base: baseEntry})
		case targetEntry.Hash != baseEntry.Hash:
			entries = append(entries, DiffEntry{Type: DiffEntryTypeMod, Name: name, Base: baseEntry, Target: targetEntry})
		default:
			unchanged++
		}
	}
	for name, targetEntry := range targetByName {
		if _, ok := baseByName[name]; !ok {
			entries = append(entries, DiffEntry{Type: DiffEntryTypeAdd, Name: name, Target: targetEntry})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, unchanged
}
