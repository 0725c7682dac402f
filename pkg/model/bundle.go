package model

import (
	"time"
)

// CurrentBundleVersion is the version of the bundle descriptor schema
const CurrentBundleVersion = 1

// BundleDescriptor describes one stored bundle: an immutable,
// fingerprint-addressed set of compiled units.
type BundleDescriptor struct {
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	UnitCount   uint64    `json:"count" yaml:"count"`
	Timestamp   time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Version     uint64    `json:"version,omitempty" yaml:"version,omitempty"`
	_           struct{}
}

// NewBundleDescriptor builds a descriptor for a bundle with the given fingerprint
func NewBundleDescriptor(fingerprint string, unitCount uint64) *BundleDescriptor {
	return &BundleDescriptor{
		Fingerprint: fingerprint,
		UnitCount:   unitCount,
		Timestamp:   time.Now().UTC(),
		Version:     CurrentBundleVersion,
	}
}

// BundleEntry indexes one compiled unit within a stored bundle
type BundleEntry struct {
	Path          string `json:"path" yaml:"path"` // unit file path relative to the bundle root
	QualifiedName string `json:"name" yaml:"name"`
	Hash          string `json:"hash" yaml:"hash"` // content digest of the unit file, also its blob key
	Size          uint64 `json:"size" yaml:"size"`
	_             struct{}
}

// BundleEntries is the serialized index of the units in a bundle
type BundleEntries struct {
	Entries []BundleEntry `json:"entries" yaml:"entries"`
	_       struct{}
}

// BundleProvenance records where a materialized local bundle came from.
//
// It is written next to the pulled unit files and is what makes the
// bundle "frozen": deployment tooling only accepts bundles whose
// provenance names an explicit tag.
type BundleProvenance struct {
	Project     string        `json:"project" yaml:"project"`
	Tag         string        `json:"tag,omitempty" yaml:"tag,omitempty"`
	Fingerprint string        `json:"fingerprint" yaml:"fingerprint"`
	PulledAt    time.Time     `json:"pulledAt" yaml:"pulledAt"`
	Entries     []BundleEntry `json:"entries" yaml:"entries"`
	_           struct{}
}
