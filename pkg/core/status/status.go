// Package status exports errors produced by the core package.
package status

import (
	"github.com/buildtrace/artpack/pkg/errors"
)

var (
	// ErrTagExists indicates a non-force push onto an existing tag.
	// Recoverable: the caller may force or pick a new tag.
	ErrTagExists = errors.New("tag exists already")

	// ErrTagNotFound indicates a pull or diff against an unknown tag
	ErrTagNotFound = errors.New("tag not found")

	// ErrBundleNotFound indicates a missing bundle for a resolved fingerprint
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrUnitNotFound indicates a resolver lookup miss: a qualified-name
	// typo or a stale bundle
	ErrUnitNotFound = errors.New("unit not found in bundle")

	// ErrNotFrozen indicates an attempt to resolve units from a bundle
	// that was not pulled for an explicit tag
	ErrNotFrozen = errors.New("bundle is not a frozen tagged artifact")

	// ErrBundleCorrupted indicates that materialized bundle content no
	// longer matches its recorded digests
	ErrBundleCorrupted = errors.New("bundle content does not match its recorded digests")

	// ErrEmptyBundle indicates a local bundle directory with no unit files
	ErrEmptyBundle = errors.New("bundle contains no compiled units")
)
