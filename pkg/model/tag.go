package model

import (
	"fmt"
	"regexp"
	"time"

	"github.com/segmentio/ksuid"
)

// TagDescriptor is a project-scoped, named pointer to exactly one
// bundle fingerprint.
//
// Tags are created by push and never mutated in place: a force-push
// replaces the whole pointer, the prior bundle stays retrievable by
// fingerprint.
type TagDescriptor struct {
	Project     string    `json:"project" yaml:"project"`
	Name        string    `json:"name" yaml:"name"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	ID          string    `json:"id" yaml:"id"` // k-sortable creation id
	Timestamp   time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	_           struct{}
}

// NewTagDescriptor builds a tag pointer with a fresh creation id
func NewTagDescriptor(project, name, fingerprint string) *TagDescriptor {
	return &TagDescriptor{
		Project:     project,
		Name:        name,
		Fingerprint: fingerprint,
		ID:          ksuid.New().String(),
		Timestamp:   time.Now().UTC(),
	}
}

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateProject checks a project name for use as a storage key segment
func ValidateProject(project string) error {
	if !nameRe.MatchString(project) {
		return fmt.Errorf("invalid project name %q: must match %s", project, nameRe)
	}
	return nil
}

// ValidateTag checks a tag name for use as a storage key segment.
//
// Conventions such as "latest" or "vX.Y.Z" are caller policy: any name
// matching the pattern is accepted.
func ValidateTag(tag string) error {
	if !nameRe.MatchString(tag) {
		return fmt.Errorf("invalid tag name %q: must match %s", tag, nameRe)
	}
	return nil
}
