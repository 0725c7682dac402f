// Package fingerprint computes content digests for compiled units and
// whole bundles.
//
// A bundle fingerprint is a pure function of the unit contents: the
// per-unit digests are combined in lexicographic order of their names,
// so the result is stable under any reordering of the units.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	blake2b "github.com/minio/blake2b-simd"
)

// DigestSize is the size in bytes of digests produced by this package
const DigestSize = 32

// Option is a functor to pass optional parameters to the Maker
type Option func(*Maker)

// Prefix mixes a domain separation prefix into every digest
func Prefix(p string) Option {
	return func(m *Maker) {
		m.prefix = []byte(p)
	}
}

// New builds a digest maker
func New(opts ...Option) *Maker {
	m := &Maker{}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker computes blake2b content digests
type Maker struct {
	prefix []byte
}

// Pair associates a name with the digest of the named content
type Pair struct {
	Name   string
	Digest string
}

// Object computes the hex digest of a single blob
func (m *Maker) Object(data []byte) string {
	h := blake2b.New256()
	_, _ = h.Write(m.prefix)
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Combine computes the hex digest of a set of (name, digest) pairs,
// independent of the order in which pairs are given.
//
// Fields are length-prefixed so that no two distinct pair sets can
// produce the same byte stream.
func (m *Maker) Combine(pairs []Pair) string {
	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	h := blake2b.New256()
	_, _ = h.Write(m.prefix)
	var scratch [binary.MaxVarintLen64]byte
	writeField := func(field string) {
		n := binary.PutUvarint(scratch[:], uint64(len(field)))
		_, _ = h.Write(scratch[:n])
		_, _ = h.Write([]byte(field))
	}
	for _, p := range sorted {
		writeField(p.Name)
		writeField(p.Digest)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IsDigest tells whether s is syntactically a digest produced by this package
func IsDigest(s string) bool {
	if len(s) != 2*DigestSize {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
