package core

import (
	"github.com/buildtrace/artpack/pkg/storage"
)

// Stores groups the backend stores used by the artifact store client:
// one for metadata (descriptors, tag pointers) and one for unit blobs.
//
// Both may point to the same backend; blob content may also live on a
// separate, cheaper store.
type Stores struct {
	meta storage.Store
	blob storage.Store
}

// NewStores pairs a metadata store with a blob store. A nil blob store
// falls back to the metadata store.
func NewStores(meta, blob storage.Store) Stores {
	if blob == nil {
		blob = meta
	}
	return Stores{meta: meta, blob: blob}
}

// Meta is the store holding descriptors and tag pointers
func (s Stores) Meta() storage.Store { return s.meta }

// Blob is the store holding unit file content
func (s Stores) Blob() storage.Store { return s.blob }
