// Package storage defines the capability set expected from artifact
// store backends.
//
// A backend is a flat key/value object store. Implementations are
// assumed to be fairly simple: local filesystem, S3-compatible object
// stores, GCS buckets...
package storage

import (
	"context"
	"io"
	"io/ioutil"
)

// Write modes for Put.
const (
	// NoOverWrite requests an exclusive create: the put fails with
	// status.ErrExists when the key is already present. Backends
	// guarantee this check-and-set is atomic.
	NoOverWrite = true

	// OverWrite replaces any value previously stored at the key.
	OverWrite = false
)

// Store implementations know how to persist and retrieve objects by key.
//
// Puts are atomic at the level of a single key: a partially written
// object must never be observable as complete.
type Store interface {
	String() string
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	// KeysPrefix returns up to count keys matching prefix, starting
	// after the pagination token, plus the token for the next page
	// (empty when the listing is exhausted).
	KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error)
}

// ReadAll fetches the object at key and slurps it in memory.
func ReadAll(ctx context.Context, s Store, key string) ([]byte, error) {
	rdr, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	b, err := ioutil.ReadAll(rdr)
	if err != nil {
		_ = rdr.Close()
		return nil, err
	}
	return b, rdr.Close()
}

// PipeIO copies a reader out to a writer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	pr, pw := io.Pipe()
	errC := make(chan error, 1)
	go func() {
		defer pw.Close()
		_, err := io.Copy(pw, reader)
		if err != nil {
			errC <- err
		}
		close(errC)
	}()
	written, err := io.Copy(writer, pr)
	select {
	case pipeErr := <-errC:
		if pipeErr != nil {
			return written, pipeErr
		}
	default:
	}
	return written, err
}
