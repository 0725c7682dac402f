package storage

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"testing"
	"time"

	"github.com/buildtrace/artpack/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	failures int
	calls    int
	err      error
	payload  []byte
}

func (f *flakyStore) String() string { return "flaky" }

func (f *flakyStore) step() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyStore) Has(_ context.Context, _ string) (bool, error) {
	return true, f.step()
}

func (f *flakyStore) Get(_ context.Context, _ string) (io.ReadCloser, error) {
	if err := f.step(); err != nil {
		return nil, err
	}
	return ioutil.NopCloser(bytes.NewReader(f.payload)), nil
}

func (f *flakyStore) Put(_ context.Context, _ string, source io.Reader, _ bool) error {
	if err := f.step(); err != nil {
		return err
	}
	var err error
	f.payload, err = ioutil.ReadAll(source)
	return err
}

func (f *flakyStore) Delete(_ context.Context, _ string) error {
	return f.step()
}

func (f *flakyStore) Keys(_ context.Context) ([]string, error) {
	return nil, f.step()
}

func (f *flakyStore) KeysPrefix(_ context.Context, _, _, _ string, _ int) ([]string, string, error) {
	return nil, "", f.step()
}

func fastRetry(s Store) Store {
	return WithRetry(s, RetryAttempts(4), RetryInitialInterval(time.Millisecond))
}

func TestRetryTransient(t *testing.T) {
	f := &flakyStore{failures: 2, err: status.ErrStorageTransient.Wrap(io.ErrUnexpectedEOF), payload: []byte("pong")}
	s := fastRetry(f)

	rdr, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(b))
	assert.Equal(t, 3, f.calls)
}

func TestRetryExhaustion(t *testing.T) {
	f := &flakyStore{failures: 10, err: status.ErrStorageTransient}
	s := fastRetry(f)

	_, err := s.Has(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrStorageTransient)
	assert.Equal(t, 4, f.calls)
}

func TestNoRetryOnFatal(t *testing.T) {
	f := &flakyStore{failures: 10, err: status.ErrForbidden}
	s := fastRetry(f)

	err := s.Delete(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrForbidden)
	assert.Equal(t, 1, f.calls)
}

func TestRetryPutRewindsSource(t *testing.T) {
	f := &flakyStore{failures: 1, err: status.ErrStorageTransient}
	s := fastRetry(f)

	err := s.Put(context.Background(), "k", bytes.NewReader([]byte("payload")), OverWrite)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, "payload", string(f.payload))
}

func TestNoRetryPutOneShotReader(t *testing.T) {
	f := &flakyStore{failures: 1, err: status.ErrStorageTransient}
	s := fastRetry(f)

	err := s.Put(context.Background(), "k", ioutil.NopCloser(bytes.NewReader([]byte("x"))), OverWrite)
	require.Error(t, err)
	assert.Equal(t, 1, f.calls)
}
