package storage

import (
	"context"
	"io"
	"time"

	"github.com/buildtrace/artpack/pkg/errors"
	"github.com/buildtrace/artpack/pkg/storage/status"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultRetryAttempts        = 4
	defaultRetryInitialInterval = 250 * time.Millisecond
)

// RetryOption alters the behavior of the retrying store decorator
type RetryOption func(*retryStore)

// RetryAttempts sets the maximum number of attempts per operation (initial call included)
func RetryAttempts(n uint64) RetryOption {
	return func(r *retryStore) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// RetryInitialInterval sets the initial backoff interval between attempts
func RetryInitialInterval(d time.Duration) RetryOption {
	return func(r *retryStore) {
		if d > 0 {
			r.initialInterval = d
		}
	}
}

// RetryLogger sets a logger reporting retried operations
func RetryLogger(l *zap.Logger) RetryOption {
	return func(r *retryStore) {
		if l != nil {
			r.l = l
		}
	}
}

// WithRetry decorates a store with bounded retries on transient failures.
//
// Only errors matching status.ErrStorageTransient are retried: anything
// else (auth failures, missing objects, exclusive put conflicts) surfaces
// immediately. Puts are retried only when the source reader can be rewound.
func WithRetry(s Store, opts ...RetryOption) Store {
	r := &retryStore{
		Store:           s,
		attempts:        defaultRetryAttempts,
		initialInterval: defaultRetryInitialInterval,
		l:               zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

type retryStore struct {
	Store
	attempts        uint64
	initialInterval time.Duration
	l               *zap.Logger
}

func (r *retryStore) do(ctx context.Context, op string, key string, call func() error) error {
	bk := backoff.NewExponentialBackOff()
	bk.InitialInterval = r.initialInterval
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := call()
		if err == nil {
			return nil
		}
		if !errors.Is(err, status.ErrStorageTransient) {
			return backoff.Permanent(err)
		}
		r.l.Warn("transient storage error, retrying",
			zap.String("op", op),
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bk, r.attempts-1), ctx))
}

func (r *retryStore) Has(ctx context.Context, key string) (bool, error) {
	var has bool
	err := r.do(ctx, "has", key, func() error {
		var err error
		has, err = r.Store.Has(ctx, key)
		return err
	})
	return has, err
}

func (r *retryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	var rdr io.ReadCloser
	err := r.do(ctx, "get", key, func() error {
		var err error
		rdr, err = r.Store.Get(ctx, key)
		return err
	})
	return rdr, err
}

func (r *retryStore) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	seeker, rewindable := source.(io.Seeker)
	if !rewindable {
		// a one-shot reader cannot be replayed: single attempt
		return r.Store.Put(ctx, key, source, exclusive)
	}
	first := true
	return r.do(ctx, "put", key, func() error {
		if !first {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return backoff.Permanent(err)
			}
		}
		first = false
		return r.Store.Put(ctx, key, source, exclusive)
	})
}

func (r *retryStore) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func() error {
		return r.Store.Delete(ctx, key)
	})
}

func (r *retryStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.do(ctx, "keys", "", func() error {
		var err error
		keys, err = r.Store.Keys(ctx)
		return err
	})
	return keys, err
}

func (r *retryStore) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	var (
		keys []string
		next string
	)
	err := r.do(ctx, "keysPrefix", prefix, func() error {
		var err error
		keys, next, err = r.Store.KeysPrefix(ctx, token, prefix, delimiter, count)
		return err
	})
	return keys, next, err
}

func (r *retryStore) String() string {
	return r.Store.String() + " (with retries)"
}
