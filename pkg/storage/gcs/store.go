// Package gcs implements the storage.Store interface on a Google Cloud
// Storage bucket.
//
// Exclusive puts rely on GCS generation preconditions, so tag pointer
// registration is an atomic check-and-set on the backend itself.
package gcs

import (
	"context"
	"io"
	"time"

	gcsStorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/buildtrace/artpack/pkg/storage"
	"go.uber.org/zap"
)

const defaultOpTimeout = 5 * time.Minute

// Config carries the settings for a GCS backed store.
//
// Credentials are passed explicitly: the store never reads the process
// environment on its own.
type Config struct {
	Bucket          string
	CredentialsFile string
	Timeout         time.Duration
}

type gcs struct {
	client         *gcsStorage.Client
	readOnlyClient *gcsStorage.Client
	bucket         string
	timeout        time.Duration
	l              *zap.Logger
}

// New builds a store backed by a GCS bucket
func New(ctx context.Context, cfg Config, opts ...Option) (storage.Store, error) {
	if cfg.Bucket == "" {
		return nil, errInvalidBucket(cfg.Bucket)
	}
	g := &gcs{
		bucket:  cfg.Bucket,
		timeout: cfg.Timeout,
		l:       zap.NewNop(),
	}
	if g.timeout <= 0 {
		g.timeout = defaultOpTimeout
	}
	for _, apply := range opts {
		apply(g)
	}

	roOptions := []option.ClientOption{option.WithScopes(gcsStorage.ScopeReadOnly)}
	rwOptions := []option.ClientOption{option.WithScopes(gcsStorage.ScopeFullControl)}
	if cfg.CredentialsFile != "" {
		roOptions = append(roOptions, option.WithCredentialsFile(cfg.CredentialsFile))
		rwOptions = append(rwOptions, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	var err error
	if g.readOnlyClient, err = gcsStorage.NewClient(ctx, roOptions...); err != nil {
		return nil, toSentinelErrors(err)
	}
	if g.client, err = gcsStorage.NewClient(ctx, rwOptions...); err != nil {
		return nil, toSentinelErrors(err)
	}
	return g, nil
}

func (g *gcs) String() string {
	return "gcs://" + g.bucket
}

func (g *gcs) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

func (g *gcs) Has(ctx context.Context, key string) (bool, error) {
	ctx, cancel := g.opCtx(ctx)
	defer cancel()
	_, err := g.readOnlyClient.Bucket(g.bucket).Object(key).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case err == gcsStorage.ErrObjectNotExist:
		return false, nil
	default:
		return false, toSentinelErrors(err)
	}
}

// gcsReader ties the per-object read to its own deadline
type gcsReader struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *gcsReader) Close() error {
	defer r.cancel()
	return r.ReadCloser.Close()
}

func (g *gcs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := g.opCtx(ctx)
	rdr, err := g.readOnlyClient.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		cancel()
		return nil, toSentinelErrors(err)
	}
	return &gcsReader{ReadCloser: rdr, cancel: cancel}, nil
}

func (g *gcs) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	ctx, cancel := g.opCtx(ctx)
	defer cancel()
	obj := g.client.Bucket(g.bucket).Object(key)
	if exclusive {
		obj = obj.If(gcsStorage.Conditions{DoesNotExist: true})
	}
	writer := obj.NewWriter(ctx)
	n, err := io.Copy(writer, source)
	if err != nil {
		_ = writer.Close()
		return toSentinelErrors(err)
	}
	if err := writer.Close(); err != nil {
		// a precondition failure on Close means the key appeared concurrently
		return toSentinelErrors(err)
	}
	g.l.Debug("uploaded object", zap.String("key", key), zap.Int64("bytes", n))
	return nil
}

func (g *gcs) Delete(ctx context.Context, key string) error {
	ctx, cancel := g.opCtx(ctx)
	defer cancel()
	return toSentinelErrors(g.client.Bucket(g.bucket).Object(key).Delete(ctx))
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	token := ""
	for {
		page, next, err := g.KeysPrefix(ctx, token, "", "", pageSize)
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == "" {
			return keys, nil
		}
		token = next
	}
}

const pageSize = 1000

func (g *gcs) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	ctx, cancel := g.opCtx(ctx)
	defer cancel()
	if count <= 0 {
		count = pageSize
	}
	it := g.readOnlyClient.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{Prefix: prefix, Delimiter: delimiter})

	var objects []*gcsStorage.ObjectAttrs
	next, err := iterator.NewPager(it, count, token).NextPage(&objects)
	if err != nil {
		return nil, "", toSentinelErrors(err)
	}
	keys := make([]string, 0, len(objects))
	for _, attrs := range objects {
		if attrs.Name != "" {
			keys = append(keys, attrs.Name)
		} else if attrs.Prefix != "" {
			keys = append(keys, attrs.Prefix)
		}
	}
	return keys, next, nil
}
