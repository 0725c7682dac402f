// Package s3 implements the storage.Store interface on any
// S3-compatible object store (AWS S3, minio, ...).
//
// Exclusive puts use an If-None-Match conditional write, so tag pointer
// registration is an atomic check-and-set on the backend itself.
package s3

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/buildtrace/artpack/pkg/storage"
	"go.uber.org/zap"
)

const (
	defaultOpTimeout = 5 * time.Minute
	defaultRegion    = "us-east-1"
	pageSize         = 1000
)

// Credential sources recognized by Config
const (
	// CredentialsStatic uses the access/secret key pair from the config
	CredentialsStatic = "static"
	// CredentialsEnv resolves credentials from the usual AWS environment variables
	CredentialsEnv = "env"
	// CredentialsIAM resolves credentials from the instance's IAM role
	CredentialsIAM = "iam"
)

// Config carries the settings for an S3 backed store.
//
// All settings are explicit: the store itself never reads the process
// environment (the "env" credentials source delegates that to the minio
// credentials provider, by explicit request).
type Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	SessionToken      string
	CredentialsSource string // static (default), env or iam
	UseSSL            bool
	Timeout           time.Duration
}

type s3FS struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
	l       *zap.Logger
}

// New builds a store backed by an S3-compatible bucket
func New(cfg Config, opts ...Option) (storage.Store, error) {
	if cfg.Bucket == "" {
		return nil, errInvalidBucket(cfg.Bucket)
	}
	creds, err := credsFor(cfg)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	s := &s3FS{
		client:  client,
		bucket:  cfg.Bucket,
		timeout: cfg.Timeout,
		l:       zap.NewNop(),
	}
	if s.timeout <= 0 {
		s.timeout = defaultOpTimeout
	}
	for _, apply := range opts {
		apply(s)
	}
	return s, nil
}

func credsFor(cfg Config) (*credentials.Credentials, error) {
	switch cfg.CredentialsSource {
	case CredentialsEnv:
		return credentials.NewEnvAWS(), nil
	case CredentialsIAM:
		return credentials.NewIAM(""), nil
	case CredentialsStatic, "":
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, errMissingCredentials()
		}
		return credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken), nil
	default:
		return nil, errUnknownCredentialsSource(cfg.CredentialsSource)
	}
}

func (s *s3FS) String() string {
	return "s3://" + s.bucket
}

func (s *s3FS) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

// s3Reader ties the per-object read to its own deadline
type s3Reader struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *s3Reader) Close() error {
	defer r.cancel()
	return r.ReadCloser.Close()
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := s.opCtx(ctx)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		cancel()
		return nil, toSentinelErrors(err)
	}
	// GetObject is lazy: surface missing keys now rather than on first read
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		cancel()
		return nil, toSentinelErrors(err)
	}
	return &s3Reader{ReadCloser: obj, cancel: cancel}, nil
}

func (s *s3FS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	opts := minio.PutObjectOptions{}
	if exclusive {
		opts.SetMatchETagExcept("*")
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, source, -1, opts)
	if err != nil {
		return toSentinelErrors(err)
	}
	s.l.Debug("uploaded object", zap.String("key", key), zap.Int64("bytes", info.Size))
	return nil
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return toSentinelErrors(s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}))
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	token := ""
	for {
		page, next, err := s.KeysPrefix(ctx, token, "", "", pageSize)
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

func (s *s3FS) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	if count <= 0 {
		count = pageSize
	}
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  delimiter == "",
		StartAfter: token,
		MaxKeys:    count,
	})
	keys := make([]string, 0, count)
	for obj := range objects {
		if obj.Err != nil {
			return nil, "", toSentinelErrors(obj.Err)
		}
		keys = append(keys, obj.Key)
		if len(keys) == count {
			return keys, obj.Key, nil
		}
	}
	return keys, "", nil
}
