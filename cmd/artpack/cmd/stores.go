package cmd

import (
	"context"
	"fmt"

	"github.com/buildtrace/artpack/pkg/alogger"
	"github.com/buildtrace/artpack/pkg/core"
	"github.com/buildtrace/artpack/pkg/storage"
	"github.com/buildtrace/artpack/pkg/storage/gcs"
	"github.com/buildtrace/artpack/pkg/storage/localfs"
	"github.com/buildtrace/artpack/pkg/storage/s3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	backendLocalFS = "localfs"
	backendGCS     = "gcs"
	backendS3      = "s3"
)

func cliLogger(flags flagsT) (*zap.Logger, error) {
	level := flags.root.logLevel
	if level == "" {
		level = alogger.LogLevelInfo
	}
	return alogger.GetLogger(level)
}

// paramsToStores resolves the metadata and blob stores from flags and config.
// All remote stores retry transient backend failures.
func paramsToStores(ctx context.Context, flags flagsT) (core.Stores, error) {
	l, err := cliLogger(flags)
	if err != nil {
		return core.Stores{}, fmt.Errorf("build logger: %w", err)
	}

	meta, err := backendStore(ctx, flags, flags.store.bucket, l)
	if err != nil {
		return core.Stores{}, err
	}
	blob := meta
	if flags.store.blobBucket != "" && flags.store.blobBucket != flags.store.bucket {
		if blob, err = backendStore(ctx, flags, flags.store.blobBucket, l); err != nil {
			return core.Stores{}, err
		}
	}
	return core.NewStores(meta, blob), nil
}

func backendStore(ctx context.Context, flags flagsT, bucket string, l *zap.Logger) (storage.Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("a bucket (or localfs root directory) is required")
	}
	var (
		store storage.Store
		err   error
	)
	switch flags.store.backend {
	case backendLocalFS, "":
		store, err = localfs.New(afero.NewBasePathFs(afero.NewOsFs(), bucket))
	case backendGCS:
		store, err = gcs.New(ctx, gcs.Config{
			Bucket:          bucket,
			CredentialsFile: flags.store.credFile,
		}, gcs.Logger(l))
	case backendS3:
		store, err = s3.New(s3.Config{
			Endpoint: flags.store.endpoint,
			Region:   flags.store.region,
			Bucket:   bucket,
			UseSSL:   true,
			// static keys come from the usual AWS environment variables
			CredentialsSource: s3.CredentialsEnv,
		}, s3.Logger(l))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", flags.store.backend)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s store: %w", flags.store.backend, err)
	}
	if flags.store.backend == backendLocalFS || flags.store.backend == "" {
		// no point retrying local disk operations
		return store, nil
	}
	return storage.WithRetry(store, storage.RetryLogger(l)), nil
}
