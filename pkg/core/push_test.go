package core

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/buildtrace/artpack/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushThenResolve(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	bundle := loadTestBundle(t, fs, "build", testUnit("src/Token.sol", "Token", "6080"))

	res, err := Push(ctx, stores, bundle, "demo", "v1.0.0", false)
	require.NoError(t, err)
	assert.Equal(t, bundle.Fingerprint(), res.Fingerprint)
	assert.False(t, res.Deduped)
	assert.Equal(t, 1, res.UploadedUnits)

	desc, err := ResolveTag(ctx, stores, "demo", "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, bundle.Fingerprint(), desc.Fingerprint)
	assert.NotEmpty(t, desc.ID)
}

func TestPushExistingTag(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	b1 := loadTestBundle(t, fs, "build-1", testUnit("src/Token.sol", "Token", "6080"))
	b2 := loadTestBundle(t, fs, "build-2", testUnit("src/Token.sol", "Token", "6099"))

	_, err := Push(ctx, stores, b1, "demo", "latest", false)
	require.NoError(t, err)

	_, err = Push(ctx, stores, b2, "demo", "latest", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrTagExists)

	// the pointer still names the first bundle
	desc, err := ResolveTag(ctx, stores, "demo", "latest")
	require.NoError(t, err)
	assert.Equal(t, b1.Fingerprint(), desc.Fingerprint)
}

func TestForcePushRepoints(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	b1 := loadTestBundle(t, fs, "build-1", testUnit("src/Token.sol", "Token", "6080"))
	b2 := loadTestBundle(t, fs, "build-2", testUnit("src/Token.sol", "Token", "6099"))

	_, err := Push(ctx, stores, b1, "demo", "latest", false)
	require.NoError(t, err)
	_, err = Push(ctx, stores, b2, "demo", "latest", true)
	require.NoError(t, err)

	desc, err := ResolveTag(ctx, stores, "demo", "latest")
	require.NoError(t, err)
	assert.Equal(t, b2.Fingerprint(), desc.Fingerprint)

	// the replaced bundle stays retrievable by its own fingerprint
	_, err = Pull(ctx, stores, "demo", b1.Fingerprint(), fs, "restore")
	require.NoError(t, err)
}

func TestPushContentDedup(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	bundle := loadTestBundle(t, fs, "build", testUnit("src/Token.sol", "Token", "6080"))

	res, err := Push(ctx, stores, bundle, "demo", "v1.0.0", false)
	require.NoError(t, err)
	require.False(t, res.Deduped)

	// identical content under a second tag: no bytes re-uploaded
	res, err = Push(ctx, stores, bundle, "demo", "latest", false)
	require.NoError(t, err)
	assert.True(t, res.Deduped)
	assert.Zero(t, res.UploadedUnits)
	assert.Zero(t, res.UploadedBytes)
}

func TestPushRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	bundle := loadTestBundle(t, fs, "build", testUnit("src/Token.sol", "Token", "6080"))

	_, err := Push(ctx, stores, bundle, "bad/project", "latest", false)
	require.Error(t, err)
	_, err = Push(ctx, stores, bundle, "demo", "bad tag", false)
	require.Error(t, err)
}

func TestConcurrentPushSameTag(t *testing.T) {
	// two CI runs racing to register the same unused tag: exactly one
	// wins, the loser sees ErrTagExists, the pointer matches the winner
	ctx := context.Background()
	backend, err := localfs.New(afero.NewBasePathFs(afero.NewOsFs(), t.TempDir()))
	require.NoError(t, err)
	stores := NewStores(backend, nil)

	fs := afero.NewMemMapFs()
	const racers = 4
	bundles := make([]*LocalBundle, racers)
	for i := range bundles {
		bundles[i] = loadTestBundle(t, fs, "build-"+strconv.Itoa(i),
			testUnit("src/Token.sol", "Token", "60"+strconv.Itoa(80+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Push(ctx, stores, bundles[i], "demo", "nightly", false)
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "more than one push succeeded")
			winner = i
		} else {
			assert.ErrorIs(t, err, status.ErrTagExists)
		}
	}
	require.NotEqual(t, -1, winner, "no push succeeded")

	desc, err := ResolveTag(ctx, stores, "demo", "nightly")
	require.NoError(t, err)
	assert.Equal(t, bundles[winner].Fingerprint(), desc.Fingerprint)
}
