package localfs

import (
	"bytes"
	"context"
	"io/ioutil"
	"strconv"
	"sync"
	"testing"

	"github.com/buildtrace/artpack/pkg/storage"
	"github.com/buildtrace/artpack/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) storage.Store {
	t.Helper()
	fs := afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
	bs, err := New(fs)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bs.Put(ctx, "tags/demo/latest.yaml", bytes.NewBufferString("fingerprint: aaaa"), storage.OverWrite))
	require.NoError(t, bs.Put(ctx, "blobs/deadbeef", bytes.NewBufferString("unit content"), storage.OverWrite))
	return bs
}

func TestHas(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	has, err := bs.Has(ctx, "blobs/deadbeef")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "blobs/feedface")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)

	rdr, err := bs.Get(context.Background(), "blobs/deadbeef")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "unit content", string(b))

	_, err = bs.Get(context.Background(), "blobs/feedface")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestPutOverwrite(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "tags/demo/latest.yaml", bytes.NewBufferString("fingerprint: bbbb"), storage.OverWrite))
	b, err := storage.ReadAll(ctx, bs, "tags/demo/latest.yaml")
	require.NoError(t, err)
	assert.Equal(t, "fingerprint: bbbb", string(b))
}

func TestPutExclusive(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	err := bs.Put(ctx, "tags/demo/v1.0.0.yaml", bytes.NewBufferString("fingerprint: cccc"), storage.NoOverWrite)
	require.NoError(t, err)

	err = bs.Put(ctx, "tags/demo/v1.0.0.yaml", bytes.NewBufferString("fingerprint: dddd"), storage.NoOverWrite)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrExists)

	// the loser did not clobber the pointer
	b, err := storage.ReadAll(ctx, bs, "tags/demo/v1.0.0.yaml")
	require.NoError(t, err)
	assert.Equal(t, "fingerprint: cccc", string(b))
}

func TestPutExclusiveRace(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = bs.Put(ctx, "tags/demo/race.yaml", bytes.NewBufferString("fingerprint: "+strconv.Itoa(i)), storage.NoOverWrite)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, status.ErrExists)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestKeysHideStaging(t *testing.T) {
	bs := setupStore(t)

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tags/demo/latest.yaml", "blobs/deadbeef"}, keys)
}

func TestKeysPrefixPagination(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, bs.Put(ctx, "tags/many/v"+strconv.Itoa(i)+".yaml", bytes.NewBufferString("x"), storage.OverWrite))
	}

	var collected []string
	token := ""
	for {
		page, next, err := bs.KeysPrefix(ctx, token, "tags/many/", "", 2)
		require.NoError(t, err)
		collected = append(collected, page...)
		if next == "" {
			break
		}
		token = next
	}
	assert.Len(t, collected, 5)
	assert.IsIncreasing(t, collected)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Delete(ctx, "blobs/deadbeef"))
	has, err := bs.Has(ctx, "blobs/deadbeef")
	require.NoError(t, err)
	assert.False(t, has)

	// deleting a missing key is not an error
	require.NoError(t, bs.Delete(ctx, "blobs/deadbeef"))
}

func TestStagingKeyRejected(t *testing.T) {
	bs := setupStore(t)

	err := bs.Put(context.Background(), ".put-stage/sneaky", bytes.NewBufferString("x"), storage.OverWrite)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrInvalidResource)
}
