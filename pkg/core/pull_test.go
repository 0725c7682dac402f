package core

import (
	"context"
	"testing"

	"github.com/buildtrace/artpack/pkg/core/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullRoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	bundle := loadTestBundle(t, fs, "build",
		testUnit("src/Token.sol", "Token", "6080"),
		testUnit("src/Vault.sol", "Vault", "6090"),
	)
	_, err := Push(ctx, stores, bundle, "demo", "v1.0.0", false)
	require.NoError(t, err)

	prov, err := Pull(ctx, stores, "demo", "v1.0.0", fs, "pulled")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", prov.Tag)
	assert.Equal(t, bundle.Fingerprint(), prov.Fingerprint)

	// unit for unit, byte-identical to the pushed bundle
	for _, entry := range bundle.Entries {
		want, err := afero.ReadFile(fs, "build/"+entry.Path)
		require.NoError(t, err)
		got, err := afero.ReadFile(fs, "pulled/"+entry.Path)
		require.NoError(t, err)
		assert.Equal(t, want, got, "unit %s", entry.QualifiedName)
	}

	// and the pulled tree loads back to the same fingerprint
	reloaded, err := LoadBundle(fs, "pulled")
	require.NoError(t, err)
	assert.Equal(t, bundle.Fingerprint(), reloaded.Fingerprint())
}

func TestPullReplacesDestination(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	bundle := loadTestBundle(t, fs, "build", testUnit("src/Token.sol", "Token", "6080"))
	_, err := Push(ctx, stores, bundle, "demo", "v1.0.0", false)
	require.NoError(t, err)

	// stale content at the destination is removed, not merged
	require.NoError(t, fs.MkdirAll("pulled", 0755))
	require.NoError(t, afero.WriteFile(fs, "pulled/stale.json", []byte("{}"), 0644))

	_, err = Pull(ctx, stores, "demo", "v1.0.0", fs, "pulled")
	require.NoError(t, err)

	_, err = fs.Stat("pulled/stale.json")
	require.Error(t, err)
}

func TestPullUnknownTag(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()

	_, err := Pull(ctx, stores, "demo", "no-such-tag", fs, "pulled")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrTagNotFound)
}

func TestPullByFingerprint(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()
	bundle := loadTestBundle(t, fs, "build", testUnit("src/Token.sol", "Token", "6080"))
	_, err := Push(ctx, stores, bundle, "demo", "v1.0.0", false)
	require.NoError(t, err)

	prov, err := Pull(ctx, stores, "demo", bundle.Fingerprint(), fs, "pulled")
	require.NoError(t, err)
	assert.Empty(t, prov.Tag)
	assert.Equal(t, bundle.Fingerprint(), prov.Fingerprint)
}

func TestPullUnknownFingerprint(t *testing.T) {
	ctx := context.Background()
	stores := testStores(t)
	fs := afero.NewMemMapFs()

	const absent = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
	_, err := Pull(ctx, stores, "demo", absent, fs, "pulled")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrBundleNotFound)
}
