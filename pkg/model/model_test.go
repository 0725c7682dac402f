package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualifiedName(t *testing.T) {
	u := CompiledUnit{SourceName: "src/Token.sol", UnitName: "Token"}
	assert.Equal(t, "src/Token.sol:Token", u.QualifiedName())

	source, name, err := ParseQualifiedName("src/Token.sol:Token")
	require.NoError(t, err)
	assert.Equal(t, "src/Token.sol", source)
	assert.Equal(t, "Token", name)

	for _, bad := range []string{"Token", ":Token", "src/Token.sol:", ""} {
		_, _, err := ParseQualifiedName(bad)
		assert.Errorf(t, err, "expected %q to be rejected", bad)
	}
}

func TestUnitFileRoundTrip(t *testing.T) {
	in := &CompiledUnit{
		SourceName: "src/Token.sol",
		UnitName:   "Token",
		ABI:        []byte(`[{"type":"function","name":"transfer"}]`),
		Bytecode:   HexBytes{0x60, 0x80, 0x60, 0x40},
		Metadata:   []byte(`{"compiler":"0.8.24"}`),
	}
	data, err := MarshalUnit(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"0x60806040"`)

	out, err := UnmarshalUnit(data)
	require.NoError(t, err)
	assert.Equal(t, in.QualifiedName(), out.QualifiedName())
	assert.Equal(t, in.Bytecode, out.Bytecode)
	assert.JSONEq(t, string(in.ABI), string(out.ABI))
}

func TestUnitFileRejectsAnonymous(t *testing.T) {
	_, err := UnmarshalUnit([]byte(`{"abi":[],"bytecode":"0x00"}`))
	require.Error(t, err)
}

func TestHexBytesAcceptsBarePrefix(t *testing.T) {
	var h HexBytes
	require.NoError(t, h.UnmarshalJSON([]byte(`"60ff"`)))
	assert.Equal(t, HexBytes{0x60, 0xff}, h)
	require.Error(t, h.UnmarshalJSON([]byte(`"0xzz"`)))
}

func TestArchivePaths(t *testing.T) {
	assert.Equal(t, "blobs/abcd", GetArchivePathToBlob("abcd"))
	assert.Equal(t, "bundles/abcd/bundle.yaml", GetArchivePathToBundle("abcd"))
	assert.Equal(t, "bundles/abcd/units.yaml", GetArchivePathToBundleEntries("abcd"))
	assert.Equal(t, "tags/demo/latest.yaml", GetArchivePathToTag("demo", "latest"))
	assert.Equal(t, "tags/demo/", GetArchivePathPrefixToTags("demo"))
}

func TestArchivePathComponents(t *testing.T) {
	apc, err := GetArchivePathComponents("tags/demo/v1.2.3.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo", apc.Project)
	assert.Equal(t, "v1.2.3", apc.TagName)

	apc, err = GetArchivePathComponents("bundles/ffff/bundle.yaml")
	require.NoError(t, err)
	assert.Equal(t, "ffff", apc.Fingerprint)

	apc, err = GetArchivePathComponents("blobs/ffff")
	require.NoError(t, err)
	assert.Equal(t, "ffff", apc.BlobHash)

	for _, bad := range []string{"", "tags/demo", "objects/x", "blobs/"} {
		_, err := GetArchivePathComponents(bad)
		assert.Errorf(t, err, "expected %q to be rejected", bad)
	}
}

func TestGeneratedPaths(t *testing.T) {
	assert.True(t, IsGeneratedPath(".artpack"))
	assert.True(t, IsGeneratedPath(".artpack/bundle.yaml"))
	assert.False(t, IsGeneratedPath("src/Token.json"))
}

func TestNameValidation(t *testing.T) {
	assert.NoError(t, ValidateProject("my-protocol"))
	assert.NoError(t, ValidateTag("v1.2.3"))
	assert.NoError(t, ValidateTag("latest"))
	assert.Error(t, ValidateTag(""))
	assert.Error(t, ValidateTag(".hidden"))
	assert.Error(t, ValidateTag("a/b"))
	assert.Error(t, ValidateProject("white space"))
}

func TestDeploymentSummaryAppendOnly(t *testing.T) {
	d := make(DeploymentSummary)
	require.NoError(t, d.Add("1", "v1.0.0", "src/Token.sol:Token", "0xabc"))

	// idempotent re-add
	require.NoError(t, d.Add("1", "v1.0.0", "src/Token.sol:Token", "0xabc"))

	// rewriting history is refused
	require.Error(t, d.Add("1", "v1.0.0", "src/Token.sol:Token", "0xdef"))

	addr, ok := d.Lookup("1", "v1.0.0", "src/Token.sol:Token")
	require.True(t, ok)
	assert.Equal(t, "0xabc", addr)

	_, ok = d.Lookup("5", "v1.0.0", "src/Token.sol:Token")
	assert.False(t, ok)
}
