package core

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/buildtrace/artpack/pkg/model"
	"github.com/buildtrace/artpack/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// testStores builds a client store pair over an in-memory localfs backend
func testStores(t *testing.T) Stores {
	t.Helper()
	backend, err := localfs.New(afero.NewMemMapFs())
	require.NoError(t, err)
	return NewStores(backend, nil)
}

// testUnit fabricates a compiled unit with the given bytecode
func testUnit(sourceName, unitName, bytecode string) *model.CompiledUnit {
	return &model.CompiledUnit{
		SourceName: sourceName,
		UnitName:   unitName,
		ABI:        json.RawMessage(`[{"type":"function","name":"ping","inputs":[]}]`),
		Bytecode:   model.HexBytes(bytecode),
		Metadata:   json.RawMessage(`{"compiler":"0.8.24"}`),
	}
}

// writeUnitFile materializes a unit file the way a build tool would
func writeUnitFile(t *testing.T, fs afero.Fs, dir string, unit *model.CompiledUnit) {
	t.Helper()
	data, err := model.MarshalUnit(unit)
	require.NoError(t, err)
	target := filepath.Join(dir, filepath.FromSlash(unit.SourceName+".d"), unit.UnitName+".json")
	require.NoError(t, fs.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, afero.WriteFile(fs, target, data, 0644))
}

// buildDir materializes a build output directory holding the given units
func buildDir(t *testing.T, fs afero.Fs, dir string, units ...*model.CompiledUnit) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(dir, 0755))
	for _, u := range units {
		writeUnitFile(t, fs, dir, u)
	}
}

// loadTestBundle builds a directory and loads it as a bundle
func loadTestBundle(t *testing.T, fs afero.Fs, dir string, units ...*model.CompiledUnit) *LocalBundle {
	t.Helper()
	buildDir(t, fs, dir, units...)
	b, err := LoadBundle(fs, dir)
	require.NoError(t, err)
	return b
}
