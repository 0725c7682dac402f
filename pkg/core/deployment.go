package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildtrace/artpack/pkg/model"
	"github.com/spf13/afero"
)

// RecordDeployment appends one deployment to the summary file at path,
// creating the file on first use.
//
// The summary maps chainId → tag → unit → address and is append-only:
// recording a different address for an existing entry is refused.
// The file is replaced atomically (write to temp, then rename).
func RecordDeployment(fs afero.Fs, path, chainID, tag, unitName, address string) error {
	summary := make(model.DeploymentSummary)
	buf, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := json.Unmarshal(buf, &summary); err != nil {
			return fmt.Errorf("corrupt deployment summary %q: %w", path, err)
		}
	case os.IsNotExist(err):
		// first deployment: start a fresh summary
	default:
		return fmt.Errorf("read deployment summary %q: %w", path, err)
	}

	if err := summary.Add(chainID, tag, unitName, address); err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	tmp := path + ".tmp"
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(fs, tmp, out, 0644); err != nil {
		return fmt.Errorf("write deployment summary %q: %w", tmp, err)
	}
	return fs.Rename(tmp, path)
}
