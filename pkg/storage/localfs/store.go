// Package localfs implements the storage.Store interface on a local
// filesystem through afero.
//
// Writes are atomic: regular puts land in a staging area and are
// renamed into place, exclusive puts create the final file with
// O_EXCL so that concurrent writers racing on one key see exactly
// one winner.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buildtrace/artpack/pkg/storage"
	"github.com/buildtrace/artpack/pkg/storage/status"
	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
)

// staging area for in-flight puts, kept inside the store's own afero.Fs
const putStageName = ".put-stage"

// New creates a local filesystem backed store rooted at the given afero.Fs
func New(fs afero.Fs) (storage.Store, error) {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".artpack", "objects"))
	}
	if err := fs.MkdirAll(putStageName, 0700); err != nil {
		return nil, fmt.Errorf("ensuring put staging directory %q: %w", putStageName, err)
	}
	return &localFS{fs: fs}, nil
}

type localFS struct {
	fs afero.Fs
}

func maybeInvalidKey(key string) error {
	const pathSep = string(os.PathSeparator)
	components := strings.Split(strings.TrimLeft(key, pathSep), pathSep)
	if len(components) > 0 && components[0] == putStageName {
		return status.ErrInvalidResource.Wrap(fmt.Errorf("key %q conflicts with staging area %q", key, putStageName))
	}
	return nil
}

func (l *localFS) Has(_ context.Context, key string) (bool, error) {
	if err := maybeInvalidKey(key); err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotFound.Wrap(fmt.Errorf("no local object at %q", key))
	}
	return l.fs.Open(key)
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %w", key, err)
		}
	}
	if exclusive {
		// O_EXCL create on the final path is the atomic check-and-set:
		// no staging, exactly one of any concurrent writers succeeds.
		return l.writeTo(key, source, os.O_CREATE|os.O_WRONLY|os.O_SYNC|os.O_EXCL)
	}
	// unique staging name: concurrent puts to one key never share a temp file
	stageKey := filepath.Join(putStageName, ksuid.New().String())
	if err := l.writeTo(stageKey, source, os.O_CREATE|os.O_WRONLY|os.O_SYNC|os.O_TRUNC); err != nil {
		return err
	}
	return l.fs.Rename(stageKey, key)
}

func (l *localFS) writeTo(key string, source io.Reader, flag int) error {
	target, err := l.fs.OpenFile(key, flag, 0600)
	if err != nil {
		if os.IsExist(err) {
			return status.ErrExists.Wrap(fmt.Errorf("local object %q: %v", key, err))
		}
		return fmt.Errorf("create local object %q: %w", key, err)
	}
	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write local object %q: %w", key, err)
	}
	return target.Close()
}

func (l *localFS) Delete(_ context.Context, key string) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (l *localFS) Keys(_ context.Context) ([]string, error) {
	const root = "."
	var res []string
	err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		if maybeInvalidKey(path) != nil {
			return nil
		}
		res = append(res, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(res)
	return res, nil
}

// KeysPrefix pages through keys in lexicographic order, which makes the
// listing restartable from the returned token.
func (l *localFS) KeysPrefix(ctx context.Context, token, prefix, _ string, count int) ([]string, string, error) {
	all, err := l.Keys(ctx)
	if err != nil {
		return nil, "", err
	}
	res := make([]string, 0, count)
	for _, k := range all {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if token != "" && k <= token {
			continue
		}
		res = append(res, k)
		if count > 0 && len(res) == count {
			return res, k, nil
		}
	}
	return res, "", nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	if fs, ok := l.fs.(*afero.BasePathFs); ok {
		if pp, err := fs.RealPath(""); err == nil {
			return localfs + "@" + pp
		}
	}
	return localfs
}
