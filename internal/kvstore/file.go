package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// File keeps one file per key under a directory. Writes go through a temp file
// and a rename, and every operation holds an advisory lock on the directory so
// two CLI processes never interleave.
type File struct {
	dir  string
	lock *flock.Flock
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &File{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Dir returns the store directory.
func (f *File) Dir() string { return f.dir }

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key)+".json")
}

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &Error{Op: "get", Key: key, Cause: err}
	}
	if err := f.lock.RLock(); err != nil {
		return nil, false, &Error{Op: "get", Key: key, Cause: err}
	}
	defer func() { _ = f.lock.Unlock() }()

	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &Error{Op: "get", Key: key, Cause: err}
	}
	return b, true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}
	if err := f.lock.Lock(); err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}
	defer func() { _ = f.lock.Unlock() }()

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return &Error{Op: "set", Key: key, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &Error{Op: "set", Key: key, Cause: err}
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "delete", Key: key, Cause: err}
	}
	if err := f.lock.Lock(); err != nil {
		return &Error{Op: "delete", Key: key, Cause: err}
	}
	defer func() { _ = f.lock.Unlock() }()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

func (f *File) Close() error {
	return f.lock.Close()
}
