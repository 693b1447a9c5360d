package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Disk keeps blobs under a local directory.
type Disk struct {
	dir  string
	base string
}

// NewDisk creates dir if needed.  base defaults to "/media".
func NewDisk(dir, base string) (*Disk, error) {
	if dir == "" {
		return nil, errors.New("storage: disk driver needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if base == "" {
		base = "/media"
	}
	return &Disk{dir: dir, base: base}, nil
}

// Dir is the root served at the public base path.
func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	p := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	// O_EXCL: keys are unique, an existing file means a collision.
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("storage: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return publicURL(d.base, key), nil
}

func (d *Disk) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(d.dir, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
