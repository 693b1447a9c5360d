// internal/storage/storage.go
//
// Media blob storage.
//
// Context
// -------
// The data API stores uploaded bytes through a Blob and records the
// returned URL in the media table.  Two drivers exist:
//
//   • disk  – files under storage.dir, served by cmd/api at /media/*
//   • s3    – any S3-compatible bucket (AWS, MinIO, R2)
//
// Object keys are generated here, never taken from the client, so an
// upload cannot overwrite another object or escape the storage root.

package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/viyakaptan/internal/config"
)

// Blob stores and removes media objects.
type Blob interface {
	// Put writes body under key and returns its public URL.
	Put(ctx context.Context, key string, body []byte, mimeType string) (string, error)
	// Delete removes key.  Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New selects the driver named in cfg.
func New(ctx context.Context, cfg config.Storage) (Blob, error) {
	switch cfg.Driver {
	case "", "disk":
		d, err := NewDisk(cfg.Dir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "s3":
		s, err := NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// NewKey returns "YYYY/MM/<uuid><ext>" for an upload named filename.  The
// extension is lower-cased and dropped unless it is short and alphanumeric.
func NewKey(filename string, now time.Time) string {
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), cleanExt(filename))
}

func cleanExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}

// publicURL joins base and key.  An empty base yields a root-relative URL.
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return fmt.Errorf("storage: invalid object key %q", key)
	}
	return nil
}
