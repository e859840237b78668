package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"uploadapi/internal/filename"
)

// Package storage keeps the bytes of uploaded files. The default backend is the Storage
// Directory on local disk; an S3-compatible backend (MinIO) can be selected instead.

var (
	// ErrObjectNotFound is returned when no file is stored under the requested key.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys that are not a single safe path segment.
	ErrInvalidKey = errors.New("invalid object key")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored file.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the file store used by the upload service.
// Keys are bare file names; writing an existing key replaces its content.
type Storage interface {
	// Put stores the reader's content under key, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a file's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a file by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns the files currently stored, in backend-native order.
	List(ctx context.Context) ([]ObjectInfo, error)
}

// checkKey rejects keys that could address anything other than a direct child of the store.
func checkKey(key string) error {
	if filename.Validate(key) != nil || filepath.Base(key) != key {
		return ErrInvalidKey
	}
	return nil
}
