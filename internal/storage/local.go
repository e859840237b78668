package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalDisk implements Storage on a directory of the local filesystem.
// Concurrent writes of the same key are not coordinated; the last rename wins.
type LocalDisk struct {
	dir string
}

var _ Storage = (*LocalDisk)(nil)

// NewLocalDisk returns a store rooted at dir, creating the directory and any missing parents.
func NewLocalDisk(dir string) (*LocalDisk, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalDisk{dir: dir}, nil
}

// Put writes to a hidden temporary file first and renames it over key, so a failed copy never
// leaves a truncated file under the final name.
func (d *LocalDisk) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	tmpPath := filepath.Join(d.dir, "."+uuid.NewString()+".part")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}

	dst := filepath.Join(d.dir, key)
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return ObjectInfo{}, fmt.Errorf("rename %s: %w", key, err)
	}

	info := ObjectInfo{
		Key:         key,
		Size:        n,
		ContentType: opt.ContentType,
		Metadata:    opt.Metadata,
	}
	if st, err := os.Stat(dst); err == nil {
		info.LastModified = st.ModTime()
	}
	return info, nil
}

// Get opens the file stored under key.
func (d *LocalDisk) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}

	f, err := os.Open(filepath.Join(d.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	if !st.Mode().IsRegular() {
		f.Close()
		return nil, ObjectInfo{}, ErrObjectNotFound
	}

	return f, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: st.ModTime(),
	}, nil
}

// Delete removes the file stored under key.
func (d *LocalDisk) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(d.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List scans the directory. Hidden entries (in-flight temporary files) and subdirectories are skipped.
func (d *LocalDisk) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}

	out := make([]ObjectInfo, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		st, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		out = append(out, ObjectInfo{
			Key:          e.Name(),
			Size:         st.Size(),
			LastModified: st.ModTime(),
		})
	}
	return out, nil
}
