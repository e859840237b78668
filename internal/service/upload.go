package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"uploadapi/internal/filename"
	"uploadapi/internal/model"
	"uploadapi/internal/repository"
	"uploadapi/internal/storage"
)

const (
	resultOK            = "ok"
	resultRejected      = "rejected"
	resultWriteFailed   = "write_failed"
	resultInconsistency = "inconsistent"
)

var tracer trace.Tracer = otel.Tracer("uploadapi/internal/service")

// UploadService defines the use cases of the upload service.
type UploadService interface {
	// Upload sanitizes originalFilename, writes the content to storage, then records the upload
	// in the Metadata Store. If the record cannot be written the stored file is removed on a
	// best-effort basis and an ErrStorageInconsistency error is returned.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.UploadRecord, error)

	// ListFiles returns the files currently in storage. It does not consult the Metadata Store.
	ListFiles(ctx context.Context) ([]model.StoredFile, error)

	// Open returns the content of a stored file. Names with traversal sequences are rejected.
	Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error)

	// History returns every upload record, most recent first.
	History(ctx context.Context) ([]model.UploadRecord, error)
}

// uploadService is a concrete implementation of UploadService.
type uploadService struct {
	store   storage.Storage
	repo    repository.UploadRepository
	metrics *Metrics
	loc     *time.Location
}

// Option configures the upload service.
type Option func(*uploadService)

// WithMetrics records upload outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(s *uploadService) { s.metrics = m }
}

// WithLocation sets the time zone of log timestamps.
func WithLocation(loc *time.Location) Option {
	return func(s *uploadService) { s.loc = loc }
}

// NewUploadService constructs a new UploadService.
func NewUploadService(store storage.Storage, repo repository.UploadRepository, opts ...Option) UploadService {
	s := &uploadService{store: store, repo: repo, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *uploadService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.UploadRecord, error) {
	ctx, span := tracer.Start(ctx, "UploadService.Upload")
	defer span.End()

	if r == nil {
		s.metrics.observe(resultRejected, 0)
		return nil, ErrMissingFilePart
	}
	if originalFilename == "" {
		s.metrics.observe(resultRejected, 0)
		return nil, ErrEmptyFilename
	}
	name := filename.Sanitize(originalFilename)
	if name == "" {
		s.metrics.observe(resultRejected, 0)
		return nil, ErrInvalidFilename
	}
	span.SetAttributes(attribute.String("upload.filename", name), attribute.Int64("upload.size", size))

	info, err := s.store.Put(ctx, name, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		s.metrics.observe(resultWriteFailed, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage write failed")
		return nil, fmt.Errorf("%w: upload to storage: %w", ErrWriteFailed, err)
	}

	rec, err := s.repo.Create(ctx, name)
	if err != nil {
		s.metrics.observe(resultInconsistency, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "metadata insert failed")

		entry := map[string]any{
			"component":     "service",
			"event":         "upload_record_failed",
			"status":        "error",
			"filename":      name,
			"error_message": err.Error(),
		}
		// The file must not outlive a failed insert; removal is best-effort.
		if delErr := s.store.Delete(ctx, name); delErr != nil {
			entry["rollback"] = "failed"
			entry["rollback_error"] = delErr.Error()
			s.logJSON(entry)
			return nil, fmt.Errorf("%w: %w: db save failed: %w", ErrStorageInconsistency, ErrStore, errors.Join(err, fmt.Errorf("rollback delete failed: %w", delErr)))
		}
		entry["rollback"] = "deleted"
		s.logJSON(entry)
		return nil, fmt.Errorf("%w: %w: db save failed: %w", ErrStorageInconsistency, ErrStore, err)
	}

	s.metrics.observe(resultOK, info.Size)
	return rec, nil
}

// ListFiles maps the storage listing to the API model.
func (s *uploadService) ListFiles(ctx context.Context) ([]model.StoredFile, error) {
	objs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	files := make([]model.StoredFile, 0, len(objs))
	for _, o := range objs {
		files = append(files, model.StoredFile{
			Name:       o.Key,
			Size:       o.Size,
			ModifiedAt: o.LastModified,
		})
	}
	return files, nil
}

// Open validates name before touching storage.
func (s *uploadService) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	if err := filename.Validate(name); err != nil {
		return nil, storage.ObjectInfo{}, ErrInvalidFilename
	}
	rc, info, err := s.store.Get(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return nil, storage.ObjectInfo{}, ErrNotFound
		case errors.Is(err, storage.ErrInvalidKey):
			return nil, storage.ObjectInfo{}, ErrInvalidFilename
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("read storage: %w", err)
	}
	return rc, info, nil
}

// History returns the Metadata Store records.
func (s *uploadService) History(ctx context.Context) ([]model.UploadRecord, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return items, nil
}

func (s *uploadService) logJSON(data map[string]any) {
	data["ts"] = time.Now().In(s.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal service log: %v", err)
		return
	}
	log.Println(string(b))
}
