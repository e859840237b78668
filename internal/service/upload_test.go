package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"uploadapi/internal/database/migration"
	"uploadapi/internal/model"
	repoMocks "uploadapi/internal/repository/mocks"
	"uploadapi/internal/repository/sqlstore"
	"uploadapi/internal/storage"
	storeMocks "uploadapi/internal/storage/mocks"
)

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		originalFilename string
		contentType      string
		size             int64
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader
		wantErr          []error
		wantErrMsg       string
		wantFilename     string
	}{
		{
			name:             "happy path",
			originalFilename: "a.txt",
			contentType:      "text/plain",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, "a.txt", r, storage.PutObjectOptions{
					Size:        5,
					ContentType: "text/plain",
					Metadata:    map[string]string{"original-filename": "a.txt"},
				}).Return(storage.ObjectInfo{Key: "a.txt", Size: 5}, nil)
				mRepo.On("Create", mock.Anything, "a.txt").
					Return(&model.UploadRecord{ID: 1, Filename: "a.txt"}, nil)
				return r
			},
			wantFilename: "a.txt",
		},
		{
			name:             "sanitizes traversal before writing",
			originalFilename: "../../etc/passwd",
			size:             4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				r := strings.NewReader("root")
				mStore.On("Put", mock.Anything, "etc_passwd", r, mock.Anything).
					Return(storage.ObjectInfo{Key: "etc_passwd", Size: 4}, nil)
				mRepo.On("Create", mock.Anything, "etc_passwd").
					Return(&model.UploadRecord{ID: 2, Filename: "etc_passwd"}, nil)
				return r
			},
			wantFilename: "etc_passwd",
		},
		{
			name:             "missing file part",
			originalFilename: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				return nil
			},
			wantErr: []error{ErrMissingFilePart},
		},
		{
			name:             "empty filename",
			originalFilename: "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				return strings.NewReader("hello")
			},
			wantErr: []error{ErrEmptyFilename},
		},
		{
			name:             "filename sanitized to nothing",
			originalFilename: "../..",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				return strings.NewReader("hello")
			},
			wantErr: []error{ErrInvalidFilename},
		},
		{
			name:             "storage error",
			originalFilename: "a.txt",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, "a.txt", r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("no space left on device"))
				return r
			},
			wantErr:    []error{ErrWriteFailed},
			wantErrMsg: "upload to storage: no space left on device",
		},
		{
			name:             "repository error with successful rollback",
			originalFilename: "a.txt",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, "a.txt", r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", mock.Anything, "a.txt").Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, "a.txt").Return(nil)
				return r
			},
			wantErr:    []error{ErrStorageInconsistency, ErrStore},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:             "repository error with failed rollback",
			originalFilename: "a.txt",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockUploadRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, "a.txt", r, mock.Anything).
					Return(storage.ObjectInfo{Key: "a.txt"}, nil)
				mRepo.On("Create", mock.Anything, "a.txt").Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, "a.txt").Return(errors.New("delete fail"))
				return r
			},
			wantErr:    []error{ErrStorageInconsistency},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockUploadRepository)
			svc := NewUploadService(mStore, mRepo)

			r := tt.setupMocks(mStore, mRepo)

			rec, err := svc.Upload(ctx, r, tt.originalFilename, tt.contentType, tt.size)

			if len(tt.wantErr) > 0 || tt.wantErrMsg != "" {
				require.Error(t, err)
				for _, want := range tt.wantErr {
					assert.ErrorIs(t, err, want)
				}
				if tt.wantErrMsg != "" {
					assert.Contains(t, err.Error(), tt.wantErrMsg)
				}
				assert.Nil(t, rec)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantFilename, rec.Filename)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestUploadService_ValidationHasNoSideEffects(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockUploadRepository)
	svc := NewUploadService(mStore, mRepo)

	_, err := svc.Upload(context.Background(), nil, "a.txt", "", 0)
	assert.ErrorIs(t, err, ErrMissingFilePart)
	_, err = svc.Upload(context.Background(), strings.NewReader("x"), "", "", 1)
	assert.ErrorIs(t, err, ErrEmptyFilename)

	mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockUploadRepository)
	svc := NewUploadService(mStore, mRepo, WithMetrics(m), WithLocation(time.UTC))

	mStore.On("Put", mock.Anything, "a.txt", mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "a.txt", Size: 5}, nil)
	mRepo.On("Create", mock.Anything, "a.txt").Return(&model.UploadRecord{ID: 1, Filename: "a.txt"}, nil)

	_, err = svc.Upload(context.Background(), strings.NewReader("hello"), "a.txt", "", 5)
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), strings.NewReader("hello"), "", "", 5)
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.uploads.WithLabelValues(resultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.uploads.WithLabelValues(resultRejected)))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.uploadedBytes))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice on one registry must fail")
}

func TestUploadService_ListFiles(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewUploadService(mStore, nil)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{
			{Key: "a.txt", Size: 5, LastModified: now},
			{Key: "b.png", Size: 10},
		}, nil)

		files, err := svc.ListFiles(ctx)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, model.StoredFile{Name: "a.txt", Size: 5, ModifiedAt: now}, files[0])
		mStore.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := NewUploadService(mStore, nil)
		mStore.On("List", ctx).Return(nil, errors.New("permission denied"))

		_, err := svc.ListFiles(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "list storage: permission denied")
	})
}

func TestUploadService_Open(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		file       string
		setupMocks func(mStore *storeMocks.MockStorage)
		wantErr    error
	}{
		{
			name: "happy path",
			file: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("Get", ctx, "a.txt").
					Return(io.NopCloser(strings.NewReader("hello")), storage.ObjectInfo{Key: "a.txt", Size: 5}, nil)
			},
		},
		{
			name:       "traversal rejected before storage",
			file:       "../secret.txt",
			setupMocks: func(mStore *storeMocks.MockStorage) {},
			wantErr:    ErrInvalidFilename,
		},
		{
			name: "not found",
			file: "missing.txt",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("Get", ctx, "missing.txt").Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "storage error",
			file: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage) {
				mStore.On("Get", ctx, "a.txt").Return(nil, storage.ObjectInfo{}, errors.New("i/o error"))
			},
			wantErr: errors.New("read storage: i/o error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			svc := NewUploadService(mStore, nil)
			tt.setupMocks(mStore)

			rc, _, err := svc.Open(ctx, tt.file)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrInvalidFilename) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Nil(t, rc)
			} else {
				require.NoError(t, err)
				b, _ := io.ReadAll(rc)
				assert.Equal(t, "hello", string(b))
			}
			mStore.AssertExpectations(t)
		})
	}
}

func TestUploadService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUploadRepository)
		svc := NewUploadService(nil, mRepo)
		mRepo.On("List", ctx).Return([]model.UploadRecord{{ID: 2}, {ID: 1}}, nil)

		items, err := svc.History(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockUploadRepository)
		svc := NewUploadService(nil, mRepo)
		mRepo.On("List", ctx).Return(nil, errors.New("db fail"))

		_, err := svc.History(ctx)
		assert.ErrorIs(t, err, ErrStore)
	})
}

// newDiskService wires the real disk store and SQLite repository.
func newDiskService(t *testing.T) (UploadService, *storage.LocalDisk) {
	t.Helper()
	ctx := context.Background()

	disk, err := storage.NewLocalDisk(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "database.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migration.EnsureMigrated(ctx, db, "sqlite", time.UTC))

	return NewUploadService(disk, sqlstore.NewUploadSQL(db, "sqlite")), disk
}

func TestUploadService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDiskService(t)

	payloads := map[string]string{
		"a.txt":             "hello",
		"My report.pdf":     "%PDF-1.4",
		"../../escape.txt":  "nope",
		"empty.bin":         "",
		"naïve café.md":     "# notes",
		"report..final.txt": "q3 totals",
	}
	for name, body := range payloads {
		rec, err := svc.Upload(ctx, strings.NewReader(body), name, "", int64(len(body)))
		require.NoError(t, err, name)

		rc, _, err := svc.Open(ctx, rec.Filename)
		require.NoError(t, err, name)
		got, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, body, string(got), name)
	}
}

func TestUploadService_OverwriteKeepsBothRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDiskService(t)

	_, err := svc.Upload(ctx, strings.NewReader("hello"), "a.txt", "text/plain", 5)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, strings.NewReader("world"), "a.txt", "text/plain", 5)
	require.NoError(t, err)

	rc, _, err := svc.Open(ctx, "a.txt")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "world", string(got))

	files, err := svc.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "a.txt", history[0].Filename)
	assert.Equal(t, "a.txt", history[1].Filename)
	assert.Greater(t, history[0].ID, history[1].ID)
}

func TestUploadService_MissingFile(t *testing.T) {
	svc, _ := newDiskService(t)

	_, _, err := svc.Open(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}
