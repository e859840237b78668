package mocks

import (
	"context"
	"io"

	"uploadapi/internal/model"
	"uploadapi/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.UploadRecord, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadRecord), args.Error(1)
}

func (m *MockUploadService) ListFiles(ctx context.Context) ([]model.StoredFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StoredFile), args.Error(1)
}

func (m *MockUploadService) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockUploadService) History(ctx context.Context) ([]model.UploadRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadRecord), args.Error(1)
}
