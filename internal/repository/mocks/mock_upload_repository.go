package mocks

import (
	"context"

	"uploadapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, filename string) (*model.UploadRecord, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadRecord), args.Error(1)
}

func (m *MockUploadRepository) List(ctx context.Context) ([]model.UploadRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadRecord), args.Error(1)
}
