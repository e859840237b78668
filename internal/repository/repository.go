package repository

import (
	"context"

	"uploadapi/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., sqlstore) inside this directory.

// UploadRepository is the Metadata Store: one row per accepted upload.
// No business logic here, strictly persistence operations.
type UploadRepository interface {
	// Create inserts a record for filename. The store assigns the id and upload_time.
	Create(ctx context.Context, filename string) (*model.UploadRecord, error)

	// List returns every record, most recent (highest id) first.
	List(ctx context.Context) ([]model.UploadRecord, error)
}
