package service

import "errors"

// Client errors, reported before any side effect happens.
var (
	ErrMissingFilePart = errors.New("no file part")
	ErrEmptyFilename   = errors.New("no selected file")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrNotFound        = errors.New("file not found")
)

// Server errors.
var (
	// ErrWriteFailed means the file bytes could not be stored.
	ErrWriteFailed = errors.New("file write failed")
	// ErrStore wraps any Metadata Store failure.
	ErrStore = errors.New("metadata store error")
	// ErrStorageInconsistency means the file was written but its metadata record was not.
	ErrStorageInconsistency = errors.New("file stored without metadata record")
)
