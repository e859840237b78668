package model

import "time"

// UploadRecord is one row of the uploads table.
// A record is written once per accepted upload and never updated; several records may share
// a Filename because a later upload of the same name overwrites the bytes on disk.
type UploadRecord struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	UploadTime time.Time `json:"upload_time"`
}

// StoredFile describes a file currently present in the Storage Directory.
type StoredFile struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}
