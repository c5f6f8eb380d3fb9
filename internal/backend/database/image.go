package database

import "time"

// ImageRecord describes one uploaded image. The ID is assigned by the
// database on insert and never reused after deletion. Filename is the
// server-generated storage key, used both as the on-disk name and as the
// path segment of the public URL.
type ImageRecord struct {
	ID           int64     `db:"id"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	Size         int64     `db:"size"`
	FileType     string    `db:"file_type"`
	CreatedAt    time.Time `db:"created_at"`
}
