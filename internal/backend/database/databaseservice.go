package database

import "database/sql"

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// InsertImage stores a new record and returns its assigned ID.
	// The record's CreatedAt is set by the store at insert time.
	InsertImage(record *ImageRecord) (int64, error)
	CountImages() (int64, error)
	// ListImages returns up to limit records ordered newest first,
	// skipping offset records.
	ListImages(limit, offset int) ([]*ImageRecord, error)
	// GetImageByID returns nil (and no error) when no record exists.
	GetImageByID(id int64) (*ImageRecord, error)
	DeleteImage(id int64) error
}
