package database

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	// AUTOINCREMENT keeps deleted IDs from being reassigned to later rows.
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		original_name TEXT NOT NULL,
		size INTEGER NOT NULL,
		file_type TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_images_created_at ON images(created_at DESC)")
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) InsertImage(record *ImageRecord) (int64, error) {
	record.CreatedAt = time.Now().UTC()
	result, err := s.db.Exec(
		"INSERT INTO images (filename, original_name, size, file_type, created_at) VALUES (?, ?, ?, ?, ?)",
		record.Filename, record.OriginalName, record.Size, record.FileType, record.CreatedAt)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	record.ID = id
	return id, nil
}

func (s *SQLiteDatabase) CountImages() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM images").Scan(&count)
	return count, err
}

func (s *SQLiteDatabase) ListImages(limit, offset int) ([]*ImageRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, original_name, size, file_type, created_at
		FROM images ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var images []*ImageRecord
	for rows.Next() {
		var img ImageRecord
		if err := rows.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.Size, &img.FileType, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

func (s *SQLiteDatabase) GetImageByID(id int64) (*ImageRecord, error) {
	row := s.db.QueryRow(
		"SELECT id, filename, original_name, size, file_type, created_at FROM images WHERE id = ?", id)
	var img ImageRecord
	err := row.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.Size, &img.FileType, &img.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *SQLiteDatabase) DeleteImage(id int64) error {
	_, err := s.db.Exec("DELETE FROM images WHERE id = ?", id)
	return err
}
