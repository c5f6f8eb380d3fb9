package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

type PostgresDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewPostgresDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (p *PostgresDatabase) CreateDatabase() (*sql.DB, error) {
	// BIGSERIAL sequences are monotonic, deleted IDs are never handed out again.
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS images (
		id BIGSERIAL PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		original_name TEXT NOT NULL,
		size BIGINT NOT NULL,
		file_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return nil, err
	}
	_, err = p.db.Exec("CREATE INDEX IF NOT EXISTS idx_images_created_at ON images(created_at DESC)")
	if err != nil {
		return nil, err
	}

	return p.db, nil
}

func (p *PostgresDatabase) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *PostgresDatabase) DoesDatabaseExist() bool {
	err := p.db.Ping()
	return err == nil
}

func (p *PostgresDatabase) InsertImage(record *ImageRecord) (int64, error) {
	record.CreatedAt = time.Now().UTC()
	err := p.db.QueryRow(
		`INSERT INTO images (filename, original_name, size, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		record.Filename, record.OriginalName, record.Size, record.FileType, record.CreatedAt).Scan(&record.ID)
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (p *PostgresDatabase) CountImages() (int64, error) {
	var count int64
	err := p.db.QueryRow("SELECT COUNT(*) FROM images").Scan(&count)
	return count, err
}

func (p *PostgresDatabase) ListImages(limit, offset int) ([]*ImageRecord, error) {
	rows, err := p.db.Query(
		`SELECT id, filename, original_name, size, file_type, created_at
		FROM images ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
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

func (p *PostgresDatabase) GetImageByID(id int64) (*ImageRecord, error) {
	row := p.db.QueryRow(
		"SELECT id, filename, original_name, size, file_type, created_at FROM images WHERE id = $1", id)
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

func (p *PostgresDatabase) DeleteImage(id int64) error {
	_, err := p.db.Exec("DELETE FROM images WHERE id = $1", id)
	return err
}
