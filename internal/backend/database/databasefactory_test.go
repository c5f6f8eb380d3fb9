package database

import (
	"strings"
	"testing"
)

func TestNewDatabase_SQLite(t *testing.T) {
	ds, err := NewDatabase("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewDatabase(sqlite) error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	if !ds.DoesDatabaseExist() {
		t.Fatalf("expected database to exist after factory initialization")
	}
}

func TestNewDatabase_PostgresDriverSelected(t *testing.T) {
	// No server listens on port 1; the factory must still hand the
	// connection string to the pq driver, whose ping then fails with a
	// connection error rather than the unsupported-driver error.
	_, err := NewDatabase("postgres", "host=127.0.0.1 port=1 user=imagehost dbname=imagehost sslmode=disable connect_timeout=1")
	if err == nil {
		t.Fatalf("expected connection error for unreachable postgres, got nil")
	}
	if strings.Contains(err.Error(), "unsupported database driver") {
		t.Fatalf("expected a driver connection error, got %v", err)
	}
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase("oracle", "")
	if err == nil {
		t.Fatalf("expected error for unsupported database driver, got nil")
	}
}
