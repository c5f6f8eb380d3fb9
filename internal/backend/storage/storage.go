package storage

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage persists image bytes as flat files in a single directory.
// Storage keys are generated here and are unique across the directory;
// a write never overwrites an existing file.
type LocalStorage struct {
	directory string
}

func NewLocalStorage(directory string) (*LocalStorage, error) {
	if directory == "" {
		return nil, fmt.Errorf("storage directory must not be empty")
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", directory, err)
	}
	return &LocalStorage{directory: directory}, nil
}

func (s *LocalStorage) Directory() string {
	return s.directory
}

// GenerateFilename returns a new storage key: 32 hex characters from a
// random UUID plus the (lowercased) file extension.
func (s *LocalStorage) GenerateFilename(extension string) string {
	id := uuid.New()
	return hex.EncodeToString(id[:]) + strings.ToLower(extension)
}

// SaveImage writes data under a freshly generated storage key and returns
// the key. Creation is exclusive, so two concurrent uploads can never end
// up sharing a file even if key generation ever collided.
func (s *LocalStorage) SaveImage(data []byte, extension string) (string, error) {
	filename := s.GenerateFilename(extension)
	path := filepath.Join(s.directory, filename)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		// Roll back the partial write so no unreferenced file remains.
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close file %s: %w", filename, err)
	}
	return filename, nil
}

// DeleteImage removes the file for the given storage key. A missing file
// is reported as os.ErrNotExist so the caller can treat it as an
// inconsistency rather than a hard failure.
func (s *LocalStorage) DeleteImage(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Path resolves a storage key to an absolute-ish path inside the storage
// directory, rejecting keys that would escape it.
func (s *LocalStorage) Path(filename string) (string, error) {
	path := filepath.Join(s.directory, filename)
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.directory) {
		return "", fmt.Errorf("invalid storage key: %s", filename)
	}
	return path, nil
}

// Exists reports whether a file for the given storage key is present.
func (s *LocalStorage) Exists(filename string) bool {
	path, err := s.Path(filename)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
