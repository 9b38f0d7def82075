package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

// FileStore keeps each collection in <dir>/<collection>.json as an indented
// JSON array.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.StorageFailure("create data directory", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Exists reports whether the collection file has been created.
func (s *FileStore) Exists(collection string) (bool, error) {
	if err := checkCollectionName(collection); err != nil {
		return false, err
	}

	_, err := os.Stat(s.path(collection))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, apperrors.StorageFailure("stat "+collection, err)
	}
}

func (s *FileStore) Load(collection string) ([]json.RawMessage, error) {
	if err := checkCollectionName(collection); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotInitialized(collection)
		}
		return nil, apperrors.StorageFailure("read "+collection, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.StorageFailure("decode "+collection, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (s *FileStore) Save(collection string, records []json.RawMessage) error {
	if err := checkCollectionName(collection); err != nil {
		return err
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.StorageFailure("encode "+collection, err)
	}
	if err := s.writeAtomic(collection, data); err != nil {
		return apperrors.StorageFailure("write "+collection, err)
	}
	return nil
}

func (s *FileStore) Create(collection string) error {
	if err := checkCollectionName(collection); err != nil {
		return err
	}

	exists, err := s.Exists(collection)
	if err != nil || exists {
		return err
	}
	if err := s.writeAtomic(collection, []byte("[]")); err != nil {
		return apperrors.StorageFailure("create "+collection, err)
	}
	return nil
}

// writeAtomic writes data to a temp file in the same directory and renames it
// over the collection file. The temp file is removed on failure.
func (s *FileStore) writeAtomic(collection string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		if _, err := tmp.Write([]byte("\n")); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("write temp file: %w", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(collection)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
