package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const filePermissions = 0o644

// FileStore keeps each document as <dir>/<name>.json.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the documents.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(doc Document) string {
	return filepath.Join(s.dir, string(doc)+".json")
}

// Load reads a document.
func (s *FileStore) Load(ctx context.Context, doc Document) ([]byte, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(doc))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", doc, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("reading %s: %w", doc, ErrCorruptDocument)
	}
	return data, nil
}

// Save replaces a document. The new content is written to a temp file and
// renamed over the old one, so readers see either version in full.
func (s *FileStore) Save(ctx context.Context, doc Document, data []byte) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	pretty, err := prettyJSON(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+string(doc)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(pretty); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", doc, err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", doc, err)
	}
	if err := os.Rename(tmpName, s.path(doc)); err != nil {
		return fmt.Errorf("replacing %s: %w", doc, err)
	}
	return nil
}
