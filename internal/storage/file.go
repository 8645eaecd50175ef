// Package storage provides file-based JSON persistence for Coinfolio.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/veldrane/coinfolio/internal/common"
)

// ErrNotFound is returned when a key has no persisted document.
var ErrNotFound = errors.New("not found")

// FileStore provides file-based JSON storage. Every document is written
// whole: marshal, write to a temp file, rename. There is no partial-write
// concern because the rename replaces the previous document atomically.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// subdirectories defines the directory layout under basePath.
var subdirectories = []string{"portfolios", "users"}

// NewFileStore creates a new FileStore and ensures all subdirectories exist.
func NewFileStore(logger *common.Logger, basePath string) (*FileStore, error) {
	fs := &FileStore{
		basePath: basePath,
		logger:   logger,
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(fs.basePath, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", basePath).Msg("FileStore opened")
	return fs, nil
}

// sanitizeKey makes a key safe for use as a filename. Replaces /, \, : with
// _ and collapses ".." to "_" to prevent path traversal.
func (fs *FileStore) sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// filePath returns the full path for a key in a subdirectory.
func (fs *FileStore) filePath(subdir, key string) string {
	return filepath.Join(fs.basePath, subdir, fs.sanitizeKey(key)+".json")
}

// readJSON reads and unmarshals a JSON document. Missing files map to
// ErrNotFound; a malformed document is a distinct, explicit error so callers
// can surface corruption instead of silently recreating state.
func (fs *FileStore) readJSON(subdir, key string, dest interface{}) error {
	path := fs.filePath(subdir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s': %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("document %s is empty", path)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically.
func (fs *FileStore) writeJSON(subdir, key string, data interface{}) error {
	target := fs.filePath(subdir, key)
	dir := filepath.Dir(target)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// deleteJSON removes a document. Absent documents are not an error.
func (fs *FileStore) deleteJSON(subdir, key string) error {
	err := os.Remove(fs.filePath(subdir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s/%s: %w", subdir, key, err)
	}
	return nil
}

// listKeys returns all document keys in a subdirectory.
func (fs *FileStore) listKeys(subdir string) ([]string, error) {
	dir := filepath.Join(fs.basePath, subdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	return keys, nil
}
