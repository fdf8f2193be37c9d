// Package storage persists the pipeline's file-based state: raw feed
// documents, per-agency staged batches, and the canonical record set.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"RecallScanner/internal/domain"
	"RecallScanner/internal/ports"
)

const (
	rawDirName        = "raw_data"
	stagedDirName     = "transformed_staged_data"
	cleanDirName      = "clean_data"
	canonicalFileName = "food_safety_recalls.json"
)

// FileStore lays the pipeline's data out under one root directory, mirroring
// the raw_data / transformed_staged_data / clean_data structure.
type FileStore struct {
	root string
}

var _ ports.RecallStore = (*FileStore)(nil)
var _ ports.RawStore = (*FileStore)(nil)

// NewFileStore roots a store at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// LoadCanonical reads the canonical record set. A missing file is an empty
// set (first run bootstraps the document); a malformed one is an error.
func (s *FileStore) LoadCanonical() ([]domain.Recall, error) {
	raw, err := os.ReadFile(s.canonicalPath())
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Recall{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read canonical store: %w", err)
	}

	var records []domain.Recall
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse canonical store: %w", err)
	}
	return records, nil
}

// SaveCanonical rewrites the full canonical document. The write goes to a
// temp file in the same directory and renames over the target, so a failure
// midway leaves the previous document intact.
func (s *FileStore) SaveCanonical(records []domain.Recall) error {
	return s.writeJSON(s.canonicalPath(), records)
}

// LoadStaged reads one agency's staged batch.
func (s *FileStore) LoadStaged(agency domain.Agency) ([]domain.Recall, error) {
	raw, err := os.ReadFile(s.stagedPath(agency))
	if err != nil {
		return nil, fmt.Errorf("read staged batch: %w", err)
	}

	var records []domain.Recall
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse staged batch: %w", err)
	}
	return records, nil
}

// SaveStaged writes one agency's staged batch.
func (s *FileStore) SaveStaged(agency domain.Agency, records []domain.Recall) error {
	return s.writeJSON(s.stagedPath(agency), records)
}

// ReadRaw reads a raw feed document written by the extract stage.
func (s *FileStore) ReadRaw(name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, rawDirName, name))
	if err != nil {
		return nil, fmt.Errorf("read raw document %s: %w", name, err)
	}
	return raw, nil
}

// WriteRaw stores a raw feed document.
func (s *FileStore) WriteRaw(name string, data []byte) error {
	dir := filepath.Join(s.root, rawDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create raw data dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write raw document %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) canonicalPath() string {
	return filepath.Join(s.root, cleanDirName, canonicalFileName)
}

func (s *FileStore) stagedPath(agency domain.Agency) string {
	name := fmt.Sprintf("%s_food_safety_recalls_staged.json", strings.ToLower(string(agency)))
	return filepath.Join(s.root, stagedDirName, name)
}

func (s *FileStore) writeJSON(path string, records []domain.Recall) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	payload, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
