package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"car-dashboard/models"
)

// FileWriter saves exports under a directory using the dated file name.
type FileWriter struct {
	Dir    string
	Prefix string
	// Now is overridable for tests.
	Now func() time.Time
}

// NewFileWriter creates a writer for dir. Intermediate directories are
// created on the first write.
func NewFileWriter(dir, prefix string) *FileWriter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &FileWriter{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Write serializes records with exp and returns the path written. An existing
// file with the same dated name is replaced.
func (fw *FileWriter) Write(exp Exporter, records []models.CarRecord) (string, error) {
	if err := os.MkdirAll(fw.Dir, 0755); err != nil {
		return "", fmt.Errorf("export: create output dir: %w", err)
	}

	path := filepath.Join(fw.Dir, ExportFileName(fw.Prefix, exp.Extension(), fw.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create file %q: %w", path, err)
	}

	if err := exp.Export(f, records); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export: close %q: %w", path, err)
	}
	return path, nil
}
