package loader

import (
	"context"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

// Ensure FileSource implements storage.Source
var _ storage.Source = (*FileSource)(nil)

// FileSource serves a ledger parsed from a YAML file.
type FileSource struct {
	path string
	doc  *Document
}

// NewFileSource parses the file at path.
func NewFileSource(path string) (*FileSource, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, doc: doc}, nil
}

// Path returns the file the ledger was read from.
func (s *FileSource) Path() string {
	return s.path
}

// House returns the parsed house.
func (s *FileSource) House(ctx context.Context) (models.House, error) {
	return s.doc.House, nil
}

// Entries returns the parsed ledger entries in file order.
func (s *FileSource) Entries(ctx context.Context) ([]models.Entry, error) {
	return s.doc.Entries, nil
}

// Close is a no-op; the file is read completely on open.
func (s *FileSource) Close() error {
	return nil
}
