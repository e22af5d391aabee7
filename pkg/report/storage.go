package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage persists uploaded report files on local disk. Reports must live
// on a local path because the extractor reads them back by path.
type Storage struct {
	dir string
}

// NewStorage creates the storage rooted at dir, creating it if needed.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("report storage directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save writes the report content under a fresh unique filename and returns
// the stored path.
func (s *Storage) Save(reader io.Reader) (string, error) {
	name := fmt.Sprintf("report_%s.pdf", uuid.NewString())
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}

// Remove deletes a previously stored report.
func (s *Storage) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}
