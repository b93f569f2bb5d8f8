package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store stages rendered report files on local disk so they can be served
// for download while the patient retrieves them.
type Store struct {
	dir string
}

// NewStore creates the staging directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("staging directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the staging directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes the report bytes under a collision-free generated filename
// and returns that filename.
func (s *Store) Put(data []byte) (string, error) {
	filename := fmt.Sprintf("relatorio_%d_%s.pdf", time.Now().UnixMilli(), uuid.NewString()[:8])
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to stage report: %w", err)
	}

	return filename, nil
}
