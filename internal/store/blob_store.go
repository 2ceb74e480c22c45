package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const blobExt = ".bin"

var (
	ErrBlobTooLarge = errors.New("blob exceeds size limit")
	ErrBlobNotFound = errors.New("blob not found")
)

// BlobFileStore stores opaque uploads as files in one directory.
type BlobFileStore struct {
	dir string
	max int64
}

// NewBlobFileStore creates dir if needed. maxBytes <= 0 disables the size cap.
func NewBlobFileStore(dir string, maxBytes int64) (*BlobFileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &BlobFileStore{dir: dir, max: maxBytes}, nil
}

// MaxBytes is the largest blob Save accepts, or 0 when unbounded.
func (s *BlobFileStore) MaxBytes() int64 {
	if s.max < 0 {
		return 0
	}
	return s.max
}

// Save writes data under a fresh id and returns the id.
func (s *BlobFileStore) Save(data []byte) (string, error) {
	if s.max > 0 && int64(len(data)) > s.max {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrBlobTooLarge, len(data), s.max)
	}
	id := uuid.NewString()
	if err := writeFile(s.path(id), data, 0o600); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return id, nil
}

// Open returns the blob stored under id. Ids that are not UUIDs are treated
// as missing, which also keeps path separators out of file names.
func (s *BlobFileStore) Open(id string) ([]byte, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBlobNotFound
	}
	b, err := readFile(s.path(parsed.String()))
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	if b == nil {
		return nil, ErrBlobNotFound
	}
	return b, nil
}

func (s *BlobFileStore) path(id string) string {
	return filepath.Join(s.dir, id+blobExt)
}
