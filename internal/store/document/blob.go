package document

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoDocument is returned by Blob.Load when no document has been written
// yet. The store reacts by seeding a fresh empty collection.
var ErrNoDocument = errors.New("document does not exist")

// Blob is the durable home of the serialized collection document. The store
// loads it once at startup and rewrites it wholesale after every mutation.
type Blob interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// FileBlob persists the document as a single JSON file on local disk.
type FileBlob struct {
	path string
}

// NewFileBlob returns a blob backed by the given file path.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path}
}

func (b *FileBlob) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", b.path, err)
	}
	return data, nil
}

func (b *FileBlob) Save(_ context.Context, data []byte) error {
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", b.path, err)
	}
	return nil
}

// MemoryBlob holds the document in memory only. Used by the "memory" backend
// and by tests.
type MemoryBlob struct {
	data []byte
}

// NewMemoryBlob returns an empty in-memory blob.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{}
}

func (b *MemoryBlob) Load(_ context.Context) ([]byte, error) {
	if b.data == nil {
		return nil, ErrNoDocument
	}
	return b.data, nil
}

func (b *MemoryBlob) Save(_ context.Context, data []byte) error {
	b.data = append([]byte(nil), data...)
	return nil
}
