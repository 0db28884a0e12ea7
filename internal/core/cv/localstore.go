package cv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps CV objects on the local filesystem. It backs deployments
// without an object store and doubles as the test Store.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Put writes the object under a temporary name first, then renames it into
// place so readers never observe a partial file.
func (l *LocalStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	tmp, err := os.CreateTemp(l.dir, "upload-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	finalPath := filepath.Join(l.dir, key)
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", fmt.Errorf("finalize file: %w", err)
	}
	return finalPath, nil
}

func (l *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.dir, key))
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}
