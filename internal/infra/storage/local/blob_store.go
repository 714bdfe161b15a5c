// Package local implements the BlobStore port on the filesystem:
// one directory per session, one file per blob, named by file id.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pdf-assistant/internal/domain/ports/adapter"
)

var _ adapter.BlobStore = (*BlobStore)(nil)

type BlobStore struct {
	root string
}

func NewBlobStore(root string) (*BlobStore, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &BlobStore{root: root}, nil
}

func (b *BlobStore) path(sessionID, fileID string) string {
	return filepath.Join(b.root, sessionID, fileID)
}

func (b *BlobStore) Put(ctx context.Context, sessionID, fileID string, data io.Reader) (string, int64, error) {
	dir := filepath.Join(b.root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create session dir: %w", err)
	}

	// Write to a temp name, rename on success. A failed write leaves no
	// partial blob under the final key.
	dst := b.path(sessionID, fileID)
	tmp, err := os.CreateTemp(dir, fileID+".part-*")
	if err != nil {
		return "", 0, err
	}
	size, err := io.Copy(tmp, data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("publish blob: %w", err)
	}
	return dst, size, nil
}

func (b *BlobStore) Open(ctx context.Context, sessionID, fileID string) (io.ReadCloser, error) {
	f, err := os.Open(b.path(sessionID, fileID))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (b *BlobStore) Delete(ctx context.Context, sessionID, fileID string) error {
	if err := os.Remove(b.path(sessionID, fileID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func (b *BlobStore) DeleteAll(ctx context.Context, sessionID string) error {
	if err := os.RemoveAll(filepath.Join(b.root, sessionID)); err != nil {
		return fmt.Errorf("delete session blobs: %w", err)
	}
	return nil
}
