package adapter

import (
	"context"
	"io"
)

// BlobStore is the opaque byte store behind FileRecord. Keys are
// (session id, file id); everything else about layout is the
// implementation's business.
type BlobStore interface {
	// Put stores the blob and returns its storage path and byte size.
	Put(ctx context.Context, sessionID, fileID string, data io.Reader) (path string, size int64, err error)
	Open(ctx context.Context, sessionID, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, sessionID, fileID string) error
	// DeleteAll removes every blob belonging to a session.
	DeleteAll(ctx context.Context, sessionID string) error
}
