package repository

import (
	"context"

	"pdf-assistant/internal/domain/model"
)

// -----------------------------
// Sessions
// -----------------------------

// SessionRepository stores whole sessions. There is no partial-field
// mutation API: callers read a session, change it, and write the whole
// record back. Mutate is the serialized form of that cycle: the
// implementation must make concurrent Mutate calls for the same id
// linearizable while letting distinct sessions proceed in parallel.
// Sessions are created lazily on first reference by id.
type SessionRepository interface {
	// GetOrCreate returns a snapshot of the session, creating it if absent.
	GetOrCreate(ctx context.Context, id string) (*model.Session, error)
	// Find returns a snapshot or domain.ErrNotFound.
	Find(ctx context.Context, id string) (*model.Session, error)
	// Mutate runs fn against the session under the per-session lock and
	// persists the result. fn returning an error discards the write.
	Mutate(ctx context.Context, id string, fn func(*model.Session) error) error
	// List returns all known session ids.
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
