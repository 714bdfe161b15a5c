// Package memory holds the default session store: a process-local map
// with one lock per session, so read-modify-write cycles for the same
// session serialize while distinct sessions run fully in parallel.
package memory

import (
	"context"
	"sort"
	"sync"

	"pdf-assistant/internal/domain"
	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

type entry struct {
	mu      sync.Mutex
	session *model.Session
}

type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*entry)}
}

// entryFor returns the per-session entry, creating it lazily.
func (r *SessionRepo) entryFor(id string) *entry {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.sessions[id]; ok {
		return e
	}
	e = &entry{session: model.NewSession(id)}
	r.sessions[id] = e
	return e
}

func (r *SessionRepo) GetOrCreate(ctx context.Context, id string) (*model.Session, error) {
	e := r.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.session), nil
}

func (r *SessionRepo) Find(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.session), nil
}

func (r *SessionRepo) Mutate(ctx context.Context, id string, fn func(*model.Session) error) error {
	e := r.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	// fn works on a copy; only a clean return publishes the write.
	work := snapshot(e.session)
	if err := fn(work); err != nil {
		return err
	}
	e.session = work
	return nil
}

func (r *SessionRepo) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func snapshot(s *model.Session) *model.Session {
	cp := *s
	cp.Files = append([]model.FileRecord(nil), s.Files...)
	cp.Messages = append([]model.ChatMessage(nil), s.Messages...)
	return &cp
}
