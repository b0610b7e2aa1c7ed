package session

import (
	"context"
	"sync"

	"github.com/skilltrust/portal/internal/core/domain"
)

// MemoryStore is an in-process SessionStore used by tests and local runs
// without Redis. Records are deep-copied on the way in and out so callers
// cannot mutate stored state.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]*domain.SessionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*domain.SessionRecord)}
}

func cloneRecord(rec *domain.SessionRecord) *domain.SessionRecord {
	clone := *rec
	if rec.User != nil {
		u := *rec.User
		clone.User = &u
	}
	if rec.Flashes != nil {
		clone.Flashes = append([]domain.Flash(nil), rec.Flashes...)
	}
	return &clone
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Put(_ context.Context, sid string, rec *domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[sid] = cloneRecord(rec)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, sid)
	return nil
}

func (s *MemoryStore) PushFlash(_ context.Context, sid string, flash domain.Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[sid]
	if !ok {
		rec = &domain.SessionRecord{}
		s.recs[sid] = rec
	}
	rec.Flashes = append(rec.Flashes, flash)
	return nil
}

func (s *MemoryStore) PopFlashes(_ context.Context, sid string) ([]domain.Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[sid]
	if !ok || len(rec.Flashes) == 0 {
		return nil, nil
	}
	flashes := rec.Flashes
	rec.Flashes = nil
	return flashes, nil
}
