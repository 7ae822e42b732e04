// Package memflash is the in-process flash store used when no redis is configured.
// Messages do not survive a restart and are not shared between replicas.
package memflash

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"hbnb_web/internal/adapters/observability"
)

type entry struct {
	msg     string
	expires time.Time
}

type Store struct {
	mu  sync.Mutex
	m   map[string]entry
	ttl time.Duration
	now func() time.Time
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{m: map[string]entry{}, ttl: ttl, now: time.Now}
}

func (s *Store) Put(_ context.Context, msg string) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.m[id] = entry{msg: msg, expires: s.now().Add(s.ttl)}
	observability.ObserveFlash("memory", "put")
	return id, nil
}

func (s *Store) Take(_ context.Context, id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	delete(s.m, id)
	if !ok || s.now().After(e.expires) {
		observability.ObserveFlash("memory", "miss")
		return "", false, nil
	}
	observability.ObserveFlash("memory", "take")
	return e.msg, true, nil
}

// sweep drops expired entries; callers hold mu.
func (s *Store) sweep() {
	now := s.now()
	for k, e := range s.m {
		if now.After(e.expires) {
			delete(s.m, k)
		}
	}
}
