// Package memory disponibiliza o storage de contadores em memória do processo.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

// Storage mantém os contadores em um map protegido por mutex. Reiniciar o
// processo zera todos os contadores.
type Storage struct {
	mu      sync.Mutex
	entries map[string]domain.RateLimitEntry
}

var (
	_ ports.Storage = (*Storage)(nil)
	_ ports.Sweeper = (*Storage)(nil)
)

func New() *Storage {
	return &Storage{entries: make(map[string]domain.RateLimitEntry)}
}

func (s *Storage) Update(_ context.Context, key string, fn ports.UpdateFunc) (domain.RateLimitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, found := s.entries[key]
	next, write := fn(entry, found)
	if !write {
		return entry, nil
	}
	s.entries[key] = next
	return next, nil
}

// Sweep remove entradas com ResetAt estritamente anterior a now.
func (s *Storage) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *Storage) Get(key string) (domain.RateLimitEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	return entry, ok
}

func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
