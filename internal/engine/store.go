package engine

import (
	"sync"
	"time"
)

// ResultStore is the process-wide holder of the last published ranking.
// It starts empty, is populated by the first successful pass, and is
// replaced atomically by each later pass. Any number of readers may call
// Latest concurrently; a published result is never mutated again.
type ResultStore struct {
	mu     sync.RWMutex
	latest *RankedResult
}

// NewResultStore returns an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Latest returns the last published result, or ok=false before the first
// successful pass.
func (s *ResultStore) Latest() (*RankedResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Publish replaces the stored result.
func (s *ResultStore) Publish(r *RankedResult) {
	s.mu.Lock()
	s.latest = r
	s.mu.Unlock()
}

// LastUpdated returns the timestamp of the last published result and
// whether one exists.
func (s *ResultStore) LastUpdated() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return time.Time{}, false
	}
	return s.latest.Timestamp, true
}
