package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/solar-potential/internal/solar"
)

var (
	// ErrNotFound is returned when no probe has been recorded for a provider.
	ErrNotFound = errors.New("no probe results for provider")
)

// ProbeHistory holds a time-ordered list of probe results for a provider.
type ProbeHistory struct {
	Results []solar.ProbeResult
}

// MemoryStore is a concurrency-safe in-memory history of provider health probes.
// It never holds provider payloads.
type MemoryStore struct {
	mu sync.RWMutex

	// key: provider name
	data map[string]*ProbeHistory

	maxHistory int           // max results per provider
	maxAge     time.Duration // optional max age of results
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ProbeHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveProbe appends a probe result and enforces retention.
func (s *MemoryStore) SaveProbe(result solar.ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[result.Provider]
	if !ok {
		history = &ProbeHistory{}
		s.data[result.Provider] = history
	}

	history.Results = append(history.Results, result)

	if s.maxHistory > 0 && len(history.Results) > s.maxHistory {
		over := len(history.Results) - s.maxHistory
		history.Results = history.Results[over:]
	}

	// Drop results older than maxAge, always keeping the newest one.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Results)-1; i++ {
			if !history.Results[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		history.Results = history.Results[i:]
	}
}

// GetLatest returns the most recent probe result for a provider.
func (s *MemoryStore) GetLatest(provider string) (solar.ProbeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[provider]
	if !ok || len(history.Results) == 0 {
		return solar.ProbeResult{}, ErrNotFound
	}
	return history.Results[len(history.Results)-1], nil
}

// GetRange returns all probe results for a provider between from and to (inclusive).
func (s *MemoryStore) GetRange(provider string, from, to time.Time) ([]solar.ProbeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[provider]
	if !ok || len(history.Results) == 0 {
		return nil, ErrNotFound
	}

	var result []solar.ProbeResult
	for _, r := range history.Results {
		if !r.CheckedAt.Before(from) && !r.CheckedAt.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
