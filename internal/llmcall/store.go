package llmcall

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of calls the in-memory history keeps.
const DefaultCapacity = 500

// Store keeps the most recent LLM calls in memory. It is safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	calls    []Call // ring buffer
	next     int
	full     bool
	capacity int
}

// NewStore creates a store holding at most capacity calls.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{calls: make([]Call, capacity), capacity: capacity}
}

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	RequestID string
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

// Add stores a call, evicting the oldest when full.
func (s *Store) Add(call Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[s.next] = call
	s.next = (s.next + 1) % s.capacity
	if s.next == 0 {
		s.full = true
	}
}

// Len returns the number of stored calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full {
		return s.capacity
	}
	return s.next
}

// Get retrieves a single LLM call by ID. Returns nil if not found.
func (s *Store) Get(id string) *Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.newestFirst() {
		if c.ID == id {
			call := c
			return &call
		}
	}
	return nil
}

// List returns calls matching the filter, newest first.
func (s *Store) List(filter QueryFilter) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Call
	skipped := 0
	for _, c := range s.newestFirst() {
		if !filter.matches(c) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, c)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// newestFirst returns the stored calls from newest to oldest. Must be
// called with the lock held.
func (s *Store) newestFirst() []Call {
	n := s.next
	if s.full {
		n = s.capacity
	}
	out := make([]Call, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + s.capacity) % s.capacity
		out = append(out, s.calls[idx])
	}
	return out
}

func (f QueryFilter) matches(c Call) bool {
	if f.RequestID != "" && c.RequestID != f.RequestID {
		return false
	}
	if f.PromptKey != "" && c.PromptKey != f.PromptKey {
		return false
	}
	if f.Provider != "" && c.Provider != f.Provider {
		return false
	}
	if f.Model != "" && c.Model != f.Model {
		return false
	}
	if f.Success != nil && c.Success != *f.Success {
		return false
	}
	if f.After != nil && !c.Timestamp.After(*f.After) {
		return false
	}
	return true
}
