package conversation

import (
	"sync"
	"time"
)

type State string

const (
	Idle               State = "idle"
	AwaitingEventInput State = "awaiting_event_input"
)

type entry struct {
	state   State
	touched time.Time
}

// Store tracks the conversation state of each chat sender.
// An entry untouched for longer than the TTL reads as Idle.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	senders map[string]entry
}

// NewStore creates a store; ttl <= 0 keeps entries forever.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, senders: make(map[string]entry)}
}

// WithClock replaces the store clock, used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

func (s *Store) Get(senderID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.senders[senderID]
	if !ok {
		return Idle
	}
	if s.expired(e, s.now()) {
		delete(s.senders, senderID)
		return Idle
	}
	return e.state
}

func (s *Store) Set(senderID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.senders[senderID] = entry{state: st, touched: s.now()}
}

// Reset returns the sender to Idle.
func (s *Store) Reset(senderID string) {
	s.Set(senderID, Idle)
}

// Sweep evicts expired entries and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.senders {
		if s.expired(e, now) {
			delete(s.senders, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.senders)
}
