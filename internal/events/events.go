package events

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"canvas-reminder/internal/urgency"
)

// WhenLayout is the date-time format users are asked to type.
const WhenLayout = "2006-01-02 15:04"

// ErrIncomplete is returned when the input block has fewer than four non-empty lines.
var ErrIncomplete = errors.New("event input needs 4 lines: title, when, where, description")

// UserEvent is an ad hoc event added through the chat flow. It lives only in process memory.
type UserEvent struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	When        string        `json:"when"`
	Where       string        `json:"where"`
	Description string        `json:"description"`
	Urgency     urgency.Level `json:"urgency"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Time parses When in loc. ok is false for free-text values.
func (e UserEvent) Time(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(WhenLayout, e.When, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Parse builds an event from a four-line block: title, when, where, description.
// Lines are trimmed and blank lines skipped; anything past the fourth line is ignored.
func Parse(text string, now time.Time, loc *time.Location) (UserEvent, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 4 {
		return UserEvent{}, ErrIncomplete
	}
	ev := UserEvent{
		ID:          uuid.New(),
		Title:       lines[0],
		When:        lines[1],
		Where:       lines[2],
		Description: lines[3],
		CreatedAt:   now,
	}
	if t, ok := ev.Time(loc); ok {
		ev.Urgency = urgency.Classify(&t, now)
	} else {
		ev.Urgency = urgency.Classify(nil, now)
	}
	return ev, nil
}

// Store keeps every event added during the process lifetime.
type Store struct {
	mu     sync.RWMutex
	events []UserEvent
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(e UserEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// List returns a copy of all events in insertion order.
func (s *Store) List() []UserEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UserEvent, len(s.events))
	copy(out, s.events)
	return out
}

// On returns events whose When falls on the calendar day of day in loc.
// Events with an unparseable When are skipped.
func (s *Store) On(day time.Time, loc *time.Location) []UserEvent {
	y, m, d := day.In(loc).Date()
	var out []UserEvent
	for _, e := range s.List() {
		t, ok := e.Time(loc)
		if !ok {
			continue
		}
		if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
