// Package notify fans reminder text out to every configured channel.
package notify

import (
	"context"
	"log"
	"time"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/format"
	"canvas-reminder/internal/storage"
)

// ChatSink delivers text to one chat channel.
type ChatSink interface {
	SendText(ctx context.Context, text string) bool
}

type DesktopNotifier interface {
	Notify(title, message string)
}

type Service struct {
	chats   []ChatSink
	desktop DesktopNotifier
	loc     *time.Location
	now     func() time.Time
	journal storage.Journal
}

// New builds a service. Nil sinks are skipped; a nil desktop notifier disables desktop output.
func New(loc *time.Location, desktop DesktopNotifier, chats ...ChatSink) *Service {
	s := &Service{desktop: desktop, loc: loc, now: time.Now}
	for _, c := range chats {
		if c != nil {
			s.chats = append(s.chats, c)
		}
	}
	return s
}

// WithClock replaces the clock used to render detailed messages.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SetJournal records every outbound message in j.
func (s *Service) SetJournal(j storage.Journal) { s.journal = j }

// Message sends text to every chat sink and reports whether any delivered it.
func (s *Service) Message(ctx context.Context, text string) bool {
	delivered := false
	for _, c := range s.chats {
		if c.SendText(ctx, text) {
			delivered = true
		}
	}
	if !delivered {
		log.Printf("⚠️ Message not delivered to any chat")
	}
	if s.journal != nil {
		d := storage.Delivery{Timestamp: s.now(), Text: text, Delivered: delivered}
		if err := s.journal.Append(d); err != nil {
			log.Printf("⚠️ Failed to journal delivery: %v", err)
		}
	}
	return delivered
}

// Detailed sends the full details card for a.
func (s *Service) Detailed(ctx context.Context, a canvas.Assignment) bool {
	return s.Message(ctx, format.New(s.now(), s.loc).Detailed(a))
}

func (s *Service) Desktop(title, message string) {
	if s.desktop == nil {
		log.Printf("⚠️ Desktop notifications disabled")
		return
	}
	s.desktop.Notify(title, message)
}
