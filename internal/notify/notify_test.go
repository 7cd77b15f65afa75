package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/storage"
)

type fakeSink struct {
	ok   bool
	sent []string
}

func (f *fakeSink) SendText(_ context.Context, text string) bool {
	f.sent = append(f.sent, text)
	return f.ok
}

type fakeDesktop struct{ titles []string }

func (f *fakeDesktop) Notify(title, _ string) { f.titles = append(f.titles, title) }

func TestMessage_FansOut(t *testing.T) {
	a, b := &fakeSink{ok: false}, &fakeSink{ok: true}
	s := New(time.UTC, nil, a, nil, b)
	if !s.Message(context.Background(), "hi") {
		t.Fatalf("one delivered sink must be enough")
	}
	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Fatalf("every sink must receive the message")
	}

	if New(time.UTC, nil, &fakeSink{}).Message(context.Background(), "hi") {
		t.Fatalf("no delivery must report false")
	}
}

func TestDetailed(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	due := now.Add(30 * time.Minute)
	sink := &fakeSink{ok: true}
	s := New(time.UTC, nil, sink).WithClock(func() time.Time { return now })

	s.Detailed(context.Background(), canvas.Assignment{ID: 1, Name: "Lab", DueAt: &due})
	if len(sink.sent) != 1 || !strings.Contains(sink.sent[0], "DUE IN 30 MINUTES!") {
		t.Fatalf("unexpected detailed message: %v", sink.sent)
	}
}

func TestDesktop(t *testing.T) {
	d := &fakeDesktop{}
	New(time.UTC, d).Desktop("Canvas Reminder Started", "Monitoring 3 assignments")
	if len(d.titles) != 1 || d.titles[0] != "Canvas Reminder Started" {
		t.Fatalf("unexpected desktop calls: %v", d.titles)
	}
	New(time.UTC, nil).Desktop("x", "y")
}

type memJournal struct{ got []storage.Delivery }

func (m *memJournal) Append(d storage.Delivery) error   { m.got = append(m.got, d); return nil }
func (m *memJournal) Load() ([]storage.Delivery, error) { return m.got, nil }

func TestMessage_Journals(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	j := &memJournal{}
	s := New(time.UTC, nil, &fakeSink{ok: false}).WithClock(func() time.Time { return now })
	s.SetJournal(j)

	s.Message(context.Background(), "digest")
	if len(j.got) != 1 {
		t.Fatalf("want 1 journal entry, got %d", len(j.got))
	}
	if d := j.got[0]; d.Text != "digest" || d.Delivered || !d.Timestamp.Equal(now) {
		t.Fatalf("unexpected entry: %+v", d)
	}
}
