package events

import (
	"errors"
	"testing"
	"time"

	"canvas-reminder/internal/urgency"
)

func TestParse_RoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	text := "Study group\n2024-06-30 15:00\nLibrary room 4\nChapter 5 review"

	ev, err := Parse(text, now, time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Title != "Study group" || ev.When != "2024-06-30 15:00" || ev.Where != "Library room 4" || ev.Description != "Chapter 5 review" {
		t.Fatalf("fields not verbatim: %+v", ev)
	}
	due := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)
	if want := urgency.Classify(&due, now); ev.Urgency != want || ev.Urgency != urgency.Urgent {
		t.Fatalf("urgency %s, want %s", ev.Urgency, want)
	}
	if ev.ID.String() == "" || !ev.CreatedAt.Equal(now) {
		t.Fatalf("id/created_at not set: %+v", ev)
	}
}

func TestParse_SkipsBlankLinesAndTrims(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	ev, err := Parse("  Exam \n\n 2024-07-10 09:00\nHall A\n  Bring ID  \nextra line", now, time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Title != "Exam" || ev.Description != "Bring ID" {
		t.Fatalf("unexpected fields: %+v", ev)
	}
	if ev.Urgency != urgency.Upcoming {
		t.Fatalf("want upcoming, got %s", ev.Urgency)
	}
}

func TestParse_Incomplete(t *testing.T) {
	_, err := Parse("only\nthree\nlines", time.Now(), time.UTC)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("want ErrIncomplete, got %v", err)
	}
}

func TestParse_FreeTextWhen(t *testing.T) {
	ev, err := Parse("Party\nnext friday\nHome\nBring snacks", time.Now(), time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Urgency != urgency.NoDate {
		t.Fatalf("want no_date, got %s", ev.Urgency)
	}
}

func TestStore_AddListOn(t *testing.T) {
	s := NewStore()
	now := time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC)
	today, _ := Parse("A\n2024-06-30 18:00\nX\nY", now, time.UTC)
	tomorrow, _ := Parse("B\n2024-07-01 18:00\nX\nY", now, time.UTC)
	freeText, _ := Parse("C\nsoon\nX\nY", now, time.UTC)
	s.Add(today)
	s.Add(tomorrow)
	s.Add(freeText)

	if s.Len() != 3 {
		t.Fatalf("want 3 events, got %d", s.Len())
	}
	list := s.List()
	list[0].Title = "mutated"
	if s.List()[0].Title != "A" {
		t.Fatalf("List must return a copy")
	}
	on := s.On(now, time.UTC)
	if len(on) != 1 || on[0].Title != "A" {
		t.Fatalf("unexpected events today: %+v", on)
	}
}
