package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"canvas-reminder/internal/events"
)

func TestExport(t *testing.T) {
	var got calendar.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/calendars/primary/events" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt1","htmlLink":"https://calendar.example/evt1"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	exp, err := NewWithOptions(ctx, "primary", time.UTC,
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	ev, _ := events.Parse("Study group\n2024-06-30 15:00\nLibrary\nChapter 5", now, time.UTC)
	link, err := exp.Export(ctx, ev)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if link != "https://calendar.example/evt1" {
		t.Fatalf("unexpected link %q", link)
	}
	if got.Summary != "Study group" || got.Location != "Library" || got.Description != "Chapter 5" {
		t.Fatalf("unexpected event body: %+v", got)
	}
	if got.ExtendedProperties == nil || got.ExtendedProperties.Private[EventIDKey] != ev.ID.String() {
		t.Fatalf("event id not tagged: %+v", got.ExtendedProperties)
	}
	if got.Start.DateTime != "2024-06-30T15:00:00Z" || got.End.DateTime != "2024-06-30T16:00:00Z" {
		t.Fatalf("unexpected times: %v %v", got.Start.DateTime, got.End.DateTime)
	}
}

func TestExport_FreeTextWhen(t *testing.T) {
	exp, err := NewWithOptions(context.Background(), "primary", time.UTC,
		option.WithEndpoint("http://127.0.0.1:0/"), option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ev, _ := events.Parse("Party\nsoon\nHome\nFun", time.Now(), time.UTC)
	if _, err := exp.Export(context.Background(), ev); err == nil {
		t.Fatalf("free-text when must be rejected")
	}
}
