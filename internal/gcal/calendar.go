// Package gcal copies user events into a Google Calendar.
package gcal

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"canvas-reminder/internal/events"
)

// EventIDKey is the private extended property holding the local event id.
const EventIDKey = "event_id"

// EventLength is the duration given to exported events, which carry only a start time.
const EventLength = time.Hour

type Exporter struct {
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
}

// New authenticates with OAuth client credentials (the credentials.json downloaded
// from Google Cloud Console) and a long-lived refresh token.
func New(ctx context.Context, credentialsJSON, refreshToken, calendarID string, loc *time.Location) (*Exporter, error) {
	config, err := google.ConfigFromJSON([]byte(credentialsJSON), calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth2 credentials: %w", err)
	}
	ts := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	log.Printf("✅ Google Calendar authorized, exporting events to %q", calendarID)
	return NewWithOptions(ctx, calendarID, loc, option.WithTokenSource(ts))
}

func NewWithOptions(ctx context.Context, calendarID string, loc *time.Location, opts ...option.ClientOption) (*Exporter, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Exporter{svc: svc, calendarID: calendarID, loc: loc}, nil
}

// Export inserts ev and returns the created event link. Events whose When is
// free text cannot be placed on a calendar and are rejected.
func (e *Exporter) Export(ctx context.Context, ev events.UserEvent) (string, error) {
	start, ok := ev.Time(e.loc)
	if !ok {
		return "", fmt.Errorf("event %q has no parseable time %q", ev.Title, ev.When)
	}
	zone := e.loc.String()
	created, err := e.svc.Events.Insert(e.calendarID, &calendar.Event{
		Summary:     ev.Title,
		Location:    ev.Where,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: zone},
		End:         &calendar.EventDateTime{DateTime: start.Add(EventLength).Format(time.RFC3339), TimeZone: zone},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{EventIDKey: ev.ID.String()},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	log.Printf("📅 Event %q (%s) exported to Google Calendar: %s", ev.Title, ev.ID, created.Id)
	return created.HtmlLink, nil
}
