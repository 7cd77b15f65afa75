package mcptools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/storage"
)

var now = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type fakeSource []canvas.Assignment

func (f fakeSource) UpcomingAssignments(context.Context, time.Time) []canvas.Assignment { return f }

func at(name string, in time.Duration) canvas.Assignment {
	t := now.Add(in)
	return canvas.Assignment{ID: 1, Name: name, DueAt: &t, CourseName: "OS"}
}

func newTools() *Tools {
	src := fakeSource{at("Lab Report", 2*time.Hour), at("Essay", 30*time.Hour), at("Thesis", 240*time.Hour)}
	return New(src, time.UTC).WithClock(func() time.Time { return now })
}

func resultText(t *testing.T, r *mcp.CallToolResultFor[any]) string {
	t.Helper()
	if len(r.Content) != 1 {
		t.Fatalf("want one content item, got %d", len(r.Content))
	}
	return r.Content[0].(*mcp.TextContent).Text
}

func TestListUpcoming(t *testing.T) {
	r, err := newTools().ListUpcoming(context.Background(), nil, &mcp.CallToolParamsFor[ListParams]{Arguments: ListParams{Limit: 2}})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	out := resultText(t, r)
	if !strings.Contains(out, "Total: 2 assignments") || strings.Contains(out, "Thesis") {
		t.Fatalf("limit not applied:\n%s", out)
	}
}

func TestDueSoon(t *testing.T) {
	tools := newTools()
	r, _ := tools.DueSoon(context.Background(), nil, &mcp.CallToolParamsFor[DueSoonParams]{})
	out := resultText(t, r)
	if !strings.Contains(out, "• Lab Report") || strings.Contains(out, "Essay") {
		t.Fatalf("default window must be 24h:\n%s", out)
	}

	r, _ = tools.DueSoon(context.Background(), nil, &mcp.CallToolParamsFor[DueSoonParams]{Arguments: DueSoonParams{Hours: 48}})
	if out := resultText(t, r); !strings.Contains(out, "• Essay") {
		t.Fatalf("48h window must include Essay:\n%s", out)
	}
}

func TestDetails(t *testing.T) {
	tools := newTools()
	r, _ := tools.Details(context.Background(), nil, &mcp.CallToolParamsFor[DetailsParams]{Arguments: DetailsParams{Name: "lab"}})
	if out := resultText(t, r); !strings.Contains(out, "📝 ASSIGNMENT: Lab Report") {
		t.Fatalf("unexpected details:\n%s", out)
	}

	r, _ = tools.Details(context.Background(), nil, &mcp.CallToolParamsFor[DetailsParams]{Arguments: DetailsParams{Name: "quiz"}})
	if out := resultText(t, r); out != "No assignment found matching 'quiz'" {
		t.Fatalf("unexpected: %q", out)
	}

	r, _ = tools.Details(context.Background(), nil, &mcp.CallToolParamsFor[DetailsParams]{})
	if !r.IsError {
		t.Fatalf("empty name must be a tool error")
	}
}

func TestRegister(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	Register(server, newTools())
}

type memJournal []storage.Delivery

func (m memJournal) Append(storage.Delivery) error     { return nil }
func (m memJournal) Load() ([]storage.Delivery, error) { return m, nil }

func TestRecent(t *testing.T) {
	tools := newTools()
	r, err := tools.Recent(context.Background(), nil, &mcp.CallToolParamsFor[RecentParams]{})
	if err != nil || !r.IsError {
		t.Fatalf("missing journal must be a tool error, got %+v, %v", r, err)
	}

	tools.SetJournal(memJournal{
		{Timestamp: now, Text: "🎉 NO ASSIGNMENTS DUE SOON!\n\nYou're all caught up!", Delivered: true},
		{Timestamp: now.Add(time.Hour), Text: "🚨 *CANVAS ASSIGNMENT DETAILS*", Delivered: false},
	})
	r, _ = tools.Recent(context.Background(), nil, &mcp.CallToolParamsFor[RecentParams]{Arguments: RecentParams{Limit: 1}})
	out := resultText(t, r)
	if !strings.Contains(out, "LAST 1 REMINDERS") || !strings.Contains(out, "❌ 2024-01-01 11:00  🚨 *CANVAS ASSIGNMENT DETAILS*") {
		t.Fatalf("unexpected recent output:\n%s", out)
	}
	if strings.Contains(out, "NO ASSIGNMENTS") {
		t.Fatalf("limit not applied:\n%s", out)
	}
}
