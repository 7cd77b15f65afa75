// Package mcptools exposes Canvas assignment lookups as MCP tools.
package mcptools

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/format"
	"canvas-reminder/internal/storage"
)

type Source interface {
	UpcomingAssignments(ctx context.Context, now time.Time) []canvas.Assignment
}

// ListParams are the arguments of list_upcoming_assignments.
type ListParams struct {
	Limit int `json:"limit,omitempty" mcp:"maximum number of assignments to return (default: all)"`
}

type DueSoonParams struct {
	Hours int `json:"hours,omitempty" mcp:"look-ahead window in hours (default: 24)"`
}

type DetailsParams struct {
	Name string `json:"name" mcp:"case-insensitive part of the assignment name"`
}

type RecentParams struct {
	Limit int `json:"limit,omitempty" mcp:"number of most recent reminders to return (default: 10)"`
}

type Tools struct {
	source  Source
	loc     *time.Location
	now     func() time.Time
	journal storage.Journal
}

func New(source Source, loc *time.Location) *Tools {
	if loc == nil {
		loc = time.Local
	}
	return &Tools{source: source, loc: loc, now: time.Now}
}

func (t *Tools) WithClock(now func() time.Time) *Tools {
	t.now = now
	return t
}

// SetJournal enables get_recent_reminders over the daemon's delivery journal.
func (t *Tools) SetJournal(j storage.Journal) { t.journal = j }

// Register adds every tool to server.
func Register(server *mcp.Server, t *Tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_upcoming_assignments",
		Description: "Lists every upcoming Canvas assignment grouped by urgency",
	}, t.ListUpcoming)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_assignments_due_soon",
		Description: "Summarizes Canvas assignments due within the given number of hours",
	}, t.DueSoon)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_assignment_details",
		Description: "Returns full details for assignments whose name contains the given text",
	}, t.Details)

	names := []string{"list_upcoming_assignments", "get_assignments_due_soon", "get_assignment_details"}
	if t.journal != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "get_recent_reminders",
			Description: "Shows the latest reminder messages the daemon sent and whether they were delivered",
		}, t.Recent)
		names = append(names, "get_recent_reminders")
	}

	log.Printf("📋 Registered %d tools: %s", len(names), strings.Join(names, ", "))
}

func text(s string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{Content: []mcp.Content{&mcp.TextContent{Text: s}}}
}

func (t *Tools) fetch(ctx context.Context) (format.Formatter, []canvas.Assignment) {
	now := t.now()
	return format.New(now, t.loc), t.source.UpcomingAssignments(ctx, now)
}

func (t *Tools) ListUpcoming(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[ListParams]) (*mcp.CallToolResultFor[any], error) {
	f, as := t.fetch(ctx)
	if limit := params.Arguments.Limit; limit > 0 && len(as) > limit {
		as = as[:limit]
	}
	log.Printf("📚 MCP list_upcoming_assignments: %d assignments", len(as))
	return text(f.AllList(as)), nil
}

func (t *Tools) DueSoon(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[DueSoonParams]) (*mcp.CallToolResultFor[any], error) {
	hours := params.Arguments.Hours
	if hours <= 0 {
		hours = 24
	}
	f, as := t.fetch(ctx)
	cutoff := f.Now.Add(time.Duration(hours) * time.Hour)
	var due []canvas.Assignment
	for _, a := range as {
		if a.DueAt != nil && !a.DueAt.After(cutoff) {
			due = append(due, a)
		}
	}
	log.Printf("⏰ MCP get_assignments_due_soon(%dh): %d assignments", hours, len(due))
	return text(f.Summary(due)), nil
}

func (t *Tools) Details(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[DetailsParams]) (*mcp.CallToolResultFor[any], error) {
	name := strings.TrimSpace(params.Arguments.Name)
	if name == "" {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: "❌ name is required"}},
		}, nil
	}
	f, as := t.fetch(ctx)
	needle := strings.ToLower(name)
	var parts []string
	for _, a := range as {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			parts = append(parts, f.Detailed(a))
		}
	}
	if len(parts) == 0 {
		return text(fmt.Sprintf("No assignment found matching '%s'", name)), nil
	}
	return text(strings.Join(parts, "\n\n")), nil
}

func (t *Tools) Recent(_ context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[RecentParams]) (*mcp.CallToolResultFor[any], error) {
	if t.journal == nil {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: "❌ delivery journal is not configured"}},
		}, nil
	}
	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 10
	}
	ds, err := storage.Recent(t.journal, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read delivery journal: %w", err)
	}
	if len(ds) == 0 {
		return text("No reminders have been sent yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📨 LAST %d REMINDERS\n\n", len(ds))
	for _, d := range ds {
		status := "✅"
		if !d.Delivered {
			status = "❌"
		}
		first, _, _ := strings.Cut(d.Text, "\n")
		fmt.Fprintf(&b, "%s %s  %s\n", status, d.Timestamp.In(t.loc).Format("2006-01-02 15:04"), format.Truncate(first, 60))
	}
	return text(b.String()), nil
}
