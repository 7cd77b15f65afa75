// Package reminder is the application core: it caches Canvas assignments and
// turns them into scheduled and on-demand notifications.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/events"
	"canvas-reminder/internal/format"
	"canvas-reminder/internal/urgency"
)

const (
	NoUrgentTasks = "No urgent tasks for today!"
	NoDueSoon     = "No assignments due soon!"
)

// Source yields future-dated assignments sorted by due time.
type Source interface {
	UpcomingAssignments(ctx context.Context, now time.Time) []canvas.Assignment
}

type Notifier interface {
	Message(ctx context.Context, text string) bool
	Detailed(ctx context.Context, a canvas.Assignment) bool
	Desktop(title, message string)
}

// Advisor writes an optional study tip for the daily digest.
type Advisor interface {
	StudyTip(ctx context.Context, digest string) (string, error)
}

type App struct {
	source   Source
	notifier Notifier
	advisor  Advisor
	events   *events.Store
	loc      *time.Location
	now      func() time.Time
	delay    time.Duration

	mu         sync.RWMutex
	cache      []canvas.Assignment
	lastUpdate time.Time
}

func New(source Source, notifier Notifier, loc *time.Location) *App {
	if loc == nil {
		loc = time.Local
	}
	return &App{
		source:   source,
		notifier: notifier,
		events:   events.NewStore(),
		loc:      loc,
		now:      time.Now,
		delay:    time.Second,
	}
}

func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// SetAdvisor enables study tips in the daily summary.
func (a *App) SetAdvisor(adv Advisor) { a.advisor = adv }

// SetDetailsDelay sets the pause between messages of the startup burst.
func (a *App) SetDetailsDelay(d time.Duration) { a.delay = d }

func (a *App) Events() *events.Store { return a.events }

func (a *App) Location() *time.Location { return a.loc }

func (a *App) Now() time.Time { return a.now() }

func (a *App) formatter() format.Formatter {
	return format.New(a.now(), a.loc)
}

// Update refetches the assignment cache.
func (a *App) Update(ctx context.Context) {
	log.Printf("🔄 Updating assignments from Canvas...")
	fresh := a.source.UpcomingAssignments(ctx, a.now())

	a.mu.Lock()
	a.cache = fresh
	a.lastUpdate = a.now()
	a.mu.Unlock()

	log.Printf("✅ Updated %d assignments", len(fresh))
}

// Assignments returns a copy of the cache.
func (a *App) Assignments() []canvas.Assignment {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]canvas.Assignment, len(a.cache))
	copy(out, a.cache)
	return out
}

func (a *App) LastUpdate() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastUpdate
}

// DueWithin returns cached assignments due no later than now+d.
func (a *App) DueWithin(d time.Duration) []canvas.Assignment {
	cutoff := a.now().Add(d)
	var out []canvas.Assignment
	for _, as := range a.Assignments() {
		if as.DueAt != nil && !as.DueAt.After(cutoff) {
			out = append(out, as)
		}
	}
	return out
}

// ByUrgency groups the cache into the display buckets.
func (a *App) ByUrgency() map[urgency.Level][]canvas.Assignment {
	return a.formatter().Groups(a.Assignments())
}

// SendScheduled refreshes and sends the 24 hour digest.
func (a *App) SendScheduled(ctx context.Context) {
	log.Printf("📅 Sending scheduled reminders...")
	a.Update(ctx)

	due := a.DueWithin(24 * time.Hour)
	summary := a.formatter().Summary(due)
	if a.advisor != nil && len(due) > 0 {
		if tip, err := a.advisor.StudyTip(ctx, summary); err != nil {
			log.Printf("⚠️ Study tip skipped: %v", err)
		} else {
			summary += "\n\n💡 Study tip: " + tip
		}
	}
	a.notifier.Message(ctx, summary)

	if len(due) == 0 {
		a.notifier.Desktop("Canvas Daily Reminder", "No assignments due soon! 🎉")
		return
	}
	plural := "s"
	if len(due) == 1 {
		plural = ""
	}
	a.notifier.Desktop("Canvas Daily Reminder", fmt.Sprintf("%d assignment%s due soon", len(due), plural))
}

// SendDetailed sends one detailed message per assignment due within 6 hours.
func (a *App) SendDetailed(ctx context.Context) {
	log.Printf("⚠️ Sending detailed reminders for urgent assignments...")
	for _, as := range a.DueWithin(6 * time.Hour) {
		log.Printf("📨 Sending detailed reminder for: %s", as.Name)
		a.notifier.Detailed(ctx, as)
	}
}

// SendHourly sends one detailed message per assignment due within the hour.
func (a *App) SendHourly(ctx context.Context) {
	log.Printf("🚨 Checking for assignments due within 1 hour...")
	for _, as := range a.DueWithin(time.Hour) {
		log.Printf("📨 Sending final reminder for: %s", as.Name)
		a.notifier.Detailed(ctx, as)
	}
}

func (a *App) RunOnce(ctx context.Context) {
	log.Printf("🚀 Running one-time reminder check...")
	a.SendScheduled(ctx)
	a.SendDetailed(ctx)
}

// List refreshes and prints the console listing to w.
func (a *App) List(ctx context.Context, w io.Writer) {
	a.Update(ctx)
	a.formatter().Console(w, a.Assignments())
}

// SendDetails sends details for assignments whose name contains name
// (case-insensitive), or for everything due within 24 hours when name is empty.
func (a *App) SendDetails(ctx context.Context, name string) {
	var matches []canvas.Assignment
	if name == "" {
		matches = a.DueWithin(24 * time.Hour)
		if len(matches) == 0 {
			a.notifier.Message(ctx, NoDueSoon)
			return
		}
	} else {
		matches = a.Find(name)
		if len(matches) == 0 {
			a.notifier.Message(ctx, fmt.Sprintf("No assignment found matching '%s'", name))
			return
		}
	}
	for _, as := range matches {
		a.notifier.Detailed(ctx, as)
	}
}

// Find returns cached assignments whose name contains name, ignoring case.
func (a *App) Find(name string) []canvas.Assignment {
	needle := strings.ToLower(name)
	var out []canvas.Assignment
	for _, as := range a.Assignments() {
		if strings.Contains(strings.ToLower(as.Name), needle) {
			out = append(out, as)
		}
	}
	return out
}

// SendIndividualDetails sends a detailed message for every cached assignment in
// display order, pausing between sends, then a completion summary.
func (a *App) SendIndividualDetails(ctx context.Context) {
	all := a.Assignments()
	if len(all) == 0 {
		a.notifier.Message(ctx, format.AllCaughtUp)
		return
	}

	groups := a.ByUrgency()
	sent := 0
	for _, level := range urgency.DisplayOrder {
		for _, as := range groups[level] {
			if sent > 0 && !sleep(ctx, a.delay) {
				log.Printf("⚠️ Startup details interrupted after %d assignments", sent)
				return
			}
			a.notifier.Detailed(ctx, as)
			sent++
		}
	}
	a.notifier.Message(ctx, format.LoadingComplete(sent, len(all)))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Startup announces the daemon. pingRange is empty when self-ping is off.
func (a *App) Startup(ctx context.Context, pingRange string) {
	n := len(a.Assignments())
	a.notifier.Desktop("Canvas Reminder Started", fmt.Sprintf("Monitoring %d assignments", n))
	a.notifier.Message(ctx, format.Startup(n, pingRange))
}

func (a *App) Shutdown(ctx context.Context) {
	log.Printf("🛑 Shutting down Canvas Reminder daemon...")
	a.notifier.Desktop("Canvas Reminder Stopped", format.ShutdownMessage)
	a.notifier.Message(ctx, format.ShutdownMessage)
}

// Test exercises both notification channels.
func (a *App) Test(ctx context.Context) bool {
	a.notifier.Desktop("Test Notification", "This is a test notification from Canvas Reminder")
	return a.notifier.Message(ctx, format.TestMessage)
}
