package reminder

import (
	"context"
	"time"
)

// UrgentText answers the "urgent tasks" menu action from the cache.
func (a *App) UrgentText() string {
	due := a.DueWithin(6 * time.Hour)
	if len(due) == 0 {
		return NoUrgentTasks
	}
	return a.formatter().Summary(due)
}

// TodaysText refreshes and lists today's assignments and user events.
func (a *App) TodaysText(ctx context.Context) string {
	a.Update(ctx)
	f := a.formatter()
	return f.TodaysTasks(a.Assignments(), a.events.On(f.Now, a.loc))
}

// AllText refreshes and renders the full grouped listing.
func (a *App) AllText(ctx context.Context) string {
	a.Update(ctx)
	return a.formatter().AllList(a.Assignments())
}

// Reply answers a chat command ("urgent", "today", "all").
func (a *App) Reply(ctx context.Context, command string) string {
	switch command {
	case "urgent":
		return a.UrgentText()
	case "today":
		return a.TodaysText(ctx)
	case "all":
		return a.AllText(ctx)
	default:
		return "Unknown command: " + command
	}
}
