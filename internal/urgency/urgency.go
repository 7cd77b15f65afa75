package urgency

import "time"

// Level is a discrete bucket derived from the time left until a due date.
type Level string

const (
	NoDate   Level = "no_date"
	Overdue  Level = "overdue"
	Critical Level = "critical"
	Urgent   Level = "urgent"
	Today    Level = "today"
	Tomorrow Level = "tomorrow"
	ThisWeek Level = "this_week"
	Upcoming Level = "upcoming"
)

// DisplayOrder is the order groups are rendered in. Overdue and no_date are never displayed.
var DisplayOrder = []Level{Critical, Urgent, Today, Tomorrow, ThisWeek, Upcoming}

// Classify maps a due time to a level. Buckets are half-open: exactly one hour left is Urgent.
func Classify(due *time.Time, now time.Time) Level {
	if due == nil {
		return NoDate
	}
	hours := due.Sub(now).Hours()
	switch {
	case hours < 0:
		return Overdue
	case hours < 1:
		return Critical
	case hours < 6:
		return Urgent
	case hours < 24:
		return Today
	case hours < 48:
		return Tomorrow
	case hours < 168:
		return ThisWeek
	default:
		return Upcoming
	}
}

// Visual returns the icon and label used when a single item's urgency is shown inline.
func Visual(l Level) (string, string) {
	switch l {
	case Overdue:
		return "❗", "Overdue"
	case Critical:
		return "🚨", "Critical (Due < 1h)"
	case Urgent:
		return "⚠️", "Urgent (Due < 6h)"
	case Today:
		return "🔥", "Due Today"
	case Tomorrow:
		return "⏰", "Due Tomorrow"
	case ThisWeek:
		return "📅", "Due This Week"
	case Upcoming:
		return "📋", "Upcoming"
	default:
		return "❓", "Unknown"
	}
}

// Group buckets items by level, preserving input order inside each bucket.
func Group[T any](items []T, levelOf func(T) Level) map[Level][]T {
	out := make(map[Level][]T)
	for _, it := range items {
		l := levelOf(it)
		out[l] = append(out[l], it)
	}
	return out
}
