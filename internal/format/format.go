// Package format renders assignments and events as chat and console text.
// Every function here is pure: the clock and display zone are fixed on the Formatter.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/urgency"
)

const (
	// AllCaughtUp is sent when there is nothing upcoming at all.
	AllCaughtUp = "📚 NO UPCOMING ASSIGNMENTS\n\nYou're all caught up! 🎉"
	// NothingDueSoon is the empty-state summary.
	NothingDueSoon = "🎉 NO ASSIGNMENTS DUE SOON!\n\nYou're all caught up! 😊"
)

type groupStyle struct {
	summary string // takes the group size
	list    string // takes the group size
	console string
}

var styles = map[urgency.Level]groupStyle{
	urgency.Critical: {"🚨 CRITICAL (Due < 1 hour): %d", "🚨 CRITICAL - DUE < 1 HOUR (%d)", "🚨 CRITICAL - DUE WITHIN 1 HOUR"},
	urgency.Urgent:   {"⚠️ URGENT (Due < 6 hours): %d", "⚠️ URGENT - DUE < 6 HOURS (%d)", "⚠️ URGENT - DUE WITHIN 6 HOURS"},
	urgency.Today:    {"🔥 DUE TODAY: %d", "🔥 DUE TODAY (%d)", "🔥 DUE TODAY"},
	urgency.Tomorrow: {"⏰ DUE TOMORROW: %d", "⏰ DUE TOMORROW (%d)", "⏰ DUE TOMORROW"},
	urgency.ThisWeek: {"📅 DUE THIS WEEK: %d", "📅 DUE THIS WEEK (%d)", "📅 DUE THIS WEEK"},
	urgency.Upcoming: {"📋 UPCOMING: %d", "📋 UPCOMING (%d)", "📋 UPCOMING ASSIGNMENTS"},
}

// Formatter renders text relative to a fixed instant in a fixed display zone.
type Formatter struct {
	Now time.Time
	Loc *time.Location
}

func New(now time.Time, loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{Now: now, Loc: loc}
}

// Level classifies a relative to the formatter's clock.
func (f Formatter) Level(a canvas.Assignment) urgency.Level {
	return urgency.Classify(a.DueAt, f.Now)
}

// displayLevel folds the two levels without a display group into the nearest one,
// so a rendered list never drops an assignment that went overdue after it was fetched.
func (f Formatter) displayLevel(a canvas.Assignment) urgency.Level {
	switch l := f.Level(a); l {
	case urgency.Overdue:
		return urgency.Critical
	case urgency.NoDate:
		return urgency.Upcoming
	default:
		return l
	}
}

// Groups buckets assignments for display; only DisplayOrder keys are populated.
func (f Formatter) Groups(as []canvas.Assignment) map[urgency.Level][]canvas.Assignment {
	return urgency.Group(as, f.displayLevel)
}

// left is clamped at zero for items folded into Critical after their due time.
func (f Formatter) left(a canvas.Assignment) time.Duration {
	return max(a.DueAt.Sub(f.Now), 0)
}

func (f Formatter) hoursLeft(a canvas.Assignment) float64 {
	return f.left(a).Hours()
}

func (f Formatter) minutesLeft(a canvas.Assignment) int {
	return int(f.left(a).Minutes())
}

// Summary is the compact digest sent by the daily schedule.
func (f Formatter) Summary(as []canvas.Assignment) string {
	if len(as) == 0 {
		return NothingDueSoon
	}
	groups := f.Groups(as)

	var b strings.Builder
	fmt.Fprintf(&b, "📚 CANVAS ASSIGNMENTS SUMMARY\n%s\n\n", strings.Repeat("=", 35))
	fmt.Fprintf(&b, "Total upcoming assignments: %d\n\n", len(as))

	for _, level := range urgency.DisplayOrder {
		group := groups[level]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, styles[level].summary+"\n", len(group))
		for _, a := range group {
			due := "No due date"
			if a.DueAt != nil {
				local := a.DueAt.In(f.Loc)
				switch level {
				case urgency.Critical, urgency.Urgent:
					due = fmt.Sprintf("%.1fh", f.hoursLeft(a))
				case urgency.Today, urgency.Tomorrow:
					due = local.Format("15:04")
				default:
					due = local.Format("01/02 15:04")
				}
			}
			fmt.Fprintf(&b, "  • %s\n", Truncate(a.Name, 40))
			fmt.Fprintf(&b, "    📖 %s\n", Truncate(a.CourseName, 30))
			fmt.Fprintf(&b, "    ⏰ %s | 🎯 %s\n\n", due, shortPoints(a))
		}
	}
	b.WriteString("Use 'list' command to see full details and links.")
	return b.String()
}

// AllList is the long chat listing of every cached assignment.
func (f Formatter) AllList(as []canvas.Assignment) string {
	if len(as) == 0 {
		return AllCaughtUp
	}
	groups := f.Groups(as)

	var b strings.Builder
	fmt.Fprintf(&b, "📚 ALL UPCOMING ASSIGNMENTS\n%s\n\n", strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Total: %d assignments\n\n", len(as))

	for _, level := range urgency.DisplayOrder {
		group := groups[level]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, styles[level].list+"\n", len(group))
		b.WriteString(strings.Repeat("─", 40) + "\n")

		for i, a := range group {
			due := "No due date"
			if a.DueAt != nil {
				clock := a.DueAt.In(f.Loc).Format("15:04")
				switch level {
				case urgency.Critical, urgency.Urgent:
					if h := f.hoursLeft(a); h < 1 {
						due = fmt.Sprintf("%dmin - %s", f.minutesLeft(a), clock)
					} else {
						due = fmt.Sprintf("%.1fh - %s", h, clock)
					}
				case urgency.Today, urgency.Tomorrow:
					due = clock
				default:
					due = a.DueAt.In(f.Loc).Format("01/02 15:04")
				}
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, Truncate(a.Name, 35))
			fmt.Fprintf(&b, "   📖 %s\n", Truncate(a.CourseName, 25))
			fmt.Fprintf(&b, "   ⏰ %s | 🎯 %s\n", due, shortPoints(a))
			fmt.Fprintf(&b, "   🔗 %s\n\n", a.HTMLURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Detailed is the one-assignment message with a tone that follows its urgency.
func (f Formatter) Detailed(a canvas.Assignment) string {
	icon, due := f.detailedDue(a)

	var b strings.Builder
	fmt.Fprintf(&b, "%s *CANVAS ASSIGNMENT DETAILS*\n%s\n\n", icon, strings.Repeat("=", 40))
	fmt.Fprintf(&b, "📝 ASSIGNMENT: %s\n", a.Name)
	fmt.Fprintf(&b, "🏫 COURSE: %s\n", a.CourseName)
	fmt.Fprintf(&b, "⏰ DUE: %s\n", due)
	fmt.Fprintf(&b, "🎯 POINTS: %s\n", longPoints(a))
	if len(a.SubmissionTypes) > 0 {
		fmt.Fprintf(&b, "📤 Submission: %s\n", SubmissionTypes(a.SubmissionTypes))
	}
	fmt.Fprintf(&b, "🔗 LINK: %s\n\n", a.HTMLURL)
	fmt.Fprintf(&b, "Assignment ID: %d", a.ID)
	return b.String()
}

func (f Formatter) detailedDue(a canvas.Assignment) (string, string) {
	if a.DueAt == nil {
		return "📅", "No due date"
	}
	local := a.DueAt.In(f.Loc)
	hours := f.hoursLeft(a)
	days := int(math.Floor(hours / 24))
	switch f.Level(a) {
	case urgency.Overdue:
		return "❗", "OVERDUE since " + local.Format("15:04")
	case urgency.Critical:
		return "🚨", fmt.Sprintf("DUE IN %d MINUTES!", f.minutesLeft(a))
	case urgency.Urgent:
		return "⚠️", fmt.Sprintf("DUE IN %d HOURS - %s", int(hours), local.Format("15:04"))
	case urgency.Today:
		return "🔥", "DUE TODAY at " + local.Format("15:04")
	case urgency.Tomorrow:
		return "⏰", "DUE TOMORROW at " + local.Format("15:04")
	}
	when := local.Format("Monday, January 02 at 15:04")
	if days <= 7 {
		return "📅", fmt.Sprintf("Due %s (%d days)", when, days)
	}
	return "📅", "Due " + when
}

// DueOn reports whether a is due on the calendar day of day in the formatter's zone.
func (f Formatter) DueOn(a canvas.Assignment, day time.Time) bool {
	if a.DueAt == nil {
		return false
	}
	y, m, d := day.In(f.Loc).Date()
	ay, am, ad := a.DueAt.In(f.Loc).Date()
	return y == ay && m == am && d == ad
}

// Truncate cuts s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// SubmissionTypes renders Canvas tags like "online_upload" as "Online Upload".
func SubmissionTypes(types []string) string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, titleWords(strings.ReplaceAll(t, "_", " ")))
	}
	return strings.Join(out, ", ")
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func points(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func shortPoints(a canvas.Assignment) string {
	if !a.HasPoints() {
		return "No pts"
	}
	return points(*a.PointsPossible) + "pts"
}

func longPoints(a canvas.Assignment) string {
	if !a.HasPoints() {
		return "No points specified"
	}
	return points(*a.PointsPossible) + " points"
}
