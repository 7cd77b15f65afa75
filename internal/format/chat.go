package format

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/events"
	"canvas-reminder/internal/urgency"
)

// Icons decorate the per-assignment task cards.
var Icons = []string{
	"📚", "📝", "💡", "🎯", "📖", "🧠", "✨", "🚀", "🎓", "🔔", "📅", "🕒", "🔬", "💻", "🎨", "🏆", "🧮", "🏛️", "💼", "🤝", "🏃",
}

func RandomIcon() string {
	return Icons[rand.IntN(len(Icons))]
}

// TaskCard is the boxed single-assignment card sent by the "all tasks" menu action.
func (f Formatter) TaskCard(a canvas.Assignment, icon string) string {
	due := "No due date"
	if a.DueAt != nil {
		due = a.DueAt.In(f.Loc).Format("2006-01-02 15:04")
	}
	pts := "N/A"
	if a.HasPoints() {
		pts = points(*a.PointsPossible)
	}
	title := fmt.Sprintf("|Title: %s|", a.Name)
	border := strings.Repeat("-", utf8.RuneCountInString(title))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n*Course:* _%s_\n*Due:* `%s`\n*Points:* _%s_\n*Link:* `%s`",
		icon, border, title, border, a.CourseName, due, pts, a.HTMLURL)
}

// TodaysTasks lists assignments due today plus the given events, which the caller
// has already narrowed to today.
func (f Formatter) TodaysTasks(as []canvas.Assignment, evs []events.UserEvent) string {
	var today []canvas.Assignment
	for _, a := range as {
		if f.DueOn(a, f.Now) {
			today = append(today, a)
		}
	}

	lines := []string{"📅 *Today's Tasks*\n====================\n"}
	if len(today) == 0 && len(evs) == 0 {
		lines = append(lines, "🎉 No tasks due today! Enjoy your day!")
		return strings.Join(lines, "\n")
	}
	if len(today) > 0 {
		lines = append(lines, "*Canvas Assignments:*\n")
		for _, a := range today {
			lines = append(lines, fmt.Sprintf("- %s (%s)\n  📖 %s\n  🎯 %s\n  🔗 %s\n",
				a.Name, a.DueAt.In(f.Loc).Format("15:04"), a.CourseName, shortPoints(a), a.HTMLURL))
		}
	}
	if len(evs) > 0 {
		lines = append(lines, "*Your Events:*\n")
		for _, e := range evs {
			icon, label := urgency.Visual(e.Urgency)
			lines = append(lines, fmt.Sprintf("- %s %s (%s)\n  %s\n  %s\n  Urgency: %s\n",
				icon, e.Title, e.When, e.Where, e.Description, label))
		}
	}
	return strings.Join(lines, "\n")
}

// EventAdded confirms a newly stored user event.
func EventAdded(e events.UserEvent) string {
	icon, label := urgency.Visual(e.Urgency)
	return fmt.Sprintf("%s Event added!\n\n*Title:* %s\n*When:* %s\n*Where:* %s\n*Description:* %s\n*Urgency:* %s",
		icon, e.Title, e.When, e.Where, e.Description, label)
}

// Startup announces the daemon. pingRange is omitted when self-ping is disabled.
func Startup(monitored int, pingRange string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 CANVAS REMINDER STARTED!\n%s\n\n", strings.Repeat("=", 35))
	fmt.Fprintf(&b, "Now monitoring %d upcoming assignments.\n\n", monitored)
	b.WriteString("Scheduled reminders:\n")
	b.WriteString("📅 Daily summaries: 6AM, 8AM, 12PM, 4PM, 8PM\n")
	b.WriteString("⚠️ Detailed urgents: 7AM, 11AM, 3PM, 7PM\n")
	b.WriteString("🚨 Hourly critical checks\n")
	if pingRange != "" {
		fmt.Fprintf(&b, "💓 Self-ping: Every %s minutes\n", pingRange)
	}
	b.WriteString("\nUse 'once' command to get immediate update!")
	return b.String()
}

const ShutdownMessage = "🛑 Canvas Reminder Stopped\n\nAssignment monitoring has been stopped."

func LoadingComplete(sent, total int) string {
	return fmt.Sprintf("📋 ASSIGNMENT LOADING COMPLETE\n%s\n\n"+
		"✅ Sent details for %d assignments\n"+
		"📚 Total upcoming assignments: %d\n\n"+
		"You should have received individual messages for each assignment above.",
		strings.Repeat("=", 35), sent, total)
}

const TestMessage = "🧪 TEST MESSAGE\n" +
	"========================\n\n" +
	"This confirms Facebook Messenger integration is working!\n\n" +
	"✅ Connection successful\n" +
	"✅ Message delivery confirmed\n" +
	"✅ Ready for assignment reminders"
