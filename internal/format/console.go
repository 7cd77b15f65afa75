package format

import (
	"fmt"
	"io"
	"strings"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/urgency"
)

// Console writes the detailed terminal listing used by the `list` command.
func (f Formatter) Console(w io.Writer, as []canvas.Assignment) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nDETAILED CANVAS ASSIGNMENTS\n%s\n", rule, rule)

	if len(as) == 0 {
		fmt.Fprintln(w, "No upcoming assignments found.")
		return
	}

	groups := f.Groups(as)
	for _, level := range urgency.DisplayOrder {
		group := groups[level]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, styles[level].console, rule)

		for i, a := range group {
			fmt.Fprintf(w, "\n%d. %s\n", i+1, a.Name)
			fmt.Fprintf(w, "   Course: %s\n", a.CourseName)
			fmt.Fprintf(w, "   Due: %s\n", f.consoleDue(a))
			fmt.Fprintf(w, "   Points: %s\n", longPoints(a))
			if len(a.SubmissionTypes) > 0 {
				fmt.Fprintf(w, "   Submission Types: %s\n", SubmissionTypes(a.SubmissionTypes))
			}
			fmt.Fprintf(w, "   URL: %s\n", a.HTMLURL)
			fmt.Fprintf(w, "   Assignment ID: %d\n", a.ID)
		}
	}

	fmt.Fprintf(w, "\n%s\nTotal assignments: %d\n", rule, len(as))
}

func (f Formatter) consoleDue(a canvas.Assignment) string {
	if a.DueAt == nil {
		return "No due date"
	}
	due := a.DueAt.In(f.Loc).Format("Monday, January 02, 2006 at 15:04")
	left := a.DueAt.Sub(f.Now)
	if left <= 0 {
		return due
	}
	hours := left.Hours()
	switch {
	case hours < 1:
		return fmt.Sprintf("%s (%d minutes remaining)", due, int(left.Minutes()))
	case hours < 24:
		return fmt.Sprintf("%s (%.1f hours remaining)", due, hours)
	default:
		return fmt.Sprintf("%s (%d days remaining)", due, int(hours/24))
	}
}
