package canvas

import (
	"log"
	"time"
)

// Assignment is an upcoming piece of coursework as fetched from Canvas.
// It is never mutated after fetch; urgency and display strings are derived on read.
type Assignment struct {
	ID              int64
	Name            string
	DueAt           *time.Time
	CourseID        int64
	CourseName      string
	HTMLURL         string
	PointsPossible  *float64
	SubmissionTypes []string
	Description     string
}

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// apiAssignment mirrors the subset of the Canvas assignment object we read.
type apiAssignment struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	DueAt           *string  `json:"due_at"`
	HTMLURL         string   `json:"html_url"`
	PointsPossible  *float64 `json:"points_possible"`
	Description     *string  `json:"description"`
	SubmissionTypes []string `json:"submission_types"`
}

// parseDue converts a Canvas ISO-8601 timestamp. Failures are logged and read as "no due date".
func parseDue(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		log.Printf("❌ Failed to parse due date: %s", *raw)
		return nil
	}
	return &t
}

func (a apiAssignment) toAssignment(c Course) Assignment {
	out := Assignment{
		ID:              a.ID,
		Name:            a.Name,
		DueAt:           parseDue(a.DueAt),
		CourseID:        c.ID,
		CourseName:      c.Name,
		HTMLURL:         a.HTMLURL,
		PointsPossible:  a.PointsPossible,
		SubmissionTypes: a.SubmissionTypes,
	}
	if a.Description != nil {
		out.Description = *a.Description
	}
	return out
}

// HasPoints reports whether the assignment carries a non-zero point value.
func (a Assignment) HasPoints() bool {
	return a.PointsPossible != nil && *a.PointsPossible != 0
}
