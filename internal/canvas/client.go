package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	perPage  = "100"
	maxPages = 50
)

// Client is a read-only Canvas LMS REST client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client that authenticates every request with the given bearer token.
func NewClient(baseURL, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = 30 * time.Second
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// GetCourses returns the user's active courses. Errors are logged and yield an empty list.
func (c *Client) GetCourses(ctx context.Context) []Course {
	q := url.Values{}
	q.Set("enrollment_state", "active")
	q.Set("per_page", perPage)

	var courses []Course
	if err := fetchAll(ctx, c, c.baseURL+"/courses?"+q.Encode(), &courses); err != nil {
		log.Printf("❌ Failed to fetch courses: %v", err)
		return []Course{}
	}
	return courses
}

// GetAssignments returns the raw assignments of one course. Errors are logged and yield an empty list.
func (c *Client) GetAssignments(ctx context.Context, course Course) []Assignment {
	q := url.Values{}
	q.Set("per_page", perPage)
	q.Set("order_by", "due_at")

	var raw []apiAssignment
	u := fmt.Sprintf("%s/courses/%d/assignments?%s", c.baseURL, course.ID, q.Encode())
	if err := fetchAll(ctx, c, u, &raw); err != nil {
		log.Printf("❌ Failed to fetch assignments for course %d: %v", course.ID, err)
		return []Assignment{}
	}
	out := make([]Assignment, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.toAssignment(course))
	}
	return out
}

// UpcomingAssignments collects assignments from every active course that are due after now,
// sorted by due time ascending.
func (c *Client) UpcomingAssignments(ctx context.Context, now time.Time) []Assignment {
	var out []Assignment
	for _, course := range c.GetCourses(ctx) {
		for _, a := range c.GetAssignments(ctx, course) {
			if a.DueAt == nil || !a.DueAt.After(now) {
				continue
			}
			out = append(out, a)
		}
	}
	SortByDue(out)
	return out
}

// SortByDue orders assignments by due time, placing those without one last.
func SortByDue(as []Assignment) {
	sort.SliceStable(as, func(i, j int) bool {
		a, b := as[i].DueAt, as[j].DueAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// fetchAll walks Link rel="next" pages, appending each page's JSON array into out.
func fetchAll[T any](ctx context.Context, c *Client, u string, out *[]T) error {
	for page := 0; u != "" && page < maxPages; page++ {
		var items []T
		next, err := c.getJSON(ctx, u, &items)
		if err != nil {
			return err
		}
		*out = append(*out, items...)
		u = next
	}
	if u != "" {
		log.Printf("⚠️ Stopped paging after %d pages, skipping %s", maxPages, u)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("canvas api %s: status %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return "", fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nextLink(resp.Header.Get("Link")), nil
}

// nextLink extracts the rel="next" URL from an RFC 5988 Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.TrimSpace(segs[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, p := range segs[1:] {
			if strings.TrimSpace(p) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
