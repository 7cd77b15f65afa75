// Package selfping requests the service's own public URL so free-tier hosts
// do not idle it out.
package selfping

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

type Stats struct {
	Active      bool      `json:"active"`
	URL         string    `json:"url,omitempty"`
	IntervalMin int       `json:"interval_min"`
	IntervalMax int       `json:"interval_max"`
	Total       int       `json:"total_pings"`
	Failures    int       `json:"failed_pings"`
	LastStatus  int       `json:"last_status,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastPing    time.Time `json:"last_ping,omitempty"`
}

type Pinger struct {
	url  string
	http *http.Client
	now  func() time.Time

	mu    sync.Mutex
	stats Stats
}

// New returns a pinger; an empty url leaves it inactive.
func New(url string, intervalMin, intervalMax int) *Pinger {
	return &Pinger{
		url:  url,
		http: &http.Client{Timeout: 30 * time.Second},
		now:  time.Now,
		stats: Stats{
			Active:      url != "",
			URL:         url,
			IntervalMin: intervalMin,
			IntervalMax: intervalMax,
		},
	}
}

func (p *Pinger) Active() bool { return p.url != "" }

// Range renders the interval bounds, e.g. "10-14".
func (p *Pinger) Range() string {
	if !p.Active() {
		return ""
	}
	return fmt.Sprintf("%d-%d", p.stats.IntervalMin, p.stats.IntervalMax)
}

// Ping requests the URL once and records the outcome.
func (p *Pinger) Ping(ctx context.Context) bool {
	if !p.Active() {
		log.Printf("⚠️ Self-ping skipped: SELF_PING_URL not set")
		return false
	}
	status, err := p.get(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Total++
	p.stats.LastPing = p.now()
	p.stats.LastStatus = status
	p.stats.LastError = ""
	if err != nil {
		p.stats.Failures++
		p.stats.LastError = err.Error()
		log.Printf("❌ Self-ping failed: %v", err)
		return false
	}
	log.Printf("💓 Self-ping ok (%d)", status)
	return true
}

func (p *Pinger) get(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "canvas-reminder-selfping/1.0")
	resp, err := p.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (p *Pinger) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
