// Package webhook serves the Messenger webhook plus the health and self-ping endpoints.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/cors"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/conversation"
	"canvas-reminder/internal/events"
	"canvas-reminder/internal/messenger"
	"canvas-reminder/internal/selfping"
)

// Replier answers a Messenger sender.
type Replier interface {
	SendQuickReplies(ctx context.Context, recipientID, text string, replies []messenger.QuickReply) bool
}

// Tasks is the slice of the reminder core the conversation needs.
type Tasks interface {
	Update(ctx context.Context)
	Assignments() []canvas.Assignment
	UrgentText() string
	TodaysText(ctx context.Context) string
	Events() *events.Store
	Location() *time.Location
	Now() time.Time
	LastUpdate() time.Time
}

// Exporter copies a new user event somewhere else, e.g. a calendar.
type Exporter interface {
	Export(ctx context.Context, ev events.UserEvent) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) bool
	Stats() selfping.Stats
}

type Options struct {
	Port        int
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 checks when set.
	AppSecret string
	// SchedulerRunning is reported by /ping/status.
	SchedulerRunning bool
}

type counters struct {
	received       atomic.Int64
	messages       atomic.Int64
	eventsAdded    atomic.Int64
	badSignatures  atomic.Int64
	verifyFailures atomic.Int64
}

type Server struct {
	opts     Options
	tasks    Tasks
	replier  Replier
	states   *conversation.Store
	exporter Exporter
	pinger   Pinger
	server   *http.Server
	started  time.Time
	stats    counters
}

func New(opts Options, tasks Tasks, replier Replier, states *conversation.Store) *Server {
	s := &Server{
		opts:    opts,
		tasks:   tasks,
		replier: replier,
		states:  states,
		started: time.Now(),
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// SetExporter enables exporting of added events; nil disables it.
func (s *Server) SetExporter(e Exporter) { s.exporter = e }

func (s *Server) SetPinger(p Pinger) { s.pinger = p }

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/ping/status", s.handlePingStatus)
	mux.HandleFunc("/ping/trigger", s.handlePingTrigger)
	mux.HandleFunc("/", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Hub-Signature-256"},
	})
	return chainMiddlewares(mux, c.Handler, withLogging)
}

// Start blocks until the server fails or Stop is called.
func (s *Server) Start() error {
	s.server.Handler = s.Handler()
	log.Printf("🌐 Starting web server on :%d", s.opts.Port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := map[string]any{
		"status": "ok",
		"webhook": map[string]int64{
			"received":        s.stats.received.Load(),
			"messages":        s.stats.messages.Load(),
			"events_added":    s.stats.eventsAdded.Load(),
			"bad_signatures":  s.stats.badSignatures.Load(),
			"verify_failures": s.stats.verifyFailures.Load(),
		},
		"conversations": s.states.Len(),
		"last_update":   lastUpdate(s.tasks.LastUpdate()),
		"uptime":        time.Since(s.started).Round(time.Second).String(),
		"timestamp":     time.Now().Format(time.RFC3339),
	}
	if s.pinger != nil {
		resp["self_ping"] = s.pinger.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// lastUpdate is nil until the first refresh.
func lastUpdate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

func (s *Server) handlePingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var st selfping.Stats
	if s.pinger != nil {
		st = s.pinger.Stats()
	}
	jobs := 0
	if st.Active && s.opts.SchedulerRunning {
		jobs = 1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":         st.Active,
		"interval_min":   st.IntervalMin,
		"interval_max":   st.IntervalMax,
		"scheduled_jobs": jobs,
	})
}

func (s *Server) handlePingTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ok := false
	if s.pinger != nil {
		ok = s.pinger.Ping(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ping_triggered",
		"message": "Self-ping executed manually",
		"success": ok,
	})
}
