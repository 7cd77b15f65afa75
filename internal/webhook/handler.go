package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"canvas-reminder/internal/conversation"
	"canvas-reminder/internal/events"
	"canvas-reminder/internal/format"
	"canvas-reminder/internal/messenger"
)

const (
	MenuPrompt       = "What would you like to do?"
	AddEventPrompt   = "Please provide your event in this format (one per line):\n" + eventFields
	IncompletePrompt = "❗ Please provide all 4 fields, one per line.\nFormat:\n" + eventFields
	NoAssignments    = "No Canvas assignments found!"

	eventFields = "1. Title\n2. When (e.g. 2024-06-30 18:00)\n3. Where\n4. Short description"

	maxBody = 1 << 20
)

type update struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	ID        string           `json:"id"`
	Messaging []messagingEvent `json:"messaging"`
}

type messagingEvent struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Message *inbound `json:"message"`
}

type inbound struct {
	MID        string `json:"mid"`
	Text       string `json:"text"`
	IsEcho     bool   `json:"is_echo"`
	QuickReply *struct {
		Payload string `json:"payload"`
	} `json:"quick_reply"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.verify(w, r)
	case http.MethodPost:
		s.receive(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.opts.VerifyToken {
		log.Printf("✅ Webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, q.Get("hub.challenge"))
		return
	}
	s.stats.verifyFailures.Add(1)
	log.Printf("⚠️ Webhook verification failed")
	http.Error(w, "Verification token mismatch", http.StatusForbidden)
}

func (s *Server) receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	s.stats.received.Add(1)

	if s.opts.AppSecret != "" && !validSignature(s.opts.AppSecret, r.Header.Get("X-Hub-Signature-256"), body) {
		s.stats.badSignatures.Add(1)
		log.Printf("⚠️ Rejected webhook with invalid signature")
		http.Error(w, "Invalid signature", http.StatusForbidden)
		return
	}

	log.Printf("📥 Received webhook: %s", string(body))
	var u update
	if err := json.Unmarshal(body, &u); err != nil {
		log.Printf("❌ Failed to decode webhook: %v", err)
	} else if u.Object == "page" {
		for _, e := range u.Entry {
			for _, ev := range e.Messaging {
				if ev.Message == nil || ev.Message.IsEcho || ev.Sender.ID == "" {
					continue
				}
				s.stats.messages.Add(1)
				s.handleMessage(r.Context(), ev.Sender.ID, ev.Message)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// validSignature checks a "sha256=<hex>" header against the body HMAC.
func validSignature(secret, header string, body []byte) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	want, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}

func (s *Server) reply(ctx context.Context, to, text string, replies []messenger.QuickReply) {
	s.replier.SendQuickReplies(ctx, to, text, replies)
}

func (s *Server) handleMessage(ctx context.Context, sender string, msg *inbound) {
	text := strings.TrimSpace(msg.Text)

	if s.states.Get(sender) == conversation.AwaitingEventInput {
		s.addEvent(ctx, sender, text)
		return
	}

	payload := ""
	if msg.QuickReply != nil {
		payload = msg.QuickReply.Payload
	}
	switch payload {
	case messenger.PayloadUrgentTasks:
		s.reply(ctx, sender, s.tasks.UrgentText(), messenger.MainMenu())
	case messenger.PayloadAllTasks:
		s.sendAllTasks(ctx, sender)
	case messenger.PayloadTodaysTasks:
		s.reply(ctx, sender, s.tasks.TodaysText(ctx), messenger.MainMenu())
	case messenger.PayloadAddEvent:
		s.reply(ctx, sender, AddEventPrompt, nil)
		s.states.Set(sender, conversation.AwaitingEventInput)
	default:
		s.reply(ctx, sender, MenuPrompt, messenger.MainMenu())
	}
}

func (s *Server) addEvent(ctx context.Context, sender, text string) {
	ev, err := events.Parse(text, s.tasks.Now(), s.tasks.Location())
	if err != nil {
		log.Printf("⚠️ Event input from %s rejected: %v", sender, err)
		s.reply(ctx, sender, IncompletePrompt, nil)
		return
	}

	s.tasks.Events().Add(ev)
	s.stats.eventsAdded.Add(1)
	log.Printf("📝 Event %q (%s) added for %s", ev.Title, ev.ID, sender)

	confirm := format.EventAdded(ev)
	if s.exporter != nil {
		if link, err := s.exporter.Export(ctx, ev); err != nil {
			log.Printf("⚠️ Calendar export skipped: %v", err)
		} else if link != "" {
			confirm += "\n\n📅 Added to your calendar: " + link
		}
	}
	s.reply(ctx, sender, confirm, messenger.MainMenu())
	s.states.Reset(sender)
}

func (s *Server) sendAllTasks(ctx context.Context, sender string) {
	s.tasks.Update(ctx)
	as := s.tasks.Assignments()
	if len(as) == 0 {
		s.reply(ctx, sender, NoAssignments, nil)
	}
	f := format.New(s.tasks.Now(), s.tasks.Location())
	for _, a := range as {
		s.reply(ctx, sender, f.TaskCard(a, format.RandomIcon()), nil)
	}
	s.reply(ctx, sender, MenuPrompt, messenger.MainMenu())
}
