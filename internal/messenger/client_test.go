package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type captured struct {
	token string
	body  map[string]any
}

func graphServer(t *testing.T, status int, reply string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/me/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		got.token = r.URL.Query().Get("access_token")
		got.body = nil
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendText(t *testing.T) {
	var got captured
	srv := graphServer(t, http.StatusOK, `{"recipient_id":"r1","message_id":"m1"}`, &got)
	c := NewClient("page-token", "r1", srv.URL+"/")

	if !c.SendText(context.Background(), "hello") {
		t.Fatalf("expected success")
	}
	if got.token != "page-token" {
		t.Fatalf("token not passed: %q", got.token)
	}
	if got.body["messaging_type"] != "MESSAGE_TAG" || got.body["tag"] != "ACCOUNT_UPDATE" {
		t.Fatalf("unexpected envelope: %v", got.body)
	}
	if got.body["recipient"].(map[string]any)["id"] != "r1" {
		t.Fatalf("unexpected recipient: %v", got.body["recipient"])
	}
	if got.body["message"].(map[string]any)["text"] != "hello" {
		t.Fatalf("unexpected message: %v", got.body["message"])
	}
}

func TestSendText_Failures(t *testing.T) {
	cases := map[string]struct {
		status int
		reply  string
	}{
		"no message id": {http.StatusOK, `{"error":"nope"}`},
		"http error":    {http.StatusBadRequest, `{"error":{"message":"bad"}}`},
		"bad json":      {http.StatusOK, `not json`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got captured
			srv := graphServer(t, tc.status, tc.reply, &got)
			if NewClient("tok", "r1", srv.URL).SendText(context.Background(), "x") {
				t.Fatalf("expected failure")
			}
		})
	}
}

func TestSendText_NotConfigured(t *testing.T) {
	c := NewClient("", "r1", "http://127.0.0.1:0")
	if c.Configured() || c.SendText(context.Background(), "x") {
		t.Fatalf("unconfigured client must not send")
	}
}

func TestSendQuickReplies(t *testing.T) {
	var got captured
	srv := graphServer(t, http.StatusOK, `{"message_id":"m2"}`, &got)
	c := NewClient("tok", "", srv.URL)

	if !c.SendQuickReplies(context.Background(), "sender", "What would you like to do?", MainMenu()) {
		t.Fatalf("expected success")
	}
	if got.body["messaging_type"] != "RESPONSE" {
		t.Fatalf("want RESPONSE, got %v", got.body["messaging_type"])
	}
	if _, ok := got.body["tag"]; ok {
		t.Fatalf("responses carry no tag")
	}
	msg := got.body["message"].(map[string]any)
	replies := msg["quick_replies"].([]any)
	if len(replies) != 4 {
		t.Fatalf("want 4 quick replies, got %d", len(replies))
	}
	if replies[3].(map[string]any)["payload"] != PayloadAddEvent {
		t.Fatalf("unexpected last reply: %v", replies[3])
	}

	if !c.SendQuickReplies(context.Background(), "sender", "prompt", nil) {
		t.Fatalf("expected success")
	}
	if _, ok := got.body["message"].(map[string]any)["quick_replies"]; ok {
		t.Fatalf("empty replies must be omitted")
	}
}
