// Package messenger pushes text to a Facebook page conversation through the Graph API.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultGraphURL = "https://graph.facebook.com/v18.0"

// QuickReply is one tappable button under a message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// Menu payloads understood by the webhook.
const (
	PayloadUrgentTasks = "URGENT_TASKS"
	PayloadAllTasks    = "ALL_TASKS"
	PayloadTodaysTasks = "GET_TODAYS_TASKS"
	PayloadAddEvent    = "ADD_EVENT"
)

func MainMenu() []QuickReply {
	return []QuickReply{
		{ContentType: "text", Title: "Give Urgent Tasks", Payload: PayloadUrgentTasks},
		{ContentType: "text", Title: "Get All Tasks", Payload: PayloadAllTasks},
		{ContentType: "text", Title: "Get Today's Tasks", Payload: PayloadTodaysTasks},
		{ContentType: "text", Title: "Add Event", Payload: PayloadAddEvent},
	}
}

type Client struct {
	pageToken   string
	recipientID string
	graphURL    string
	http        *http.Client
}

func NewClient(pageToken, recipientID, graphURL string) *Client {
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	c := &Client{
		pageToken:   pageToken,
		recipientID: recipientID,
		graphURL:    strings.TrimRight(graphURL, "/"),
		http:        &http.Client{Timeout: 30 * time.Second},
	}
	if !c.Configured() {
		log.Printf("⚠️ Facebook Messenger not configured, messages will not be sent")
	}
	return c
}

// Configured reports whether both the page token and the default recipient are set.
func (c *Client) Configured() bool {
	return c.pageToken != "" && c.recipientID != ""
}

type recipient struct {
	ID string `json:"id"`
}

type message struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

type sendRequest struct {
	Recipient     recipient `json:"recipient"`
	Message       message   `json:"message"`
	MessagingType string    `json:"messaging_type"`
	Tag           string    `json:"tag,omitempty"`
}

type sendResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

// SendText pushes an unsolicited update to the configured recipient.
func (c *Client) SendText(ctx context.Context, text string) bool {
	if !c.Configured() {
		log.Printf("⚠️ Facebook Messenger not configured")
		return false
	}
	id, err := c.send(ctx, sendRequest{
		Recipient:     recipient{ID: c.recipientID},
		Message:       message{Text: text},
		MessagingType: "MESSAGE_TAG",
		Tag:           "ACCOUNT_UPDATE",
	})
	if err != nil {
		log.Printf("❌ Failed to send Facebook message: %v", err)
		return false
	}
	log.Printf("✅ Facebook message sent: %s", id)
	return true
}

// SendQuickReplies answers a sender with text and optional quick replies.
func (c *Client) SendQuickReplies(ctx context.Context, recipientID, text string, replies []QuickReply) bool {
	if c.pageToken == "" {
		log.Printf("⚠️ Facebook page token not set, reply to %s dropped", recipientID)
		return false
	}
	req := sendRequest{
		Recipient:     recipient{ID: recipientID},
		Message:       message{Text: text},
		MessagingType: "RESPONSE",
	}
	if len(replies) > 0 {
		req.Message.QuickReplies = replies
	}
	id, err := c.send(ctx, req)
	if err != nil {
		log.Printf("❌ Failed to send quick replies to %s: %v", recipientID, err)
		return false
	}
	log.Printf("💬 Quick replies sent to %s: %s", recipientID, id)
	return true
}

func (c *Client) send(ctx context.Context, payload sendRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	endpoint := c.graphURL + "/me/messages?access_token=" + url.QueryEscape(c.pageToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("graph api status %d: %s", resp.StatusCode, string(raw))
	}
	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.MessageID == "" {
		return "", fmt.Errorf("no message_id in response: %s", string(raw))
	}
	return out.MessageID, nil
}
