package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const advisorPrompt = "You are a concise study coach. Given a student's upcoming assignment digest, " +
	"reply with one practical study tip in at most two sentences. Plain text, no markdown."

// Advisor turns an assignment digest into a short study tip.
type Advisor struct {
	client Client
}

func NewAdvisor(c Client) *Advisor {
	return &Advisor{client: c}
}

// StudyTip returns a tip for the digest, or an error the caller is expected to ignore.
func (a *Advisor) StudyTip(ctx context.Context, digest string) (string, error) {
	if a == nil || a.client == nil {
		return "", fmt.Errorf("study tips disabled")
	}
	resp, err := a.client.Generate(ctx, []Message{
		{Role: "system", Content: advisorPrompt},
		{Role: "user", Content: digest},
	})
	if err != nil {
		return "", err
	}
	tip := strings.TrimSpace(resp.Content)
	if tip == "" {
		return "", fmt.Errorf("empty study tip")
	}
	log.Printf("💡 Study tip generated [model=%s, tokens=%d]", resp.Model, resp.TotalTokens)
	return tip, nil
}
