package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 10000 {
		t.Fatalf("want default port 10000, got %d", cfg.Port)
	}
	if cfg.CanvasBaseURL != "https://dlsu.instructure.com/api/v1" {
		t.Fatalf("unexpected base url: %s", cfg.CanvasBaseURL)
	}
	if cfg.FacebookVerifyToken != "your-default-verify-token" {
		t.Fatalf("unexpected verify token default: %s", cfg.FacebookVerifyToken)
	}
	if cfg.ConversationTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.ConversationTTL)
	}
	if cfg.TelegramEnabled() || cfg.CalendarEnabled() {
		t.Fatalf("optional sinks must be disabled by default")
	}
}

func TestParseOverridesAndIntervalClamp(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CANVAS_API_TOKEN", "secret")
	t.Setenv("SELF_PING_INTERVAL_MIN", "20")
	t.Setenv("SELF_PING_INTERVAL_MAX", "5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 8080 || cfg.CanvasAPIToken != "secret" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SelfPingIntervalMax != 20 {
		t.Fatalf("max interval should be clamped to min, got %d", cfg.SelfPingIntervalMax)
	}
	if !cfg.TelegramEnabled() {
		t.Fatalf("telegram should be enabled")
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("want UTC location, got %v", cfg.Location())
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	if cfg.Location() != time.Local {
		t.Fatalf("want local fallback")
	}
}

// Older .env files still carry FACEBOOK_PAGE_ID; sends go to /me so it is ignored.
func TestParseIgnoresPageID(t *testing.T) {
	t.Setenv("FACEBOOK_PAGE_ID", "123456")
	t.Setenv("FACEBOOK_RECIPIENT_ID", "psid")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.FacebookRecipientID != "psid" {
		t.Fatalf("unexpected recipient: %s", cfg.FacebookRecipientID)
	}
}
