package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderNone   LLMProvider = ""
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// Canvas LMS
	CanvasAPIToken string `env:"CANVAS_API_TOKEN" envDefault:"your-default-token"`
	CanvasBaseURL  string `env:"CANVAS_BASE_URL" envDefault:"https://dlsu.instructure.com/api/v1"`

	// Facebook Messenger
	FacebookPageAccessToken string `env:"FACEBOOK_PAGE_ACCESS_TOKEN" envDefault:"your-default-token"`
	FacebookRecipientID     string `env:"FACEBOOK_RECIPIENT_ID" envDefault:"your-default-recipient-id"`
	FacebookVerifyToken     string `env:"FACEBOOK_VERIFY_TOKEN" envDefault:"your-default-verify-token"`
	FacebookAppSecret       string `env:"FACEBOOK_APP_SECRET"`
	FacebookGraphURL        string `env:"FACEBOOK_GRAPH_URL" envDefault:"https://graph.facebook.com/v18.0"`

	// Telegram (optional second chat sink)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`

	// Web mode
	Port int `env:"PORT" envDefault:"10000"`

	// Self-ping keeps free-tier hosts awake
	SelfPingURL         string `env:"SELF_PING_URL"`
	SelfPingIntervalMin int    `env:"SELF_PING_INTERVAL_MIN" envDefault:"10"`
	SelfPingIntervalMax int    `env:"SELF_PING_INTERVAL_MAX" envDefault:"14"`

	// Behaviour
	Timezone             string        `env:"TIMEZONE" envDefault:"Local"`
	DesktopNotifications bool          `env:"DESKTOP_NOTIFICATIONS" envDefault:"true"`
	ConversationTTL      time.Duration `env:"CONVERSATION_TTL" envDefault:"30m"`
	StartupDetailsDelay  time.Duration `env:"STARTUP_DETAILS_DELAY" envDefault:"1s"`

	// Logging
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/canvas_reminder.log"`
	// Outbound message journal (JSON lines); empty disables it
	DeliveryLogPath string `env:"DELIVERY_LOG_PATH"`

	// Study tips (optional)
	LLMProvider      LLMProvider `env:"LLM_PROVIDER"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Google Calendar export of user events (optional)
	GoogleCalendarCredentialsJSON string `env:"GOOGLE_CALENDAR_CREDENTIALS_JSON"`
	GoogleCalendarRefreshToken    string `env:"GOOGLE_CALENDAR_REFRESH_TOKEN"`
	GoogleCalendarID              string `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the config from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.SelfPingIntervalMax < cfg.SelfPingIntervalMin {
		cfg.SelfPingIntervalMax = cfg.SelfPingIntervalMin
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("⚠️ Unknown TIMEZONE %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func (c *Config) CalendarEnabled() bool {
	return c.GoogleCalendarCredentialsJSON != "" && c.GoogleCalendarRefreshToken != ""
}
