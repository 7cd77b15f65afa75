// Package telegram mirrors reminders into a Telegram chat and answers a few
// read-only commands there.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands answered by Listen.
const (
	CmdUrgent = "urgent"
	CmdAll    = "all"
	CmdToday  = "today"
)

// Responder produces the reply text for a command.
type Responder func(ctx context.Context, command string) string

type Bot struct {
	s      sender
	u      updater
	chatID int64
}

func New(botToken string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	log.Printf("✅ Telegram bot authorized as @%s", api.Self.UserName)
	return &Bot{s: api, u: api, chatID: chatID}, nil
}

// SendText posts text to the configured chat.
func (b *Bot) SendText(_ context.Context, text string) bool {
	return b.send(b.chatID, text)
}

func (b *Bot) send(chatID int64, text string) bool {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("❌ Failed to send Telegram message: %v", err)
		return false
	}
	return true
}

// Listen answers commands from the configured chat until ctx is done.
// Messages from other chats are ignored.
func (b *Bot) Listen(ctx context.Context, respond Responder) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.u.GetUpdatesChan(u)
	defer b.u.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handle(ctx, update, respond)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update, respond Responder) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.Chat.ID != b.chatID {
		log.Printf("⚠️ Ignoring Telegram message from chat %d", msg.Chat.ID)
		return
	}
	if !msg.IsCommand() {
		b.send(msg.Chat.ID, Help)
		return
	}
	cmd := strings.ToLower(msg.Command())
	switch cmd {
	case CmdUrgent, CmdAll, CmdToday:
		b.send(msg.Chat.ID, respond(ctx, cmd))
	default:
		b.send(msg.Chat.ID, Help)
	}
}

const Help = "Commands:\n/urgent - assignments due within 6 hours\n/today - today's tasks\n/all - every upcoming assignment"
