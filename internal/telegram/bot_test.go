package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	fail bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fail {
		return tgbotapi.Message{}, errors.New("boom")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type fakeUpdater struct {
	ch      chan tgbotapi.Update
	stopped bool
}

func (f *fakeUpdater) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.ch }
func (f *fakeUpdater) StopReceivingUpdates()                                        { f.stopped = true }

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}}
}

func TestSendText(t *testing.T) {
	fs := &fakeSender{}
	b := &Bot{s: fs, chatID: 77}
	if !b.SendText(context.Background(), "hello") {
		t.Fatalf("expected success")
	}
	if len(fs.sent) != 1 || fs.sent[0].ChatID != 77 || fs.sent[0].Text != "hello" {
		t.Fatalf("unexpected sent: %+v", fs.sent)
	}

	fs.fail = true
	if b.SendText(context.Background(), "x") {
		t.Fatalf("send error must report false")
	}
}

func TestListen_RoutesCommands(t *testing.T) {
	fs := &fakeSender{}
	fu := &fakeUpdater{ch: make(chan tgbotapi.Update, 4)}
	b := &Bot{s: fs, u: fu, chatID: 77}

	fu.ch <- command(77, "/urgent")
	fu.ch <- command(99, "/all")
	fu.ch <- command(77, "/nope")
	fu.ch <- command(77, "/TODAY")
	close(fu.ch)

	var asked []string
	b.Listen(context.Background(), func(_ context.Context, cmd string) string {
		asked = append(asked, cmd)
		return "reply:" + cmd
	})

	if !fu.stopped {
		t.Fatalf("updates not stopped")
	}
	if len(asked) != 2 || asked[0] != CmdUrgent || asked[1] != CmdToday {
		t.Fatalf("unexpected commands: %v", asked)
	}
	if len(fs.sent) != 3 {
		t.Fatalf("want 3 replies, got %d", len(fs.sent))
	}
	if fs.sent[0].Text != "reply:urgent" || fs.sent[1].Text != Help || fs.sent[2].Text != "reply:today" {
		t.Fatalf("unexpected replies: %+v", fs.sent)
	}
}
