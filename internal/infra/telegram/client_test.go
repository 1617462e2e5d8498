package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent   []int64
	failOn int64
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	if msg.ChatID == f.failOn {
		return tgbotapi.Message{}, errors.New("blocked")
	}
	f.sent = append(f.sent, msg.ChatID)
	return tgbotapi.Message{}, nil
}

func TestNotifyReachesEveryChat(t *testing.T) {
	sender := &fakeSender{failOn: 2}
	c := NewClientWithSender(sender, []int64{1, 2, 3}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Notify(context.Background(), "new ticket")
	if err == nil {
		t.Fatal("Notify() error = nil, want failure for chat 2")
	}
	if len(sender.sent) != 2 || sender.sent[0] != 1 || sender.sent[1] != 3 {
		t.Errorf("sent to %v, want [1 3]", sender.sent)
	}
}
