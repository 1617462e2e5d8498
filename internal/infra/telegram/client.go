package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Sender is the part of the bot API the client needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client posts staff notifications (support tickets, approved deposits) to
// the configured Telegram chats.
type Client struct {
	api     Sender
	chatIDs []int64
	logger  *slog.Logger
	limiter *rate.Limiter
}

func NewClient(token string, chatIDs []int64, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return NewClientWithSender(bot, chatIDs, logger), nil
}

func NewClientWithSender(api Sender, chatIDs []int64, logger *slog.Logger) *Client {
	return &Client{
		api:     api,
		chatIDs: chatIDs,
		logger:  logger,
		// 30 messages per second is the bot API global limit
		limiter: rate.NewLimiter(30, 1),
	}
}

// SendMessage sends text to one chat, waiting for the rate limiter.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("Failed to send telegram message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()))
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Notify sends text to every configured chat. A failure for one chat does not
// stop delivery to the others.
func (c *Client) Notify(ctx context.Context, text string) error {
	var errs []error
	for _, id := range c.chatIDs {
		if err := c.SendMessage(ctx, id, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
