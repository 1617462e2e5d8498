package support

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"smm-storefront/internal/session"
)

var ErrInvalidTicket = errors.New("invalid support ticket")

// TicketError names the offending field of a rejected ticket.
type TicketError struct {
	Field  string
	Reason string
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *TicketError) Is(target error) bool {
	return target == ErrInvalidTicket
}

type Service struct {
	storage  Storage
	users    Users
	notifier Notifier
	logger   *slog.Logger
}

func NewService(storage Storage, users Users, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit stores a ticket and forwards it to the support chat. The ticket is
// kept even when the chat cannot be reached.
func (s *Service) Submit(ctx context.Context, sess session.Session, req TicketRequest) (*Ticket, error) {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if err := validate(subject, message); err != nil {
		return nil, err
	}

	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	ticket, err := s.storage.CreateTicket(ctx, Ticket{
		Username: user.Username,
		Subject:  subject,
		Message:  message,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create ticket")
	}

	s.logger.Info("Support ticket created", "ticket_id", ticket.ID, "username", ticket.Username)

	if s.notifier != nil {
		text := fmt.Sprintf("Support ticket #%d from %s\n%s\n\n%s", ticket.ID, ticket.Username, ticket.Subject, ticket.Message)
		if err := s.notifier.Notify(ctx, text); err != nil {
			s.logger.Warn("Failed to forward support ticket", "error", err, "ticket_id", ticket.ID)
		}
	}
	return ticket, nil
}

// List returns the customer's latest tickets.
func (s *Service) List(ctx context.Context, sess session.Session) ([]*Ticket, error) {
	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	tickets, err := s.storage.ListTickets(ctx, ListCriteria{Username: &user.Username, Limit: 20})
	if err != nil {
		return nil, errors.Wrap(err, "list tickets")
	}
	return tickets, nil
}

func validate(subject, message string) error {
	switch {
	case subject == "":
		return &TicketError{Field: "subject", Reason: "required"}
	case utf8.RuneCountInString(subject) > MaxSubjectLen:
		return &TicketError{Field: "subject", Reason: fmt.Sprintf("longer than %d characters", MaxSubjectLen)}
	case message == "":
		return &TicketError{Field: "message", Reason: "required"}
	case utf8.RuneCountInString(message) > MaxMessageLen:
		return &TicketError{Field: "message", Reason: fmt.Sprintf("longer than %d characters", MaxMessageLen)}
	}
	return nil
}
