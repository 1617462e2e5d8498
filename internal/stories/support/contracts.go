package support

import (
	"context"

	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/users"
)

type (
	Storage interface {
		CreateTicket(ctx context.Context, ticket Ticket) (*Ticket, error)
		ListTickets(ctx context.Context, criteria ListCriteria) ([]*Ticket, error)
	}

	Users interface {
		Detail(ctx context.Context, sess session.Session) (*users.User, error)
	}

	Notifier interface {
		Notify(ctx context.Context, text string) error
	}
)
