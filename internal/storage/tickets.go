package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"smm-storefront/internal/stories/support"
)

const ticketsTable = "support_tickets"

var ticketRowFields = fields(ticketRow{})

type ticketRow struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Subject   string    `db:"subject"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

func (t ticketRow) ToModel() *support.Ticket {
	return &support.Ticket{
		ID:        t.ID,
		Username:  t.Username,
		Subject:   t.Subject,
		Message:   t.Message,
		CreatedAt: t.CreatedAt,
	}
}

func (s *storageImpl) CreateTicket(ctx context.Context, ticket support.Ticket) (*support.Ticket, error) {
	createdAt := s.now()
	q, args, err := s.stmpBuilder().
		Insert(ticketsTable).
		Columns("username", "subject", "message", "created_at").
		Values(ticket.Username, ticket.Subject, ticket.Message, createdAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	ticket.ID = id
	ticket.CreatedAt = createdAt
	return &ticket, nil
}

func (s *storageImpl) ListTickets(ctx context.Context, criteria support.ListCriteria) ([]*support.Ticket, error) {
	query := s.stmpBuilder().
		Select(ticketRowFields).
		From(ticketsTable).
		OrderBy("created_at DESC", "id DESC")

	if criteria.Username != nil {
		query = query.Where(sq.Eq{"username": *criteria.Username})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []ticketRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	tickets := make([]*support.Ticket, 0, len(rows))
	for _, r := range rows {
		tickets = append(tickets, r.ToModel())
	}
	return tickets, nil
}
