package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/sqlite3"
	"smm-storefront/internal/stories/payment"
)

const (
	depositsTable           = "deposits"
	depositTransitionsTable = "deposit_transitions"
)

var depositRowFields = fields(depositRow{})

type depositRow struct {
	ID          int64           `db:"id"`
	Username    string          `db:"username"`
	Provider    string          `db:"provider"`
	Amount      decimal.Decimal `db:"amount"`
	Currency    string          `db:"currency"`
	Status      string          `db:"status"`
	ExternalID  *string         `db:"external_id"`
	PaymentURL  *string         `db:"payment_url"`
	ProcessedAt *time.Time      `db:"processed_at"`
	ReportedAt  *time.Time      `db:"reported_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (d depositRow) ToModel() *payment.Deposit {
	return &payment.Deposit{
		ID:          d.ID,
		Username:    d.Username,
		Provider:    payment.Provider(d.Provider),
		Amount:      d.Amount,
		Currency:    d.Currency,
		Status:      payment.Status(d.Status),
		ExternalID:  d.ExternalID,
		PaymentURL:  d.PaymentURL,
		ProcessedAt: d.ProcessedAt,
		ReportedAt:  d.ReportedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *storageImpl) CreateDeposit(ctx context.Context, deposit payment.Deposit) (*payment.Deposit, error) {
	now := s.now()
	params := map[string]interface{}{
		"username":     deposit.Username,
		"provider":     string(deposit.Provider),
		"amount":       deposit.Amount.String(),
		"currency":     deposit.Currency,
		"status":       string(deposit.Status),
		"external_id":  deposit.ExternalID,
		"payment_url":  deposit.PaymentURL,
		"processed_at": deposit.ProcessedAt,
		"reported_at":  deposit.ReportedAt,
		"created_at":   now,
		"updated_at":   now,
	}

	q, args, err := s.stmpBuilder().
		Insert(depositsTable).
		SetMap(params).
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

	return s.GetDeposit(ctx, payment.GetCriteria{ID: &id})
}

func (s *storageImpl) GetDeposit(ctx context.Context, criteria payment.GetCriteria) (*payment.Deposit, error) {
	query := s.stmpBuilder().
		Select(depositRowFields).
		From(depositsTable).
		Limit(1)
	query = applyDepositCriteria(query, criteria)

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row depositRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) UpdateDeposit(ctx context.Context, criteria payment.GetCriteria, params payment.UpdateParams) (*payment.Deposit, error) {
	query := s.stmpBuilder().
		Update(depositsTable).
		Set("updated_at", s.now())

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.ExternalID != nil {
		query = query.Where(sq.Eq{"external_id": *criteria.ExternalID})
	}
	query = setDepositParams(query, params)

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetDeposit(ctx, criteria)
}

// TransitionDeposit moves a deposit out of status from and records the
// transition, both in one transaction. It reports false when the deposit was
// no longer in status from.
func (s *storageImpl) TransitionDeposit(ctx context.Context, id int64, from payment.Status, params payment.UpdateParams) (bool, error) {
	if params.Status == nil {
		return false, fmt.Errorf("transition without target status")
	}

	update, updateArgs, err := setDepositParams(
		s.stmpBuilder().
			Update(depositsTable).
			Set("updated_at", s.now()).
			Where(sq.Eq{"id": id, "status": string(from)}),
		params,
	).ToSql()
	if err != nil {
		return false, fmt.Errorf("build sql query: %w", err)
	}

	insert, insertArgs, err := s.stmpBuilder().
		Insert(depositTransitionsTable).
		SetMap(map[string]interface{}{
			"deposit_id":  id,
			"from_status": string(from),
			"to_status":   string(*params.Status),
			"created_at":  s.now(),
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build sql query: %w", err)
	}

	txManager := sqlite3.WithTx(func() (*sql.DB, error) { return s.db.DB, nil }, nil)
	result, err := txManager(ctx, func(tx *sql.Tx) (any, error) {
		res, err := tx.ExecContext(ctx, update, updateArgs...)
		if err != nil {
			return false, fmt.Errorf("update deposit: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("res.RowsAffected: %w", err)
		}
		if n == 0 {
			return false, nil
		}
		if _, err := tx.ExecContext(ctx, insert, insertArgs...); err != nil {
			return false, fmt.Errorf("insert transition: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	changed, _ := result.(bool)
	return changed, nil
}

// ClaimReport marks an approved deposit as reported unless it already is.
// Only the caller that gets true may credit the panel.
func (s *storageImpl) ClaimReport(ctx context.Context, id int64, at time.Time) (bool, error) {
	q, args, err := s.stmpBuilder().
		Update(depositsTable).
		Set("reported_at", at).
		Set("updated_at", s.now()).
		Where(sq.Eq{"id": id, "status": string(payment.StatusApproved), "reported_at": nil}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build sql query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("res.RowsAffected: %w", err)
	}
	return n == 1, nil
}

// ReleaseReport undoes a claim whose panel credit failed.
func (s *storageImpl) ReleaseReport(ctx context.Context, id int64) error {
	q, args, err := s.stmpBuilder().
		Update(depositsTable).
		Set("reported_at", nil).
		Set("updated_at", s.now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}
	return nil
}

func (s *storageImpl) ListDeposits(ctx context.Context, criteria payment.ListCriteria) ([]*payment.Deposit, error) {
	query := s.stmpBuilder().
		Select(depositRowFields).
		From(depositsTable)

	if criteria.Username != nil {
		query = query.Where(sq.Eq{"username": *criteria.Username})
	}
	if criteria.Status != nil {
		query = query.Where(sq.Eq{"status": string(*criteria.Status)})
	}
	if criteria.Provider != nil {
		query = query.Where(sq.Eq{"provider": string(*criteria.Provider)})
	}
	if criteria.CreatedAfter != nil {
		query = query.Where(sq.Gt{"created_at": *criteria.CreatedAfter})
	}

	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	query = query.OrderBy("created_at DESC", "id DESC")

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []depositRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*payment.Deposit, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.ToModel())
	}
	return result, nil
}

func (s *storageImpl) CountDepositTransitions(ctx context.Context, depositID int64) (int, error) {
	q, args, err := s.stmpBuilder().
		Select("COUNT(*)").
		From(depositTransitionsTable).
		Where(sq.Eq{"deposit_id": depositID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var n int
	if err := s.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}
	return n, nil
}

func applyDepositCriteria(query sq.SelectBuilder, criteria payment.GetCriteria) sq.SelectBuilder {
	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.ExternalID != nil {
		query = query.Where(sq.Eq{"external_id": *criteria.ExternalID})
	}
	return query
}

func setDepositParams(query sq.UpdateBuilder, params payment.UpdateParams) sq.UpdateBuilder {
	if params.Status != nil {
		query = query.Set("status", string(*params.Status))
	}
	if params.ExternalID != nil {
		query = query.Set("external_id", *params.ExternalID)
	}
	if params.PaymentURL != nil {
		query = query.Set("payment_url", *params.PaymentURL)
	}
	if params.ProcessedAt != nil {
		query = query.Set("processed_at", *params.ProcessedAt)
	}
	if params.ReportedAt != nil {
		query = query.Set("reported_at", *params.ReportedAt)
	}
	return query
}
