package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	yoopayment "github.com/rvinnie/yookassa-sdk-go/yookassa/payment"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/kafka"
	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/metrics"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
)

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrProviderDisabled   = errors.New("payment provider is not configured")
	ErrMissingPayPalOrder = errors.New("paypal order id is required")
)

// Service provides deposit operations: the YooKassa channel with its local
// ledger and the panel-backed widgets.
type Service struct {
	storage  Storage
	yookassa YooKassaClient
	panel    Panel
	users    Users
	notifier Notifier
	events   Events
	cache    *querycache.Cache
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new payment service. yookassa and notifier may be nil
// when the channel or the staff chat is not configured.
func NewService(
	storage Storage,
	yookassa YooKassaClient,
	panel Panel,
	users Users,
	notifier Notifier,
	events Events,
	cache *querycache.Cache,
	settings Settings,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		yookassa: yookassa,
		panel:    panel,
		users:    users,
		notifier: notifier,
		events:   events,
		cache:    cache,
		settings: settings,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// IsMockPayment returns true if mock payment mode is enabled
func (s *Service) IsMockPayment() bool {
	return s.settings.MockPayment
}

// CreateYooKassaDeposit records a pending deposit and creates the matching
// YooKassa payment. The returned deposit carries the confirmation URL the
// browser is redirected to.
func (s *Service) CreateYooKassaDeposit(ctx context.Context, sess session.Session, amount decimal.Decimal) (*Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if s.yookassa == nil && !s.settings.MockPayment {
		return nil, ErrProviderDisabled
	}

	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	deposit := Deposit{
		Username: user.Username,
		Provider: ProviderYooKassa,
		Amount:   amount,
		Currency: s.settings.Currency,
	}

	s.logger.Info("Creating deposit",
		"username", deposit.Username,
		"amount", amount.String(),
		"mock_mode", s.settings.MockPayment,
	)

	if s.settings.MockPayment {
		return s.createMockDeposit(ctx, sess, deposit)
	}

	deposit.Status = StatusPending
	created, err := s.storage.CreateDeposit(ctx, deposit)
	if err != nil {
		s.logger.Error("Failed to create deposit in storage", "error", err, "username", deposit.Username)
		return nil, errors.Wrap(err, "create deposit in storage")
	}
	metrics.Deposits.WithLabelValues(string(ProviderYooKassa), string(StatusPending)).Inc()

	metadata := map[string]string{
		"internal_deposit_id": fmt.Sprintf("%d", created.ID),
		"username":            created.Username,
	}
	description := fmt.Sprintf("Balance top-up #%d", created.ID)

	yooPayment, err := s.yookassa.CreatePayment(ctx, created.Amount, created.Currency, description,
		fmt.Sprintf("deposit-%d", created.ID), metadata)
	if err != nil {
		s.logger.Error("Failed to create payment in YooKassa",
			"error", err,
			"deposit_id", created.ID,
		)
		if _, rejectErr := s.storage.TransitionDeposit(ctx, created.ID, StatusPending,
			UpdateParams{Status: lo.ToPtr(StatusRejected)}); rejectErr != nil {
			s.logger.Error("Failed to reject deposit", "error", rejectErr, "deposit_id", created.ID)
		}
		return nil, errors.Wrap(err, "create payment in YooKassa")
	}

	params := UpdateParams{ExternalID: &yooPayment.ID}
	if url := extractPaymentURL(yooPayment); url != "" {
		params.PaymentURL = &url
	} else {
		s.logger.Warn("No payment URL in YooKassa response", "deposit_id", created.ID)
	}

	updated, err := s.storage.UpdateDeposit(ctx, GetCriteria{ID: &created.ID}, params)
	if err != nil {
		s.logger.Error("Failed to update deposit with YooKassa data",
			"error", err,
			"deposit_id", created.ID,
			"yookassa_id", yooPayment.ID,
		)
		return nil, errors.Wrap(err, "update deposit with YooKassa data")
	}

	s.logger.Info("Deposit created",
		"deposit_id", updated.ID,
		"yookassa_id", yooPayment.ID,
	)
	return updated, nil
}

// createMockDeposit approves the deposit immediately without YooKassa.
func (s *Service) createMockDeposit(ctx context.Context, sess session.Session, deposit Deposit) (*Deposit, error) {
	now := s.now()
	deposit.Status = StatusApproved
	deposit.ProcessedAt = &now
	deposit.ExternalID = lo.ToPtr(fmt.Sprintf("mock-%d", now.UnixNano()))

	created, err := s.storage.CreateDeposit(ctx, deposit)
	if err != nil {
		s.logger.Error("Failed to create mock deposit in storage", "error", err, "username", deposit.Username)
		return nil, errors.Wrap(err, "create mock deposit in storage")
	}

	s.logger.Info("Mock deposit created with approved status",
		"deposit_id", created.ID,
		"amount", created.Amount.String(),
	)
	s.announce(ctx, created)

	return s.report(ctx, sess, created)
}

// CheckDepositStatus polls YooKassa for a pending deposit and settles it
// locally. Approved deposits are announced; crediting the panel balance
// happens on the owner's next check, which carries their session.
func (s *Service) CheckDepositStatus(ctx context.Context, depositID int64) (*Deposit, error) {
	criteria := GetCriteria{ID: &depositID}
	deposit, err := s.storage.GetDeposit(ctx, criteria)
	if err != nil {
		s.logger.Error("Failed to get deposit from storage", "error", err, "deposit_id", depositID)
		return nil, errors.Wrap(err, "get deposit from storage")
	}
	if deposit == nil {
		return nil, ErrDepositNotFound
	}
	if deposit.Status != StatusPending {
		return deposit, nil
	}

	if s.settings.MockPayment {
		return s.settle(ctx, deposit, StatusApproved)
	}
	if s.yookassa == nil {
		return nil, ErrProviderDisabled
	}
	if deposit.ExternalID == nil {
		s.logger.Error("Deposit has no YooKassa id", "deposit_id", depositID)
		return nil, fmt.Errorf("deposit %d has no YooKassa id", depositID)
	}

	yooPayment, err := s.yookassa.GetPaymentStatus(ctx, *deposit.ExternalID)
	if err != nil {
		s.logger.Error("Failed to get payment status from YooKassa",
			"error", err,
			"deposit_id", depositID,
			"yookassa_id", *deposit.ExternalID,
		)
		return nil, errors.Wrap(err, "get payment status from YooKassa")
	}

	newStatus := mapYooKassaStatusToInternal(yooPayment.Status)
	if newStatus == deposit.Status {
		s.logger.Debug("Deposit status unchanged", "deposit_id", depositID, "status", deposit.Status)
		return deposit, nil
	}
	return s.settle(ctx, deposit, newStatus)
}

// settle moves a pending deposit to status. Only the caller that wins the
// transition announces it.
func (s *Service) settle(ctx context.Context, deposit *Deposit, status Status) (*Deposit, error) {
	params := UpdateParams{Status: &status}
	if status == StatusApproved {
		params.ProcessedAt = lo.ToPtr(s.now())
	}

	changed, err := s.storage.TransitionDeposit(ctx, deposit.ID, StatusPending, params)
	if err != nil {
		s.logger.Error("Failed to update deposit status",
			"error", err,
			"deposit_id", deposit.ID,
			"new_status", status,
		)
		return nil, errors.Wrap(err, "update deposit status")
	}

	updated, err := s.storage.GetDeposit(ctx, GetCriteria{ID: &deposit.ID})
	if err != nil {
		return nil, errors.Wrap(err, "get deposit from storage")
	}
	if updated == nil {
		return nil, ErrDepositNotFound
	}

	if changed {
		s.logger.Info("Deposit status changed",
			"deposit_id", deposit.ID,
			"old_status", deposit.Status,
			"new_status", status,
		)
		s.announce(ctx, updated)
	}
	return updated, nil
}

// announce publishes a settled deposit and tells the staff chat about
// approved ones.
func (s *Service) announce(ctx context.Context, d *Deposit) {
	metrics.Deposits.WithLabelValues(string(d.Provider), string(d.Status)).Inc()

	event := DepositEvent{
		DepositID: d.ID,
		Username:  d.Username,
		Provider:  d.Provider,
		Amount:    d.Amount,
		Currency:  d.Currency,
		Status:    d.Status,
	}
	switch d.Status {
	case StatusApproved:
		s.events.Publish(ctx, kafka.EventDepositApproved, d.Username, event)
		s.notify(ctx, fmt.Sprintf("Deposit #%d approved: %s %s from %s via %s",
			d.ID, d.Amount.StringFixed(2), d.Currency, d.Username, d.Provider))
	case StatusCancelled, StatusRejected:
		s.events.Publish(ctx, kafka.EventDepositCancelled, d.Username, event)
	}
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Warn("Failed to notify staff", "error", err)
	}
}

// ListPending returns the YooKassa deposits the auto-check worker still polls.
func (s *Service) ListPending(ctx context.Context) ([]*Deposit, error) {
	criteria := ListCriteria{
		Status:   lo.ToPtr(StatusPending),
		Provider: lo.ToPtr(ProviderYooKassa),
	}
	if s.settings.MaxPending > 0 {
		criteria.CreatedAfter = lo.ToPtr(s.now().Add(-s.settings.MaxPending))
	}

	deposits, err := s.storage.ListDeposits(ctx, criteria)
	if err != nil {
		return nil, errors.Wrap(err, "list pending deposits")
	}
	return deposits, nil
}

// Deposit returns one of the customer's deposits, refreshing a pending one
// and crediting an approved one to the panel balance if that has not
// happened yet.
func (s *Service) Deposit(ctx context.Context, sess session.Session, id int64) (*Deposit, error) {
	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	deposit, err := s.storage.GetDeposit(ctx, GetCriteria{ID: &id})
	if err != nil {
		return nil, errors.Wrap(err, "get deposit from storage")
	}
	if deposit == nil || deposit.Username != user.Username {
		return nil, ErrDepositNotFound
	}

	if deposit.Status == StatusPending && deposit.Provider == ProviderYooKassa {
		if deposit, err = s.CheckDepositStatus(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.report(ctx, sess, deposit)
}

// Deposits lists the customer's local deposits, newest first.
func (s *Service) Deposits(ctx context.Context, sess session.Session) ([]*Deposit, error) {
	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	deposits, err := s.storage.ListDeposits(ctx, ListCriteria{Username: &user.Username, Limit: 50})
	if err != nil {
		return nil, errors.Wrap(err, "list deposits")
	}
	return deposits, nil
}

// report credits an approved, unreported deposit to the panel balance. The
// deposit is claimed in storage first so concurrent checks credit it once;
// the external id lets the panel drop a repeated report.
func (s *Service) report(ctx context.Context, sess session.Session, d *Deposit) (*Deposit, error) {
	if d.Status != StatusApproved || d.ReportedAt != nil {
		return d, nil
	}

	claimed, err := s.storage.ClaimReport(ctx, d.ID, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "claim deposit report")
	}
	if !claimed {
		return s.reload(ctx, d.ID)
	}

	externalID := fmt.Sprintf("%s-%d", d.Provider, d.ID)
	if d.ExternalID != nil {
		externalID = *d.ExternalID
	}

	err = s.panel.CreateDeposit(ctx, sess.Token, panelapi.CreateDepositRequest{
		Amount:     d.Amount,
		Currency:   d.Currency,
		Method:     string(d.Provider),
		ExternalID: externalID,
	})
	if err != nil {
		s.logger.Error("Failed to report deposit to panel", "error", err, "deposit_id", d.ID)
		if releaseErr := s.storage.ReleaseReport(ctx, d.ID); releaseErr != nil {
			s.logger.Error("Failed to release deposit report", "error", releaseErr, "deposit_id", d.ID)
		}
		return nil, errors.Wrap(err, "report deposit")
	}

	s.invalidateBalance(ctx, sess)
	s.logger.Info("Deposit credited", "deposit_id", d.ID, "username", d.Username)
	return s.reload(ctx, d.ID)
}

func (s *Service) reload(ctx context.Context, id int64) (*Deposit, error) {
	d, err := s.storage.GetDeposit(ctx, GetCriteria{ID: &id})
	if err != nil {
		return nil, errors.Wrap(err, "get deposit from storage")
	}
	if d == nil {
		return nil, ErrDepositNotFound
	}
	return d, nil
}

func (s *Service) invalidateBalance(ctx context.Context, sess session.Session) {
	if err := sess.Invalidate(ctx, querycache.ResourceUserDetail, querycache.ResourceDeposits); err != nil {
		s.logger.Warn("Failed to invalidate cache", "error", err)
	}
}

// extractPaymentURL returns the redirect URL of a YooKassa confirmation.
func extractPaymentURL(payment *yoopayment.Payment) string {
	if payment.Confirmation == nil {
		return ""
	}

	if redirect, ok := payment.Confirmation.(*yoopayment.Redirect); ok {
		return redirect.ConfirmationURL
	}

	// the SDK decodes responses into a generic map
	if confMap, ok := payment.Confirmation.(map[string]interface{}); ok {
		if url, exists := confMap["confirmation_url"].(string); exists {
			return url
		}
	}

	return ""
}

func mapYooKassaStatusToInternal(yookassaStatus yoopayment.Status) Status {
	switch yookassaStatus {
	case yoopayment.Pending, yoopayment.WaitingForCapture:
		return StatusPending
	case yoopayment.Succeeded:
		return StatusApproved
	case yoopayment.Canceled:
		return StatusCancelled
	default:
		return StatusPending
	}
}
