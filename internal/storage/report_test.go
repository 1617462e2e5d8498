package storage

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/kafka"
	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/payment"
	"smm-storefront/internal/stories/users"
)

type slowPanel struct {
	mu       sync.Mutex
	credited int
	err      error
}

func (p *slowPanel) CreateDeposit(_ context.Context, _ string, _ panelapi.CreateDepositRequest) error {
	time.Sleep(50 * time.Millisecond)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.credited++
	return nil
}

func (p *slowPanel) CreateInvoice(context.Context, string, panelapi.CreateInvoiceRequest) (*panelapi.Invoice, error) {
	return &panelapi.Invoice{}, nil
}

func (p *slowPanel) CapturePayPal(context.Context, string, panelapi.PayPalCaptureRequest) error {
	return nil
}

func (p *slowPanel) ListDeposits(context.Context, string) ([]panelapi.Deposit, error) {
	return nil, nil
}

type staticUsers struct{}

func (staticUsers) Detail(context.Context, session.Session) (*users.User, error) {
	return &users.User{ID: 1, Username: "alice"}, nil
}

func newApprovedDeposit(t *testing.T, s *storageImpl) *payment.Deposit {
	t.Helper()
	s.now = func() time.Time { return time.Now().UTC() }

	d, err := s.CreateDeposit(context.Background(), payment.Deposit{
		Username: "alice",
		Provider: payment.ProviderYooKassa,
		Amount:   decimal.NewFromInt(40),
		Currency: "RUB",
		Status:   payment.StatusApproved,
	})
	if err != nil {
		t.Fatalf("CreateDeposit() error = %v", err)
	}
	return d
}

func TestClaimReport(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	d := newApprovedDeposit(t, s)

	claimed, err := s.ClaimReport(ctx, d.ID, time.Now())
	if err != nil || !claimed {
		t.Fatalf("first ClaimReport() = %v, %v, want true", claimed, err)
	}
	claimed, err = s.ClaimReport(ctx, d.ID, time.Now())
	if err != nil || claimed {
		t.Fatalf("second ClaimReport() = %v, %v, want false", claimed, err)
	}

	if err := s.ReleaseReport(ctx, d.ID); err != nil {
		t.Fatalf("ReleaseReport() error = %v", err)
	}
	claimed, err = s.ClaimReport(ctx, d.ID, time.Now())
	if err != nil || !claimed {
		t.Fatalf("ClaimReport() after release = %v, %v, want true", claimed, err)
	}

	pending, err := s.CreateDeposit(ctx, payment.Deposit{
		Username: "alice",
		Provider: payment.ProviderYooKassa,
		Amount:   decimal.NewFromInt(5),
		Currency: "RUB",
		Status:   payment.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateDeposit() error = %v", err)
	}
	if claimed, err := s.ClaimReport(ctx, pending.ID, time.Now()); err != nil || claimed {
		t.Errorf("ClaimReport(pending) = %v, %v, want false", claimed, err)
	}
}

func TestConcurrentDepositChecksCreditOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	d := newApprovedDeposit(t, s)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, 2*time.Minute, logger)
	panel := &slowPanel{}
	var events *kafka.Publisher
	svc := payment.NewService(s, nil, panel, staticUsers{}, nil, events, cache, payment.Settings{Currency: "RUB"}, logger)
	sess := session.New("tok", cache)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Deposit(ctx, sess, d.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Deposit() error = %v", err)
	}

	if panel.credited != 1 {
		t.Errorf("panel credited %d times, want 1", panel.credited)
	}
	got, err := s.GetDeposit(ctx, payment.GetCriteria{ID: &d.ID})
	if err != nil || got.ReportedAt == nil {
		t.Errorf("deposit = %+v, %v", got, err)
	}
}
