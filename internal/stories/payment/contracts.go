package payment

import (
	"context"
	"time"

	yoopayment "github.com/rvinnie/yookassa-sdk-go/yookassa/payment"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/users"
)

type (
	// Storage is the local deposit ledger
	Storage interface {
		CreateDeposit(ctx context.Context, deposit Deposit) (*Deposit, error)
		GetDeposit(ctx context.Context, criteria GetCriteria) (*Deposit, error)
		UpdateDeposit(ctx context.Context, criteria GetCriteria, params UpdateParams) (*Deposit, error)
		ListDeposits(ctx context.Context, criteria ListCriteria) ([]*Deposit, error)
		TransitionDeposit(ctx context.Context, id int64, from Status, params UpdateParams) (bool, error)
		ClaimReport(ctx context.Context, id int64, at time.Time) (bool, error)
		ReleaseReport(ctx context.Context, id int64) error
	}

	YooKassaClient interface {
		CreatePayment(ctx context.Context, amount decimal.Decimal, currency, description, idempotenceKey string, metadata map[string]string) (*yoopayment.Payment, error)
		GetPaymentStatus(ctx context.Context, paymentID string) (*yoopayment.Payment, error)
	}

	Panel interface {
		CreateInvoice(ctx context.Context, token string, req panelapi.CreateInvoiceRequest) (*panelapi.Invoice, error)
		CreateDeposit(ctx context.Context, token string, req panelapi.CreateDepositRequest) error
		CapturePayPal(ctx context.Context, token string, req panelapi.PayPalCaptureRequest) error
		ListDeposits(ctx context.Context, token string) ([]panelapi.Deposit, error)
	}

	Users interface {
		Detail(ctx context.Context, sess session.Session) (*users.User, error)
	}

	Notifier interface {
		Notify(ctx context.Context, text string) error
	}

	Events interface {
		Publish(ctx context.Context, eventType, key string, payload any)
	}
)
