package depositcheck

import (
	"context"

	"smm-storefront/internal/stories/payment"
)

type PaymentService interface {
	ListPending(ctx context.Context) ([]*payment.Deposit, error)
	CheckDepositStatus(ctx context.Context, depositID int64) (*payment.Deposit, error)
}
