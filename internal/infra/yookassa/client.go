package yookassa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rvinnie/yookassa-sdk-go/yookassa"
	yoocommon "github.com/rvinnie/yookassa-sdk-go/yookassa/common"
	yoopayment "github.com/rvinnie/yookassa-sdk-go/yookassa/payment"
	"github.com/shopspring/decimal"
)

// Client wraps the YooKassa SDK client used for balance top-ups.
type Client struct {
	client    *yookassa.Client
	logger    *slog.Logger
	returnURL string
}

func NewClient(shopID, secretKey, returnURL string, logger *slog.Logger) *Client {
	return &Client{
		client:    yookassa.NewClient(shopID, secretKey),
		logger:    logger,
		returnURL: returnURL,
	}
}

// CreatePayment registers a captured-on-success payment and returns it with a
// redirect confirmation. idempotenceKey ties retries of the same deposit
// together; an empty key gets a fresh one.
func (c *Client) CreatePayment(ctx context.Context, amount decimal.Decimal, currency, description, idempotenceKey string, metadata map[string]string) (*yoopayment.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idempotenceKey == "" {
		idempotenceKey = uuid.NewString()
	}

	c.logger.Info("Creating payment in YooKassa", "amount", amount.StringFixed(2), "currency", currency)

	payment := &yoopayment.Payment{
		Amount: &yoocommon.Amount{
			Value:    amount.StringFixed(2),
			Currency: currency,
		},
		Confirmation: &yoopayment.Redirect{
			Type:      yoopayment.TypeRedirect,
			ReturnURL: c.returnURL,
		},
		Description: description,
		Metadata:    metadata,
		Capture:     true,
	}

	handler := yookassa.NewPaymentHandler(c.client).WithIdempotencyKey(idempotenceKey)
	result, err := handler.CreatePayment(payment)
	if err != nil {
		c.logger.Error("Failed to create payment in YooKassa", "error", err)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	c.logger.Info("Payment created in YooKassa", "yookassa_id", result.ID, "status", result.Status)
	return result, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (*yoopayment.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := yookassa.NewPaymentHandler(c.client).FindPayment(paymentID)
	if err != nil {
		c.logger.Error("Failed to get payment status", "error", err, "yookassa_id", paymentID)
		return nil, fmt.Errorf("failed to get payment status: %w", err)
	}

	c.logger.Debug("Payment status retrieved", "yookassa_id", paymentID, "status", result.Status)
	return result, nil
}
