package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/kafka"
	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/metrics"
	"smm-storefront/internal/pagination"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
)

// PerfectMoneyForm builds the hidden-field form the browser posts to
// PerfectMoney. Nothing is sent from the server.
func (s *Service) PerfectMoneyForm(ctx context.Context, sess session.Session, amount decimal.Decimal) (*PerfectMoneyForm, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	pm := s.settings.PerfectMoney
	if pm.PayeeAccount == "" {
		return nil, ErrProviderDisabled
	}

	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	return &PerfectMoneyForm{
		Action: pm.FormAction,
		Fields: []FormField{
			{Name: "PAYEE_ACCOUNT", Value: pm.PayeeAccount},
			{Name: "PAYEE_NAME", Value: pm.PayeeName},
			{Name: "PAYMENT_UNITS", Value: pm.Units},
			{Name: "PAYMENT_URL", Value: pm.PaymentURL},
			{Name: "NOPAYMENT_URL", Value: pm.NoPaymentURL},
			{Name: "STATUS_URL", Value: pm.StatusURL},
			{Name: "PAYMENT_AMOUNT", Value: amount.StringFixed(2)},
			{Name: "PAYMENT_ID", Value: fmt.Sprintf("%d-%s", user.ID, uuid.NewString()[:8])},
		},
	}, nil
}

// PayPalButton returns what the PayPal SDK needs to render its button.
func (s *Service) PayPalButton(amount decimal.Decimal) (*PayPalButton, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if s.settings.PayPal.ClientID == "" {
		return nil, ErrProviderDisabled
	}
	return &PayPalButton{
		ClientID: s.settings.PayPal.ClientID,
		Currency: s.settings.PayPal.Currency,
		Amount:   amount.StringFixed(2),
	}, nil
}

// CapturePayPal forwards the captured PayPal order id to the panel, which
// credits the balance.
func (s *Service) CapturePayPal(ctx context.Context, sess session.Session, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrMissingPayPalOrder
	}

	if err := s.panel.CapturePayPal(ctx, sess.Token, panelapi.PayPalCaptureRequest{OrderID: orderID}); err != nil {
		metrics.Deposits.WithLabelValues(string(ProviderPayPal), string(StatusRejected)).Inc()
		return errors.Wrap(err, "capture paypal order")
	}

	metrics.Deposits.WithLabelValues(string(ProviderPayPal), string(StatusApproved)).Inc()
	s.events.Publish(ctx, kafka.EventDepositApproved, orderID, map[string]string{
		"provider": string(ProviderPayPal),
		"order_id": orderID,
	})
	s.invalidateBalance(ctx, sess)
	return nil
}

// FpaymentInvoice creates an invoice on the panel and returns the URL the
// browser is redirected to.
func (s *Service) FpaymentInvoice(ctx context.Context, sess session.Session, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	invoice, err := s.panel.CreateInvoice(ctx, sess.Token, panelapi.CreateInvoiceRequest{
		Amount:   amount,
		Currency: s.settings.Currency,
		Method:   string(ProviderFpayment),
	})
	if err != nil {
		return "", errors.Wrap(err, "create invoice")
	}
	if invoice.RedirectURL == "" {
		return "", errors.Errorf("invoice %s has no redirect url", invoice.InvoiceID)
	}

	metrics.Deposits.WithLabelValues(string(ProviderFpayment), string(StatusPending)).Inc()
	return invoice.RedirectURL, nil
}

// MoMoQR describes the hosted QR image for a bank transfer. The deposit code
// identifies the customer in the transfer note.
func (s *Service) MoMoQR(ctx context.Context, sess session.Session, amount decimal.Decimal) (*MoMoQR, error) {
	momo := s.settings.MoMo
	if momo.AccountNo == "" {
		return nil, ErrProviderDisabled
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	user, err := s.users.Detail(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}

	code := DepositCode(user.ID)
	query := url.Values{}
	query.Set("addInfo", code)
	query.Set("accountName", momo.AccountName)
	qr := &MoMoQR{
		DepositCode: code,
		AccountNo:   momo.AccountNo,
		AccountName: momo.AccountName,
	}
	if amount.IsPositive() {
		qr.Amount = amount.StringFixed(0)
		query.Set("amount", qr.Amount)
	}
	qr.ImageURL = fmt.Sprintf("%s/%s-%s-compact2.png?%s",
		strings.TrimRight(momo.QRBaseURL, "/"), momo.BankCode, momo.AccountNo, query.Encode())

	return qr, nil
}

// DepositCode is the transfer note that ties a bank transfer to a user.
func DepositCode(userID int64) string {
	return fmt.Sprintf("SMM%d", userID)
}

// CashFlow returns one page of the panel deposit history, 80 entries per
// page laid out in columns of 20.
func (s *Service) CashFlow(ctx context.Context, sess session.Session, page int) (*CashFlowView, error) {
	entries, err := querycache.Fetch(ctx, s.cache, querycache.ResourceDeposits, sess.Token,
		func(ctx context.Context) ([]CashFlowEntry, error) {
			raw, err := s.panel.ListDeposits(ctx, sess.Token)
			if err != nil {
				return nil, err
			}
			return lo.Map(raw, func(d panelapi.Deposit, _ int) CashFlowEntry {
				return CashFlowEntry{
					ID:        d.ID,
					Amount:    d.Amount,
					Method:    d.Method,
					Status:    d.Status,
					CreatedAt: d.CreatedAt,
				}
			}), nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "list deposits")
	}

	pager := pagination.New(entries, pagination.CashFlowPageSize)
	pager.Goto(page)
	return &CashFlowView{
		Columns: pager.Columns(pagination.CashFlowColumn),
		Meta:    pager.Meta(),
	}, nil
}
