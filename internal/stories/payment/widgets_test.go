package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/panelapi"
)

func TestPerfectMoneyForm(t *testing.T) {
	f := newFixture(Settings{PerfectMoney: PerfectMoneySettings{
		PayeeAccount: "U123",
		PayeeName:    "Shop",
		Units:        "USD",
		FormAction:   "https://perfectmoney.com/api/step1.asp",
		StatusURL:    "https://shop.example/status",
	}})

	form, err := f.svc.PerfectMoneyForm(context.Background(), f.session(), decimal.RequireFromString("12.5"))
	if err != nil {
		t.Fatalf("PerfectMoneyForm() error = %v", err)
	}

	got := map[string]string{}
	for _, field := range form.Fields {
		got[field.Name] = field.Value
	}
	want := map[string]string{
		"PAYEE_ACCOUNT":  "U123",
		"PAYEE_NAME":     "Shop",
		"PAYMENT_UNITS":  "USD",
		"STATUS_URL":     "https://shop.example/status",
		"PAYMENT_AMOUNT": "12.50",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	if !strings.HasPrefix(got["PAYMENT_ID"], "42-") {
		t.Errorf("PAYMENT_ID = %q", got["PAYMENT_ID"])
	}
	if form.Action != "https://perfectmoney.com/api/step1.asp" {
		t.Errorf("Action = %q", form.Action)
	}
}

func TestMoMoQR(t *testing.T) {
	f := newFixture(Settings{MoMo: MoMoSettings{
		QRBaseURL:   "https://img.vietqr.io/image/",
		BankCode:    "momo",
		AccountNo:   "0901234567",
		AccountName: "SMM SHOP",
	}})

	qr, err := f.svc.MoMoQR(context.Background(), f.session(), decimal.NewFromInt(50000))
	if err != nil {
		t.Fatalf("MoMoQR() error = %v", err)
	}
	if qr.DepositCode != "SMM42" || qr.Amount != "50000" {
		t.Errorf("qr = %+v", qr)
	}
	wantPrefix := "https://img.vietqr.io/image/momo-0901234567-compact2.png?"
	if !strings.HasPrefix(qr.ImageURL, wantPrefix) || !strings.Contains(qr.ImageURL, "addInfo=SMM42") {
		t.Errorf("ImageURL = %q", qr.ImageURL)
	}

	open, err := f.svc.MoMoQR(context.Background(), f.session(), decimal.Zero)
	if err != nil || strings.Contains(open.ImageURL, "amount=") {
		t.Errorf("open amount QR = %+v, %v", open, err)
	}
}

func TestFpaymentInvoice(t *testing.T) {
	f := newFixture(Settings{})
	f.panel.invoice = panelapi.Invoice{InvoiceID: "inv-1", RedirectURL: "https://fpayment.example/pay/inv-1"}

	got, err := f.svc.FpaymentInvoice(context.Background(), f.session(), decimal.NewFromInt(20))
	if err != nil || got != "https://fpayment.example/pay/inv-1" {
		t.Fatalf("FpaymentInvoice() = %q, %v", got, err)
	}

	f.panel.invoice.RedirectURL = ""
	if _, err := f.svc.FpaymentInvoice(context.Background(), f.session(), decimal.NewFromInt(20)); err == nil {
		t.Error("invoice without redirect accepted")
	}
}

func TestCapturePayPal(t *testing.T) {
	f := newFixture(Settings{})

	if err := f.svc.CapturePayPal(context.Background(), f.session(), "  "); !errors.Is(err, ErrMissingPayPalOrder) {
		t.Errorf("empty order id error = %v, want ErrMissingPayPalOrder", err)
	}
	if err := f.svc.CapturePayPal(context.Background(), f.session(), "PP-9"); err != nil {
		t.Fatalf("CapturePayPal() error = %v", err)
	}
	if len(f.panel.captured) != 1 || f.panel.captured[0] != "PP-9" {
		t.Errorf("captured = %v", f.panel.captured)
	}
}

func TestCashFlowPages(t *testing.T) {
	f := newFixture(Settings{})
	for i := 1; i <= 170; i++ {
		f.panel.deposits = append(f.panel.deposits, panelapi.Deposit{
			ID:        int64(i),
			Amount:    decimal.NewFromInt(int64(i)),
			CreatedAt: time.Unix(int64(i), 0),
		})
	}

	tests := []struct {
		page        int
		wantPage    int
		wantColumns []int
	}{
		{page: 1, wantPage: 1, wantColumns: []int{20, 20, 20, 20}},
		{page: 3, wantPage: 3, wantColumns: []int{10}},
		{page: 99, wantPage: 3, wantColumns: []int{10}},
		{page: 0, wantPage: 1, wantColumns: []int{20, 20, 20, 20}},
	}
	for _, tt := range tests {
		view, err := f.svc.CashFlow(context.Background(), f.session(), tt.page)
		if err != nil {
			t.Fatalf("CashFlow(%d) error = %v", tt.page, err)
		}
		if view.Meta.Page != tt.wantPage || view.Meta.TotalPages != 3 {
			t.Errorf("CashFlow(%d) meta = %+v", tt.page, view.Meta)
		}
		if len(view.Columns) != len(tt.wantColumns) {
			t.Fatalf("CashFlow(%d) columns = %d, want %d", tt.page, len(view.Columns), len(tt.wantColumns))
		}
		for i, n := range tt.wantColumns {
			if len(view.Columns[i]) != n {
				t.Errorf("CashFlow(%d) column %d = %d entries, want %d", tt.page, i, len(view.Columns[i]), n)
			}
		}
	}
}
