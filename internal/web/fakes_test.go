package web

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smm-storefront/internal/localization"
	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/orders"
	"smm-storefront/internal/stories/payment"
	"smm-storefront/internal/stories/support"
	"smm-storefront/internal/stories/users"
)

const testToken = "tok-1"

type fakeUsers struct {
	loginErr  error
	detailErr error
	loggedOut bool
}

func (f *fakeUsers) Login(_ context.Context, creds users.Credentials) (session.Session, error) {
	if f.loginErr != nil {
		return session.Session{}, f.loginErr
	}
	if creds.Username == "" || creds.Password == "" {
		return session.Session{}, users.ErrMissingCredentials
	}
	return session.New(testToken, nil), nil
}

func (f *fakeUsers) Logout(context.Context, session.Session) error {
	f.loggedOut = true
	return nil
}

func (f *fakeUsers) Detail(_ context.Context, sess session.Session) (*users.User, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return &users.User{ID: 42, Username: "alice", Email: "alice@example.com", Balance: decimal.NewFromInt(10), Currency: "USD"}, nil
}

func (f *fakeUsers) History(context.Context, session.Session) ([]users.LoginRecord, error) {
	return []users.LoginRecord{{IP: "10.0.0.1"}}, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, _ session.Session, upd users.ProfileUpdate) (*users.User, error) {
	if upd.NewPassword != upd.ConfirmPassword {
		return nil, users.ErrPasswordMismatch
	}
	return &users.User{ID: 42, Username: "alice", Email: upd.Email}, nil
}

func (f *fakeUsers) Session(token string) session.Session {
	return session.New(token, nil)
}

type fakeCatalog struct {
	groups []catalog.Category
}

func (f *fakeCatalog) Catalog(context.Context, session.Session) ([]catalog.Category, error) {
	return f.groups, nil
}

func (f *fakeCatalog) ProductByID(_ context.Context, _ session.Session, id int64) (*catalog.Product, error) {
	if p, ok := catalog.FindService(f.groups, id); ok {
		return &p, nil
	}
	return nil, catalog.ErrServiceNotFound
}

func (f *fakeCatalog) Cascade(_ context.Context, _ session.Session, detailID int64) (*catalog.Cascade, error) {
	var detail *catalog.Product
	if p, ok := catalog.FindService(f.groups, detailID); ok {
		detail = &p
	}
	return catalog.NewCascade(f.groups, detail), nil
}

type fakeOrders struct {
	orders    []orders.Order
	placeErr  error
	refilled  []int64
	lastTable orders.Filter
}

func (f *fakeOrders) Table(_ context.Context, _ session.Session, filter orders.Filter) (*orders.TableView, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	f.lastTable = filter
	view := orders.Table(f.orders, filter)
	return &view, nil
}

func (f *fakeOrders) PlaceOrder(_ context.Context, _ session.Session, req orders.PlaceRequest) (*orders.Placed, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return &orders.Placed{OrderID: 501, Charge: decimal.NewFromInt(req.Quantity)}, nil
}

func (f *fakeOrders) PlaceMassOrder(context.Context, session.Session, string) (*orders.MassPlaced, error) {
	return &orders.MassPlaced{OrderIDs: []int64{1, 2, 3}}, nil
}

func (f *fakeOrders) Refill(_ context.Context, _ session.Session, ids []int64) (*orders.RefillResult, error) {
	f.refilled = ids
	return &orders.RefillResult{OrderIDs: ids}, nil
}

type fakePayments struct {
	depositErr error
}

func (f *fakePayments) CreateYooKassaDeposit(_ context.Context, _ session.Session, amount decimal.Decimal) (*payment.Deposit, error) {
	if !amount.IsPositive() {
		return nil, payment.ErrInvalidAmount
	}
	url := "https://yookassa.example/pay/1"
	return &payment.Deposit{ID: 1, Provider: payment.ProviderYooKassa, Amount: amount, Status: payment.StatusPending, PaymentURL: &url}, nil
}

func (f *fakePayments) Deposit(_ context.Context, _ session.Session, id int64) (*payment.Deposit, error) {
	if f.depositErr != nil {
		return nil, f.depositErr
	}
	return &payment.Deposit{ID: id, Status: payment.StatusApproved}, nil
}

func (f *fakePayments) Deposits(context.Context, session.Session) ([]*payment.Deposit, error) {
	return []*payment.Deposit{{ID: 1}, {ID: 2}}, nil
}

func (f *fakePayments) CashFlow(_ context.Context, _ session.Session, page int) (*payment.CashFlowView, error) {
	view := &payment.CashFlowView{}
	view.Meta.Page = page
	return view, nil
}

func (f *fakePayments) PerfectMoneyForm(_ context.Context, _ session.Session, amount decimal.Decimal) (*payment.PerfectMoneyForm, error) {
	if !amount.IsPositive() {
		return nil, payment.ErrInvalidAmount
	}
	return &payment.PerfectMoneyForm{
		Action: "https://perfectmoney.com/api/step1.asp",
		Fields: []payment.FormField{
			{Name: "PAYEE_ACCOUNT", Value: "U123"},
			{Name: "PAYMENT_AMOUNT", Value: amount.StringFixed(2)},
		},
	}, nil
}

func (f *fakePayments) PayPalButton(decimal.Decimal) (*payment.PayPalButton, error) {
	return nil, payment.ErrProviderDisabled
}

func (f *fakePayments) CapturePayPal(context.Context, session.Session, string) error { return nil }

func (f *fakePayments) FpaymentInvoice(context.Context, session.Session, decimal.Decimal) (string, error) {
	return "https://fpayment.example/pay/inv-1", nil
}

func (f *fakePayments) MoMoQR(context.Context, session.Session, decimal.Decimal) (*payment.MoMoQR, error) {
	return &payment.MoMoQR{ImageURL: "https://img.vietqr.io/image/momo-1-compact2.png", DepositCode: "SMM42"}, nil
}

type fakeSupport struct {
	submitted []support.TicketRequest
}

func (f *fakeSupport) Submit(_ context.Context, _ session.Session, req support.TicketRequest) (*support.Ticket, error) {
	if req.Subject == "" {
		return nil, &support.TicketError{Field: "subject", Reason: "required"}
	}
	f.submitted = append(f.submitted, req)
	return &support.Ticket{ID: 1, Subject: req.Subject, CreatedAt: time.Now()}, nil
}

func (f *fakeSupport) List(context.Context, session.Session) ([]*support.Ticket, error) {
	return nil, nil
}

type fixture struct {
	users    *fakeUsers
	catalog  *fakeCatalog
	orders   *fakeOrders
	payments *fakePayments
	support  *fakeSupport
	server   *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	translator, err := localization.NewService(localization.DefaultLanguage)
	if err != nil {
		t.Fatalf("localization: %v", err)
	}

	f := &fixture{
		users: &fakeUsers{},
		catalog: &fakeCatalog{groups: []catalog.Category{
			{Name: "A", Services: []catalog.Product{
				{ID: 1, Name: "svc1", Platform: "YT", Category: "A", Rate: decimal.NewFromInt(1), Min: 10, Max: 100},
				{ID: 2, Name: "svc2", Platform: "IG", Category: "A", Rate: decimal.NewFromInt(2), Min: 10, Max: 100},
			}},
		}},
		orders:   &fakeOrders{},
		payments: &fakePayments{},
		support:  &fakeSupport{},
	}

	srv, err := NewServer(Config{
		Cookie:      CookieConfig{Name: "access_token", TTL: time.Hour, Secure: true},
		DefaultLang: localization.DefaultLanguage,
	}, Deps{
		Users:      f.users,
		Catalog:    f.catalog,
		Orders:     f.orders,
		Payments:   f.payments,
		Support:    f.support,
		Translator: translator,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	f.server = srv
	return f
}
