package web

import (
	"context"

	"github.com/shopspring/decimal"

	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/orders"
	"smm-storefront/internal/stories/payment"
	"smm-storefront/internal/stories/support"
	"smm-storefront/internal/stories/users"
)

type (
	Users interface {
		Login(ctx context.Context, creds users.Credentials) (session.Session, error)
		Logout(ctx context.Context, sess session.Session) error
		Detail(ctx context.Context, sess session.Session) (*users.User, error)
		History(ctx context.Context, sess session.Session) ([]users.LoginRecord, error)
		UpdateProfile(ctx context.Context, sess session.Session, upd users.ProfileUpdate) (*users.User, error)
		Session(token string) session.Session
	}

	Catalog interface {
		Catalog(ctx context.Context, sess session.Session) ([]catalog.Category, error)
		ProductByID(ctx context.Context, sess session.Session, id int64) (*catalog.Product, error)
		Cascade(ctx context.Context, sess session.Session, detailID int64) (*catalog.Cascade, error)
	}

	Orders interface {
		Table(ctx context.Context, sess session.Session, f orders.Filter) (*orders.TableView, error)
		PlaceOrder(ctx context.Context, sess session.Session, req orders.PlaceRequest) (*orders.Placed, error)
		PlaceMassOrder(ctx context.Context, sess session.Session, text string) (*orders.MassPlaced, error)
		Refill(ctx context.Context, sess session.Session, orderIDs []int64) (*orders.RefillResult, error)
	}

	Payments interface {
		CreateYooKassaDeposit(ctx context.Context, sess session.Session, amount decimal.Decimal) (*payment.Deposit, error)
		Deposit(ctx context.Context, sess session.Session, id int64) (*payment.Deposit, error)
		Deposits(ctx context.Context, sess session.Session) ([]*payment.Deposit, error)
		CashFlow(ctx context.Context, sess session.Session, page int) (*payment.CashFlowView, error)
		PerfectMoneyForm(ctx context.Context, sess session.Session, amount decimal.Decimal) (*payment.PerfectMoneyForm, error)
		PayPalButton(amount decimal.Decimal) (*payment.PayPalButton, error)
		CapturePayPal(ctx context.Context, sess session.Session, orderID string) error
		FpaymentInvoice(ctx context.Context, sess session.Session, amount decimal.Decimal) (string, error)
		MoMoQR(ctx context.Context, sess session.Session, amount decimal.Decimal) (*payment.MoMoQR, error)
	}

	Support interface {
		Submit(ctx context.Context, sess session.Session, req support.TicketRequest) (*support.Ticket, error)
		List(ctx context.Context, sess session.Session) ([]*support.Ticket, error)
	}

	Translator interface {
		Get(lang, key string, params map[string]interface{}) string
		Match(header string) string
	}
)
