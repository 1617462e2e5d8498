package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"smm-storefront/internal/pagination"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type Provider string

const (
	ProviderYooKassa     Provider = "yookassa"
	ProviderFpayment     Provider = "fpayment"
	ProviderPayPal       Provider = "paypal"
	ProviderPerfectMoney Provider = "perfectmoney"
	ProviderMoMo         Provider = "momo"
)

// Deposit is a row of the local deposit ledger.
type Deposit struct {
	ID          int64
	Username    string
	Provider    Provider
	Amount      decimal.Decimal
	Currency    string
	Status      Status
	ExternalID  *string
	PaymentURL  *string
	ProcessedAt *time.Time
	ReportedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GetCriteria struct {
	ID         *int64
	ExternalID *string
}

type ListCriteria struct {
	Username *string
	Status   *Status
	Provider *Provider
	// CreatedAfter bounds how old a listed deposit may be
	CreatedAfter *time.Time
	Limit        int
	Offset       int
}

type UpdateParams struct {
	Status      *Status
	ExternalID  *string
	PaymentURL  *string
	ProcessedAt *time.Time
	ReportedAt  *time.Time
}

// CashFlowEntry is one line of the panel deposit history.
type CashFlowEntry struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type FormField struct {
	Name  string
	Value string
}

// PerfectMoneyForm is posted by the browser straight to PerfectMoney.
type PerfectMoneyForm struct {
	Action string
	Fields []FormField
}

// CashFlowView is one page of the deposit history split into columns.
type CashFlowView struct {
	Columns [][]CashFlowEntry `json:"columns"`
	Meta    pagination.Meta   `json:"meta"`
}

type MoMoQR struct {
	ImageURL    string `json:"image_url"`
	DepositCode string `json:"deposit_code"`
	Amount      string `json:"amount"`
	AccountNo   string `json:"account_no"`
	AccountName string `json:"account_name"`
}

type PayPalButton struct {
	ClientID string `json:"client_id"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type PerfectMoneySettings struct {
	PayeeAccount string
	PayeeName    string
	Units        string
	FormAction   string
	PaymentURL   string
	NoPaymentURL string
	StatusURL    string
}

type MoMoSettings struct {
	QRBaseURL   string
	BankCode    string
	AccountNo   string
	AccountName string
}

type PayPalSettings struct {
	ClientID string
	Currency string
}

// Settings configures the deposit channels. MaxPending bounds how long a
// YooKassa deposit keeps being polled.
type Settings struct {
	Currency     string
	MockPayment  bool
	MaxPending   time.Duration
	PerfectMoney PerfectMoneySettings
	MoMo         MoMoSettings
	PayPal       PayPalSettings
}

type DepositEvent struct {
	DepositID int64           `json:"deposit_id"`
	Username  string          `json:"username"`
	Provider  Provider        `json:"provider"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
}
