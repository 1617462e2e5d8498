package panelapi

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type User struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Language string          `json:"language"`
}

type LoginHistoryItem struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	Email           string `json:"email,omitempty"`
	Language        string `json:"language,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Value       string          `json:"value"`
	Rate        decimal.Decimal `json:"rate"`
	Min         int64           `json:"min"`
	Max         int64           `json:"max"`
	Platform    string          `json:"platform"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Refill      bool            `json:"refill"`
}

type CategoryGroup struct {
	Category string    `json:"category"`
	Services []Product `json:"services"`
}

type CreateOrderRequest struct {
	ServiceID int64  `json:"service_id"`
	Link      string `json:"link"`
	Quantity  int64  `json:"quantity"`
}

type CreateOrderResponse struct {
	OrderID int64           `json:"order_id"`
	Charge  decimal.Decimal `json:"charge"`
}

type MassOrderRequest struct {
	Orders []CreateOrderRequest `json:"orders"`
}

type MassOrderResponse struct {
	OrderIDs []int64 `json:"order_ids"`
}

type Order struct {
	ID          int64           `json:"id"`
	ServiceID   int64           `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Link        string          `json:"link"`
	Quantity    int64           `json:"quantity"`
	Charge      decimal.Decimal `json:"charge"`
	Status      string          `json:"status"`
	StartCount  int64           `json:"start_count"`
	Remains     int64           `json:"remains"`
	Refill      bool            `json:"refill"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type RefillRequest struct {
	OrderIDs []int64 `json:"order_ids"`
}

type RefillResponse struct {
	RefillIDs []int64 `json:"refill_ids"`
}

type CreateInvoiceRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"method"`
}

type Invoice struct {
	InvoiceID   string `json:"invoice_id"`
	RedirectURL string `json:"redirect_url"`
}

type CreateDepositRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Method     string          `json:"method"`
	ExternalID string          `json:"external_id"`
}

type PayPalCaptureRequest struct {
	OrderID string `json:"order_id"`
}

type Deposit struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
