package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusInProgress Status = "In progress"
	StatusCompleted  Status = "Completed"
	StatusPartial    Status = "Partial"
	StatusCanceled   Status = "Canceled"
)

var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusInProgress,
	StatusCompleted,
	StatusPartial,
	StatusCanceled,
}

type Order struct {
	ID          int64           `json:"id"`
	ServiceID   int64           `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Link        string          `json:"link"`
	Quantity    int64           `json:"quantity"`
	Charge      decimal.Decimal `json:"charge"`
	Status      Status          `json:"status"`
	StartCount  int64           `json:"start_count"`
	Remains     int64           `json:"remains"`
	Refill      bool            `json:"refill"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PlaceRequest struct {
	ServiceID int64  `json:"service_id" schema:"service_id"`
	Link      string `json:"link" schema:"link"`
	Quantity  int64  `json:"quantity" schema:"quantity"`
}

type Placed struct {
	OrderID int64           `json:"order_id"`
	Charge  decimal.Decimal `json:"charge"`
	Balance decimal.Decimal `json:"balance"`
}

type MassPlaced struct {
	OrderIDs []int64         `json:"order_ids"`
	Total    decimal.Decimal `json:"total"`
}

type RefillResult struct {
	RefillIDs []int64 `json:"refill_ids"`
	OrderIDs  []int64 `json:"order_ids"`
}

// OrderEvent is published after a successful placement.
type OrderEvent struct {
	OrderIDs  []int64         `json:"order_ids"`
	ServiceID int64           `json:"service_id,omitempty"`
	Quantity  int64           `json:"quantity,omitempty"`
	Charge    decimal.Decimal `json:"charge"`
}

type RefillEvent struct {
	OrderIDs  []int64 `json:"order_ids"`
	RefillIDs []int64 `json:"refill_ids"`
}
