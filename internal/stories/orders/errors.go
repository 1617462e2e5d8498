package orders

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ValidationError names the offending field. Line is set for mass orders.
type ValidationError struct {
	Field  string
	Reason string
	Line   int
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// BalanceError carries the shortfall shown to the customer.
type BalanceError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %s, need %s", e.Balance.StringFixed(2), e.Required.StringFixed(2))
}

func (e *BalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

func (e *BalanceError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Balance)
}
