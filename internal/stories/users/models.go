package users

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Language string          `json:"language"`
}

type LoginRecord struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type Credentials struct {
	Username string `json:"username" schema:"username"`
	Password string `json:"password" schema:"password"`
}

// ProfileUpdate leaves fields empty to keep them unchanged.
type ProfileUpdate struct {
	Email           string `json:"email" schema:"email"`
	Language        string `json:"language" schema:"language"`
	CurrentPassword string `json:"current_password" schema:"current_password"`
	NewPassword     string `json:"new_password" schema:"new_password"`
	ConfirmPassword string `json:"confirm_password" schema:"confirm_password"`
}
