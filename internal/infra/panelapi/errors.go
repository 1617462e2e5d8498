package panelapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

var (
	// ErrNoResponse means the request never produced an HTTP response.
	ErrNoResponse = errors.New("panel api: no response")
	// ErrUnauthorized matches any *Error with status 401.
	ErrUnauthorized = errors.New("panel api: unauthorized")
)

// Error is the normalized shape of a failed panel call: { status, message, data }.
type Error struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("panel api: status %d", e.Status)
	}
	return fmt.Sprintf("panel api: status %d: %s", e.Status, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// StatusOf extracts the HTTP status of a panel error, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type noResponseError struct {
	op    string
	cause error
}

func (e *noResponseError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, ErrNoResponse, e.cause)
}

func (e *noResponseError) Unwrap() []error {
	return []error{ErrNoResponse, e.cause}
}
