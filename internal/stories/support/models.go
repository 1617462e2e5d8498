package support

import "time"

const (
	MaxSubjectLen = 120
	MaxMessageLen = 4000
)

type Ticket struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketRequest is the support form as posted by the browser.
type TicketRequest struct {
	Subject string `json:"subject" schema:"subject"`
	Message string `json:"message" schema:"message"`
}

type ListCriteria struct {
	Username *string
	Limit    int
}
