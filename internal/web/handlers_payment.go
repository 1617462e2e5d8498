package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/stories/payment"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" schema:"amount"`
}

type depositView struct {
	ID         int64           `json:"id"`
	Provider   string          `json:"provider"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	PaymentURL string          `json:"payment_url,omitempty"`
	Reported   bool            `json:"reported"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newDepositView(d *payment.Deposit) depositView {
	return depositView{
		ID:         d.ID,
		Provider:   string(d.Provider),
		Amount:     d.Amount,
		Currency:   d.Currency,
		Status:     string(d.Status),
		PaymentURL: lo.FromPtr(d.PaymentURL),
		Reported:   d.ReportedAt != nil,
		CreatedAt:  d.CreatedAt,
	}
}

func (s *Server) createYooKassaDeposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	d, err := s.deps.Payments.CreateYooKassaDeposit(r.Context(), currentSession(r), req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	s.respondOK(w, r, newDepositView(d))
}

// deposit refreshes a pending deposit and credits it once approved.
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, r, errors.Wrap(errMalformed, "deposit id"))
		return
	}

	d, err := s.deps.Payments.Deposit(r.Context(), currentSession(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, newDepositView(d))
}

func (s *Server) deposits(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Payments.Deposits(r.Context(), currentSession(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, lo.Map(list, func(d *payment.Deposit, _ int) depositView { return newDepositView(d) }))
}

type pageQuery struct {
	Page int `schema:"page"`
}

func (s *Server) cashFlow(w http.ResponseWriter, r *http.Request) {
	var q pageQuery
	if err := s.decodeQuery(r, &q); err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.deps.Payments.CashFlow(r.Context(), currentSession(r), q.Page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, view)
}

func (s *Server) payPalButton(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	button, err := s.deps.Payments.PayPalButton(req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, button)
}

type captureRequest struct {
	OrderID string `json:"order_id" schema:"order_id"`
}

func (s *Server) capturePayPal(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.deps.Payments.CapturePayPal(r.Context(), currentSession(r), req.OrderID); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, nil)
}

type redirectView struct {
	RedirectURL string `json:"redirect_url"`
}

func (s *Server) fpaymentInvoice(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	url, err := s.deps.Payments.FpaymentInvoice(r.Context(), currentSession(r), req.Amount)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, redirectView{RedirectURL: url})
}

type perfectMoneyView struct {
	Lang   string
	Submit string
	Form   *payment.PerfectMoneyForm
}

// perfectMoneyForm renders a self-submitting form that posts to PerfectMoney.
func (s *Server) perfectMoneyForm(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decode(r, &req); err != nil {
		s.pageError(w, r, err)
		return
	}

	form, err := s.deps.Payments.PerfectMoneyForm(r.Context(), currentSession(r), req.Amount)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.renderPage(w, http.StatusOK, "perfectmoney.html", perfectMoneyView{
		Lang:   language(r.Context()),
		Submit: s.translate(r, "deposit.perfectmoney.submit", nil),
		Form:   form,
	})
}

type moMoView struct {
	Lang  string
	Title string
	Note  string
	QR    *payment.MoMoQR
}

func (s *Server) moMoQR(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := s.decodeQuery(r, &req); err != nil {
		s.pageError(w, r, err)
		return
	}

	qr, err := s.deps.Payments.MoMoQR(r.Context(), currentSession(r), req.Amount)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.renderPage(w, http.StatusOK, "momo.html", moMoView{
		Lang:  language(r.Context()),
		Title: s.translate(r, "deposit.momo.title", nil),
		Note:  s.translate(r, "deposit.momo.note", map[string]interface{}{"code": qr.DepositCode}),
		QR:    qr,
	})
}
