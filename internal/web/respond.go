package web

import (
	"mime"
	"net/http"
	"reflect"

	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/orders"
	"smm-storefront/internal/stories/payment"
	"smm-storefront/internal/stories/support"
	"smm-storefront/internal/stories/users"
)

var errMalformed = errors.New("malformed request")

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Toast   string `json:"toast,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type toast struct {
	status int
	key    string
	params map[string]interface{}
}

// toastFor maps a failure to the status and message shown to the customer.
func toastFor(err error) toast {
	var (
		balanceErr *orders.BalanceError
		validErr   *orders.ValidationError
		ticketErr  *support.TicketError
	)

	switch {
	case errors.Is(err, panelapi.ErrUnauthorized):
		return toast{status: http.StatusUnauthorized, key: "toast.unauthorized"}
	case errors.Is(err, panelapi.ErrNoResponse):
		return toast{status: http.StatusBadGateway, key: "toast.no_response"}
	case errors.As(err, &balanceErr):
		return toast{status: http.StatusUnprocessableEntity, key: "toast.insufficient_balance", params: map[string]interface{}{
			"balance":  balanceErr.Balance.StringFixed(2),
			"required": balanceErr.Required.StringFixed(2),
		}}
	case errors.As(err, &validErr):
		return toast{status: http.StatusBadRequest, key: "toast.validation", params: map[string]interface{}{
			"field":  validErr.Field,
			"reason": validErr.Reason,
		}}
	case errors.As(err, &ticketErr):
		return toast{status: http.StatusBadRequest, key: "toast.validation", params: map[string]interface{}{
			"field":  ticketErr.Field,
			"reason": ticketErr.Reason,
		}}
	case errors.Is(err, users.ErrPasswordMismatch):
		return toast{status: http.StatusBadRequest, key: "toast.password_mismatch"}
	case errors.Is(err, users.ErrMissingCredentials):
		return toast{status: http.StatusBadRequest, key: "toast.missing_credentials"}
	case errors.Is(err, users.ErrCurrentPassword):
		return toast{status: http.StatusBadRequest, key: "toast.validation", params: map[string]interface{}{
			"field":  "current_password",
			"reason": "required",
		}}
	case errors.Is(err, payment.ErrInvalidAmount):
		return toast{status: http.StatusBadRequest, key: "toast.invalid_amount"}
	case errors.Is(err, payment.ErrMissingPayPalOrder):
		return toast{status: http.StatusBadRequest, key: "toast.validation", params: map[string]interface{}{
			"field":  "order_id",
			"reason": "required",
		}}
	case errors.Is(err, payment.ErrProviderDisabled):
		return toast{status: http.StatusBadRequest, key: "toast.provider_disabled"}
	case errors.Is(err, payment.ErrDepositNotFound), errors.Is(err, catalog.ErrServiceNotFound):
		return toast{status: http.StatusNotFound, key: "toast.not_found"}
	case errors.Is(err, errMalformed):
		return toast{status: http.StatusBadRequest, key: "toast.bad_request"}
	}

	switch status := panelapi.StatusOf(err); {
	case status < http.StatusBadRequest || status == http.StatusInternalServerError:
		return toast{status: http.StatusInternalServerError, key: "toast.server_error"}
	case status == http.StatusBadRequest:
		return toast{status: http.StatusBadRequest, key: "toast.bad_request"}
	case status == http.StatusNotFound:
		return toast{status: http.StatusNotFound, key: "toast.not_found"}
	default:
		return toast{status: status, key: "toast.generic", params: map[string]interface{}{"status": status}}
	}
}

func (s *Server) translate(r *http.Request, key string, params map[string]interface{}) string {
	if s.deps.Translator == nil {
		return key
	}
	return s.deps.Translator.Get(language(r.Context()), key, params)
}

func (s *Server) respondOK(w http.ResponseWriter, r *http.Request, data any) {
	render.JSON(w, r, response{Success: true, Data: data})
}

func (s *Server) respondOKToast(w http.ResponseWriter, r *http.Request, data any, key string, params map[string]interface{}) {
	render.JSON(w, r, response{
		Success: true,
		Toast:   key,
		Message: s.translate(r, key, params),
		Data:    data,
	})
}

func (s *Server) respondToast(w http.ResponseWriter, r *http.Request, status int, key string, params map[string]interface{}) {
	render.Status(r, status)
	render.JSON(w, r, response{
		Toast:   key,
		Message: s.translate(r, key, params),
	})
}

// respondError clears the session cookie on 401 so the next navigation
// lands on the sign-in page.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	t := toastFor(err)
	if t.status == http.StatusUnauthorized {
		s.clearSessionCookie(w)
	}
	if t.status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("Request rejected", "path", r.URL.Path, "status", t.status, "error", err)
	}
	s.respondToast(w, r, t.status, t.key, t.params)
}

// pageError is respondError for HTML routes.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	t := toastFor(err)
	if t.status == http.StatusUnauthorized {
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}
	if t.status >= http.StatusInternalServerError {
		s.logger.Error("Page failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, s.translate(r, t.key, t.params), t.status)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to render template", "template", name, "error", err)
	}
}

// decode reads a JSON body, or form values for any other content type.
func (s *Server) decode(r *http.Request, dst any) error {
	if isJSON(r) {
		if err := render.DecodeJSON(r.Body, dst); err != nil {
			return errors.Wrap(errMalformed, err.Error())
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(errMalformed, err.Error())
	}
	if err := s.decoder.Decode(dst, r.Form); err != nil {
		return errors.Wrap(errMalformed, err.Error())
	}
	return nil
}

func (s *Server) decodeQuery(r *http.Request, dst any) error {
	if err := s.decoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.Wrap(errMalformed, err.Error())
	}
	return nil
}

func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

func convertDecimal(value string) reflect.Value {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return reflect.Value{}
	}
	return reflect.ValueOf(d)
}
