package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/orders"
	"smm-storefront/internal/stories/payment"
)

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Toast   string          `json:"toast"`
	Data    json.RawMessage `json:"data"`
}

type request struct {
	method  string
	path    string
	body    string
	form    bool
	authed  bool
	headers map[string]string
	cookies []*http.Cookie
}

func (f *fixture) do(req request) *httptest.ResponseRecorder {
	var r *http.Request
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
		if req.form {
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		} else {
			r.Header.Set("Content-Type", "application/json")
		}
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	if req.authed {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: testToken})
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, r)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, data any) testResponse {
	t.Helper()
	var resp testResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(resp.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", resp.Data, err)
		}
	}
	return resp
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			return c
		}
	}
	return nil
}

func TestAuthGate(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name         string
		req          request
		wantStatus   int
		wantLocation string
	}{
		{name: "account page", req: request{method: http.MethodGet, path: "/account"}, wantStatus: http.StatusSeeOther, wantLocation: "/signin"},
		{name: "momo page", req: request{method: http.MethodGet, path: "/account/deposit/momo"}, wantStatus: http.StatusSeeOther, wantLocation: "/signin"},
		{name: "perfectmoney form", req: request{method: http.MethodPost, path: "/account/deposit/perfectmoney", body: "amount=5", form: true}, wantStatus: http.StatusSeeOther, wantLocation: "/signin"},
		{name: "me api", req: request{method: http.MethodGet, path: "/api/me"}, wantStatus: http.StatusUnauthorized},
		{name: "orders api", req: request{method: http.MethodGet, path: "/api/orders"}, wantStatus: http.StatusUnauthorized},
		{name: "public catalog", req: request{method: http.MethodGet, path: "/api/catalog"}, wantStatus: http.StatusOK},
		{name: "signed in account", req: request{method: http.MethodGet, path: "/account", authed: true}, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantLocation != "" {
				if got := rec.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
				if rec.Body.Len() != 0 {
					t.Errorf("redirect rendered content: %q", rec.Body.String())
				}
			}
			if tt.wantStatus == http.StatusUnauthorized {
				resp := decodeBody(t, rec, nil)
				if resp.Toast != "toast.unauthorized" || len(resp.Data) != 0 {
					t.Errorf("response = %+v", resp)
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/api/auth/login", body: `{"username":"alice","password":"secret"}`})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("no session cookie")
	}
	if c.Value != testToken || c.MaxAge != 3600 || !c.Secure || !c.HttpOnly || c.SameSite != http.SameSiteStrictMode || c.Path != "/" {
		t.Errorf("cookie = %+v", c)
	}

	rec = f.do(request{method: http.MethodPost, path: "/api/auth/login", body: "username=alice&password=secret", form: true})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/account" {
		t.Errorf("form login = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = f.do(request{method: http.MethodPost, path: "/api/auth/login", body: `{"username":"alice"}`})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d", rec.Code)
	}
	if resp := decodeBody(t, rec, nil); resp.Toast != "toast.missing_credentials" {
		t.Errorf("toast = %q", resp.Toast)
	}
	if sessionCookie(rec) != nil {
		t.Error("failed login set a cookie")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/api/auth/logout", authed: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie = %+v, want expired", c)
	}
	if !f.users.loggedOut {
		t.Error("panel logout not called")
	}
}

func TestExpiredTokenClearsCookie(t *testing.T) {
	f := newFixture(t)
	f.users.detailErr = errors.Wrap(&panelapi.Error{Status: http.StatusUnauthorized}, "user detail")

	rec := f.do(request{method: http.MethodGet, path: "/api/me", authed: true})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie = %+v, want expired", c)
	}

	rec = f.do(request{method: http.MethodGet, path: "/account", authed: true})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/signin" {
		t.Errorf("account page = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestToastFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{"unauthorized", &panelapi.Error{Status: 401}, 401, "toast.unauthorized"},
		{"bad request", errors.Wrap(&panelapi.Error{Status: 400}, "create order"), 400, "toast.bad_request"},
		{"server error", &panelapi.Error{Status: 500}, 500, "toast.server_error"},
		{"other status", &panelapi.Error{Status: 429}, 429, "toast.generic"},
		{"no response", errors.Wrap(panelapi.ErrNoResponse, "list orders"), 502, "toast.no_response"},
		{"balance", &orders.BalanceError{Balance: decimal.NewFromInt(1), Required: decimal.NewFromInt(5)}, 422, "toast.insufficient_balance"},
		{"validation", &orders.ValidationError{Field: "link", Reason: "required"}, 400, "toast.validation"},
		{"deposit not found", payment.ErrDepositNotFound, 404, "toast.not_found"},
		{"service not found", errors.Wrap(catalog.ErrServiceNotFound, "product"), 404, "toast.not_found"},
		{"malformed", errors.Wrap(errMalformed, "eof"), 400, "toast.bad_request"},
		{"unknown", errors.New("boom"), 500, "toast.server_error"},
		{"unreadable panel reply", &panelapi.Error{Status: 502}, 502, "toast.generic"},
		{"success status never leaks", &panelapi.Error{Status: 200}, 500, "toast.server_error"},
		{"paypal order missing", errors.Wrap(payment.ErrMissingPayPalOrder, "capture"), 400, "toast.validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toastFor(tt.err)
			if got.status != tt.wantStatus || got.key != tt.wantKey {
				t.Errorf("toastFor() = %d %s, want %d %s", got.status, got.key, tt.wantStatus, tt.wantKey)
			}
		})
	}
}

func TestPlaceOrderToasts(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/api/orders", authed: true, body: `{"service_id":1,"link":"https://x","quantity":10}`})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeBody(t, rec, nil); resp.Message != "Order #501 placed." {
		t.Errorf("message = %q", resp.Message)
	}

	f.orders.placeErr = &orders.BalanceError{Balance: decimal.NewFromInt(1), Required: decimal.NewFromInt(5)}
	rec = f.do(request{method: http.MethodPost, path: "/api/orders", authed: true, body: `{"service_id":1,"link":"https://x","quantity":10}`})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody(t, rec, nil)
	if resp.Success || resp.Message != "Insufficient balance: you have 1.00, this order needs 5.00." {
		t.Errorf("response = %+v", resp)
	}
}

func TestLanguageSelection(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  request
		want string
	}{
		{"default", request{method: http.MethodGet, path: "/pages/faq"}, "Frequently asked questions"},
		{"header", request{method: http.MethodGet, path: "/pages/faq", headers: map[string]string{"Accept-Language": "vi-VN,vi;q=0.9"}}, "Câu hỏi thường gặp"},
		{"cookie wins", request{
			method:  http.MethodGet,
			path:    "/pages/faq",
			headers: map[string]string{"Accept-Language": "en"},
			cookies: []*http.Cookie{{Name: "lang", Value: "vi"}},
		}, "Câu hỏi thường gặp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.req)
			if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("status %d, body missing %q", rec.Code, tt.want)
			}
		})
	}

	if rec := f.do(request{method: http.MethodGet, path: "/pages/pricing"}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown page status = %d", rec.Code)
	}
	if rec := f.do(request{method: http.MethodGet, path: "/pages/support"}); !strings.Contains(rec.Body.String(), `name="subject"`) {
		t.Error("support page has no form")
	}
}

func TestCascade(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantPlatform string
		wantService  int64
	}{
		{"initial", "", http.StatusOK, "YT", 1},
		{"platform", "?platform=IG", http.StatusOK, "IG", 2},
		{"deep link", "?detail=2", http.StatusOK, "IG", 2},
		{"unknown platform", "?platform=TikTok", http.StatusBadRequest, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(request{method: http.MethodGet, path: "/api/catalog/cascade" + tt.query})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var view catalog.CascadeView
			decodeBody(t, rec, &view)
			if view.Selected.Platform != tt.wantPlatform {
				t.Errorf("platform = %q, want %q", view.Selected.Platform, tt.wantPlatform)
			}
			if view.Selected.Product == nil || view.Selected.Product.ID != tt.wantService {
				t.Errorf("service = %+v, want %d", view.Selected.Product, tt.wantService)
			}
		})
	}
}

func TestProductNotFound(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(request{method: http.MethodGet, path: "/api/catalog/products/99"}); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := f.do(request{method: http.MethodGet, path: "/api/catalog/products/abc"}); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestOrdersTableRebase(t *testing.T) {
	f := newFixture(t)

	q := url.Values{}
	q.Set("status", string(orders.StatusCompleted))
	q.Set("page", "3")
	q.Set("prev_key", "stale")
	rec := f.do(request{method: http.MethodGet, path: "/api/orders?" + q.Encode(), authed: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if f.orders.lastTable.Page != 1 || f.orders.lastTable.Status != orders.StatusCompleted {
		t.Errorf("filter = %+v", f.orders.lastTable)
	}

	rec = f.do(request{method: http.MethodGet, path: "/api/orders?status=Lost", authed: true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeBody(t, rec, nil); resp.Toast != "toast.validation" {
		t.Errorf("toast = %q", resp.Toast)
	}
}

func TestSelection(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       []int64
		wantAll    bool
	}{
		{"select visible", `{"action":"toggle_visible","selected":[9],"visible":[1,2]}`, http.StatusOK, []int64{1, 2, 9}, true},
		{"clear visible", `{"action":"toggle_visible","selected":[1,2,9],"visible":[1,2]}`, http.StatusOK, []int64{9}, false},
		{"toggle one", `{"action":"toggle","id":4,"selected":[9]}`, http.StatusOK, []int64{4, 9}, false},
		{"clear", `{"action":"clear","selected":[1,9]}`, http.StatusOK, []int64{}, false},
		{"unknown action", `{"action":"invert"}`, http.StatusBadRequest, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(request{method: http.MethodPost, path: "/api/orders/selection", authed: true, body: tt.body})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var view selectionView
			decodeBody(t, rec, &view)
			if !reflect.DeepEqual(view.Selected, tt.want) || view.AllVisibleSelected != tt.wantAll {
				t.Errorf("view = %+v, want %v all=%v", view, tt.want, tt.wantAll)
			}
		})
	}
}

func TestCopyIDsAndRefill(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/api/orders/copy-ids", authed: true, body: `{"order_ids":[3,1,3]}`})
	var view copyView
	resp := decodeBody(t, rec, &view)
	if view.Text != "1\n3" || view.Count != 2 || resp.Toast != "toast.ids_copied" {
		t.Errorf("copy = %+v, %+v", view, resp)
	}

	rec = f.do(request{method: http.MethodPost, path: "/api/orders/copy-ids", authed: true, body: `{"order_ids":[]}`})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty copy status = %d", rec.Code)
	}

	rec = f.do(request{method: http.MethodPost, path: "/api/refills", authed: true, body: `{"order_ids":[5,6]}`})
	if rec.Code != http.StatusOK || !reflect.DeepEqual(f.orders.refilled, []int64{5, 6}) {
		t.Errorf("refill status = %d, ids = %v", rec.Code, f.orders.refilled)
	}
	if resp := decodeBody(t, rec, nil); resp.Message != "Refill requested for 2 orders." {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestDeposits(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/api/deposits/yookassa", authed: true, body: `{"amount":"150.00"}`})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view depositView
	decodeBody(t, rec, &view)
	if view.PaymentURL != "https://yookassa.example/pay/1" || view.Status != "pending" {
		t.Errorf("deposit = %+v", view)
	}

	rec = f.do(request{method: http.MethodPost, path: "/api/deposits/yookassa", authed: true, body: "amount=0", form: true})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero amount status = %d", rec.Code)
	}

	f.payments.depositErr = payment.ErrDepositNotFound
	if rec := f.do(request{method: http.MethodGet, path: "/api/deposits/7", authed: true}); rec.Code != http.StatusNotFound {
		t.Errorf("foreign deposit status = %d", rec.Code)
	}

	if rec := f.do(request{method: http.MethodPost, path: "/api/deposits/paypal/button", authed: true, body: `{"amount":"5"}`}); rec.Code != http.StatusBadRequest {
		t.Errorf("disabled paypal status = %d", rec.Code)
	}
}

func TestPerfectMoneyPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/account/deposit/perfectmoney", authed: true, body: "amount=12.5", form: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		`action="https://perfectmoney.com/api/step1.asp"`,
		`name="PAYMENT_AMOUNT" value="12.50"`,
		"Pay with PerfectMoney",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("form missing %q", want)
		}
	}

	for _, amount := range []string{"0", "abc"} {
		rec := f.do(request{method: http.MethodPost, path: "/account/deposit/perfectmoney", authed: true, body: "amount=" + amount, form: true})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("amount %q status = %d", amount, rec.Code)
		}
	}
}

func TestMoMoPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodGet, path: "/account/deposit/momo", authed: true})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "SMM42") {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitTicket(t *testing.T) {
	f := newFixture(t)

	rec := f.do(request{method: http.MethodPost, path: "/api/support", authed: true, body: "subject=Late+order&message=Order+12", form: true})
	if rec.Code != http.StatusOK || len(f.support.submitted) != 1 {
		t.Fatalf("status = %d, submitted = %v", rec.Code, f.support.submitted)
	}

	rec = f.do(request{method: http.MethodPost, path: "/api/support", authed: true, body: `{"message":"hi"}`})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeBody(t, rec, nil); resp.Toast != "toast.validation" {
		t.Errorf("toast = %q", resp.Toast)
	}
}
