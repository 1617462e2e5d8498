package panelapi

import (
	"context"
	"net/http"
	"strconv"
)

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	err := c.call(ctx, request{method: http.MethodPost, path: "/auth/login", endpoint: "auth.login", body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/auth/logout", endpoint: "auth.logout", token: token}, nil)
}

func (c *Client) UserDetail(ctx context.Context, token string) (*User, error) {
	var out User
	err := c.call(ctx, request{method: http.MethodGet, path: "/user/detail", endpoint: "user.detail", token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginHistory(ctx context.Context, token string) ([]LoginHistoryItem, error) {
	var out []LoginHistoryItem
	err := c.call(ctx, request{method: http.MethodGet, path: "/user/history", endpoint: "user.history", token: token}, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) (*User, error) {
	var out User
	err := c.call(ctx, request{method: http.MethodPut, path: "/user/profile", endpoint: "user.profile", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context, token string) ([]CategoryGroup, error) {
	var out []CategoryGroup
	err := c.call(ctx, request{method: http.MethodGet, path: "/products", endpoint: "products.list", token: token}, &out)
	return out, err
}

func (c *Client) ProductDetail(ctx context.Context, token string, id int64) (*Product, error) {
	var out Product
	err := c.call(ctx, request{
		method:   http.MethodGet,
		path:     "/products/" + strconv.FormatInt(id, 10),
		endpoint: "products.detail",
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	err := c.call(ctx, request{method: http.MethodPost, path: "/orders", endpoint: "orders.create", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MassOrder(ctx context.Context, token string, req MassOrderRequest) (*MassOrderResponse, error) {
	var out MassOrderResponse
	err := c.call(ctx, request{method: http.MethodPost, path: "/orders/mass", endpoint: "orders.mass", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var out []Order
	err := c.call(ctx, request{method: http.MethodGet, path: "/orders", endpoint: "orders.list", token: token}, &out)
	return out, err
}

func (c *Client) CreateRefill(ctx context.Context, token string, req RefillRequest) (*RefillResponse, error) {
	var out RefillResponse
	err := c.call(ctx, request{method: http.MethodPost, path: "/refills", endpoint: "refills.create", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvoice(ctx context.Context, token string, req CreateInvoiceRequest) (*Invoice, error) {
	var out Invoice
	err := c.call(ctx, request{method: http.MethodPost, path: "/invoices", endpoint: "invoices.create", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDeposit(ctx context.Context, token string, req CreateDepositRequest) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/deposits", endpoint: "deposits.create", token: token, body: req}, nil)
}

func (c *Client) CapturePayPal(ctx context.Context, token string, req PayPalCaptureRequest) error {
	return c.call(ctx, request{
		method:   http.MethodPost,
		path:     "/deposits/paypal/capture",
		endpoint: "deposits.paypal_capture",
		token:    token,
		body:     req,
	}, nil)
}

func (c *Client) ListDeposits(ctx context.Context, token string) ([]Deposit, error) {
	var out []Deposit
	err := c.call(ctx, request{method: http.MethodGet, path: "/deposits", endpoint: "deposits.list", token: token}, &out)
	return out, err
}
