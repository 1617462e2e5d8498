package orders

import (
	"context"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/session"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/users"
)

type (
	Panel interface {
		CreateOrder(ctx context.Context, token string, req panelapi.CreateOrderRequest) (*panelapi.CreateOrderResponse, error)
		MassOrder(ctx context.Context, token string, req panelapi.MassOrderRequest) (*panelapi.MassOrderResponse, error)
		ListOrders(ctx context.Context, token string) ([]panelapi.Order, error)
		CreateRefill(ctx context.Context, token string, req panelapi.RefillRequest) (*panelapi.RefillResponse, error)
	}

	Catalog interface {
		ProductByID(ctx context.Context, sess session.Session, id int64) (*catalog.Product, error)
	}

	Users interface {
		Detail(ctx context.Context, sess session.Session) (*users.User, error)
	}

	Events interface {
		Publish(ctx context.Context, eventType, key string, payload any)
	}
)
