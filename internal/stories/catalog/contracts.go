package catalog

import (
	"context"

	"smm-storefront/internal/infra/panelapi"
)

type (
	// Panel is the catalog part of the panel API.
	Panel interface {
		ListProducts(ctx context.Context, token string) ([]panelapi.CategoryGroup, error)
		ProductDetail(ctx context.Context, token string, id int64) (*panelapi.Product, error)
	}
)
