package catalog

import (
	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/selector"
)

const BadgeRefill = "refill"

// Product is a purchasable catalog item. Rate is the price per unit.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Value       string          `json:"value"`
	Rate        decimal.Decimal `json:"rate"`
	Min         int64           `json:"min"`
	Max         int64           `json:"max"`
	Platform    string          `json:"platform"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Refill      bool            `json:"refill"`
}

// Category is one group of the fetched catalog, in panel order.
type Category struct {
	Name     string    `json:"name"`
	Services []Product `json:"services"`
}

func (s Product) Cost(quantity int64) decimal.Decimal {
	return s.Rate.Mul(decimal.NewFromInt(quantity))
}

func (s Product) Record() selector.Record {
	r := selector.Record{
		ID:       s.ID,
		Name:     s.Name,
		Platform: s.Platform,
		Category: s.Category,
	}
	if s.Refill {
		r.Badges = []string{BadgeRefill}
	}
	return r
}

func productFromDTO(p panelapi.Product, category string) Product {
	if p.Category != "" {
		category = p.Category
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Value:       p.Value,
		Rate:        p.Rate,
		Min:         p.Min,
		Max:         p.Max,
		Platform:    p.Platform,
		Category:    category,
		Description: p.Description,
		Refill:      p.Refill,
	}
}

func categoriesFromGroups(groups []panelapi.CategoryGroup) []Category {
	out := make([]Category, 0, len(groups))
	for _, g := range groups {
		c := Category{Name: g.Category, Services: make([]Product, 0, len(g.Services))}
		for _, p := range g.Services {
			c.Services = append(c.Services, productFromDTO(p, g.Category))
		}
		out = append(out, c)
	}
	return out
}
