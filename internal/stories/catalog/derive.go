package catalog

import "github.com/samber/lo"

// Platforms is the distinct platform list in first-seen order.
func Platforms(groups []Category) []string {
	all := lo.FlatMap(groups, func(g Category, _ int) []string {
		return lo.Map(g.Services, func(s Product, _ int) string { return s.Platform })
	})
	return lo.Uniq(all)
}

// Categories lists the groups holding at least one service of platform.
func Categories(groups []Category, platform string) []string {
	matching := lo.Filter(groups, func(g Category, _ int) bool {
		return lo.ContainsBy(g.Services, func(s Product) bool { return s.Platform == platform })
	})
	return lo.Uniq(lo.Map(matching, func(g Category, _ int) string { return g.Name }))
}

// Services lists the services of category that belong to platform.
func Services(groups []Category, platform, category string) []Product {
	out := make([]Product, 0)
	for _, g := range groups {
		if g.Name != category {
			continue
		}
		out = append(out, lo.Filter(g.Services, func(s Product, _ int) bool {
			return s.Platform == platform
		})...)
	}
	return out
}

func FindService(groups []Category, id int64) (Product, bool) {
	for _, g := range groups {
		if s, ok := lo.Find(g.Services, func(s Product) bool { return s.ID == id }); ok {
			return s, true
		}
	}
	return Product{}, false
}

// Tree is platform -> category -> services, for listings.
type Tree struct {
	Platform   string         `json:"platform"`
	Categories []TreeCategory `json:"categories"`
}

type TreeCategory struct {
	Name     string    `json:"name"`
	Services []Product `json:"services"`
}

func BuildTree(groups []Category) []Tree {
	return lo.Map(Platforms(groups), func(p string, _ int) Tree {
		return Tree{
			Platform: p,
			Categories: lo.Map(Categories(groups, p), func(c string, _ int) TreeCategory {
				return TreeCategory{Name: c, Services: Services(groups, p, c)}
			}),
		}
	})
}
