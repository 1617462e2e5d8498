package catalog

import (
	"strconv"

	"github.com/samber/lo"

	"smm-storefront/internal/selector"
)

// Cascade drives the platform -> category -> service selectors. A platform
// change resets category and service, a category change resets service.
type Cascade struct {
	groups []Category

	platform *selector.Selector
	category *selector.Selector
	service  *selector.Selector

	selected Selection
}

type Selection struct {
	Platform string   `json:"platform"`
	Category string   `json:"category"`
	Product  *Product `json:"service"`
}

type CascadeView struct {
	Platforms  []selector.Item `json:"platforms"`
	Categories []selector.Item `json:"categories"`
	Services   []selector.Item `json:"services"`
	Selected   Selection       `json:"selected"`
}

// NewCascade runs the initial selection. A non-nil detail preselects its
// platform, category and service once.
func NewCascade(groups []Category, detail *Product) *Cascade {
	c := &Cascade{groups: groups}

	var rec *selector.Record
	if detail != nil {
		rec = lo.ToPtr(detail.Record())
	}

	c.service = selector.New(selector.Config{
		WithImage:  true,
		WithBadges: true,
		Detail:     rec,
		Projection: selector.ProjectWhole,
		OnSelect:   c.onService,
	})
	c.category = selector.New(selector.Config{
		Detail:     rec,
		Projection: selector.ProjectCategory,
		OnSelect:   c.onCategory,
	})
	c.platform = selector.New(selector.Config{
		WithImage:  true,
		Detail:     rec,
		Projection: selector.ProjectPlatform,
		OnSelect:   c.onPlatform,
	})

	c.platform.SetOptions(selector.Texts(Platforms(groups)))
	c.platform.Sync()
	return c
}

func (c *Cascade) SelectPlatform(platform string) error {
	return c.platform.SelectValue(platform)
}

func (c *Cascade) SelectCategory(category string) error {
	return c.category.SelectValue(category)
}

func (c *Cascade) SelectService(id int64) error {
	return c.service.SelectValue(strconv.FormatInt(id, 10))
}

func (c *Cascade) Selection() Selection { return c.selected }

// Services is the service list for the current platform and category.
func (c *Cascade) Services() []Product {
	return Services(c.groups, c.selected.Platform, c.selected.Category)
}

// View renders all three lists. query filters the service list only.
func (c *Cascade) View(query string) CascadeView {
	return CascadeView{
		Platforms:  c.platform.View(""),
		Categories: c.category.View(""),
		Services:   c.service.View(query),
		Selected:   c.selected,
	}
}

func (c *Cascade) onPlatform(o selector.Option) {
	if o.Value() == c.selected.Platform && c.selected.Category != "" {
		return
	}
	c.selected = Selection{Platform: o.Value()}

	c.service.Reset()
	c.service.SetOptions(nil)
	c.category.Reset()
	c.category.SetOptions(selector.Texts(Categories(c.groups, c.selected.Platform)))
	c.category.Sync()
}

func (c *Cascade) onCategory(o selector.Option) {
	if o.Value() == c.selected.Category && c.selected.Product != nil {
		return
	}
	c.selected.Category = o.Value()
	c.selected.Product = nil

	records := lo.Map(c.Services(), func(s Product, _ int) selector.Option { return s.Record() })
	c.service.Reset()
	c.service.SetOptions(records)
	c.service.Sync()
}

func (c *Cascade) onService(o selector.Option) {
	rec, ok := o.(selector.Record)
	if !ok {
		return
	}
	if s, found := lo.Find(c.Services(), func(s Product) bool { return s.ID == rec.ID }); found {
		c.selected.Product = &s
	}
}
