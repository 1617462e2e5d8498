package orders

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"smm-storefront/internal/pagination"
)

type SearchType string

const (
	SearchNone        SearchType = ""
	SearchOrderID     SearchType = "order_id"
	SearchLink        SearchType = "link"
	SearchServiceName SearchType = "service_name"
)

const DateLayout = "2006-01-02"

// Filter is the orders table state. Every With* setter returns page 1.
type Filter struct {
	Status     Status     `schema:"status"`
	From       string     `schema:"from"`
	To         string     `schema:"to"`
	SearchType SearchType `schema:"search_type"`
	Keyword    string     `schema:"keyword"`
	Page       int        `schema:"page"`
}

func (f Filter) WithStatus(s Status) Filter {
	f.Status = s
	f.Page = 1
	return f
}

func (f Filter) WithDateRange(from, to string) Filter {
	f.From, f.To = from, to
	f.Page = 1
	return f
}

func (f Filter) WithSearch(t SearchType, keyword string) Filter {
	f.SearchType, f.Keyword = t, keyword
	f.Page = 1
	return f
}

// Key identifies the predicates, not the page.
func (f Filter) Key() string {
	raw := strings.Join([]string{string(f.Status), f.From, f.To, string(f.SearchType), f.Keyword}, "\x1f")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:6])
}

// Rebase resets the page when the predicates differ from those the page was
// computed for.
func (f Filter) Rebase(prevKey string) Filter {
	if prevKey != "" && prevKey != f.Key() {
		f.Page = 1
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}

func (f Filter) Validate() error {
	if f.Status != "" && !lo.Contains(Statuses, f.Status) {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}
	from, err := parseDay(f.From)
	if err != nil {
		return &ValidationError{Field: "from", Reason: "expected YYYY-MM-DD"}
	}
	to, err := parseDay(f.To)
	if err != nil {
		return &ValidationError{Field: "to", Reason: "expected YYYY-MM-DD"}
	}
	if from != nil && to != nil && from.After(*to) {
		return &ValidationError{Field: "to", Reason: "must not be before from"}
	}
	switch f.SearchType {
	case SearchNone, SearchOrderID, SearchLink, SearchServiceName:
	default:
		return &ValidationError{Field: "search_type", Reason: "unknown search type"}
	}
	return nil
}

// Match is the conjunction of every active predicate. A keyword without a
// search type is inactive.
func (f Filter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}

	day := truncateDay(o.CreatedAt)
	if from, err := parseDay(f.From); err == nil && from != nil && day.Before(*from) {
		return false
	}
	if to, err := parseDay(f.To); err == nil && to != nil && day.After(*to) {
		return false
	}

	if f.Keyword == "" {
		return true
	}
	switch f.SearchType {
	case SearchOrderID:
		return strings.Contains(strconv.FormatInt(o.ID, 10), f.Keyword)
	case SearchLink:
		return strings.Contains(o.Link, f.Keyword)
	case SearchServiceName:
		return strings.Contains(strings.ToLower(o.ServiceName), strings.ToLower(f.Keyword))
	default:
		return true
	}
}

func Apply(orders []Order, f Filter) []Order {
	return lo.Filter(orders, func(o Order, _ int) bool { return f.Match(o) })
}

type TableView struct {
	Orders    []Order         `json:"orders"`
	Meta      pagination.Meta `json:"meta"`
	Filter    Filter          `json:"filter"`
	FilterKey string          `json:"filter_key"`
}

// Table filters, then pages with the orders page size.
func Table(orders []Order, f Filter) TableView {
	p := pagination.New(Apply(orders, f), pagination.OrdersPageSize)
	p.Goto(f.Page)
	f.Page = p.Page()
	return TableView{
		Orders:    p.Items(),
		Meta:      p.Meta(),
		Filter:    f,
		FilterKey: f.Key(),
	}
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
