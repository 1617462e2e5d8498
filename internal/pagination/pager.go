package pagination

import "github.com/samber/lo"

const (
	OrdersPageSize   = 10
	CashFlowPageSize = 80
	CashFlowColumn   = 20
)

// Pager slices a list into fixed-size pages. Pages are 1-based and always
// clamped to [1, TotalPages].
type Pager[T any] struct {
	items []T
	size  int
	page  int
}

func New[T any](items []T, size int) *Pager[T] {
	if size <= 0 {
		size = OrdersPageSize
	}
	return &Pager[T]{items: items, size: size, page: 1}
}

// TotalPages is ceil(len/size). An empty list still has one (empty) page.
func (p *Pager[T]) TotalPages() int {
	n := (len(p.items) + p.size - 1) / p.size
	if n == 0 {
		return 1
	}
	return n
}

func (p *Pager[T]) Page() int { return p.page }

func (p *Pager[T]) Total() int { return len(p.items) }

func (p *Pager[T]) Goto(page int) {
	p.page = min(max(page, 1), p.TotalPages())
}

func (p *Pager[T]) Next() { p.Goto(p.page + 1) }

func (p *Pager[T]) Prev() { p.Goto(p.page - 1) }

func (p *Pager[T]) HasNext() bool { return p.page < p.TotalPages() }

func (p *Pager[T]) HasPrev() bool { return p.page > 1 }

// Items returns the current page.
func (p *Pager[T]) Items() []T {
	start := (p.page - 1) * p.size
	if start >= len(p.items) {
		return []T{}
	}
	end := min(start+p.size, len(p.items))
	return p.items[start:end]
}

// Columns splits the current page into columns of n items.
func (p *Pager[T]) Columns(n int) [][]T {
	items := p.Items()
	if len(items) == 0 || n <= 0 {
		return [][]T{}
	}
	return lo.Chunk(items, n)
}

type Meta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	Total      int  `json:"total"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func (p *Pager[T]) Meta() Meta {
	return Meta{
		Page:       p.page,
		PageSize:   p.size,
		TotalPages: p.TotalPages(),
		Total:      len(p.items),
		HasNext:    p.HasNext(),
		HasPrev:    p.HasPrev(),
	}
}
