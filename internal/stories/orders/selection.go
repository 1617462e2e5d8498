package orders

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Selection is the bulk checkbox state of the orders table.
type Selection struct {
	ids map[int64]struct{}
}

func NewSelection(ids ...int64) *Selection {
	s := &Selection{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Toggle(id int64) {
	if s.Has(id) {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleVisible selects every visible order, or clears them when all of
// them are already selected. Orders on other pages are untouched.
func (s *Selection) ToggleVisible(visible []Order) {
	if len(visible) == 0 {
		return
	}
	all := lo.EveryBy(visible, func(o Order) bool { return s.Has(o.ID) })
	for _, o := range visible {
		if all {
			delete(s.ids, o.ID)
		} else {
			s.ids[o.ID] = struct{}{}
		}
	}
}

func (s *Selection) AllVisibleSelected(visible []Order) bool {
	return len(visible) > 0 && lo.EveryBy(visible, func(o Order) bool { return s.Has(o.ID) })
}

func (s *Selection) Clear() { s.ids = make(map[int64]struct{}) }

func (s *Selection) Len() int { return len(s.ids) }

// IDs is ascending.
func (s *Selection) IDs() []int64 {
	out := lo.Keys(s.ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CopyText is the clipboard payload: one id per line.
func (s *Selection) CopyText() string {
	return strings.Join(lo.Map(s.IDs(), func(id int64, _ int) string {
		return strconv.FormatInt(id, 10)
	}), "\n")
}
