package web

import (
	"net/http"

	"github.com/samber/lo"

	"smm-storefront/internal/stories/orders"
)

func (s *Server) ordersTable(w http.ResponseWriter, r *http.Request) {
	var f orders.Filter
	if err := s.decodeQuery(r, &f); err != nil {
		s.respondError(w, r, err)
		return
	}
	f = f.Rebase(r.URL.Query().Get("prev_key"))

	view, err := s.deps.Orders.Table(r.Context(), currentSession(r), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, view)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	placed, err := s.deps.Orders.PlaceOrder(r.Context(), currentSession(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOKToast(w, r, placed, "toast.order_placed", map[string]interface{}{"id": placed.OrderID})
}

type massOrderRequest struct {
	Orders string `json:"orders" schema:"orders"`
}

func (s *Server) placeMassOrder(w http.ResponseWriter, r *http.Request) {
	var req massOrderRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	placed, err := s.deps.Orders.PlaceMassOrder(r.Context(), currentSession(r), req.Orders)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOKToast(w, r, placed, "toast.mass_order_placed", map[string]interface{}{"count": len(placed.OrderIDs)})
}

const (
	selectionToggle        = "toggle"
	selectionToggleVisible = "toggle_visible"
	selectionClear         = "clear"
)

// selectionRequest carries the whole checkbox state; the server holds none.
type selectionRequest struct {
	Action   string  `json:"action" schema:"action"`
	ID       int64   `json:"id" schema:"id"`
	Selected []int64 `json:"selected" schema:"selected"`
	Visible  []int64 `json:"visible" schema:"visible"`
}

type selectionView struct {
	Selected           []int64 `json:"selected"`
	Count              int     `json:"count"`
	AllVisibleSelected bool    `json:"all_visible_selected"`
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sel := orders.NewSelection(req.Selected...)
	visible := lo.Map(req.Visible, func(id int64, _ int) orders.Order { return orders.Order{ID: id} })

	switch req.Action {
	case selectionToggle:
		if req.ID <= 0 {
			s.respondError(w, r, &orders.ValidationError{Field: "id", Reason: "required"})
			return
		}
		sel.Toggle(req.ID)
	case selectionToggleVisible:
		sel.ToggleVisible(visible)
	case selectionClear:
		sel.Clear()
	default:
		s.respondError(w, r, &orders.ValidationError{Field: "action", Reason: "unknown action"})
		return
	}

	s.respondOK(w, r, selectionView{
		Selected:           sel.IDs(),
		Count:              sel.Len(),
		AllVisibleSelected: sel.AllVisibleSelected(visible),
	})
}

type idsRequest struct {
	OrderIDs []int64 `json:"order_ids" schema:"order_ids"`
}

type copyView struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func (s *Server) copyIDs(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	sel := orders.NewSelection(req.OrderIDs...)
	if sel.Len() == 0 {
		s.respondError(w, r, &orders.ValidationError{Field: "order_ids", Reason: "nothing selected"})
		return
	}

	s.respondOKToast(w, r, copyView{Text: sel.CopyText(), Count: sel.Len()},
		"toast.ids_copied", map[string]interface{}{"count": sel.Len()})
}

// refill leaves the client selection as is.
func (s *Server) refill(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.deps.Orders.Refill(r.Context(), currentSession(r), req.OrderIDs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOKToast(w, r, res, "toast.refill_requested", map[string]interface{}{"count": len(res.OrderIDs)})
}
