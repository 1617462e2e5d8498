package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"smm-storefront/internal/stories/orders"
)

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.Catalog.Catalog(r.Context(), currentSession(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, groups)
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, r, errors.Wrap(errMalformed, "product id"))
		return
	}

	p, err := s.deps.Catalog.ProductByID(r.Context(), currentSession(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, p)
}

type cascadeQuery struct {
	Detail   int64  `schema:"detail"`
	Platform string `schema:"platform"`
	Category string `schema:"category"`
	Service  int64  `schema:"service"`
	Query    string `schema:"q"`
}

// cascade replays the selector state carried in the query string. The
// detail id preselects a deep-linked service before the explicit choices.
func (s *Server) cascade(w http.ResponseWriter, r *http.Request) {
	var q cascadeQuery
	if err := s.decodeQuery(r, &q); err != nil {
		s.respondError(w, r, err)
		return
	}

	c, err := s.deps.Catalog.Cascade(r.Context(), currentSession(r), q.Detail)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if q.Platform != "" {
		if err := c.SelectPlatform(q.Platform); err != nil {
			s.respondError(w, r, &orders.ValidationError{Field: "platform", Reason: err.Error()})
			return
		}
	}
	if q.Category != "" {
		if err := c.SelectCategory(q.Category); err != nil {
			s.respondError(w, r, &orders.ValidationError{Field: "category", Reason: err.Error()})
			return
		}
	}
	if q.Service > 0 {
		if err := c.SelectService(q.Service); err != nil {
			s.respondError(w, r, &orders.ValidationError{Field: "service", Reason: err.Error()})
			return
		}
	}

	s.respondOK(w, r, c.View(q.Query))
}
