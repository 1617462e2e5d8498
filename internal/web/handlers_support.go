package web

import (
	"net/http"

	"smm-storefront/internal/stories/support"
)

func (s *Server) submitTicket(w http.ResponseWriter, r *http.Request) {
	var req support.TicketRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ticket, err := s.deps.Support.Submit(r.Context(), currentSession(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOKToast(w, r, ticket, "toast.ticket_sent", nil)
}

func (s *Server) tickets(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Support.List(r.Context(), currentSession(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, list)
}
