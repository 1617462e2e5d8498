package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

var staticPages = map[string]bool{
	"faq":     true,
	"terms":   true,
	"support": true,
}

type pageView struct {
	Lang      string
	Title     string
	Paragraph []string
	Support   *supportForm
}

type supportForm struct {
	Subject string
	Message string
	Submit  string
}

func (s *Server) staticPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	if !staticPages[name] {
		http.Error(w, s.translate(r, "toast.not_found", nil), http.StatusNotFound)
		return
	}

	prefix := "pages." + name + "."
	body := strings.TrimSpace(s.translate(r, prefix+"body", nil))
	view := pageView{
		Lang:      language(r.Context()),
		Title:     s.translate(r, prefix+"title", nil),
		Paragraph: strings.Split(body, "\n"),
	}
	if name == "support" {
		view.Support = &supportForm{
			Subject: s.translate(r, prefix+"subject", nil),
			Message: s.translate(r, prefix+"message", nil),
			Submit:  s.translate(r, prefix+"submit", nil),
		}
	}
	s.renderPage(w, http.StatusOK, "page.html", view)
}
