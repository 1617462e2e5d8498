package web

import (
	"net/http"

	"smm-storefront/internal/stories/users"
)

type signinView struct {
	Lang     string
	Title    string
	Username string
	Password string
	Submit   string
	Error    string
}

func (s *Server) signinPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "signin.html", s.signinView(r, ""))
}

func (s *Server) signinView(r *http.Request, errText string) signinView {
	return signinView{
		Lang:     language(r.Context()),
		Title:    s.translate(r, "pages.signin.title", nil),
		Username: s.translate(r, "pages.signin.username", nil),
		Password: s.translate(r, "pages.signin.password", nil),
		Submit:   s.translate(r, "pages.signin.submit", nil),
		Error:    errText,
	}
}

// login answers JSON clients with JSON and the sign-in form with a redirect.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds users.Credentials
	if err := s.decode(r, &creds); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess, err := s.deps.Users.Login(r.Context(), creds)
	if err != nil {
		if isJSON(r) {
			s.respondError(w, r, err)
			return
		}
		t := toastFor(err)
		s.renderPage(w, t.status, "signin.html", s.signinView(r, s.translate(r, t.key, t.params)))
		return
	}

	s.setSessionCookie(w, sess.Token)
	if !isJSON(r) {
		http.Redirect(w, r, "/account", http.StatusSeeOther)
		return
	}
	s.respondOK(w, r, nil)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Users.Logout(r.Context(), currentSession(r)); err != nil {
		s.logger.Warn("Failed to drop session cache", "error", err)
	}
	s.clearSessionCookie(w)
	s.respondOK(w, r, nil)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.Detail(r.Context(), currentSession(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, user)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Users.History(r.Context(), currentSession(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOK(w, r, records)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var upd users.ProfileUpdate
	if err := s.decode(r, &upd); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.deps.Users.UpdateProfile(r.Context(), currentSession(r), upd)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondOKToast(w, r, user, "toast.profile_updated", nil)
}

type accountView struct {
	Lang         string
	Title        string
	BalanceLabel string
	EmailLabel   string
	SignOut      string
	User         *users.User
}

func (s *Server) accountPage(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.Detail(r.Context(), currentSession(r))
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.renderPage(w, http.StatusOK, "account.html", accountView{
		Lang:         language(r.Context()),
		Title:        s.translate(r, "pages.account.title", nil),
		BalanceLabel: s.translate(r, "pages.account.balance", nil),
		EmailLabel:   s.translate(r, "pages.account.email", nil),
		SignOut:      s.translate(r, "pages.account.signout", nil),
		User:         user,
	})
}
