package web

import (
	"context"
	"net/http"

	"smm-storefront/internal/session"
)

const langCookie = "lang"

type langKey struct{}

func (s *Server) withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Accept-Language")
		if c, err := r.Cookie(langCookie); err == nil && c.Value != "" {
			header = c.Value
		}
		lang := s.cfg.DefaultLang
		if s.deps.Translator != nil && header != "" {
			lang = s.deps.Translator.Match(header)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), langKey{}, lang)))
	})
}

func language(ctx context.Context) string {
	lang, _ := ctx.Value(langKey{}).(string)
	return lang
}

// withSession attaches a session to every request. Without the cookie the
// session is anonymous, which is enough for the public catalog.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(s.cfg.Cookie.Name); err == nil {
			token = c.Value
		}
		sess := s.deps.Users.Session(token)
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sess)))
	})
}

func (s *Server) requireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			s.respondToast(w, r, http.StatusUnauthorized, "toast.unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requirePageAuth redirects before anything protected is rendered.
func (s *Server) requirePageAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			w.Header().Set("Location", "/signin")
			w.WriteHeader(http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentSession(r *http.Request) session.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.Cookie.TTL.Seconds()),
		Secure:   s.cfg.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.cfg.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
