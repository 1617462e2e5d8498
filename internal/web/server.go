package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type Config struct {
	Cookie         CookieConfig
	RequestTimeout time.Duration
	DefaultLang    string
}

type Deps struct {
	Users      Users
	Catalog    Catalog
	Orders     Orders
	Payments   Payments
	Support    Support
	Translator Translator
	// Ready reports whether upstream dependencies are reachable.
	Ready func(ctx context.Context) error
}

type Server struct {
	cfg       Config
	deps      Deps
	logger    *slog.Logger
	templates *template.Template
	decoder   *schema.Decoder
}

func NewServer(cfg Config, deps Deps, logger *slog.Logger) (*Server, error) {
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "access_token"
	}
	if cfg.Cookie.TTL <= 0 {
		cfg.Cookie.TTL = time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, convertDecimal)

	return &Server{
		cfg:       cfg,
		deps:      deps,
		logger:    logger,
		templates: tmpl,
		decoder:   decoder,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(s.withLanguage)
	r.Use(s.withSession)

	r.Get("/healthz", s.healthz)
	r.Get("/signin", s.signinPage)
	r.Get("/pages/{page}", s.staticPage)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/auth/login", s.login)
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.catalog)
			r.Get("/cascade", s.cascade)
			r.Get("/products/{id}", s.product)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAPIAuth)

			r.Post("/auth/logout", s.logout)

			r.Get("/me", s.me)
			r.Get("/me/history", s.history)
			r.Put("/me/profile", s.updateProfile)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", s.ordersTable)
				r.Post("/", s.placeOrder)
				r.Post("/mass", s.placeMassOrder)
				r.Post("/selection", s.selection)
				r.Post("/copy-ids", s.copyIDs)
			})
			r.Post("/refills", s.refill)

			r.Route("/deposits", func(r chi.Router) {
				r.Get("/", s.deposits)
				r.Get("/cashflow", s.cashFlow)
				r.Get("/{id}", s.deposit)
				r.Post("/yookassa", s.createYooKassaDeposit)
				r.Post("/paypal/button", s.payPalButton)
				r.Post("/paypal/capture", s.capturePayPal)
				r.Post("/fpayment", s.fpaymentInvoice)
			})

			r.Get("/support", s.tickets)
			r.Post("/support", s.submitTicket)
		})
	})

	r.Route("/account", func(r chi.Router) {
		r.Use(s.requirePageAuth)
		r.Get("/", s.accountPage)
		r.Post("/deposit/perfectmoney", s.perfectMoneyForm)
		r.Get("/deposit/momo", s.moMoQR)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
