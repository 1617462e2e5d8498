package environment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"smm-storefront/internal/config"
	"smm-storefront/internal/web"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		API           *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, clients *Clients, services *Services) (*Servers, error) {
	var servers Servers

	storefront, err := web.NewServer(web.Config{
		Cookie: web.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		},
		RequestTimeout: cfg.HTTP.RequestTimeout,
		DefaultLang:    cfg.HTTP.DefaultLang,
	}, web.Deps{
		Users:      services.Users,
		Catalog:    services.Catalog,
		Orders:     services.Orders,
		Payments:   services.Payment,
		Support:    services.Support,
		Translator: services.Localization,
		Ready:      clients.SQLiteDB.Ping,
	}, logger.WithGroup("web"))
	if err != nil {
		return nil, errors.Wrap(err, "storefront server")
	}

	servers.HTTP.API = &http.Server{
		Addr:              cfg.HTTP.ADDR(),
		Handler:           storefront.Router(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), clients, services, cfg)

	return &servers, nil
}
