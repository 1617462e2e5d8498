package environment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"smm-storefront/internal/config"
)

type closer func()

type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Servers  *Servers
	Clients  *Clients
	Services *Services

	Closers []closer
}

func Setup(ctx context.Context) (*Env, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg config.Config
	err := envconfig.Process(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("env processing: %w", err)
	}

	var e Env

	logger, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	clients, err := newClients(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("newClients: %w", err)
	}

	services, err := newServices(ctx, clients, &cfg, logger)
	if err != nil {
		clients.close()
		return nil, fmt.Errorf("newServices: %w", err)
	}

	servers, err := newServers(ctx, cfg, logger, clients, services)
	if err != nil {
		clients.close()
		return nil, fmt.Errorf("newServers: %w", err)
	}

	logger.Info("Environment ready",
		"cache_backend", cfg.Cache.Backend,
		"kafka", clients.Kafka != nil,
		"telegram", clients.TelegramBot != nil,
		"yookassa", cfg.YooKassa.Enabled(),
		"mock_payment", cfg.YooKassa.MockPayment)

	e.Servers = servers
	e.Config = &cfg
	e.Logger = logger
	e.Clients = clients
	e.Services = services
	e.Closers = []closer{clients.close}

	return &e, nil
}
