package environment

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"smm-storefront/internal/config"
	"smm-storefront/internal/infra/kafka"
	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/infra/redisx"
	"smm-storefront/internal/infra/sqlite3"
	"smm-storefront/internal/infra/telegram"
	"smm-storefront/internal/infra/yookassa"
	"smm-storefront/internal/querycache"
)

const cacheBackendRedis = "redis"

type Clients struct {
	SQLiteDB *sqlite3.DB
	Panel    *panelapi.Client
	Redis    *redis.Client
	// MemoryStore is set only for the in-process cache backend.
	MemoryStore *querycache.MemoryStore
	Cache       *querycache.Cache
	Kafka       *kafka.Producer
	Events      *kafka.Publisher
	TelegramBot *telegram.Client
	YooKassa    *yookassa.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	var c Clients

	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite")
	}
	c.SQLiteDB = sqliteDB

	c.Panel = panelapi.NewClient(cfg.Panel.BaseURL, cfg.Panel.Timeout, logger.WithGroup("panel"),
		panelapi.WithRateLimit(cfg.Panel.RateLimit.RPS, cfg.Panel.RateLimit.Burst),
		panelapi.WithReadRetries(cfg.Panel.ReadRetries, cfg.Panel.RetryInterval),
	)

	var store querycache.Store
	if cfg.Cache.Backend == cacheBackendRedis {
		rdb, err := redisx.NewClient(ctx, redisx.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.close()
			return nil, errors.Wrap(err, "redis")
		}
		c.Redis = rdb
		store = querycache.NewRedisStore(rdb)
	} else {
		c.MemoryStore = querycache.NewMemoryStore()
		store = c.MemoryStore
	}
	c.Cache = querycache.New(store, cfg.Cache.Freshness, cfg.Cache.Retention, logger.WithGroup("cache"))

	if len(cfg.Kafka.Brokers) > 0 {
		c.Kafka = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Buffer, logger.WithGroup("kafka"))
		c.Kafka.Start(ctx)
		c.Events = kafka.NewPublisher(c.Kafka, logger.WithGroup("events"))
	}

	c.TelegramBot, err = provideTelegramBot(cfg, logger)
	if err != nil {
		c.close()
		return nil, errors.Wrap(err, "telegram")
	}

	if cfg.YooKassa.ShopID != "" && cfg.YooKassa.SecretKey != "" {
		c.YooKassa = yookassa.NewClient(cfg.YooKassa.ShopID, cfg.YooKassa.SecretKey, cfg.YooKassa.ReturnURL, logger.WithGroup("yookassa"))
	}

	return &c, nil
}

func (c *Clients) close() {
	if c.Kafka != nil {
		c.Kafka.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.SQLiteDB != nil {
		_ = c.SQLiteDB.Close()
	}
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	db, err := sqlite3.New(ctx,
		sqlite3.WithPath(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return db, nil
}

// provideTelegramBot returns nil without a token; staff notifications are
// then skipped.
func provideTelegramBot(cfg config.Config, logger *slog.Logger) (*telegram.Client, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, nil
	}
	return telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.SupportChatID, logger.WithGroup("telegram"))
}
