package environment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"smm-storefront/internal/config"
	"smm-storefront/internal/localization"
	"smm-storefront/internal/storage"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/orders"
	"smm-storefront/internal/stories/payment"
	"smm-storefront/internal/stories/support"
	"smm-storefront/internal/stories/users"
	"smm-storefront/internal/workers"
	"smm-storefront/internal/workers/cachejanitor"
	"smm-storefront/internal/workers/depositcheck"
	"smm-storefront/internal/workers/healthcheck"
)

type Services struct {
	Users        *users.Service
	Catalog      *catalog.Service
	Orders       *orders.Service
	Payment      *payment.Service
	Support      *support.Service
	Localization *localization.Service

	Health        *healthcheck.Worker
	WorkerService *workers.Manager
}

func newServices(_ context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)

	// Interfaces stay nil, not typed nil, when a channel is not configured.
	var (
		notifier payment.Notifier
		yk       payment.YooKassaClient
	)
	if clients.TelegramBot != nil {
		notifier = clients.TelegramBot
	}
	if clients.YooKassa != nil {
		yk = clients.YooKassa
	}

	loc, err := localization.NewService(cfg.HTTP.DefaultLang)
	if err != nil {
		return nil, errors.Wrap(err, "localization")
	}
	s.Localization = loc

	s.Users = users.NewService(clients.Panel, clients.Cache, logger.WithGroup("users"))
	s.Catalog = catalog.NewService(clients.Panel, clients.Cache, logger.WithGroup("catalog"))
	s.Orders = orders.NewService(clients.Panel, s.Catalog, s.Users, clients.Cache, clients.Events, logger.WithGroup("orders"))
	s.Payment = payment.NewService(
		storageImpl,
		yk,
		clients.Panel,
		s.Users,
		notifier,
		clients.Events,
		clients.Cache,
		payment.Settings{
			Currency:    cfg.YooKassa.Currency,
			MockPayment: cfg.YooKassa.MockPayment,
			MaxPending:  cfg.YooKassa.MaxPending,
			PerfectMoney: payment.PerfectMoneySettings{
				PayeeAccount: cfg.PerfectMoney.PayeeAccount,
				PayeeName:    cfg.PerfectMoney.PayeeName,
				Units:        cfg.PerfectMoney.Units,
				FormAction:   cfg.PerfectMoney.FormAction,
				PaymentURL:   cfg.PerfectMoney.PaymentURL,
				NoPaymentURL: cfg.PerfectMoney.NoPaymentURL,
				StatusURL:    cfg.PerfectMoney.StatusURL,
			},
			MoMo: payment.MoMoSettings{
				QRBaseURL:   cfg.MoMo.QRBaseURL,
				BankCode:    cfg.MoMo.BankCode,
				AccountNo:   cfg.MoMo.AccountNo,
				AccountName: cfg.MoMo.AccountName,
			},
			PayPal: payment.PayPalSettings{
				ClientID: cfg.PayPal.ClientID,
				Currency: cfg.PayPal.Currency,
			},
		},
		logger.WithGroup("payment"),
	)
	s.Support = support.NewService(storageImpl, s.Users, notifier, logger.WithGroup("support"))

	s.Health = healthcheck.NewWorker(cfg.Panel.BaseURL, notifier, logger.WithGroup("healthcheck"))
	background := []workers.Worker{s.Health}
	if yk != nil && !cfg.YooKassa.MockPayment {
		background = append(background, depositcheck.NewWorker(s.Payment, cfg.YooKassa.CheckSchedule, logger.WithGroup("depositcheck")))
	}
	if clients.MemoryStore != nil {
		background = append(background, cachejanitor.NewWorker(clients.MemoryStore, cfg.Cache.Janitor, logger.WithGroup("cachejanitor")))
	}
	s.WorkerService = workers.NewManager(logger.WithGroup("workers"), background...)

	return &s, nil
}
