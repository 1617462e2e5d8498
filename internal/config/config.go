package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	HTTP             StorefrontHTTPConfig    `env:",prefix=HTTP_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Panel            PanelAPIConfig          `env:",prefix=PANEL_"`
	Cache            CacheConfig             `env:",prefix=CACHE_"`
	Redis            RedisConfig             `env:",prefix=REDIS_"`
	Session          SessionConfig           `env:",prefix=SESSION_"`
	Telegram         TelegramConfig          `env:",prefix=TELEGRAM_"`
	YooKassa         YooKassaConfig          `env:",prefix=YOOKASSA_"`
	PayPal           PayPalConfig            `env:",prefix=PAYPAL_"`
	PerfectMoney     PerfectMoneyConfig      `env:",prefix=PERFECTMONEY_"`
	MoMo             MoMoConfig              `env:",prefix=MOMO_"`
	Kafka            KafkaConfig             `env:",prefix=KAFKA_"`
}

// PanelAPIConfig describes the upstream SMM panel REST API.
type PanelAPIConfig struct {
	BaseURL       string        `env:"BASE_URL,default=http://127.0.0.1:9000/api/v1"`
	Timeout       time.Duration `env:"TIMEOUT,default=15s"`
	ReadRetries   int           `env:"READ_RETRIES,default=1"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL,default=500ms"`
	RateLimit     struct {
		Burst int     `env:"BURST,default=5"`
		RPS   float64 `env:"RPS,default=20.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

type CacheConfig struct {
	Backend   string        `env:"BACKEND,default=memory"`
	Freshness time.Duration `env:"FRESHNESS,default=5m"`
	Retention time.Duration `env:"RETENTION,default=10m"`
	Janitor   string        `env:"JANITOR_SCHEDULE,default=@every 1m"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR,default=127.0.0.1:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB,default=0"`
}

type SessionConfig struct {
	CookieName string        `env:"COOKIE_NAME,default=access_token"`
	TTL        time.Duration `env:"TTL,default=1h"`
	Secure     bool          `env:"SECURE,default=true"`
}

type TelegramConfig struct {
	BotToken      string  `env:"BOT_TOKEN"`
	SupportChatID []int64 `env:"SUPPORT_CHAT_IDS"`
}

type YooKassaConfig struct {
	ShopID        string        `env:"SHOP_ID"`
	SecretKey     string        `env:"SECRET_KEY"`
	ReturnURL     string        `env:"RETURN_URL,default=https://example.com/account/deposit"`
	Currency      string        `env:"CURRENCY,default=RUB"`
	CheckSchedule string        `env:"CHECK_SCHEDULE,default=@every 10s"`
	MaxPending    time.Duration `env:"MAX_PENDING,default=24h"`
	MockPayment   bool          `env:"MOCK_PAYMENT,default=false"`
}

func (y YooKassaConfig) Enabled() bool {
	return y.MockPayment || (y.ShopID != "" && y.SecretKey != "")
}

type PayPalConfig struct {
	ClientID string `env:"CLIENT_ID"`
	Currency string `env:"CURRENCY,default=USD"`
}

type PerfectMoneyConfig struct {
	PayeeAccount string `env:"PAYEE_ACCOUNT"`
	PayeeName    string `env:"PAYEE_NAME,default=SMM Panel"`
	Units        string `env:"UNITS,default=USD"`
	FormAction   string `env:"FORM_ACTION,default=https://perfectmoney.com/api/step1.asp"`
	PaymentURL   string `env:"PAYMENT_URL,default=https://example.com/account/deposit?status=success"`
	NoPaymentURL string `env:"NOPAYMENT_URL,default=https://example.com/account/deposit?status=cancel"`
	StatusURL    string `env:"STATUS_URL,default=https://example.com/api/perfectmoney/status"`
}

type MoMoConfig struct {
	QRBaseURL   string `env:"QR_BASE_URL,default=https://img.vietqr.io/image"`
	BankCode    string `env:"BANK_CODE,default=momo"`
	AccountNo   string `env:"ACCOUNT_NO"`
	AccountName string `env:"ACCOUNT_NAME"`
}

type KafkaConfig struct {
	Brokers []string `env:"BROKERS"`
	Topic   string   `env:"TOPIC,default=storefront.events"`
	Buffer  int      `env:"BUFFER,default=1024"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type StorefrontHTTPConfig struct {
	Host           string        `env:"HOST,default=0.0.0.0"`
	Port           uint16        `env:"PORT,default=8080"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT,default=1m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=20s"`
	DefaultLang    string        `env:"DEFAULT_LANG,default=en"`
}

func (a StorefrontHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/storefront.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=5"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}
