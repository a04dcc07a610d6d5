package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every configuration variable.
	EnvPrefix = "PEDILO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PEDILO_DB_DSN"
	EnvDBHost = "PEDILO_DB_HOST"
	EnvDBUser = "PEDILO_DB_USER"
	EnvDBName = "PEDILO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Trial        TrialConfig
	MercadoPago  MercadoPagoConfig
	Mail         MailConfig
	WhatsApp     WhatsAppConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PEDILO_APP_ENV" required:"true"`
	Port         string `envconfig:"PEDILO_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"PEDILO_APP_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"PEDILO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEDILO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PEDILO_DB_DSN"`
	Driver string `envconfig:"PEDILO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PEDILO_DB_HOST"`
	LegacyPort     int    `envconfig:"PEDILO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PEDILO_DB_USER"`
	LegacyPassword string `envconfig:"PEDILO_DB_PASSWORD"`
	LegacyName     string `envconfig:"PEDILO_DB_NAME"`
	LegacySSLMode  string `envconfig:"PEDILO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PEDILO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PEDILO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PEDILO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PEDILO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PEDILO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PEDILO_REDIS_ADDR"`
	Password     string        `envconfig:"PEDILO_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEDILO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEDILO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEDILO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEDILO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEDILO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEDILO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies bearer tokens minted by the external identity provider.
type JWTConfig struct {
	Secret            string `envconfig:"PEDILO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PEDILO_JWT_ISSUER" default:"pedilo-auth"`
	ExpirationMinutes int    `envconfig:"PEDILO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type TrialConfig struct {
	DefaultDays          int `envconfig:"PEDILO_TRIAL_DEFAULT_DAYS" default:"15"`
	PaymentExtensionDays int `envconfig:"PEDILO_TRIAL_PAYMENT_EXTENSION_DAYS" default:"30"`
	CouponDefaultDays    int `envconfig:"PEDILO_TRIAL_COUPON_DEFAULT_DAYS" default:"30"`
}

type MercadoPagoConfig struct {
	AccessToken string `envconfig:"PEDILO_MP_ACCESS_TOKEN"`
	PlanPrice   string `envconfig:"PEDILO_MP_PLAN_PRICE" default:"9900"`
}

type MailConfig struct {
	SMTPHost    string `envconfig:"PEDILO_SMTP_HOST"`
	SMTPPort    int    `envconfig:"PEDILO_SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"PEDILO_SMTP_USER"`
	SMTPPass    string `envconfig:"PEDILO_SMTP_PASS"`
	DefaultFrom string `envconfig:"PEDILO_MAIL_FROM" default:"hola@pedilo.app"`
}

// Enabled reports whether the mailer has enough configuration to send.
func (m MailConfig) Enabled() bool {
	return m.SMTPHost != "" && m.SMTPUser != ""
}

type WhatsAppConfig struct {
	BridgeURL string `envconfig:"PEDILO_WA_BRIDGE_URL"`
	BridgeKey string `envconfig:"PEDILO_WA_BRIDGE_KEY"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PEDILO_CORS_ALLOWED_ORIGINS" default:"*"`
}

// RateLimitConfig throttles the unauthenticated endpoints per client IP,
// using a fixed one-minute window for checkout and one hour for registration.
// A zero limit disables the corresponding policy.
type RateLimitConfig struct {
	CheckoutPerMinute   int `envconfig:"PEDILO_RATE_LIMIT_CHECKOUT_PER_MINUTE" default:"30"`
	RegistrationPerHour int `envconfig:"PEDILO_RATE_LIMIT_REGISTRATION_PER_HOUR" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PEDILO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
