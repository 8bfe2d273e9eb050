package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
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
	Env          string `envconfig:"XB_APP_ENV" required:"true"`
	Port         string `envconfig:"XB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"XB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"XB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"XB_DB_DSN"`
	Driver string `envconfig:"XB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"XB_DB_HOST"`
	LegacyPort     int    `envconfig:"XB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"XB_DB_USER"`
	LegacyPassword string `envconfig:"XB_DB_PASSWORD"`
	LegacyName     string `envconfig:"XB_DB_NAME"`
	LegacySSLMode  string `envconfig:"XB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"XB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"XB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"XB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"XB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"XB_REDIS_URL"`
	Address      string        `envconfig:"XB_REDIS_ADDR"`
	Password     string        `envconfig:"XB_REDIS_PASSWORD"`
	DB           int           `envconfig:"XB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"XB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"XB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"XB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"XB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"XB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured at all. The
// exchange-rate cache degrades to an in-process map without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// PricingConfig carries the knobs for the quote pipeline.
type PricingConfig struct {
	RateCacheTTL        time.Duration `envconfig:"XB_PRICING_RATE_CACHE_TTL" default:"15m"`
	PaymentToleranceUSD float64       `envconfig:"XB_PRICING_PAYMENT_TOLERANCE_USD" default:"0.01"`

	DefaultShippingCost    float64 `envconfig:"XB_PRICING_DEFAULT_SHIPPING_COST" default:"25.00"`
	DefaultShippingCarrier string  `envconfig:"XB_PRICING_DEFAULT_SHIPPING_CARRIER" default:"Standard"`
	DefaultShippingDays    string  `envconfig:"XB_PRICING_DEFAULT_SHIPPING_DAYS" default:"7-14"`

	GatewayFixedFee   float64 `envconfig:"XB_PRICING_GATEWAY_FIXED_FEE" default:"0"`
	GatewayPercentFee float64 `envconfig:"XB_PRICING_GATEWAY_PERCENT_FEE" default:"0"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"XB_AUTO_MIGRATE" default:"false"`
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
