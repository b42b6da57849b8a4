package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	Session      SessionConfig
	Sendgrid     SendgridConfig
	Branding     BrandingConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	CartCacheTTL time.Duration `envconfig:"STOREFRONT_REDIS_CART_CACHE_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREFRONT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the delivery fee policy. Amounts are in the store currency.
type PricingConfig struct {
	BaseDeliveryFee       decimal.Decimal   `envconfig:"STOREFRONT_PRICING_BASE_DELIVERY_FEE" default:"150"`
	ExpressSurcharge      decimal.Decimal   `envconfig:"STOREFRONT_PRICING_EXPRESS_SURCHARGE" default:"100"`
	ThermalBagFee         decimal.Decimal   `envconfig:"STOREFRONT_PRICING_THERMAL_BAG_FEE" default:"50"`
	FreeDeliveryThreshold decimal.Decimal   `envconfig:"STOREFRONT_PRICING_FREE_DELIVERY_THRESHOLD" default:"0"`
	PostalTiers           map[string]string `envconfig:"STOREFRONT_PRICING_POSTAL_TIERS"`
}

type SessionConfig struct {
	CookieName   string        `envconfig:"STOREFRONT_SESSION_COOKIE_NAME" default:"sf_session"`
	CookieMaxAge time.Duration `envconfig:"STOREFRONT_SESSION_COOKIE_MAX_AGE" default:"8760h"`
	CookieSecure bool          `envconfig:"STOREFRONT_SESSION_COOKIE_SECURE" default:"true"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"STOREFRONT_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"STOREFRONT_SENDGRID_FROM_EMAIL" default:"orders@storefront.local"`
	FromName    string `envconfig:"STOREFRONT_SENDGRID_FROM_NAME" default:"Storefront"`
}

// Configured reports whether an API key is present.
func (s SendgridConfig) Configured() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

type BrandingConfig struct {
	DefaultLightLogoURL string        `envconfig:"STOREFRONT_BRANDING_LIGHT_LOGO_URL"`
	DefaultDarkLogoURL  string        `envconfig:"STOREFRONT_BRANDING_DARK_LOGO_URL"`
	CacheTTL            time.Duration `envconfig:"STOREFRONT_BRANDING_CACHE_TTL" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = DriverSQLite
		db.DSN = defaultSQLiteDSN
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
