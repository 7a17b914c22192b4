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
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Orders       OrdersConfig
	Dashboard    DashboardConfig
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
	Env          string `envconfig:"LAYETTE_APP_ENV" required:"true"`
	Port         string `envconfig:"LAYETTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAYETTE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LAYETTE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LAYETTE_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"LAYETTE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"LAYETTE_DB_DSN"`
	Driver string `envconfig:"LAYETTE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LAYETTE_DB_HOST"`
	LegacyPort     int    `envconfig:"LAYETTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LAYETTE_DB_USER"`
	LegacyPassword string `envconfig:"LAYETTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LAYETTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LAYETTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAYETTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAYETTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAYETTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAYETTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAYETTE_REDIS_URL"`
	Address      string        `envconfig:"LAYETTE_REDIS_ADDR"`
	Password     string        `envconfig:"LAYETTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAYETTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAYETTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAYETTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAYETTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAYETTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAYETTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"LAYETTE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LAYETTE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LAYETTE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"LAYETTE_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"LAYETTE_SQLITE_PATH" default:"layette.db"`
	AutoMigrate bool   `envconfig:"LAYETTE_AUTO_MIGRATE" default:"false"`
}

// OrdersConfig carries the order lifecycle policy switches.
type OrdersConfig struct {
	// AllowNegativeStock keeps the historical behaviour of decrementing stock
	// without checking availability. When false, decrements are conditional.
	AllowNegativeStock bool `envconfig:"LAYETTE_ORDERS_ALLOW_NEGATIVE_STOCK" default:"true"`
	// StrictLines rejects requests containing non-numeric or non-positive lines
	// instead of skipping them when computing totals.
	StrictLines            bool `envconfig:"LAYETTE_ORDERS_STRICT_LINES" default:"false"`
	BenefitsLimit          int  `envconfig:"LAYETTE_ORDERS_BENEFITS_LIMIT" default:"50"`
	CriticalStockThreshold int  `envconfig:"LAYETTE_ORDERS_CRITICAL_STOCK" default:"5"`
	LowStockThreshold      int  `envconfig:"LAYETTE_ORDERS_LOW_STOCK" default:"10"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `envconfig:"LAYETTE_DASHBOARD_CACHE_TTL" default:"60s"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
