package config

// EnvPrefix is empty because every field carries its fully qualified name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "LAYETTE_APP_ENV"
	EnvPort      = "LAYETTE_APP_PORT"
	EnvLogLevel  = "LAYETTE_LOG_LEVEL"
	EnvLogFormat = "LAYETTE_LOG_FORMAT"

	EnvDBDSN  = "LAYETTE_DB_DSN"
	EnvDBHost = "LAYETTE_DB_HOST"
	EnvDBUser = "LAYETTE_DB_USER"
	EnvDBName = "LAYETTE_DB_NAME"

	EnvRedisURL = "LAYETTE_REDIS_URL"

	EnvJWTSecret = "LAYETTE_JWT_SECRET"
	EnvJWTIssuer = "LAYETTE_JWT_ISSUER"

	EnvUseSQLite   = "LAYETTE_USE_SQLITE"
	EnvAutoMigrate = "LAYETTE_AUTO_MIGRATE"

	EnvOrdersAllowNegativeStock = "LAYETTE_ORDERS_ALLOW_NEGATIVE_STOCK"
	EnvOrdersStrictLines        = "LAYETTE_ORDERS_STRICT_LINES"
	EnvDashboardCacheTTL        = "LAYETTE_DASHBOARD_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
