package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "COOPCONSOLE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "COOPCONSOLE_APP_ENV"
	EnvPort     = "COOPCONSOLE_APP_PORT"
	EnvLogLevel = "COOPCONSOLE_LOG_LEVEL"

	EnvDBDSN  = "COOPCONSOLE_DB_DSN"
	EnvDBHost = "COOPCONSOLE_DB_HOST"
	EnvDBUser = "COOPCONSOLE_DB_USER"
	EnvDBName = "COOPCONSOLE_DB_NAME"

	EnvUseSQLite = "COOPCONSOLE_USE_SQLITE"
	EnvRedisURL  = "COOPCONSOLE_REDIS_URL"

	EnvEngineTimezone        = "COOPCONSOLE_ENGINE_TIMEZONE"
	EnvEngineLocale          = "COOPCONSOLE_ENGINE_LOCALE"
	EnvEngineBulkConcurrency = "COOPCONSOLE_ENGINE_BULK_CONCURRENCY"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
