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
	FeatureFlags FeatureFlagsConfig
	Engine       EngineConfig
	Metrics      MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Engine.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COOPCONSOLE_APP_ENV" required:"true"`
	Port         string `envconfig:"COOPCONSOLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"COOPCONSOLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COOPCONSOLE_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"COOPCONSOLE_LOG_FORMAT" default:"json"`

	CORSOrigins []string `envconfig:"COOPCONSOLE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"COOPCONSOLE_DB_DSN"`
	Driver string `envconfig:"COOPCONSOLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"COOPCONSOLE_DB_HOST"`
	LegacyPort     int    `envconfig:"COOPCONSOLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COOPCONSOLE_DB_USER"`
	LegacyPassword string `envconfig:"COOPCONSOLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"COOPCONSOLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"COOPCONSOLE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"COOPCONSOLE_SQLITE_PATH" default:"coopconsole.db"`

	MaxOpenConns    int           `envconfig:"COOPCONSOLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COOPCONSOLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COOPCONSOLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COOPCONSOLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"COOPCONSOLE_REDIS_URL"`
	Address      string        `envconfig:"COOPCONSOLE_REDIS_ADDR"`
	Password     string        `envconfig:"COOPCONSOLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"COOPCONSOLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COOPCONSOLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COOPCONSOLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COOPCONSOLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COOPCONSOLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COOPCONSOLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"COOPCONSOLE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"COOPCONSOLE_AUTO_MIGRATE" default:"false"`
}

// EngineConfig tunes the aggregation engine and the bulk preparation commands.
type EngineConfig struct {
	Timezone        string `envconfig:"COOPCONSOLE_ENGINE_TIMEZONE" default:"Europe/Madrid"`
	Locale          string `envconfig:"COOPCONSOLE_ENGINE_LOCALE" default:"ca"`
	BulkConcurrency int    `envconfig:"COOPCONSOLE_ENGINE_BULK_CONCURRENCY" default:"8"`
}

// Location resolves the configured timezone used for day-boundary comparisons.
func (e EngineConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(e.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading engine timezone %q: %w", e.Timezone, err)
	}
	return loc, nil
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"COOPCONSOLE_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"COOPCONSOLE_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite || db.DSN != "" {
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
