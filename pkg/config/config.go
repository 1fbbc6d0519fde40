package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "medcart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MEDCART_DB_DSN"
	EnvDBHost = "MEDCART_DB_HOST"
	EnvDBUser = "MEDCART_DB_USER"
	EnvDBName = "MEDCART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
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
	Env          string `envconfig:"MEDCART_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEDCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDCART_DB_DSN"`
	Driver string `envconfig:"MEDCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDCART_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDCART_DB_USER"`
	LegacyPassword string `envconfig:"MEDCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDCART_REDIS_URL"`
	Address      string        `envconfig:"MEDCART_REDIS_ADDR"`
	Password     string        `envconfig:"MEDCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MEDCART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// RateLimitConfig throttles mutating merchant traffic. A zero limit or
// window disables the middleware.
type RateLimitConfig struct {
	Enabled bool          `envconfig:"MEDCART_RATE_LIMIT_ENABLED" default:"true"`
	Writes  int           `envconfig:"MEDCART_RATE_LIMIT_WRITES" default:"120"`
	Window  time.Duration `envconfig:"MEDCART_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEDCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEDCART_AUTO_MIGRATE" default:"false"`
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
