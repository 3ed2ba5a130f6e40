package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "crewdeck"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "CREWDECK_APP_ENV"
	EnvPort     = "CREWDECK_APP_PORT"
	EnvDBDSN    = "CREWDECK_DB_DSN"
	EnvDBHost   = "CREWDECK_DB_HOST"
	EnvDBUser   = "CREWDECK_DB_USER"
	EnvDBName   = "CREWDECK_DB_NAME"
	EnvRedisURL = "CREWDECK_REDIS_URL"

	EnvJWTSecret  = "CREWDECK_JWT_SECRET"
	EnvJWTIssuer  = "CREWDECK_JWT_ISSUER"
	EnvJWTExpMins = "CREWDECK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
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
	Env          string `envconfig:"CREWDECK_APP_ENV" required:"true"`
	Port         string `envconfig:"CREWDECK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CREWDECK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CREWDECK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CREWDECK_DB_DSN"`
	Driver string `envconfig:"CREWDECK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CREWDECK_DB_HOST"`
	LegacyPort     int    `envconfig:"CREWDECK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CREWDECK_DB_USER"`
	LegacyPassword string `envconfig:"CREWDECK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CREWDECK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CREWDECK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CREWDECK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CREWDECK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CREWDECK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CREWDECK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CREWDECK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CREWDECK_REDIS_ADDR"`
	Password     string        `envconfig:"CREWDECK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CREWDECK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CREWDECK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CREWDECK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CREWDECK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CREWDECK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CREWDECK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CREWDECK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CREWDECK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CREWDECK_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CREWDECK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CREWDECK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CREWDECK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CREWDECK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CREWDECK_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CREWDECK_AUTO_MIGRATE" default:"false"`
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
