package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"OPENSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"OPENSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OPENSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OPENSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OPENSTORE_DB_DSN"`
	Driver string `envconfig:"OPENSTORE_DB_DRIVER" default:"postgres"`

	// AdminDSN is the privileged connection used exclusively by super-admin
	// operations. Falls back to DSN when unset.
	AdminDSN string `envconfig:"OPENSTORE_DB_ADMIN_DSN"`

	LegacyHost     string `envconfig:"OPENSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"OPENSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OPENSTORE_DB_USER"`
	LegacyPassword string `envconfig:"OPENSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"OPENSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"OPENSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OPENSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPENSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPENSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPENSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OPENSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OPENSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"OPENSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPENSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPENSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPENSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPENSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPENSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPENSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OPENSTORE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OPENSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OPENSTORE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OPENSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OPENSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OPENSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OPENSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OPENSTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"OPENSTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"OPENSTORE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"OPENSTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"OPENSTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"OPENSTORE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"OPENSTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN == "" {
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
	}

	if db.AdminDSN == "" {
		db.AdminDSN = db.DSN
	}
	return nil
}
