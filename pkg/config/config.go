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
	Password     PasswordConfig
	Trading      TradingConfig
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
	Env          string `envconfig:"CARBONLEDGER_APP_ENV" required:"true"`
	Port         string `envconfig:"CARBONLEDGER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARBONLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARBONLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARBONLEDGER_DB_DSN"`
	Driver string `envconfig:"CARBONLEDGER_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CARBONLEDGER_DB_HOST"`
	Port     int    `envconfig:"CARBONLEDGER_DB_PORT" default:"5432"`
	User     string `envconfig:"CARBONLEDGER_DB_USER"`
	Password string `envconfig:"CARBONLEDGER_DB_PASSWORD"`
	Name     string `envconfig:"CARBONLEDGER_DB_NAME"`
	SSLMode  string `envconfig:"CARBONLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARBONLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARBONLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARBONLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARBONLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARBONLEDGER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARBONLEDGER_REDIS_ADDR"`
	Password     string        `envconfig:"CARBONLEDGER_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARBONLEDGER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARBONLEDGER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARBONLEDGER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARBONLEDGER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARBONLEDGER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARBONLEDGER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CARBONLEDGER_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CARBONLEDGER_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CARBONLEDGER_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CARBONLEDGER_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CARBONLEDGER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CARBONLEDGER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CARBONLEDGER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CARBONLEDGER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CARBONLEDGER_ARGON_KEY_LEN" default:"32"`
}

// TradingConfig tunes ledger behavior that is policy rather than invariant.
type TradingConfig struct {
	OverdueThreshold  time.Duration `envconfig:"CARBONLEDGER_OVERDUE_THRESHOLD" default:"168h"`
	OverdueSweepEvery time.Duration `envconfig:"CARBONLEDGER_OVERDUE_SWEEP_INTERVAL" default:"1h"`
	StartingCarbon    float64       `envconfig:"CARBONLEDGER_STARTING_CARBON" default:"100"`
	StartingCash      float64       `envconfig:"CARBONLEDGER_STARTING_CASH" default:"100"`
	PasswordMinLength int           `envconfig:"CARBONLEDGER_PASSWORD_MIN_LENGTH" default:"8"`
	MetricsListenAddr string        `envconfig:"CARBONLEDGER_METRICS_ADDR" default:":9100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CARBONLEDGER_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
