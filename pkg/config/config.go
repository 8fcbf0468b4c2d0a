package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Assistant     AssistantConfig
	Notifications NotificationsConfig
	POS           POSConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"BENGKELHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"BENGKELHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BENGKELHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BENGKELHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BENGKELHUB_DB_DSN"`
	Driver string `envconfig:"BENGKELHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BENGKELHUB_DB_HOST"`
	Port     int    `envconfig:"BENGKELHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"BENGKELHUB_DB_USER"`
	Password string `envconfig:"BENGKELHUB_DB_PASSWORD"`
	Name     string `envconfig:"BENGKELHUB_DB_NAME"`
	SSLMode  string `envconfig:"BENGKELHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BENGKELHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BENGKELHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BENGKELHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BENGKELHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either BENGKELHUB_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BENGKELHUB_REDIS_URL" required:"true"`
	Password     string        `envconfig:"BENGKELHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"BENGKELHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BENGKELHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BENGKELHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BENGKELHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BENGKELHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BENGKELHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AssistantConfig struct {
	APIKey  string        `envconfig:"BENGKELHUB_ASSISTANT_API_KEY"`
	BaseURL string        `envconfig:"BENGKELHUB_ASSISTANT_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Model   string        `envconfig:"BENGKELHUB_ASSISTANT_MODEL" default:"gemini-2.0-flash"`
	Timeout time.Duration `envconfig:"BENGKELHUB_ASSISTANT_TIMEOUT" default:"15s"`
}

type NotificationsConfig struct {
	TTL time.Duration `envconfig:"BENGKELHUB_NOTIFICATION_TTL" default:"5m"`
}

type POSConfig struct {
	SessionTTL time.Duration `envconfig:"BENGKELHUB_POS_SESSION_TTL" default:"1h"`
}

type CronConfig struct {
	SweepInterval time.Duration `envconfig:"BENGKELHUB_CRON_SWEEP_INTERVAL" default:"30s"`
	LockTTL       time.Duration `envconfig:"BENGKELHUB_CRON_LOCK_TTL" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BENGKELHUB_FF_AUTO_MIGRATE" default:"true"`
	SeedDevData bool `envconfig:"BENGKELHUB_FF_SEED_DEV_DATA" default:"true"`
}
