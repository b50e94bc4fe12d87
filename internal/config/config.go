package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"cruce"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Timezone string `envconfig:"APP_TIMEZONE" default:"America/Argentina/Buenos_Aires"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"cruce"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		MaxUploadMB int64         `envconfig:"SERVER_MAX_UPLOAD_MB" default:"50"`
		CORSOrigins []string      `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
	}

	Redis struct {
		Address  string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
		URL      string `envconfig:"REDIS_URL"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
		Queue    string `envconfig:"REDIS_QUEUE" default:"cruce:runs"`
	}

	Worker struct {
		Concurrency int           `envconfig:"WORKER_CONCURRENCY" default:"2"`
		LockTTL     time.Duration `envconfig:"WORKER_LOCK_TTL" default:"30m"`
		PollTimeout time.Duration `envconfig:"WORKER_POLL_TIMEOUT" default:"5s"`
		MetricsPort int           `envconfig:"WORKER_METRICS_PORT" default:"9091"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"json"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Location loads the configured timezone used for exported timestamps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.App.Timezone, err)
	}

	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Worker.Concurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", cfg.Worker.Concurrency)
	}

	return &cfg, nil
}
