package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"

	"RocketShoes/internal/storage"
)

const (
	CartPrefix = "ROCKETSHOES"
	APIPrefix  = "ROCKETSHOES_API"
)

// Cart configures cmd/cart. Every field maps to ROCKETSHOES_<NAME>.
type Cart struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	APIURL     string        `envconfig:"API_URL" default:"http://localhost:3333"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"3s"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"file"`
	StorageDir    string `envconfig:"STORAGE_DIR" default:"./data"`
	StorageKey    string `envconfig:"STORAGE_KEY" default:"@RocketShoes:cart"`
	RedisURL      string `envconfig:"REDIS_URL"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`

	MetricsToken       string `envconfig:"METRICS_TOKEN"`
	NotificationBuffer int    `envconfig:"NOTIFICATION_BUFFER" default:"32"`
}

// API configures cmd/api. An empty DatabaseURL serves the built-in catalog.
type API struct {
	Port         string `envconfig:"PORT" default:"3333"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	MetricsToken string `envconfig:"METRICS_TOKEN"`
}

func LoadCart() (*Cart, error) {
	var cfg Cart
	if err := envconfig.Process(CartPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing cart config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadAPI() (*API, error) {
	var cfg API
	if err := envconfig.Process(APIPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing api config: %w", err)
	}
	if cfg.Port == "" {
		return nil, errors.New("api config: port required")
	}
	return &cfg, nil
}

func (c Cart) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port required"))
	}
	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid api url %q", c.APIURL))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}
	if c.NotificationBuffer < 1 {
		errs = append(errs, errors.New("notification buffer must be at least 1"))
	}

	switch c.StorageDriver {
	case storage.DriverMemory:
	case storage.DriverFile:
		if c.StorageDir == "" {
			errs = append(errs, errors.New("storage dir required for file driver"))
		}
	case storage.DriverRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis url required for redis driver"))
		}
	case storage.DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("database url required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("cart config: %w", err)
	}
	return nil
}

func (c Cart) StorageOptions() storage.Options {
	return storage.Options{
		Driver:      c.StorageDriver,
		Dir:         c.StorageDir,
		RedisURL:    c.RedisURL,
		DatabaseURL: c.DatabaseURL,
	}
}
