package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App      AppConfig
	Checkout CheckoutConfig
	Redis    RedisConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Catalog  CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every inconsistency between the checkout mode and the
// settings it depends on.
func (c *Config) Validate() error {
	var errs error

	mode, err := enums.ParseCheckoutMode(c.Checkout.Mode)
	if err != nil {
		return err
	}
	if c.Checkout.Delay < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must not be negative", EnvCheckoutDelay))
	}
	if c.Checkout.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvCheckoutTimeout))
	}

	switch mode {
	case enums.CheckoutModeHTTP:
		if strings.TrimSpace(c.Checkout.URL) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required when checkout mode is %s", EnvCheckoutURL, mode))
		}
	case enums.CheckoutModePubSub:
		if strings.TrimSpace(c.GCP.ProjectID) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required when checkout mode is %s", EnvGCPProjectID, mode))
		}
		if strings.TrimSpace(c.PubSub.CheckoutTopic) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required when checkout mode is %s", EnvPubSubCheckoutTopic, mode))
		}
	}

	return errs
}

type AppConfig struct {
	Env          string   `envconfig:"PACKFINDERZ_APP_ENV" required:"true"`
	Port         string   `envconfig:"PACKFINDERZ_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"PACKFINDERZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PACKFINDERZ_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"PACKFINDERZ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CheckoutConfig struct {
	Mode    string        `envconfig:"PACKFINDERZ_CHECKOUT_MODE" default:"delay"`
	Delay   time.Duration `envconfig:"PACKFINDERZ_CHECKOUT_DELAY" default:"2s"`
	URL     string        `envconfig:"PACKFINDERZ_CHECKOUT_URL"`
	Timeout time.Duration `envconfig:"PACKFINDERZ_CHECKOUT_TIMEOUT" default:"10s"`
}

// ParsedMode returns the normalized checkout mode. Load has already rejected
// unknown values, so the zero value only appears on hand-built configs.
func (c CheckoutConfig) ParsedMode() enums.CheckoutMode {
	mode, err := enums.ParseCheckoutMode(c.Mode)
	if err != nil {
		return ""
	}
	return mode
}

type RedisConfig struct {
	URL          string        `envconfig:"PACKFINDERZ_REDIS_URL"`
	Address      string        `envconfig:"PACKFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"PACKFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PACKFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PACKFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PACKFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PACKFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type GCPConfig struct {
	ProjectID string `envconfig:"PACKFINDERZ_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CheckoutTopic string `envconfig:"PACKFINDERZ_PUBSUB_CHECKOUT_TOPIC"`
}

type CatalogConfig struct {
	File string `envconfig:"PACKFINDERZ_CATALOG_FILE"`
}
