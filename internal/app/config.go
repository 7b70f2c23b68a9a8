package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (VELOUR_ prefix) or YAML config files.
type Config struct {
	APIBaseURL  string        `default:"https://v2.api.noroff.dev" usage:"Base URL of the external shop/auth API" flag:"api-base-url"`
	StateDir    string        `default:"" usage:"Directory for persisted cart/session state (default: per-user config dir)" flag:"state-dir"`
	HTTPTimeout time.Duration `default:"10s" usage:"Timeout for a single API request" flag:"http-timeout"`
	Storage     StorageConfig
	Search      SearchConfig
	Checkout    CheckoutConfig
}

// StorageConfig selects the durable state backend.
type StorageConfig struct {
	Backend  string `default:"file" usage:"State backend: file or redis"`
	RedisURL string `usage:"Redis connection URL (VELOUR_STORAGE_REDIS_URL or REDIS_URL)" flag:"redis-url"`
}

// SearchConfig controls the debounced search behaviour.
type SearchConfig struct {
	Debounce time.Duration `default:"500ms" usage:"Quiescence window before a typed query triggers a search call"`
}

// CheckoutConfig controls the simulated checkout.
type CheckoutConfig struct {
	Delay time.Duration `default:"1s" usage:"Simulated checkout processing delay"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "VELOUR",
		Files:     []string{"velour.yaml", "/etc/velour/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.Storage.Backend == "redis" && cfg.Storage.RedisURL == "" {
		return nil, errors.New("redis backend selected: set VELOUR_STORAGE_REDIS_URL or REDIS_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that use
// standard names (REDIS_URL) to the application's VELOUR_-prefixed
// configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.RedisURL == "" {
		if v := os.Getenv("REDIS_URL"); v != "" {
			c.Storage.RedisURL = v
		}
	}
}
