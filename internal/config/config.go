package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint = "/cgi-bin/.protectiv/fingerprint"
	DefaultPath     = "configs/config.yaml"

	// MaxRetries caps delivery.retries; the last backoff before it is 2^9 s.
	MaxRetries = 10

	// EnvPrefix namespaces environment overrides, e.g. FINGERPRINT_DELIVERY_RETRIES.
	EnvPrefix = "FINGERPRINT"
)

type Config struct {
	Debug    bool           `yaml:"debug" split_words:"true"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Collect  CollectConfig  `yaml:"collect"`
	Helper   HelperConfig   `yaml:"helper"`
	Browser  BrowserConfig  `yaml:"browser"`
	Storage  StorageConfig  `yaml:"storage"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DeliveryConfig struct {
	Endpoint  string `yaml:"endpoint" split_words:"true"`
	TimeoutMs int    `yaml:"timeout_ms" split_words:"true"`
	Retries   int    `yaml:"retries" split_words:"true"`
	// BaseURL anchors a relative endpoint. Empty means the page being fingerprinted.
	BaseURL   string `yaml:"base_url" split_words:"true"`
	Transport string `yaml:"transport" split_words:"true"` // http, page
}

type CollectConfig struct {
	SettleDelayMs int      `yaml:"settle_delay_ms" split_words:"true"`
	Concurrency   int      `yaml:"concurrency" split_words:"true"`
	Fonts         []string `yaml:"fonts"`
}

type HelperConfig struct {
	Enabled           bool   `yaml:"enabled" split_words:"true"`
	ScriptURL         string `yaml:"script_url" split_words:"true"`
	Global            string `yaml:"global" split_words:"true"`
	Method            string `yaml:"method" split_words:"true"`
	LoadTimeoutMs     int    `yaml:"load_timeout_ms" split_words:"true"`
	// GenerateTimeoutMs bounds each generate call once the helper is loaded.
	GenerateTimeoutMs int    `yaml:"generate_timeout_ms" split_words:"true"`
}

type BrowserConfig struct {
	Headless  bool           `yaml:"headless" split_words:"true"`
	Bin       string         `yaml:"bin" split_words:"true"`
	ProxyURL  string         `yaml:"proxy_url" split_words:"true"`
	Stealth   bool           `yaml:"stealth" split_words:"true"`
	UserAgent string         `yaml:"user_agent" split_words:"true"`
	Viewport  ViewportConfig `yaml:"viewport"`
	Timezone  string         `yaml:"timezone" split_words:"true"`
	Language  string         `yaml:"language" split_words:"true"`
}

type ViewportConfig struct {
	Width  int `yaml:"width" split_words:"true"`
	Height int `yaml:"height" split_words:"true"`
}

type StorageConfig struct {
	MongoDB MongoDBConfig `yaml:"mongodb"`
}

type MongoDBConfig struct {
	Enabled        bool   `yaml:"enabled" split_words:"true"`
	URI            string `yaml:"uri" split_words:"true"`
	Database       string `yaml:"database" split_words:"true"`
	TimeoutSeconds int    `yaml:"timeout_seconds" split_words:"true"`
}

type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" split_words:"true"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Delivery: DeliveryConfig{
			Endpoint:  DefaultEndpoint,
			TimeoutMs: 5000,
			Retries:   3,
			Transport: "http",
		},
		Collect: CollectConfig{
			SettleDelayMs: 100,
			Concurrency:   1,
		},
		Helper: HelperConfig{
			Global:            "FingerprintHelper",
			Method:            "generate",
			LoadTimeoutMs:     10000,
			GenerateTimeoutMs: 5000,
		},
		Browser: BrowserConfig{
			Headless: true,
			Viewport: ViewportConfig{Width: 1366, Height: 768},
		},
		Storage: StorageConfig{
			MongoDB: MongoDBConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "fingerprint",
				TimeoutSeconds: 10,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load decodes path over the defaults and applies environment overrides.
// A missing file is only an error when the caller asked for a non-default path.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			decoder := yaml.NewDecoder(file)
			if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		default:
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Delivery.Endpoint == "" {
		return errors.New("config: delivery.endpoint is required")
	}
	if c.Delivery.Retries < 1 {
		return fmt.Errorf("config: delivery.retries must be at least 1, got %d", c.Delivery.Retries)
	}
	if c.Delivery.Retries > MaxRetries {
		return fmt.Errorf("config: delivery.retries must be at most %d, got %d", MaxRetries, c.Delivery.Retries)
	}
	if c.Delivery.TimeoutMs <= 0 {
		return fmt.Errorf("config: delivery.timeout_ms must be positive, got %d", c.Delivery.TimeoutMs)
	}
	switch c.Delivery.Transport {
	case "http", "page":
	default:
		return fmt.Errorf("config: unknown delivery.transport %q", c.Delivery.Transport)
	}
	if c.Delivery.BaseURL != "" {
		if _, err := url.Parse(c.Delivery.BaseURL); err != nil {
			return fmt.Errorf("config: delivery.base_url: %w", err)
		}
	}
	if c.Collect.SettleDelayMs < 0 {
		return fmt.Errorf("config: collect.settle_delay_ms must not be negative")
	}
	if c.Helper.GenerateTimeoutMs < 0 {
		return fmt.Errorf("config: helper.generate_timeout_ms must not be negative")
	}
	if c.Helper.Enabled && c.Helper.ScriptURL == "" {
		return errors.New("config: helper.script_url is required when the helper is enabled")
	}
	return nil
}

func (d DeliveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// ResolveEndpoint anchors the endpoint against BaseURL, or against page when
// BaseURL is empty. Absolute endpoints pass through.
func (d DeliveryConfig) ResolveEndpoint(page string) (string, error) {
	ref, err := url.Parse(d.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", d.Endpoint, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	base := d.BaseURL
	if base == "" {
		base = page
	}
	if base == "" {
		return "", fmt.Errorf("endpoint %q is relative and no base url is known", d.Endpoint)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func (c CollectConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

func (h HelperConfig) LoadTimeout() time.Duration {
	return time.Duration(h.LoadTimeoutMs) * time.Millisecond
}

func (h HelperConfig) GenerateTimeout() time.Duration {
	return time.Duration(h.GenerateTimeoutMs) * time.Millisecond
}

func (m MongoDBConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}
