package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, logging, the HTTP server, the
// classifier and analyzer, optional enrichment, and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"1m" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxUploadBytes limits the size of an uploaded backlink export
		MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" env-default:"33554432" yaml:"maxUploadBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists CORS origins; "*" allows any
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" yaml:"allowedOrigins"`
	} `yaml:"http"`

	// Classifier configures the rule battery
	Classifier struct {
		// RulesPath points to a YAML file overriding the default keyword lists and thresholds
		RulesPath string `env:"CLASSIFIER_RULES_PATH" env-default:"" yaml:"rulesPath"`
	} `yaml:"classifier"`

	// Analyzer configures batch classification
	Analyzer struct {
		// Workers bounds how many URLs are classified and enriched concurrently
		Workers int `env:"ANALYZER_WORKERS" env-default:"8" yaml:"workers"`
	} `yaml:"analyzer"`

	// Enrichment configures the optional text-generation assessment of opportunities
	Enrichment struct {
		// Enabled turns enrichment on for every analysis
		Enabled bool `env:"ENRICHMENT_ENABLED" env-default:"false" yaml:"enabled"`
		// APIKey is the provider credential
		APIKey string `env:"OPENAI_API_KEY" env-default:"" yaml:"apiKey"`
		// BaseURL of the provider API
		BaseURL string `env:"ENRICHMENT_BASE_URL" env-default:"https://api.openai.com/v1" yaml:"baseURL"`
		// Model is the chat model name
		Model string `env:"ENRICHMENT_MODEL" env-default:"gpt-4o-mini" yaml:"model"`
		// ClientContext describes the client's site to the provider
		ClientContext string `env:"ENRICHMENT_CLIENT_CONTEXT" env-default:"" yaml:"clientContext"`
		// Timeout bounds a single provider call
		Timeout time.Duration `env:"ENRICHMENT_TIMEOUT" env-default:"20s" yaml:"timeout"`
		// MaxRetries is the number of retries after a rate-limited, unavailable or timed-out call
		MaxRetries int `env:"ENRICHMENT_MAX_RETRIES" env-default:"3" yaml:"maxRetries"`
		// InitialBackoff is the first retry delay, doubled on each attempt up to MaxBackoff
		InitialBackoff time.Duration `env:"ENRICHMENT_INITIAL_BACKOFF" env-default:"1s" yaml:"initialBackoff"`
		// MaxBackoff caps the retry delay
		MaxBackoff time.Duration `env:"ENRICHMENT_MAX_BACKOFF" env-default:"30s" yaml:"maxBackoff"`
	} `yaml:"enrichment"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: the configuration then comes from the
// environment and defaults alone.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); !errors.Is(err, fs.ErrNotExist) {
		return LoadFile(configPath)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// LoadFile is like Load but fails when the file does not exist.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("could not stat config: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
