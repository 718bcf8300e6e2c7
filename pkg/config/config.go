package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the client configuration
type Config struct {
	Backend struct {
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"required,description=Base URL of the aggregator backend"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP request timeout"`
	} `yaml:"backend" json:"backend" jsonschema:"description=Aggregator backend configuration"`

	Auth AuthConfig `yaml:"auth" json:"auth" jsonschema:"description=Identity provider configuration"`

	Storage struct {
		DSN string `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedcli.db?cache=shared&mode=rwc,description=Local state database connection string"`
	} `yaml:"storage" json:"storage" jsonschema:"description=Local state storage configuration"`

	Retry RetryConfig `yaml:"retry" json:"retry" jsonschema:"description=Retry policy for rate-limited calls"`

	Summary SummaryConfig `yaml:"summary" json:"summary" jsonschema:"description=Summarization configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Reader-mode content extraction configuration"`
}

// AuthConfig holds identity provider settings
type AuthConfig struct {
	ProviderURL  string        `yaml:"provider_url" json:"provider_url" jsonschema:"description=Identity provider base URL (defaults to the backend base URL)"`
	FederatedURL string        `yaml:"federated_url" json:"federated_url" jsonschema:"description=Provider-hosted page for the federated sign-in flow"`
	FlowTimeout  time.Duration `yaml:"flow_timeout" json:"flow_timeout" jsonschema:"default=2m,description=How long to wait for the federated browser flow"`
	RefreshSkew  time.Duration `yaml:"refresh_skew" json:"refresh_skew" jsonschema:"default=30s,description=Refresh credentials expiring within this window"`
}

// RetryConfig holds the backoff policy applied to retry-eligible calls
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=3,minimum=1,description=Total attempts including the first"`
	BackoffBase time.Duration `yaml:"backoff_base" json:"backoff_base" jsonschema:"default=1s,description=Initial backoff delay, doubled per attempt"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay" jsonschema:"default=10s,description=Cap on a single backoff delay"`
}

// SummaryConfig holds settings for the item summarization integration
type SummaryConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable item summarization"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini)"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=200,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	Concurrency int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=3,minimum=1,description=Maximum concurrent summarization requests"`
}

// ExtractionConfig holds reader-mode extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Enable reader-mode extraction"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Feedcli/1.0,description=User agent for article requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum text length to consider valid"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for backend
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}

	// set defaults for auth
	if cfg.Auth.ProviderURL == "" {
		cfg.Auth.ProviderURL = cfg.Backend.BaseURL
	}
	if cfg.Auth.FlowTimeout == 0 {
		cfg.Auth.FlowTimeout = 2 * time.Minute
	}
	if cfg.Auth.RefreshSkew == 0 {
		cfg.Auth.RefreshSkew = 30 * time.Second
	}

	// set defaults for storage
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "file:feedcli.db?cache=shared&mode=rwc"
	}

	// set defaults for retry
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BackoffBase == 0 {
		cfg.Retry.BackoffBase = time.Second
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 10 * time.Second
	}

	// set defaults for summary
	if cfg.Summary.Temperature == 0 {
		cfg.Summary.Temperature = 0.3
	}
	if cfg.Summary.MaxTokens == 0 {
		cfg.Summary.MaxTokens = 200
	}
	if cfg.Summary.Timeout == 0 {
		cfg.Summary.Timeout = 30 * time.Second
	}
	if cfg.Summary.Concurrency == 0 {
		cfg.Summary.Concurrency = 3
	}

	// set defaults for extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "Feedcli/1.0"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 100
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate backend config
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL")
	}
	if cfg.Backend.Timeout < time.Second {
		return fmt.Errorf("backend timeout must be at least 1 second")
	}

	// validate retry config
	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if cfg.Retry.BackoffBase <= 0 {
		return fmt.Errorf("retry.backoff_base must be positive")
	}

	// validate summary config
	if cfg.Summary.Enabled {
		if cfg.Summary.Endpoint == "" {
			return fmt.Errorf("summary.endpoint is required when summarization is enabled")
		}
		if cfg.Summary.Model == "" {
			return fmt.Errorf("summary.model is required when summarization is enabled")
		}
		if cfg.Summary.Temperature < 0 || cfg.Summary.Temperature > 2 {
			return fmt.Errorf("summary.temperature must be between 0 and 2")
		}
	}

	// validate extraction config
	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	return nil
}

// GetBackendConfig returns backend base URL and timeout
func (c *Config) GetBackendConfig() (baseURL string, timeout time.Duration) {
	return c.Backend.BaseURL, c.Backend.Timeout
}

// GetAuthConfig returns identity provider configuration
func (c *Config) GetAuthConfig() AuthConfig {
	return c.Auth
}

// GetRetryConfig returns the retry policy for rate-limited calls
func (c *Config) GetRetryConfig() RetryConfig {
	return c.Retry
}

// GetSummaryConfig returns summarization configuration
func (c *Config) GetSummaryConfig() SummaryConfig {
	return c.Summary
}

// GetExtractionConfig returns reader-mode extraction configuration
func (c *Config) GetExtractionConfig() ExtractionConfig {
	return c.Extraction
}
