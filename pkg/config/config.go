package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration values
type Config struct {
	// BaseURL is the origin that serves /register and /campaign-start.
	BaseURL string `env:"REGISTER_BASE_URL" envDefault:"http://localhost:8080"`

	// CountryCodePrefix sends the phone number as +1XXXXXXXXXX instead of the raw digits.
	CountryCodePrefix bool `env:"REGISTER_COUNTRY_CODE_PREFIX" envDefault:"true"`

	// GateCampaignSuccess waits for a 200 before revealing the success element on the
	// control panel. Off by default: the element is shown as soon as the button is clicked.
	GateCampaignSuccess bool `env:"REGISTER_GATE_CAMPAIGN_SUCCESS" envDefault:"false"`

	// RequestTimeout of zero means requests never time out.
	RequestTimeout time.Duration `env:"REGISTER_REQUEST_TIMEOUT" envDefault:"0s"`

	DraftPath string `env:"REGISTER_DRAFT_PATH" envDefault:".register-draft.json"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	MetricsTextfile string `env:"METRICS_TEXTFILE"`
	TraceStdout     bool   `env:"TRACE_STDOUT" envDefault:"false"`
}

// LoadConfig reads a .env file if present, then configuration from environment variables
func LoadConfig(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the base URL scheme and the timeout.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid REGISTER_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid REGISTER_BASE_URL %q: scheme must be http or https", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid REGISTER_REQUEST_TIMEOUT %s: must not be negative", c.RequestTimeout)
	}
	return nil
}
