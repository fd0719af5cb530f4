package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Dffarhn/recyle-food-mobile/pkg/config"
	"github.com/Dffarhn/recyle-food-mobile/pkg/httpclient"
)

// DetailConfig holds configuration for the detail screen binary.
type DetailConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`

	// Mystery box API
	APIBaseURL     string `env:"MYSTERYBOX_API_URL" envDefault:"http://localhost:8080"`
	APITimeoutSecs int    `env:"MYSTERYBOX_API_TIMEOUT_SECONDS" envDefault:"10"`
	APIMaxRetries  int    `env:"MYSTERYBOX_API_MAX_RETRIES" envDefault:"2"`
	DeviceID       string `env:"DEVICE_ID"`

	// Circuit breaker
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBIntervalSecs int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeoutSecs  int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Device location. A fixed position wins over the IP lookup.
	DeviceLatitude  *float64 `env:"DEVICE_LATITUDE"`
	DeviceLongitude *float64 `env:"DEVICE_LONGITUDE"`
	IPLookupEnabled bool     `env:"IP_GEOLOCATION_ENABLED" envDefault:"true"`
	IPLookupURL     string   `env:"IP_GEOLOCATION_URL" envDefault:"https://ipapi.co/json/"`

	// Presentation
	Locale string `env:"DETAIL_LOCALE" envDefault:"id-ID"`
}

// LoadDetail reads the detail screen configuration.
func LoadDetail() (*DetailConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &DetailConfig{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load detail config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *DetailConfig) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MYSTERYBOX_API_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.APITimeoutSecs <= 0 {
		return fmt.Errorf("MYSTERYBOX_API_TIMEOUT_SECONDS must be > 0, got %d", c.APITimeoutSecs)
	}
	if c.APIMaxRetries < 0 {
		return fmt.Errorf("MYSTERYBOX_API_MAX_RETRIES must be >= 0, got %d", c.APIMaxRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if (c.DeviceLatitude == nil) != (c.DeviceLongitude == nil) {
		return fmt.Errorf("DEVICE_LATITUDE and DEVICE_LONGITUDE must be set together")
	}
	if c.IPLookupEnabled && c.IPLookupURL == "" {
		return fmt.Errorf("IP_GEOLOCATION_URL is required when IP_GEOLOCATION_ENABLED is true")
	}
	return nil
}

// HTTPClient returns the retrying client configuration.
func (c *DetailConfig) HTTPClient() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = time.Duration(c.APITimeoutSecs) * time.Second
	cfg.MaxRetries = c.APIMaxRetries
	return cfg
}

// CircuitBreaker returns the breaker configuration for the named dependency.
func (c *DetailConfig) CircuitBreaker(name string) httpclient.CircuitBreakerConfig {
	return httpclient.CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  c.CBMaxRequests,
		Interval:     time.Duration(c.CBIntervalSecs) * time.Second,
		Timeout:      time.Duration(c.CBTimeoutSecs) * time.Second,
		FailureRatio: c.CBFailureRatio,
		MinRequests:  c.CBMinRequests,
	}
}
