package config

import (
	"time"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/pkg/trace"
)

type (
	// ClientConfig represents the admin client configuration
	ClientConfig struct {
		APIURL       string          `yaml:"api_url"`
		CookieMode   cnst.CookieMode `yaml:"cookie_mode"`   // explicit or jar
		SentinelCode int             `yaml:"sentinel_code"` // application code meaning "session expired"
		PageSize     int             `yaml:"page_size"`
		TickInterval time.Duration   `yaml:"tick_interval"` // fallback redraw interval of the console loop
		HTTPTimeout  time.Duration   `yaml:"http_timeout"`  // transport timeout, 0 disables it
		ProfilePath  string          `yaml:"profile_path"`  // where login state is persisted
		Logger       LoggerConfig    `yaml:"logger"`
		Metrics      MetricsConfig   `yaml:"metrics"`
		Tracing      trace.Config    `yaml:"tracing"`
	}
)

// DefaultClientConfig returns a client configuration with every default applied
func DefaultClientConfig() *ClientConfig {
	cfg := &ClientConfig{}
	cfg.setDefaults()
	return cfg
}

func (c *ClientConfig) setDefaults() {
	if c.APIURL == "" {
		c.APIURL = "http://127.0.0.1:8120/api/"
	}
	if c.CookieMode == "" {
		c.CookieMode = cnst.CookieModeExplicit
	}
	if c.SentinelCode == 0 {
		c.SentinelCode = cnst.CodeSessionExpired
	}
	if c.PageSize == 0 {
		c.PageSize = cnst.DefaultPageSize
	}
	c.TickInterval = durationOr(c.TickInterval, 100*time.Millisecond)
	c.Metrics.setDefaults("npipe_admin")
	setTracingDefaults(&c.Tracing, cnst.AppName)
}

// Validate checks the client configuration
func (c *ClientConfig) Validate() error {
	var errs []*ValidationError
	if c.APIURL == "" {
		errs = append(errs, newValidationError(cnst.ErrEmptyAPIURL, "api_url"))
	}
	switch c.CookieMode {
	case cnst.CookieModeExplicit, cnst.CookieModeJar:
	default:
		errs = append(errs, newValidationError(cnst.ErrInvalidCookieMode, "cookie_mode"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, newValidationError(cnst.ErrInvalidPageSize, "page_size"))
	}
	return joinValidationErrors(errs)
}
