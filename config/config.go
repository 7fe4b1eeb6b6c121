package config

import (
	"os"
	"strings"
)

// AppConfig composes the dashboard client's configuration from
// domain-specific sections. Values load from OPSDESK_-prefixed environment
// variables via the github.com/caarlos0/env library. See the individual
// files for the variables each section reads:
//   - backend.go: backend transport configuration
//   - settings.go: settings store selection (file or Redis)
//   - modules.go: module registry location and testing credentials
//   - metrics.go: StatsD metrics emission
type AppConfig struct {
	// IsDev switches development conveniences on. Set OPSDESK_DEV=true or
	// OPSDESK_ENV=development.
	IsDev bool `env:"OPSDESK_DEV" envDefault:"false"`

	Backend  BackendConfig  `envPrefix:"OPSDESK_BACKEND_"`
	Settings SettingsConfig `envPrefix:"OPSDESK_SETTINGS_"`
	Redis    RedisConfig    `envPrefix:"OPSDESK_REDIS_"`
	Modules  ModulesConfig  `envPrefix:"OPSDESK_MODULES_"`
	Metrics  MetricsConfig  `envPrefix:"OPSDESK_METRICS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment
// variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.Settings.Sanitize()
	c.Modules.Sanitize()
	c.Metrics.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks OPSDESK_ENV as a fallback for the boolean flag so
// either convention flips the client into development mode.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		envName := strings.ToLower(os.Getenv("OPSDESK_ENV"))
		c.IsDev = envName == "development" || envName == "dev"
	}
}
