package config

import (
	"strings"
	"time"
)

// StubConfig configures the development stub backend binary.
type StubConfig struct {
	// Addr is the listen address.
	Addr string `env:"OPSDESK_STUB_ADDR" envDefault:":8080"`

	// JWTSecret signs the stub's bearer tokens. The default is fine for
	// local development, which is all the stub exists for.
	JWTSecret string `env:"OPSDESK_STUB_JWT_SECRET" envDefault:"opsdesk-stub-dev-secret"`

	// TokenTTL bounds issued token lifetime.
	TokenTTL time.Duration `env:"OPSDESK_STUB_TOKEN_TTL" envDefault:"12h"`

	// Seed loads the demo rows and demo account on start.
	Seed bool `env:"OPSDESK_STUB_SEED" envDefault:"true"`
}

// Sanitize applies guardrails to stub configuration values.
func (c *StubConfig) Sanitize() {
	c.Addr = strings.TrimSpace(c.Addr)
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 12 * time.Hour
	}
}
