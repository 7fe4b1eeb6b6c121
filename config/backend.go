package config

import (
	"strings"
	"time"
)

// BackendConfig points the client at the operations backend.
type BackendConfig struct {
	// URL is the backend origin, e.g. "https://ops.example.com". Empty
	// leaves request paths relative, which only a same-origin proxy can
	// serve; the default targets a locally running stub.
	URL string `env:"URL" envDefault:"http://localhost:8080"`

	// Timeout bounds each backend request end to end.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to backend transport configuration.
func (c *BackendConfig) Sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}
