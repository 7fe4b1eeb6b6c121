package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/opsdeskhq/opsdesk/internal/ports"
)

// moduleAuthentication is the descriptor consulted for the one-time
// auto-login testing account.
const moduleAuthentication = "authentication"

// ModulesConfig locates the dashboard module registry and the optional
// development credential pair.
type ModulesConfig struct {
	// Path is the registry file, a JSON array of module descriptors.
	// A missing file is not an error: the registry is then synthesized
	// from the testing credentials alone.
	Path string `env:"PATH" envDefault:"modules.json"`

	// TestingEmail and TestingPassword fill in the authentication
	// descriptor's testing account when the registry file does not carry
	// one. Development convenience only; leave unset in production.
	TestingEmail    string `env:"TESTING_EMAIL"`
	TestingPassword string `env:"TESTING_PASSWORD"`
}

// Sanitize applies guardrails to module registry configuration.
func (c *ModulesConfig) Sanitize() {
	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" {
		c.Path = "modules.json"
	}
	c.TestingEmail = strings.TrimSpace(c.TestingEmail)
}

// ModuleRegistry is the file-backed ports.ModuleRegistry implementation.
// It is immutable after load.
type ModuleRegistry struct {
	byName map[string]ports.ModuleDescriptor
}

var _ ports.ModuleRegistry = (*ModuleRegistry)(nil)

// LoadModuleRegistry reads the registry file and overlays the env-provided
// testing account. A registry file descriptor always wins over the env
// synthesis; the env pair only fills a gap.
func LoadModuleRegistry(cfg ModulesConfig) (*ModuleRegistry, error) {
	reg := &ModuleRegistry{byName: make(map[string]ports.ModuleDescriptor)}

	raw, err := os.ReadFile(cfg.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Dev setups routinely run without a registry file.
	case err != nil:
		return nil, fmt.Errorf("read module registry %s: %w", cfg.Path, err)
	default:
		var modules []ports.ModuleDescriptor
		if err := json.Unmarshal(raw, &modules); err != nil {
			return nil, fmt.Errorf("parse module registry %s: %w", cfg.Path, err)
		}
		for _, m := range modules {
			m.Name = strings.TrimSpace(m.Name)
			if m.Name == "" {
				continue
			}
			reg.byName[m.Name] = m
		}
	}

	if cfg.TestingEmail != "" && cfg.TestingPassword != "" {
		desc, ok := reg.byName[moduleAuthentication]
		if !ok {
			desc = ports.ModuleDescriptor{Name: moduleAuthentication, Label: "Authentication"}
		}
		if desc.TestingAccount == nil {
			desc.TestingAccount = &ports.TestingAccount{
				Email:    cfg.TestingEmail,
				Password: cfg.TestingPassword,
			}
		}
		reg.byName[moduleAuthentication] = desc
	}

	return reg, nil
}

// Lookup returns the descriptor registered under name.
func (r *ModuleRegistry) Lookup(name string) (ports.ModuleDescriptor, bool) {
	desc, ok := r.byName[name]
	return desc, ok
}

// Names returns the registered module names in sorted order.
func (r *ModuleRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
