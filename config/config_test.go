package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("OPSDESK_DEV", "true")
	t.Setenv("OPSDESK_BACKEND_URL", "https://ops.example.com")
	t.Setenv("OPSDESK_BACKEND_TIMEOUT", "3s")
	t.Setenv("OPSDESK_SETTINGS_STORE", "redis")
	t.Setenv("OPSDESK_SETTINGS_KEY_PREFIX", "dash:settings:")
	t.Setenv("OPSDESK_REDIS_URI", "redis://cache.internal:6380")
	t.Setenv("OPSDESK_REDIS_PASSWORD", "hunter2")
	t.Setenv("OPSDESK_MODULES_PATH", "/etc/opsdesk/modules.json")
	t.Setenv("OPSDESK_MODULES_TESTING_EMAIL", "qa@example.com")
	t.Setenv("OPSDESK_MODULES_TESTING_PASSWORD", "Secret99x")
	t.Setenv("OPSDESK_METRICS_ENABLED", "true")
	t.Setenv("OPSDESK_METRICS_STATSD_ADDRESS", "statsd:8125")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if !cfg.IsDev {
		t.Error("expected dev mode to be enabled")
	}

	expectedBackend := BackendConfig{
		URL:     "https://ops.example.com",
		Timeout: 3 * time.Second,
	}
	if !reflect.DeepEqual(cfg.Backend, expectedBackend) {
		t.Errorf("unexpected backend config:\nexpected: %#v\ngot:      %#v", expectedBackend, cfg.Backend)
	}

	if cfg.Settings.Store != "redis" {
		t.Errorf("expected settings store redis, got %q", cfg.Settings.Store)
	}
	if cfg.Settings.KeyPrefix != "dash:settings:" {
		t.Errorf("unexpected key prefix %q", cfg.Settings.KeyPrefix)
	}
	if cfg.Redis.URI != "redis://cache.internal:6380" {
		t.Errorf("unexpected redis uri %q", cfg.Redis.URI)
	}
	if cfg.Redis.Password != "hunter2" {
		t.Errorf("unexpected redis password %q", cfg.Redis.Password)
	}
	if cfg.Modules.Path != "/etc/opsdesk/modules.json" {
		t.Errorf("unexpected modules path %q", cfg.Modules.Path)
	}
	if cfg.Modules.TestingEmail != "qa@example.com" {
		t.Errorf("unexpected testing email %q", cfg.Modules.TestingEmail)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.StatsdAddress != "statsd:8125" {
		t.Errorf("unexpected metrics config %#v", cfg.Metrics)
	}
}

func TestAppConfig_DetectDevModeFromEnvName(t *testing.T) {
	t.Setenv("OPSDESK_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("expected OPSDESK_ENV=development to enable dev mode")
	}
}

func TestBackendConfig_Sanitize(t *testing.T) {
	cfg := BackendConfig{URL: "  http://localhost:8080  ", Timeout: 0}
	cfg.Sanitize()

	if cfg.URL != "http://localhost:8080" {
		t.Errorf("expected url to be trimmed, got %q", cfg.URL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout fallback of 10s, got %v", cfg.Timeout)
	}
}

func TestSettingsConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name      string
		input     SettingsConfig
		wantStore string
	}{
		{
			name:      "unknown store falls back to file",
			input:     SettingsConfig{Store: "postgres"},
			wantStore: SettingsStoreFile,
		},
		{
			name:      "redis kept",
			input:     SettingsConfig{Store: " Redis "},
			wantStore: SettingsStoreRedis,
		},
		{
			name:      "empty store defaults to file",
			input:     SettingsConfig{},
			wantStore: SettingsStoreFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			cfg.Sanitize()

			if cfg.Store != tt.wantStore {
				t.Errorf("expected store %q, got %q", tt.wantStore, cfg.Store)
			}
			if cfg.Path == "" {
				t.Error("expected a default settings path")
			}
			if cfg.SyncInterval <= 0 {
				t.Errorf("expected positive sync interval, got %v", cfg.SyncInterval)
			}
		})
	}
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	cfg := MetricsConfig{Enabled: true, StatsdAddress: " "}
	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatal("expected metrics to be disabled when address is empty")
	}

	cfg = MetricsConfig{Enabled: true, StatsdAddress: " statsd:8125 ", Prefix: " opsdesk "}
	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatal("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:8125" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "opsdesk" {
		t.Fatalf("expected prefix to be trimmed, got %q", cfg.Prefix)
	}
}

func TestStubConfig_Sanitize(t *testing.T) {
	cfg := StubConfig{Addr: "  ", TokenTTL: -time.Hour}
	cfg.Sanitize()

	if cfg.Addr != ":8080" {
		t.Errorf("expected addr fallback, got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("expected ttl fallback of 12h, got %v", cfg.TokenTTL)
	}
}

func TestLoadModuleRegistry_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modules.json")
	registry := `[
		{"name": "authentication", "label": "Sign-in", "testingAccount": {"email": "qa@example.com", "password": "Secret99x"}},
		{"name": "hr.employees", "label": "Employee Directory"},
		{"name": "  ", "label": "ignored"}
	]`
	if err := os.WriteFile(path, []byte(registry), 0o600); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	reg, err := LoadModuleRegistry(ModulesConfig{Path: path})
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	auth, ok := reg.Lookup("authentication")
	if !ok {
		t.Fatal("expected authentication descriptor")
	}
	if auth.TestingAccount == nil || auth.TestingAccount.Email != "qa@example.com" {
		t.Fatalf("unexpected testing account %#v", auth.TestingAccount)
	}

	if _, ok := reg.Lookup("hr.employees"); !ok {
		t.Error("expected hr.employees descriptor")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Error("did not expect a descriptor for an unknown name")
	}

	names := reg.Names()
	expected := []string{"authentication", "hr.employees"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected names %v, got %v", expected, names)
	}
}

func TestLoadModuleRegistry_MissingFileSynthesizesFromEnv(t *testing.T) {
	cfg := ModulesConfig{
		Path:            filepath.Join(t.TempDir(), "absent.json"),
		TestingEmail:    "dev@example.com",
		TestingPassword: "Secret99x",
	}

	reg, err := LoadModuleRegistry(cfg)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	auth, ok := reg.Lookup("authentication")
	if !ok {
		t.Fatal("expected synthesized authentication descriptor")
	}
	if auth.TestingAccount == nil {
		t.Fatal("expected synthesized testing account")
	}
	if auth.TestingAccount.Email != "dev@example.com" || auth.TestingAccount.Password != "Secret99x" {
		t.Fatalf("unexpected testing account %#v", auth.TestingAccount)
	}
}

func TestLoadModuleRegistry_FileAccountWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modules.json")
	registry := `[{"name": "authentication", "label": "Sign-in", "testingAccount": {"email": "file@example.com", "password": "FilePass1"}}]`
	if err := os.WriteFile(path, []byte(registry), 0o600); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	reg, err := LoadModuleRegistry(ModulesConfig{
		Path:            path,
		TestingEmail:    "env@example.com",
		TestingPassword: "EnvPass99",
	})
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	auth, _ := reg.Lookup("authentication")
	if auth.TestingAccount == nil || auth.TestingAccount.Email != "file@example.com" {
		t.Fatalf("expected the file's account to win, got %#v", auth.TestingAccount)
	}
}

func TestLoadModuleRegistry_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modules.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write registry: %v", err)
	}

	if _, err := LoadModuleRegistry(ModulesConfig{Path: path}); err == nil {
		t.Fatal("expected a parse error for malformed registry")
	}
}
