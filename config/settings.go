package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Settings store kinds.
const (
	SettingsStoreFile  = "file"
	SettingsStoreRedis = "redis"
)

// SettingsConfig selects and tunes the store persisting the session keys.
// The file store suits a single machine; Redis lets several dashboard
// contexts share one session.
type SettingsConfig struct {
	// Store picks the backend: "file" or "redis". Anything else falls
	// back to "file" at sanitise time.
	Store string `env:"STORE" envDefault:"file"`

	// Path locates the file store's JSON file. Empty resolves to
	// ~/.opsdesk/settings.json.
	Path string `env:"PATH"`

	// SyncInterval is how often the file store polls for writes made by
	// other dashboard contexts.
	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"2s"`

	// KeyPrefix namespaces the Redis store's keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"opsdesk:settings:"`
}

// Sanitize applies guardrails to settings store configuration.
func (c *SettingsConfig) Sanitize() {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != SettingsStoreRedis {
		c.Store = SettingsStoreFile
	}

	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" {
		c.Path = defaultSettingsPath()
	}

	if c.SyncInterval <= 0 {
		c.SyncInterval = 2 * time.Second
	}
}

func defaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".opsdesk", "settings.json")
	}
	return filepath.Join(home, ".opsdesk", "settings.json")
}

// RedisConfig contains Redis connection configuration for the shared
// settings store.
type RedisConfig struct {
	// URI is either a host:port pair or a redis:// / rediss:// URL.
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`

	// Sentinel failover.
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`

	// Cluster mode.
	ClusterNodes []string `env:"CLUSTER_NODES" envDefault:""`
	UseCluster   bool     `env:"USE_CLUSTER"   envDefault:"false"`
}
