// Package ports defines interfaces (hexagonal ports) for the dashboard's
// storage and auth collaborators. Implementations live in internal/adapters
// and internal/api; orchestration in internal/session and internal/service.
package ports

import (
	"context"
	"errors"
)

// ErrSettingNotFound is returned by SettingsStore.Get for absent keys.
var ErrSettingNotFound = errors.New("setting not found")

// SettingsStore persists small string settings, the dashboard's stand-in
// for browser local storage. Implementations must be safe for concurrent
// use from multiple goroutines.
type SettingsStore interface {
	// Get returns the value for key, or ErrSettingNotFound.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// SettingChange describes a mutation of the settings store observed from
// another dashboard context (another terminal, another host sharing the
// store). Changes made through the local store handle are not echoed.
type SettingChange struct {
	Key     string
	Value   string
	Removed bool
}

// SettingsWatcher streams changes made by other dashboard contexts. The
// channel closes when ctx is done or the underlying source goes away.
type SettingsWatcher interface {
	Watch(ctx context.Context) (<-chan SettingChange, error)
}
