// Package filestore persists dashboard settings in a small JSON file, the
// single-workstation counterpart of the Redis store. A polling watcher
// surfaces changes written by other processes sharing the file; writes
// made through the local handle are absorbed into its snapshot first and
// never echo back.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/opsdeskhq/opsdesk/internal/ports"
)

const defaultPollInterval = 500 * time.Millisecond

// Store is a JSON-file settings store. It is safe for concurrent use
// within one process; cross-process coordination relies on atomic renames.
type Store struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	snapshot map[string]string
}

var (
	_ ports.SettingsStore   = (*Store)(nil)
	_ ports.SettingsWatcher = (*Store)(nil)
)

// NewStore creates a file-backed settings store. The file does not need
// to exist yet.
func NewStore(path string) *Store {
	return NewStoreWithInterval(path, defaultPollInterval)
}

// NewStoreWithInterval creates a store with a custom watch poll interval.
func NewStoreWithInterval(path string, interval time.Duration) *Store {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Store{
		path:     path,
		interval: interval,
		snapshot: map[string]string{},
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrSettingNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := settings[key]
	if !ok {
		return "", ports.ErrSettingNotFound
	}
	return value, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return errors.New("setting key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}
	settings[key] = value
	return s.save(settings)
}

func (s *Store) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := settings[key]; !ok {
		return nil
	}
	delete(settings, key)
	return s.save(settings)
}

// Watch polls the backing file and forwards changes made outside this
// handle. The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan ports.SettingChange, error) {
	s.mu.Lock()
	if current, err := s.load(); err == nil {
		s.snapshot = current
	}
	s.mu.Unlock()

	out := make(chan ports.SettingChange)
	go func() {
		defer close(out)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			for _, change := range s.poll() {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// poll diffs the file against the snapshot and advances the snapshot.
func (s *Store) poll() []ports.SettingChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		// A half-written or corrupt file; try again next tick.
		return nil
	}

	var changes []ports.SettingChange
	for key, value := range current {
		if previous, ok := s.snapshot[key]; !ok || previous != value {
			changes = append(changes, ports.SettingChange{Key: key, Value: value})
		}
	}
	for key := range s.snapshot {
		if _, ok := current[key]; !ok {
			changes = append(changes, ports.SettingChange{Key: key, Removed: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })

	s.snapshot = current
	return changes
}

// load reads the settings map; callers hold s.mu.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	settings := map[string]string{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	return settings, nil
}

// save writes the settings map atomically and folds it into the snapshot
// so the watcher does not echo local writes; callers hold s.mu.
func (s *Store) save(settings map[string]string) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp settings file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}

	s.snapshot = cloneSettings(settings)
	return nil
}

func cloneSettings(settings map[string]string) map[string]string {
	cp := make(map[string]string, len(settings))
	for k, v := range settings {
		cp[k] = v
	}
	return cp
}
