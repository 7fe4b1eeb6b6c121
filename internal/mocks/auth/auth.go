// Package auth contains simple hand-written test doubles for the session
// manager's ports. These are lightweight and suitable for unit tests
// without codegen; they also count calls so tests can assert that invalid
// input never reaches the network.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/opsdeskhq/opsdesk/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SettingsStore   = (*MemorySettingsStore)(nil)
	_ ports.SettingsWatcher = (*ChannelWatcher)(nil)
	_ ports.AuthClient      = (*StubAuthClient)(nil)
	_ ports.ModuleRegistry  = (StaticModuleRegistry)(nil)
)

// MemorySettingsStore is an in-memory settings store for unit tests.
type MemorySettingsStore struct {
	mu       sync.Mutex
	values   map[string]string
	SetErr   error
	GetErr   error
	SetCalls int
}

// NewMemorySettingsStore creates an empty in-memory settings store.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{values: map[string]string{}}
}

// Seed installs a value without counting as a test-observed write.
func (m *MemorySettingsStore) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemorySettingsStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	value, ok := m.values[key]
	if !ok {
		return "", ports.ErrSettingNotFound
	}
	return value, nil
}

func (m *MemorySettingsStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MemorySettingsStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len reports how many settings are stored.
func (m *MemorySettingsStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// Value returns the stored value and whether the key exists.
func (m *MemorySettingsStore) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}

// StubAuthClient simulates the backend auth endpoints with function fields
// and per-method call counters.
type StubAuthClient struct {
	LoginFunc    func(ctx context.Context, email, password string) (ports.Grant, error)
	RegisterFunc func(ctx context.Context, email, password string) error

	mu            sync.Mutex
	LoginCalls    int
	RegisterCalls int
}

func (s *StubAuthClient) Login(ctx context.Context, email, password string) (ports.Grant, error) {
	s.mu.Lock()
	s.LoginCalls++
	s.mu.Unlock()
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, email, password)
	}
	return ports.Grant{}, errors.New("no login stub configured")
}

func (s *StubAuthClient) Register(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.RegisterCalls++
	s.mu.Unlock()
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, email, password)
	}
	return errors.New("no register stub configured")
}

// Requests reports the total number of backend calls the stub served.
func (s *StubAuthClient) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LoginCalls + s.RegisterCalls
}

// GrantFor builds a login stub returning a fixed token for the given
// credentials and rejecting everything else.
func GrantFor(email, password, token string) func(context.Context, string, string) (ports.Grant, error) {
	return func(_ context.Context, gotEmail, gotPassword string) (ports.Grant, error) {
		if gotEmail != email || gotPassword != password {
			return ports.Grant{}, errors.New("invalid credentials")
		}
		grant := ports.Grant{Token: token}
		grant.User.Email = email
		return grant, nil
	}
}

// StaticModuleRegistry is a fixed name-to-descriptor map.
type StaticModuleRegistry map[string]ports.ModuleDescriptor

func (r StaticModuleRegistry) Lookup(name string) (ports.ModuleDescriptor, bool) {
	descriptor, ok := r[name]
	return descriptor, ok
}

// ChannelWatcher feeds settings changes from a test-controlled channel.
type ChannelWatcher struct {
	Ch chan ports.SettingChange
}

// NewChannelWatcher creates a watcher with a buffered change channel.
func NewChannelWatcher() *ChannelWatcher {
	return &ChannelWatcher{Ch: make(chan ports.SettingChange, 16)}
}

func (w *ChannelWatcher) Watch(context.Context) (<-chan ports.SettingChange, error) {
	return w.Ch, nil
}
