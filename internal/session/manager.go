package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	domain "github.com/opsdeskhq/opsdesk/internal/domain/session"
	"github.com/opsdeskhq/opsdesk/internal/ports"
)

// Storage keys shared with every other dashboard context. The token is an
// opaque backend credential; the user key holds a JSON identity snapshot.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// authModuleName is the registry descriptor consulted for the one-time
// auto-login testing account.
const authModuleName = "authentication"

// minPasswordLength is the signup password policy floor.
const minPasswordLength = 8

// Options groups dependencies for Manager.
type Options struct {
	Store   ports.SettingsStore
	Auth    ports.AuthClient
	Modules ports.ModuleRegistry  // optional; enables testing-account auto-login
	Watcher ports.SettingsWatcher // optional; enables cross-context sync via Run
	Logger  *slog.Logger
}

// Manager owns the dashboard's authentication state: login, signup and
// logout flows, persistence of the two session keys, one-time auto-login,
// and re-derivation of state when another context mutates the store.
//
// None of the flow methods return errors. Invalid input and backend
// failures read as false with a logged diagnostic; the caller's only
// branch is signed-in or not.
type Manager struct {
	store   ports.SettingsStore
	auth    ports.AuthClient
	modules ports.ModuleRegistry
	watcher ports.SettingsWatcher
	logger  *slog.Logger

	bootstrapOnce sync.Once

	mu    sync.RWMutex
	state domain.State
}

// NewManager constructs a session manager. The store and auth client are
// required; the module registry and watcher are optional capabilities.
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, errors.New("settings store is required")
	}
	if opts.Auth == nil {
		return nil, errors.New("auth client is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		store:   opts.Store,
		auth:    opts.Auth,
		modules: opts.Modules,
		watcher: opts.Watcher,
		logger:  logger,
		state:   domain.Anonymous(),
	}, nil
}

// State returns the last derived authentication state.
func (m *Manager) State() domain.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Refresh re-derives the state from the settings store and caches it.
func (m *Manager) Refresh(ctx context.Context) domain.State {
	state := m.derive(ctx)
	m.setState(state)
	return state
}

// derive computes the state from the two persisted keys: authenticated iff
// both are present and non-empty. A user snapshot that fails to parse
// degrades to a nil user, never to an error or a sign-out.
func (m *Manager) derive(ctx context.Context) domain.State {
	token := m.getSetting(ctx, TokenKey)
	if token == "" {
		return domain.Anonymous()
	}
	raw := m.getSetting(ctx, UserKey)
	if raw == "" {
		return domain.Anonymous()
	}

	state := domain.State{Authenticated: true}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.DebugContext(ctx, "[session][state] user snapshot unreadable, using nil user", "error", err)
		return state
	}
	state.User = &user
	return state
}

// getSetting reads one key, treating lookup failures as absence.
func (m *Manager) getSetting(ctx context.Context, key string) string {
	value, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrSettingNotFound) {
			m.logger.WarnContext(ctx, "[session][state] settings read failed", "key", key, "error", err)
		}
		return ""
	}
	return value
}

// Login signs the session in. It reports false, with no stored or network
// side effect, when either credential is empty or the email is not of the
// local@domain.tld shape; otherwise false means the backend rejected the
// attempt or persisting the grant failed.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		m.logger.WarnContext(ctx, "[session][login] rejected: missing credentials")
		return false
	}
	if !ValidEmail(email) {
		m.logger.WarnContext(ctx, "[session][login] rejected: malformed email")
		return false
	}

	grant, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.WarnContext(ctx, "[session][login] login failed", "error", err)
		return false
	}

	if err := m.persistGrant(ctx, grant); err != nil {
		m.logger.ErrorContext(ctx, "[session][login] persist grant failed", "error", err)
		return false
	}

	user := grant.User
	m.setState(domain.State{Authenticated: true, User: &user})
	m.logger.InfoContext(ctx, "[session][login] signed in", "email", user.Email)
	return true
}

// Signup registers an account and then logs it in for a token. When the
// follow-up login fails the method reports false even though the account
// now exists server-side; the caller retries via Login.
func (m *Manager) Signup(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		m.logger.WarnContext(ctx, "[session][signup] rejected: missing credentials")
		return false
	}
	if !ValidEmail(email) {
		m.logger.WarnContext(ctx, "[session][signup] rejected: malformed email")
		return false
	}
	if !ValidPassword(password) {
		m.logger.WarnContext(ctx, "[session][signup] rejected: password policy not met")
		return false
	}

	if err := m.auth.Register(ctx, email, password); err != nil {
		m.logger.WarnContext(ctx, "[session][signup] registration failed", "error", err)
		return false
	}

	grant, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.WarnContext(ctx, "[session][signup] post-registration login failed", "error", err)
		return false
	}

	if err := m.persistGrant(ctx, grant); err != nil {
		m.logger.ErrorContext(ctx, "[session][signup] persist grant failed", "error", err)
		return false
	}

	user := grant.User
	m.setState(domain.State{Authenticated: true, User: &user})
	m.logger.InfoContext(ctx, "[session][signup] account created and signed in", "email", user.Email)
	return true
}

// Logout clears both session keys and resets the state. It never talks to
// the backend; the token simply stops being presented.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Delete(ctx, TokenKey); err != nil {
		m.logger.WarnContext(ctx, "[session][logout] clear token failed", "error", err)
	}
	if err := m.store.Delete(ctx, UserKey); err != nil {
		m.logger.WarnContext(ctx, "[session][logout] clear user failed", "error", err)
	}
	m.setState(domain.Anonymous())
	m.logger.InfoContext(ctx, "[session][logout] signed out")
}

// Bootstrap derives the initial state and, exactly once per manager, tries
// the module registry's testing account when no valid session is persisted.
// An auto-login failure is logged and otherwise silent.
func (m *Manager) Bootstrap(ctx context.Context) domain.State {
	m.bootstrapOnce.Do(func() {
		state := m.Refresh(ctx)
		if state.Authenticated {
			m.logger.DebugContext(ctx, "[session][bootstrap] existing session found", "email", state.Email())
			return
		}
		if m.modules == nil {
			return
		}
		descriptor, ok := m.modules.Lookup(authModuleName)
		if !ok || descriptor.TestingAccount == nil {
			m.logger.DebugContext(ctx, "[session][bootstrap] no testing account configured")
			return
		}
		if !m.Login(ctx, descriptor.TestingAccount.Email, descriptor.TestingAccount.Password) {
			m.logger.WarnContext(ctx, "[session][bootstrap] testing account auto-login failed")
		}
	})
	return m.State()
}

// Run consumes the settings watcher and re-derives the state whenever
// another context touches a session key. It blocks until ctx is done or
// the watcher closes.
func (m *Manager) Run(ctx context.Context) error {
	if m.watcher == nil {
		return errors.New("no settings watcher configured")
	}

	changes, err := m.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if change.Key != TokenKey && change.Key != UserKey {
				continue
			}
			state := m.Refresh(ctx)
			m.logger.InfoContext(ctx, "[session][sync] state re-derived from external change",
				"key", change.Key, "authenticated", state.Authenticated)
		}
	}
}

func (m *Manager) persistGrant(ctx context.Context, grant ports.Grant) error {
	snapshot, err := json.Marshal(domain.User{Email: grant.User.Email})
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	if err := m.store.Set(ctx, TokenKey, grant.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := m.store.Set(ctx, UserKey, string(snapshot)); err != nil {
		return fmt.Errorf("persist user snapshot: %w", err)
	}
	return nil
}

func (m *Manager) setState(state domain.State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// ValidEmail applies the dashboard's lenient local@domain.tld shape check:
// no whitespace, exactly one @, and a dot inside the domain part.
func ValidEmail(email string) bool {
	if strings.ContainsFunc(email, unicode.IsSpace) {
		return false
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	domainPart := email[at+1:]
	if !strings.Contains(domainPart, ".") {
		return false
	}
	return !strings.HasPrefix(domainPart, ".") && !strings.HasSuffix(domainPart, ".")
}

// ValidPassword applies the signup policy: at least eight characters with
// an upper-case letter, a lower-case letter and a digit.
func ValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
