package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/opsdeskhq/opsdesk/internal/mocks"
	authmocks "github.com/opsdeskhq/opsdesk/internal/mocks/auth"
	"github.com/opsdeskhq/opsdesk/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.Store == nil {
		opts.Store = authmocks.NewMemorySettingsStore()
	}
	if opts.Auth == nil {
		opts.Auth = &authmocks.StubAuthClient{}
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	m, err := NewManager(opts)
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresDependencies(t *testing.T) {
	_, err := NewManager(Options{Auth: &authmocks.StubAuthClient{}})
	require.Error(t, err)

	_, err = NewManager(Options{Store: authmocks.NewMemorySettingsStore()})
	require.Error(t, err)
}

func TestManager_EmptyStoreIsAnonymous(t *testing.T) {
	m := newTestManager(t, Options{})

	state := m.Refresh(context.Background())
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.User)
	assert.Equal(t, "", state.Email())
}

func TestManager_Login_EmptyCredentialsRejectedWithoutSideEffects(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	auth := &authmocks.StubAuthClient{}
	m := newTestManager(t, Options{Store: store, Auth: auth})

	assert.False(t, m.Login(context.Background(), "a@b.com", ""))
	assert.False(t, m.Login(context.Background(), "", "Secret99"))

	assert.Zero(t, auth.Requests())
	assert.Zero(t, store.Len())
	assert.False(t, m.State().Authenticated)
}

func TestManager_Login_MalformedEmailNeverReachesBackend(t *testing.T) {
	auth := &authmocks.StubAuthClient{}
	m := newTestManager(t, Options{Auth: auth})

	for _, email := range []string{"not-an-email", "user@host", "two@@b.com", "a b@c.dk", "@b.com", "a@.com", "a@b."} {
		assert.Falsef(t, m.Login(context.Background(), email, "Secret99"), "email %q must be rejected", email)
	}

	assert.Zero(t, auth.Requests())
}

func TestManager_Login_Success(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	auth := &authmocks.StubAuthClient{LoginFunc: authmocks.GrantFor("a@b.com", "Secret99", "t1")}
	m := newTestManager(t, Options{Store: store, Auth: auth})

	require.True(t, m.Login(context.Background(), "a@b.com", "Secret99"))

	token, ok := store.Value(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "t1", token)

	user, ok := store.Value(UserKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"email":"a@b.com"}`, user)

	state := m.State()
	assert.True(t, state.Authenticated)
	assert.Equal(t, "a@b.com", state.Email())
}

func TestManager_Login_BackendRejectionLeavesStateUntouched(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	auth := &authmocks.StubAuthClient{LoginFunc: authmocks.GrantFor("a@b.com", "Secret99", "t1")}
	m := newTestManager(t, Options{Store: store, Auth: auth})

	assert.False(t, m.Login(context.Background(), "a@b.com", "wrong"))
	assert.Equal(t, 1, auth.LoginCalls)
	assert.Zero(t, store.Len())
	assert.False(t, m.State().Authenticated)
}

func TestManager_Signup_WeakPasswordNeverReachesBackend(t *testing.T) {
	auth := &authmocks.StubAuthClient{}
	m := newTestManager(t, Options{Auth: auth})

	for _, password := range []string{"abcdefgh", "ABCDEFGH", "12345678", "Ab1", "abcdefg1", "ABCDEFG1"} {
		assert.Falsef(t, m.Signup(context.Background(), "a@b.com", password), "password %q must be rejected", password)
	}

	assert.Zero(t, auth.Requests())
}

func TestManager_Signup_Success(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	auth := &authmocks.StubAuthClient{
		RegisterFunc: func(context.Context, string, string) error { return nil },
		LoginFunc:    authmocks.GrantFor("new@b.com", "Secret99", "t2"),
	}
	m := newTestManager(t, Options{Store: store, Auth: auth})

	require.True(t, m.Signup(context.Background(), "new@b.com", "Secret99"))
	assert.Equal(t, 1, auth.RegisterCalls)
	assert.Equal(t, 1, auth.LoginCalls)
	assert.True(t, m.State().Authenticated)
}

func TestManager_Signup_SecondaryLoginFailureReportsFalse(t *testing.T) {
	// The account is created server-side, yet signup reports failure when
	// the follow-up token login does not succeed.
	store := authmocks.NewMemorySettingsStore()
	auth := &authmocks.StubAuthClient{
		RegisterFunc: func(context.Context, string, string) error { return nil },
		LoginFunc: func(context.Context, string, string) (ports.Grant, error) {
			return ports.Grant{}, errors.New("login temporarily unavailable")
		},
	}
	m := newTestManager(t, Options{Store: store, Auth: auth})

	assert.False(t, m.Signup(context.Background(), "new@b.com", "Secret99"))
	assert.Equal(t, 1, auth.RegisterCalls)
	assert.Equal(t, 1, auth.LoginCalls)
	assert.Zero(t, store.Len())
	assert.False(t, m.State().Authenticated)
}

func TestManager_Logout_ClearsKeysWithoutNetwork(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	store.Seed(TokenKey, "t1")
	store.Seed(UserKey, `{"email":"a@b.com"}`)
	auth := &authmocks.StubAuthClient{}
	m := newTestManager(t, Options{Store: store, Auth: auth})

	require.True(t, m.Refresh(context.Background()).Authenticated)

	m.Logout(context.Background())

	assert.Zero(t, store.Len())
	assert.Zero(t, auth.Requests())
	assert.False(t, m.State().Authenticated)
}

func TestManager_MalformedUserSnapshotFallsBackToNilUser(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	store.Seed(TokenKey, "t1")
	store.Seed(UserKey, "{not json")
	m := newTestManager(t, Options{Store: store})

	state := m.Refresh(context.Background())
	assert.True(t, state.Authenticated)
	assert.Nil(t, state.User)
	assert.Equal(t, "", state.Email())
}

func TestManager_Bootstrap_TestingAccountAutoLoginRunsOnce(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	auth := &authmocks.StubAuthClient{LoginFunc: authmocks.GrantFor("qa@b.com", "Secret99", "t-qa")}
	registry := authmocks.StaticModuleRegistry{
		"authentication": {
			Name:           "authentication",
			Label:          "Authentication",
			TestingAccount: &ports.TestingAccount{Email: "qa@b.com", Password: "Secret99"},
		},
	}
	m := newTestManager(t, Options{Store: store, Auth: auth, Modules: registry})

	state := m.Bootstrap(context.Background())
	assert.True(t, state.Authenticated)
	assert.Equal(t, 1, auth.LoginCalls)

	// A second bootstrap must not attempt another login.
	state = m.Bootstrap(context.Background())
	assert.True(t, state.Authenticated)
	assert.Equal(t, 1, auth.LoginCalls)
}

func TestManager_Bootstrap_SkipsAutoLoginWithPersistedSession(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	store.Seed(TokenKey, "t1")
	store.Seed(UserKey, `{"email":"a@b.com"}`)
	auth := &authmocks.StubAuthClient{}
	registry := authmocks.StaticModuleRegistry{
		"authentication": {
			Name:           "authentication",
			TestingAccount: &ports.TestingAccount{Email: "qa@b.com", Password: "Secret99"},
		},
	}
	m := newTestManager(t, Options{Store: store, Auth: auth, Modules: registry})

	state := m.Bootstrap(context.Background())
	assert.True(t, state.Authenticated)
	assert.Zero(t, auth.Requests())
}

func TestManager_Bootstrap_SilentWithoutTestingAccount(t *testing.T) {
	auth := &authmocks.StubAuthClient{}
	registry := authmocks.StaticModuleRegistry{
		"authentication": {Name: "authentication", Label: "Authentication"},
	}
	m := newTestManager(t, Options{Auth: auth, Modules: registry})

	state := m.Bootstrap(context.Background())
	assert.False(t, state.Authenticated)
	assert.Zero(t, auth.Requests())
}

func TestManager_Run_ReDerivesStateFromExternalChanges(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	watcher := authmocks.NewChannelWatcher()
	m := newTestManager(t, Options{Store: store, Watcher: watcher})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// Another context signs in: the keys appear in the shared store and a
	// change notification arrives.
	store.Seed(TokenKey, "t9")
	store.Seed(UserKey, `{"email":"other@b.com"}`)
	watcher.Ch <- ports.SettingChange{Key: TokenKey, Value: "t9"}

	require.Eventually(t, func() bool {
		return m.State().Authenticated
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "other@b.com", m.State().Email())

	// And signs out again.
	require.NoError(t, store.Delete(ctx, TokenKey))
	require.NoError(t, store.Delete(ctx, UserKey))
	watcher.Ch <- ports.SettingChange{Key: TokenKey, Removed: true}

	require.Eventually(t, func() bool {
		return !m.State().Authenticated
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestManager_Run_IgnoresUnrelatedKeys(t *testing.T) {
	store := authmocks.NewMemorySettingsStore()
	watcher := authmocks.NewChannelWatcher()
	m := newTestManager(t, Options{Store: store, Watcher: watcher})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	store.Seed(TokenKey, "t1")
	store.Seed(UserKey, `{"email":"a@b.com"}`)
	watcher.Ch <- ports.SettingChange{Key: "theme", Value: "dark"}

	// The unrelated key must not trigger a re-derive.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, m.State().Authenticated)

	cancel()
	<-done
}

func TestManager_Refresh_StoreFailureReadsAsAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSettingsStore(ctrl)
	store.EXPECT().Get(gomock.Any(), TokenKey).Return("", errors.New("redis down"))

	m := newTestManager(t, Options{Store: store})

	state := m.Refresh(context.Background())
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.User)
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@sub.domain.io", "x@y.z"}
	for _, email := range valid {
		assert.Truef(t, ValidEmail(email), "email %q must be accepted", email)
	}

	invalid := []string{"", "plain", "user@host", "@b.com", "a@b.", "a@.b", "a a@b.com", "a@b@c.d"}
	for _, email := range invalid {
		assert.Falsef(t, ValidEmail(email), "email %q must be rejected", email)
	}
}

func TestValidPassword(t *testing.T) {
	valid := []string{"Secret99", "Aa345678", "xYz12345"}
	for _, password := range valid {
		assert.Truef(t, ValidPassword(password), "password %q must be accepted", password)
	}

	invalid := []string{"", "Ab1", "abcdefgh", "ABCDEFGH", "12345678", "Abcdefgh", "abcdefg1"}
	for _, password := range invalid {
		assert.Falsef(t, ValidPassword(password), "password %q must be rejected", password)
	}
}
