package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeskhq/opsdesk/config"
	"github.com/opsdeskhq/opsdesk/internal/section"
	"github.com/opsdeskhq/opsdesk/internal/session"
	"github.com/opsdeskhq/opsdesk/internal/stub"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := stub.NewServer(stub.Options{
		JWTSecret: "test-secret",
		Seed:      true,
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, backendURL string) config.AppConfig {
	t.Helper()
	var cfg config.AppConfig
	cfg.Backend.URL = backendURL
	cfg.Settings.Store = config.SettingsStoreFile
	cfg.Settings.Path = filepath.Join(t.TempDir(), "settings.json")
	cfg.Settings.SyncInterval = 50 * time.Millisecond
	cfg.Modules.Path = filepath.Join(t.TempDir(), "absent-modules.json")
	cfg.Sanitize()
	return cfg
}

func TestNewApp_LoginThenLoadSection(t *testing.T) {
	backend := newStubBackend(t)
	app, err := NewApp(testConfig(t, backend.URL), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })

	ctx := context.Background()
	require.True(t, app.Session.Login(ctx, stub.SeedEmail, stub.SeedPassword))

	token, err := app.Store.Get(ctx, session.TokenKey)
	require.NoError(t, err)
	assert.NotEmpty(t, token, "login must persist the token for the client's token source")

	<-app.Sections.Employees.Mount(ctx)
	snap := app.Sections.Employees.Snapshot()
	assert.Equal(t, section.StatusReady, snap.Status)
	assert.NotEmpty(t, snap.Rows)
}

func TestNewApp_AnonymousSectionLoadFails(t *testing.T) {
	backend := newStubBackend(t)
	app, err := NewApp(testConfig(t, backend.URL), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })

	ctx := context.Background()
	<-app.Sections.Tickets.Mount(ctx)
	snap := app.Sections.Tickets.Snapshot()
	assert.Equal(t, section.StatusFailed, snap.Status)
	assert.NotEmpty(t, snap.Message)
}

func TestNewApp_RejectsBadBackendURL(t *testing.T) {
	cfg := testConfig(t, "ftp://backend.example.com")
	_, err := NewApp(cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api client")
}

func TestTokenSource_AbsentKeyReadsEmpty(t *testing.T) {
	cfg := testConfig(t, "http://localhost:0")
	app, err := NewApp(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.Close()) })

	src := tokenSource(app.Store)
	assert.Empty(t, src(context.Background()))
}
