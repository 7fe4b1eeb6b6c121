// Package mocks provides mock implementations for testing the opsdesk client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and are checked in so tests build without a codegen step.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockSettingsStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "auth_token").Return("t1", nil)
package mocks

// Generate mock for SettingsStore interface from internal/ports.
// This creates MockSettingsStore with methods: Get, Set, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=settings_store_mock.go github.com/opsdeskhq/opsdesk/internal/ports SettingsStore

// Generate mock for SettingsWatcher interface from internal/ports.
// This creates MockSettingsWatcher with methods: Watch.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=settings_watcher_mock.go github.com/opsdeskhq/opsdesk/internal/ports SettingsWatcher
