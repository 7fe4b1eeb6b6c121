package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOverviewService_ValidatesTiles(t *testing.T) {
	client := newTestAPIClient(t, http.NewServeMux())

	t.Run("invalid expression", func(t *testing.T) {
		_, err := NewOverviewService(OverviewServiceOptions{
			Client: client,
			Tiles:  []OverviewTile{{Label: "Broken", Expr: "]["}},
			Logger: discardLogger(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Broken")
	})

	t.Run("empty expression", func(t *testing.T) {
		_, err := NewOverviewService(OverviewServiceOptions{
			Client: client,
			Tiles:  []OverviewTile{{Label: "Blank", Expr: "  "}},
			Logger: discardLogger(),
		})
		assert.Error(t, err)
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := NewOverviewService(OverviewServiceOptions{})
		assert.Error(t, err)
	})
}

func TestOverviewFetch_EvaluatesTiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/it/overview", func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, http.StatusOK, map[string]any{
			"devices": map[string]any{"total": 42, "inUse": 30, "inRepair": 3},
			"tickets": map[string]any{"open": 7, "urgent": 2},
		})
	})

	svc, err := NewOverviewService(OverviewServiceOptions{
		Client: newTestAPIClient(t, mux),
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	values, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, values, 5)

	assert.Equal(t, OverviewValue{Label: "Devices", Value: "42"}, values[0])
	assert.Equal(t, OverviewValue{Label: "Devices in use", Value: "30"}, values[1])
	assert.Equal(t, OverviewValue{Label: "Devices in repair", Value: "3"}, values[2])
	assert.Equal(t, OverviewValue{Label: "Open tickets", Value: "7"}, values[3])
	assert.Equal(t, OverviewValue{Label: "Urgent tickets", Value: "2"}, values[4])
}

func TestOverviewFetch_MissingFieldRendersDash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/it/overview", func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, http.StatusOK, map[string]any{
			"devices": map[string]any{"total": 5},
		})
	})

	svc, err := NewOverviewService(OverviewServiceOptions{
		Client: newTestAPIClient(t, mux),
		Tiles: []OverviewTile{
			{Label: "Devices", Expr: "devices.total"},
			{Label: "Open tickets", Expr: "tickets.open"},
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	values, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "5", values[0].Value)
	assert.Equal(t, "-", values[1].Value)
}

func TestOverviewFetch_BackendFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/it/overview", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	svc, err := NewOverviewService(OverviewServiceOptions{
		Client: newTestAPIClient(t, mux),
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background())
	assert.Error(t, err)
}

func TestRenderTileValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "-"},
		{"string", "healthy", "healthy"},
		{"bool", true, "true"},
		{"integral float", float64(42), "42"},
		{"fractional float", 3.5, "3.5"},
		{"int", 7, "7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderTileValue(tc.in))
		})
	}
}
