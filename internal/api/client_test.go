package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opsdeskhq/opsdesk/internal/errors"
)

type row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		Token:   func(context.Context) string { return token },
	})
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_ValidatesBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "not a url at all\x7f"})
	require.Error(t, err)

	// Empty base URL is the same-origin mode and is allowed.
	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, "/api/it/devices", c.endpoint("/api/it/devices"))
}

func TestList_DecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`))
	}), "")

	rows, err := List[row](context.Background(), client, "/api/hr/employees")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].Name)
}

func TestList_MissingEnvelopeIsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}), "")

	_, err := List[row](context.Background(), client, "/api/hr/employees")
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
}

func TestList_MalformedBodyIsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}), "")

	_, err := List[row](context.Background(), client, "/api/hr/employees")
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
}

func TestDo_BearerHeaderOnlyWithToken(t *testing.T) {
	var got atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	client, _ := newTestClient(t, handler, "t1")
	_, err := List[row](context.Background(), client, "/api/it/tickets")
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", got.Load())

	bare, _ := newTestClient(t, handler, "")
	_, err = List[row](context.Background(), bare, "/api/it/tickets")
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())
}

func TestDo_NonSuccessCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}), "")

	_, err := List[row](context.Background(), client, "/api/hr/benefits")
	require.Error(t, err)
	assert.True(t, apperrors.IsHTTPStatus(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.GetStatus(err))
}

func TestDo_UnauthorizedIsTyped(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "stale")

	_, err := List[row](context.Background(), client, "/api/hr/benefits")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestDo_CanceledContextIsCanceled(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := List[row](ctx, client, "/api/hr/employees")
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
}

func TestCreate_PostsPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in row
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 42
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Envelope[row]{Data: in})
	}), "")

	created, err := Create[row](context.Background(), client, "/api/it/tickets", row{Name: "printer"})
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.Equal(t, "printer", created.Name)
}
