package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opsdeskhq/opsdesk/internal/errors"
)

func TestClient_Login(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var creds credentialsPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "Secret99" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"token":"t1","user":{"email":"a@b.com"}}}`))
	}), "")

	grant, err := client.Login(context.Background(), "a@b.com", "Secret99")
	require.NoError(t, err)
	assert.Equal(t, "t1", grant.Token)
	assert.Equal(t, "a@b.com", grant.User.Email)

	_, err = client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestClient_Login_MissingTokenIsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user":{"email":"a@b.com"}}}`))
	}), "")

	_, err := client.Login(context.Background(), "a@b.com", "Secret99")
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
}

func TestClient_Login_FallsBackToRequestEmail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"token":"t1"}}`))
	}), "")

	grant, err := client.Login(context.Background(), "a@b.com", "Secret99")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", grant.User.Email)
}

func TestClient_Register(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":7,"email":"new@b.com"}}`))
	}), "")

	require.NoError(t, client.Register(context.Background(), "new@b.com", "Secret99"))
}

func TestClient_Register_Conflict(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"email taken"}`, http.StatusConflict)
	}), "")

	err := client.Register(context.Background(), "dup@b.com", "Secret99")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.GetStatus(err))
}
