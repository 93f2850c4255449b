package authclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vypar/internal/authclient"
	"github.com/shashiranjanraj/vypar/pkg/apperr"
)

func fakeAuthService(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyRemoteSuccess(t *testing.T) {
	srv := fakeAuthService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(authclient.Identity{
			ID: 7, Email: "u@example.com", IsActive: true, IsSuperuser: true,
		})
	})

	client := authclient.New(
		authclient.WithMode("remote"),
		authclient.WithBaseURL(srv.URL),
	)

	id, err := client.Verify(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id.ID)
	assert.Equal(t, "u@example.com", id.Email)
	assert.True(t, id.IsSuperuser)
}

func TestVerifyRemoteRejected(t *testing.T) {
	srv := fakeAuthService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := authclient.New(
		authclient.WithMode("remote"),
		authclient.WithBaseURL(srv.URL),
	)

	_, err := client.Verify(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestVerifyRemoteServerError(t *testing.T) {
	srv := fakeAuthService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := authclient.New(
		authclient.WithMode("remote"),
		authclient.WithBaseURL(srv.URL),
	)

	// Anything the auth service refuses maps to a credential failure,
	// not a leaked upstream status.
	_, err := client.Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestVerifyRemoteDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	client := authclient.New(
		authclient.WithMode("remote"),
		authclient.WithBaseURL(url),
	)

	_, err := client.Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unavailable))
}

func TestVerifyEmptyToken(t *testing.T) {
	client := authclient.New(authclient.WithMode("remote"))

	_, err := client.Verify(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestVerifyLocalRoundTrip(t *testing.T) {
	client := authclient.New(
		authclient.WithMode("local"),
		authclient.WithSecret("test-secret"),
	)

	token, err := client.SignLocal(authclient.Identity{
		ID: 3, Email: "dev@example.com", IsSuperuser: true,
	}, time.Hour)
	require.NoError(t, err)

	id, err := client.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id.ID)
	assert.Equal(t, "dev@example.com", id.Email)
	assert.True(t, id.IsActive)
	assert.True(t, id.IsSuperuser)
}

func TestVerifyLocalExpired(t *testing.T) {
	client := authclient.New(
		authclient.WithMode("local"),
		authclient.WithSecret("test-secret"),
	)

	token, err := client.SignLocal(authclient.Identity{ID: 3}, -time.Minute)
	require.NoError(t, err)

	_, err = client.Verify(context.Background(), token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestVerifyLocalWrongSecret(t *testing.T) {
	signer := authclient.New(
		authclient.WithMode("local"),
		authclient.WithSecret("secret-a"),
	)
	verifier := authclient.New(
		authclient.WithMode("local"),
		authclient.WithSecret("secret-b"),
	)

	token, err := signer.SignLocal(authclient.Identity{ID: 1}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := authclient.Identity{ID: 5, Email: "x@example.com"}
	ctx := authclient.WithIdentity(context.Background(), id)

	got, ok := authclient.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = authclient.FromContext(context.Background())
	assert.False(t, ok)
}
