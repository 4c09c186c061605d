package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/handlers/userctx"
	"github.com/vietcharge/vietcharge/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, accessToken string) (models.User, error)

func (f authFunc) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	return f(ctx, accessToken)
}

func TestAuthMiddleware(t *testing.T) {
	// Simple handler that writes the authenticated user's email
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user or reject the request
		user, ok := userctx.User(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Email))
		require.NoError(t, err, "should write email to response")
	})

	get := func(t *testing.T, url string, token string) (*http.Response, string) {
		t.Helper()

		req, err := http.NewRequest(http.MethodGet, url+"/test", nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return resp, string(body)
	}

	t.Run("auth ok", func(t *testing.T) {
		middleware := Auth(authFunc(func(ctx context.Context, accessToken string) (models.User, error) {
			require.Equal(t, "valid-token", accessToken)
			return models.User{Email: "driver@example.com"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "valid-token")

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", body)
		require.Equal(t, "driver@example.com", body)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		middleware := Auth(authFunc(func(ctx context.Context, accessToken string) (models.User, error) {
			t.Fatal("service must not be called without a token")
			return models.User{}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "")

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "Resp: %s", body)
		require.Contains(t, body, "AUTH_ERROR")
	})

	t.Run("bad token rejected", func(t *testing.T) {
		middleware := Auth(authFunc(func(ctx context.Context, accessToken string) (models.User, error) {
			return models.User{}, apperrors.ErrInvalidAccessToken
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "bad-token")

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "Resp: %s", body)
		require.Contains(t, body, "AUTH_ERROR")
	})
}

func TestRequireRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serveAs := func(t *testing.T, role string, required ...string) *http.Response {
		t.Helper()

		wrapped := RequireRole(required...)(handler)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if role != "" {
			req = req.WithContext(userctx.WithUser(req.Context(), models.User{Role: role}))
		}

		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		return rec.Result()
	}

	t.Run("allowed role passes", func(t *testing.T) {
		resp := serveAs(t, models.RoleEditor, models.RoleAdmin, models.RoleEditor)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong role forbidden", func(t *testing.T) {
		resp := serveAs(t, models.RoleUser, models.RoleAdmin)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("no user unauthorized", func(t *testing.T) {
		resp := serveAs(t, "", models.RoleAdmin)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
