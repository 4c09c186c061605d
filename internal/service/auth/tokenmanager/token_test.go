package tokenmanager

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vietcharge/vietcharge/internal/models"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	user := models.User{
		ID:    uuid.New(),
		Email: "driver@example.com",
		Role:  models.RoleUser,
	}

	mustManager := func(t *testing.T, cfg Config) *TokenManager {
		if cfg.SecretKey == "" {
			cfg.SecretKey = "test-secret-key"
		}
		m, err := New(cfg)
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	t.Run("fail without secret key", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		m := mustManager(t, Config{})

		require.Equal(t, 15*time.Minute, m.AccessTTL())
		require.Equal(t, 7*24*time.Hour, m.RefreshTTL())
		require.Equal(t, "HS256", m.alg.Alg())
	})

	t.Run("access token round trip", func(t *testing.T) {
		m := mustManager(t, Config{})

		token, err := m.SignAccess(user)
		require.NoError(t, err)
		require.NotEmpty(t, token.Value)

		claims, err := m.Parse(token.Value)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Equal(t, user.Email, claims.Email)
		require.Equal(t, user.Role, claims.Role)
		require.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt.Time, time.Second)
	})

	t.Run("refresh token carries id only", func(t *testing.T) {
		m := mustManager(t, Config{})

		token, err := m.SignRefresh(user)
		require.NoError(t, err)

		claims, err := m.Parse(token.Value)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Empty(t, claims.Email, "refresh token must not leak email")
		require.Empty(t, claims.Role, "refresh token must not leak role")
	})

	t.Run("valid through its exp second, rejected after", func(t *testing.T) {
		m := mustManager(t, Config{})

		signWithExpiry := func(exp time.Time) string {
			claims := Claims{
				UserID: user.ID,
				RegisteredClaims: jwt.RegisteredClaims{
					IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Minute)),
					ExpiresAt: jwt.NewNumericDate(exp),
				},
			}
			value, err := jwt.NewWithClaims(m.alg, claims).SignedString([]byte(m.key))
			require.NoError(t, err)
			return value
		}

		thisSecond := time.Now().Truncate(time.Second)

		_, err := m.Parse(signWithExpiry(thisSecond))
		require.NoError(t, err, "token should still be accepted while now equals exp")

		_, err = m.Parse(signWithExpiry(thisSecond.Add(-time.Second)))
		require.Error(t, err, "token should be rejected one second past exp")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		m := mustManager(t, Config{AccessTTL: -time.Minute})

		token, err := m.SignAccess(user)
		require.NoError(t, err)

		_, err = m.Parse(token.Value)
		require.Error(t, err, "expired token should not parse")
	})

	t.Run("token signed with other key rejected", func(t *testing.T) {
		m := mustManager(t, Config{})
		other := mustManager(t, Config{SecretKey: "other-secret-key"})

		token, err := other.SignAccess(user)
		require.NoError(t, err)

		_, err = m.Parse(token.Value)
		require.Error(t, err)
	})

	t.Run("tampered token rejected", func(t *testing.T) {
		m := mustManager(t, Config{})

		token, err := m.SignAccess(user)
		require.NoError(t, err)

		parts := strings.Split(token.Value, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + ".eyJ1c2VySWQiOiJ4In0." + parts[2]

		_, err = m.Parse(tampered)
		require.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		m := mustManager(t, Config{})

		_, err := m.Parse("not-a-token")
		require.Error(t, err)
	})
}

func Test_Hash(t *testing.T) {
	t.Parallel()

	first := Hash("refresh-token-value")
	second := Hash("refresh-token-value")
	other := Hash("different-value")

	require.Equal(t, first, second, "hash should be deterministic")
	require.NotEqual(t, first, other)
	require.Len(t, first, 64, "sha256 hex digest is 64 letters")
}
