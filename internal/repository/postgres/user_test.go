package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
	"github.com/vietcharge/vietcharge/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	user := models.User{
		Email:        "driver@example.com",
		PasswordHash: "73616c74:6b6579",
		FullName:     "Test Driver",
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}

	t.Run("create user ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			got, err := repo.CreateUser(t.Context(), user)

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, got.ID, "id should be generated")
			require.Equal(t, user.Email, got.Email)
			require.Equal(t, user.PasswordHash, got.PasswordHash)
			require.Equal(t, models.RoleUser, got.Role)
			require.Equal(t, models.StatusActive, got.Status)
			require.WithinDuration(t, time.Now(), got.CreatedAt, 5*time.Second)
		})
	})

	t.Run("create fails on duplicate email", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			_, err := repo.CreateUser(t.Context(), user)
			require.NoError(t, err)

			_, err = repo.CreateUser(t.Context(), user)

			require.ErrorIs(t, err, apperrors.ErrEmailTaken)
		})
	})

	t.Run("get by id and email", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			created, err := repo.CreateUser(t.Context(), user)
			require.NoError(t, err)

			byID, err := repo.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			require.Equal(t, created.ID, byID.ID)

			byEmail, err := repo.GetUserByEmail(t.Context(), user.Email)
			require.NoError(t, err)
			require.Equal(t, created.ID, byEmail.ID)
		})
	})

	t.Run("get missing user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.GetUserByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = repo.GetUserByEmail(t.Context(), "nobody@example.com")
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("list users with search and paging", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			for _, email := range []string{"alice@example.com", "bob@example.com", "carol@other.org"} {
				u := user
				u.Email = email
				_, err := repo.CreateUser(t.Context(), u)
				require.NoError(t, err)
			}

			users, total, err := repo.ListUsers(t.Context(), repository.ListUsersParams{Page: 1, Limit: 2})
			require.NoError(t, err)
			require.Equal(t, 3, total)
			require.Len(t, users, 2)

			users, total, err = repo.ListUsers(t.Context(), repository.ListUsersParams{Page: 1, Limit: 10, Search: "other.org"})
			require.NoError(t, err)
			require.Equal(t, 1, total)
			require.Len(t, users, 1)
			require.Equal(t, "carol@other.org", users[0].Email)
		})
	})

	t.Run("update user partially", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			created, err := repo.CreateUser(t.Context(), user)
			require.NoError(t, err)

			fullName := "Renamed Driver"
			status := models.StatusDisabled
			got, err := repo.UpdateUser(t.Context(), created.ID, repository.UpdateUserParams{
				FullName: &fullName,
				Status:   &status,
			})

			require.NoError(t, err)
			require.Equal(t, "Renamed Driver", got.FullName)
			require.Equal(t, models.StatusDisabled, got.Status)
			require.Equal(t, created.Email, got.Email, "untouched fields should stay")
			require.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
		})
	})

	t.Run("update missing user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			fullName := "Ghost"
			_, err := repo.UpdateUser(t.Context(), uuid.New(), repository.UpdateUserParams{FullName: &fullName})

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
