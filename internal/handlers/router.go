package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vietcharge/vietcharge/internal/handlers/middleware"
	"github.com/vietcharge/vietcharge/internal/logger"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/repository"
	"github.com/vietcharge/vietcharge/internal/service/auth"
	"github.com/vietcharge/vietcharge/internal/service/station"
	"github.com/vietcharge/vietcharge/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authSrv authService,
	userSrv userService,
	stationSrv stationService,
	db pinger,
	l logger.Logger,
) http.Handler {
	authHandler := NewAuth(authSrv, userSrv, l)
	userHandler := NewUser(userSrv, l)
	stationHandler := NewStation(stationSrv, l)

	withAuth := middleware.Auth(authSrv)
	asEditor := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)
	asAdmin := middleware.RequireRole(models.RoleAdmin)

	api := http.NewServeMux()

	api.HandleFunc("POST /auth/register", authHandler.register)
	api.HandleFunc("POST /auth/login", authHandler.login)
	api.HandleFunc("POST /auth/refresh", authHandler.refresh)
	api.HandleFunc("POST /auth/logout", authHandler.logout)

	api.Handle("GET /users/me", chain(http.HandlerFunc(userHandler.me), withAuth))
	api.Handle("POST /users", chain(http.HandlerFunc(userHandler.create), withAuth, asAdmin))
	api.Handle("GET /users", chain(http.HandlerFunc(userHandler.list), withAuth, asAdmin))
	api.Handle("GET /users/{id}", chain(http.HandlerFunc(userHandler.get), withAuth, asAdmin))
	api.Handle("PUT /users/{id}", chain(http.HandlerFunc(userHandler.update), withAuth, asAdmin))
	api.Handle("DELETE /users/{id}", chain(http.HandlerFunc(userHandler.delete), withAuth, asAdmin))

	api.HandleFunc("GET /stations", stationHandler.list)
	api.HandleFunc("GET /stations/nearest", stationHandler.nearest)
	api.HandleFunc("GET /stations/in-range", stationHandler.inRange)
	api.HandleFunc("GET /stations/{id}", stationHandler.get)
	api.Handle("POST /stations", chain(http.HandlerFunc(stationHandler.create), withAuth, asEditor))
	api.Handle("POST /stations/import-csv", chain(http.HandlerFunc(stationHandler.importCSV), withAuth, asEditor))
	api.Handle("PUT /stations/{id}", chain(http.HandlerFunc(stationHandler.update), withAuth, asEditor))
	api.Handle("DELETE /stations/{id}", chain(http.HandlerFunc(stationHandler.delete), withAuth, asAdmin))

	api.Handle("POST /range/calc", handleRangeCalculate())

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", api))
	root.Handle("GET /health", handleHealth(db))

	return chain(root,
		middleware.Logger(l),
	)
}

type authService interface {
	// Login checks the credentials and issues a token pair.
	// Failures are reported as apperrors with kind AUTH_ERROR.
	Login(ctx context.Context, email string, password string) (auth.LoginResult, error)

	// Refresh rotates the presented refresh token and issues a new pair.
	// A revoked, expired or unknown token fails with kind AUTH_ERROR.
	Refresh(ctx context.Context, refreshToken string) (auth.RefreshResult, error)

	// Logout revokes the presented refresh token. Unknown tokens are ignored.
	Logout(ctx context.Context, refreshToken string) error

	// Authenticate resolves the access token into its active user
	Authenticate(ctx context.Context, accessToken string) (models.User, error)

	RefreshTTL() time.Duration
}

type userService interface {
	CreateUser(ctx context.Context, params user.CreateUserParams) (models.UserDTO, error)
	GetUser(ctx context.Context, userID uuid.UUID) (models.UserDTO, error)
	ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.UserDTO, int, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, params user.UpdateUserParams) (models.UserDTO, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type stationService interface {
	CreateStation(ctx context.Context, params station.CreateStationParams) (models.Station, error)
	GetStation(ctx context.Context, stationID uuid.UUID) (models.Station, error)
	ListStations(ctx context.Context, filter repository.StationFilter) ([]models.Station, int, error)
	UpdateStation(ctx context.Context, stationID uuid.UUID, params station.CreateStationParams) (models.Station, error)
	DeleteStation(ctx context.Context, stationID uuid.UUID) error
	Nearest(ctx context.Context, lat, lng float64, limit int) ([]models.StationWithDistance, error)
	InRange(ctx context.Context, lat, lng, radiusKm float64) ([]models.StationWithDistance, error)
	ImportCSV(ctx context.Context, r io.Reader) (station.ImportSummary, error)
}
