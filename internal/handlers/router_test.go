package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/logger"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/service/rangecalc"
	"github.com/vietcharge/vietcharge/internal/service/station"
)

// Fakes override only the methods the routed handlers reach, the embedded
// interface covers the rest
type authServiceFake struct {
	authService
	authenticate func(ctx context.Context, accessToken string) (models.User, error)
}

func (f *authServiceFake) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	return f.authenticate(ctx, accessToken)
}

type stationServiceFake struct {
	stationService
	importCSV func(ctx context.Context, r io.Reader) (station.ImportSummary, error)
}

func (f *stationServiceFake) ImportCSV(ctx context.Context, r io.Reader) (station.ImportSummary, error) {
	return f.importCSV(ctx, r)
}

type pingerFake struct{}

func (pingerFake) Ping(ctx context.Context) error { return nil }

func TestRouter(t *testing.T) {
	t.Parallel()

	editor := models.User{
		ID:     uuid.New(),
		Email:  "editor@example.com",
		Role:   models.RoleEditor,
		Status: models.StatusActive,
	}

	authSrv := &authServiceFake{
		authenticate: func(ctx context.Context, accessToken string) (models.User, error) {
			if accessToken == "editor-token" {
				return editor, nil
			}
			return models.User{}, apperrors.ErrInvalidAccessToken
		},
	}
	stationSrv := &stationServiceFake{
		importCSV: func(ctx context.Context, r io.Reader) (station.ImportSummary, error) {
			return station.ImportSummary{Total: 2, Success: 2}, nil
		},
	}

	srv := httptest.NewServer(NewRouter(authSrv, nil, stationSrv, pingerFake{}, logger.NewNoOp()))
	t.Cleanup(srv.Close)

	do := func(t *testing.T, method string, path string, token string, body string) *http.Response {
		t.Helper()

		req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() }) // nolint:errcheck
		return resp
	}

	t.Run("csv import is served on /stations/import-csv", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/stations/import-csv", "editor-token", "name,address\n")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var envelope struct {
			Success bool                  `json:"success"`
			Data    station.ImportSummary `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		require.True(t, envelope.Success)
		require.Equal(t, 2, envelope.Data.Success)
	})

	t.Run("csv import requires a token", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/stations/import-csv", "", "name,address\n")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("range estimate is served on /range/calc", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/range/calc", "", `{"batteryPercent":80,"capacityKwh":87.7,"consumptionKwhPerKm":0.2}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var envelope struct {
			Data rangecalc.Estimate `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		require.InDelta(t, 350.8, envelope.Data.RangeKm, 0.01)
	})
}
