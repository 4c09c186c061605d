package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vietcharge/vietcharge/internal/handlers/render"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func handleHealth(db pinger) http.Handler {
	type HealthResponse struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Database: "up"}
		code := http.StatusOK

		if err := db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "down"
			code = http.StatusServiceUnavailable
		}

		render.JSONWithStatus(w, resp, code)
	})
}
