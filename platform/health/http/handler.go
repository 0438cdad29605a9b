package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Readiness проверяет зависимости сервиса (хранилище состояния и т.п.)
type Readiness func(ctx context.Context) error

type response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler возвращает handler для /health.
// 200 {"status":"ok"} если readiness == nil или вернул nil,
// 503 {"status":"not ready"} если readiness вернул ошибку.
func Handler(readiness Readiness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if readiness != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := readiness(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(response{Status: "not ready", Error: err.Error()})
				return
			}
		}

		_ = json.NewEncoder(w).Encode(response{Status: "ok"})
	}
}
