package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	platformobservability "github.com/omeldon/purrfect-cafe/platform/observability"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor соответствие доменных ошибок HTTP статусам
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrInvalidEmail):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSessionRequired),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrUnknownSort):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError пишет ошибку сервиса; внутренние детали 5xx наружу не отдаются
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := platformobservability.LoggerFromContext(r.Context(), h.logger)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeErrorMessage(w, status, "internal server error")
		return
	}

	logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	writeErrorMessage(w, status, err.Error())
}
