package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	platformobservability "github.com/omeldon/purrfect-cafe/platform/observability"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
)

// heartbeatInterval комментарий-пинг, чтобы прокси не закрывали поток
const heartbeatInterval = 25 * time.Second

// CartEvents GET /api/cart/events: server-sent events со счётчиками корзины.
// Первое событие отправляется сразу, дальше после каждой изменившей корзину операции.
func (h *Handler) CartEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := platformobservability.LoggerFromContext(ctx, h.logger)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorMessage(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// Медленный клиент не блокирует мутации: промежуточные снимки отбрасываются
	updates := make(chan cart.Snapshot, 1)
	initial, unsubscribe, err := h.carts.Subscribe(ctx, sessionID(r), func(snap cart.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- snap:
			default:
			}
		}
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer unsubscribe()

	// Поток живёт дольше WriteTimeout сервера
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("cannot reset write deadline for cart events", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, toCartEvent(initial)); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("cart events stream closed")
			return
		case snap := <-updates:
			if err := writeEvent(w, toCartEvent(h.carts.View(snap))); err != nil {
				logger.Debug("cart events write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev CartEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data)
	return err
}
