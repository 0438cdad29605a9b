package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/sessionctx"
)

// SessionIDHeader заголовок с id сессии корзины
const SessionIDHeader = "x-session-id"

// maxSessionIDLen защищает ключ хранилища от мусорных заголовков
const maxSessionIDLen = 128

// WithSessionID читает x-session-id; при отсутствии выдаёт новую сессию (uuid).
// Id всегда возвращается клиенту в том же заголовке ответа.
func WithSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(SessionIDHeader))
		if sid == "" {
			sid = uuid.NewString()
		}
		if len(sid) > maxSessionIDLen {
			http.Error(w, "x-session-id is too long", http.StatusBadRequest)
			return
		}

		w.Header().Set(SessionIDHeader, sid)
		ctx := sessionctx.WithSessionID(r.Context(), sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
