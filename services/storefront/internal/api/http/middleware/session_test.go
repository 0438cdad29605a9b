package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/sessionctx"
)

func TestWithSessionID(t *testing.T) {
	var seen string
	handler := WithSessionID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = sessionctx.SessionIDFromContext(r.Context())
	}))

	t.Run("existing session is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(SessionIDHeader, "tabby-42")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "tabby-42", seen)
		assert.Equal(t, "tabby-42", rec.Header().Get(SessionIDHeader))
	})

	t.Run("missing session is minted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(SessionIDHeader))
	})

	t.Run("too long session rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(SessionIDHeader, strings.Repeat("x", 200))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
