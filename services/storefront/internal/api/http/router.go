package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformhealth "github.com/omeldon/purrfect-cafe/platform/health/http"
	platformobservability "github.com/omeldon/purrfect-cafe/platform/observability"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/api/http/middleware"
)

// NewRouter создаёт роутер витрины.
// readiness проверяет хранилище состояния; при ошибке /health отдаёт 503.
// logger используется observability middleware (trace_id в логах).
func NewRouter(handler *Handler, readiness platformhealth.Readiness, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)

	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware("storefront", logger))
	}

	router.Route("/api", func(r chi.Router) {
		// Каталог не зависит от сессии
		r.Get("/products", handler.ListProducts)
		r.Get("/products/{id}", handler.GetProduct)
		r.Get("/categories", handler.ListCategories)
		r.Get("/testimonials", handler.ListTestimonials)
		r.Post("/newsletter", handler.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WithSessionID)

			r.Get("/cart", handler.GetCart)
			r.Delete("/cart", handler.ClearCart)
			r.Get("/cart/events", handler.CartEvents)
			r.Post("/cart/items", handler.AddCartItem)
			r.Patch("/cart/items/{id}", handler.UpdateCartItem)
			r.Delete("/cart/items/{id}", handler.RemoveCartItem)

			r.Get("/wishlist", handler.GetWishlist)
			r.Delete("/wishlist", handler.ClearWishlist)
			r.Post("/wishlist/{id}/toggle", handler.ToggleWishlist)

			r.Post("/checkout", handler.Checkout)
		})
	})

	// Health без middleware сессии
	router.Get("/health", platformhealth.Handler(readiness))

	return router
}
