package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/service"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/sessionctx"
)

const newsletterWelcome = "Welcome to our newsletter! 🎉"

// Handler HTTP обработчики витрины
type Handler struct {
	catalog    *catalog.Catalog
	carts      *service.CartService
	checkout   *service.CheckoutService
	newsletter *service.NewsletterService
	logger     *zap.Logger
}

// NewHandler создаёт Handler
func NewHandler(
	cat *catalog.Catalog,
	carts *service.CartService,
	checkout *service.CheckoutService,
	newsletter *service.NewsletterService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:    cat,
		carts:      carts,
		checkout:   checkout,
		newsletter: newsletter,
		logger:     logger,
	}
}

// ListProducts GET /api/products?category=&q=&sort=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.catalog.List(catalog.Filter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductListResponse{
		Products: toProductResponses(res.Products),
		Count:    len(res.Products),
		Total:    res.Total,
	})
}

// GetProduct GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	p, found := h.catalog.Get(id)
	if !found {
		h.writeError(w, r, fmt.Errorf("%w: %d", service.ErrProductNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// ListCategories GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: catalog.CategoryFilters()})
}

// ListTestimonials GET /api/testimonials
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]catalog.Testimonial{
		"testimonials": h.catalog.Testimonials(),
	})
}

// GetCart GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.GetCart(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// ClearCart DELETE /api/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.ClearCart(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// AddCartItem POST /api/cart/items {product_id}
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == nil {
		writeErrorMessage(w, http.StatusBadRequest, "product_id is required")
		return
	}

	view, changed, err := h.carts.AddToCart(r.Context(), sessionID(r), *req.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartMutationResponse{CartResponse: toCartResponse(view), Changed: changed})
}

// UpdateCartItem PATCH /api/cart/items/{id} {quantity}
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeErrorMessage(w, http.StatusBadRequest, "quantity is required")
		return
	}

	view, changed, err := h.carts.UpdateQuantity(r.Context(), sessionID(r), id, *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartMutationResponse{CartResponse: toCartResponse(view), Changed: changed})
}

// RemoveCartItem DELETE /api/cart/items/{id}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	view, changed, err := h.carts.RemoveFromCart(r.Context(), sessionID(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartMutationResponse{CartResponse: toCartResponse(view), Changed: changed})
}

// GetWishlist GET /api/wishlist
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	products, err := h.carts.Wishlist(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WishlistResponse{Products: toProductResponses(products)})
}

// ToggleWishlist POST /api/wishlist/{id}/toggle
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	in, err := h.carts.ToggleWishlist(r.Context(), sessionID(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WishlistToggleResponse{ProductID: id, InWishlist: in})
}

// ClearWishlist DELETE /api/wishlist
func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.ClearWishlist(r.Context(), sessionID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout POST /api/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.Checkout(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// Subscribe POST /api/newsletter {email}
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, NewsletterResponse{Subscribed: true, Message: newsletterWelcome})
}

func sessionID(r *http.Request) string {
	sid, _ := sessionctx.SessionIDFromContext(r.Context())
	return sid
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid product id %q", raw))
		return 0, false
	}
	return id, true
}

// maxBodyBytes тела запросов витрины крошечные
const maxBodyBytes = 1 << 16

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}
