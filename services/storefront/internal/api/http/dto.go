package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/service"
)

// Денежные суммы отдаются строками с двумя знаками ("24.99")

// ProductResponse товар витрины
type ProductResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Image       string  `json:"image"`
	CatImage    string  `json:"catImage"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
	Roast       string  `json:"roast"`
	Origin      string  `json:"origin"`
	IsNew       bool    `json:"isNew"`
	Stock       int     `json:"stock"`
	InStock     bool    `json:"inStock"`
	LowStock    bool    `json:"lowStock"`
}

// ProductListResponse ответ GET /api/products
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
}

// CategoryListResponse ответ GET /api/categories
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// CartItemResponse позиция корзины
type CartItemResponse struct {
	ProductResponse
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// CartResponse корзина с итогами
type CartResponse struct {
	Items                 []CartItemResponse `json:"items"`
	TotalItems            int                `json:"totalItems"`
	Subtotal              string             `json:"subtotal"`
	Shipping              string             `json:"shipping"`
	Total                 string             `json:"total"`
	FreeShippingRemaining string             `json:"freeShippingRemaining"`
	Wishlist              []int              `json:"wishlist"`
}

// CartMutationResponse ответ на изменение корзины; changed == false для no-op
type CartMutationResponse struct {
	CartResponse
	Changed bool `json:"changed"`
}

// AddToCartRequest тело POST /api/cart/items
type AddToCartRequest struct {
	ProductID *int `json:"product_id"`
}

// UpdateQuantityRequest тело PATCH /api/cart/items/{id}
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// WishlistToggleResponse ответ POST /api/wishlist/{id}/toggle
type WishlistToggleResponse struct {
	ProductID  int  `json:"productId"`
	InWishlist bool `json:"inWishlist"`
}

// WishlistResponse ответ GET /api/wishlist
type WishlistResponse struct {
	Products []ProductResponse `json:"products"`
}

// OrderLineResponse позиция заказа
type OrderLineResponse struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// OrderResponse подтверждение оформления
type OrderResponse struct {
	OrderID    string              `json:"orderId"`
	Message    string              `json:"message"`
	Lines      []OrderLineResponse `json:"lines"`
	TotalItems int                 `json:"totalItems"`
	Subtotal   string              `json:"subtotal"`
	Shipping   string              `json:"shipping"`
	Total      string              `json:"total"`
	PlacedAt   string              `json:"placedAt"`
}

// NewsletterRequest тело POST /api/newsletter
type NewsletterRequest struct {
	Email string `json:"email"`
}

// NewsletterResponse ответ подписки
type NewsletterResponse struct {
	Subscribed bool   `json:"subscribed"`
	Message    string `json:"message"`
}

// ErrorResponse тело ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}

// CartEvent событие SSE: счётчики для бейджей навигации
type CartEvent struct {
	TotalItems    int    `json:"totalItems"`
	Total         string `json:"total"`
	WishlistCount int    `json:"wishlistCount"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       money(p.Price),
		Image:       p.Image,
		CatImage:    p.CatImage,
		Description: p.Description,
		Rating:      p.Rating,
		Category:    string(p.Category),
		Roast:       string(p.Roast),
		Origin:      p.Origin,
		IsNew:       p.IsNew,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		LowStock:    p.LowStock(),
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toCartResponse(v service.CartView) CartResponse {
	items := make([]CartItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, CartItemResponse{
			ProductResponse: toProductResponse(it.Product),
			Quantity:        it.Quantity,
			LineTotal:       money(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		})
	}

	wishlist := v.Wishlist
	if wishlist == nil {
		wishlist = []int{}
	}

	return CartResponse{
		Items:                 items,
		TotalItems:            v.TotalItems,
		Subtotal:              money(v.Subtotal),
		Shipping:              money(v.Shipping),
		Total:                 money(v.Total),
		FreeShippingRemaining: money(v.FreeShippingRemaining),
		Wishlist:              wishlist,
	}
}

func toCartEvent(v service.CartView) CartEvent {
	return CartEvent{
		TotalItems:    v.TotalItems,
		Total:         money(v.Total),
		WishlistCount: len(v.Wishlist),
	}
}

func toOrderResponse(o service.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: money(l.LineTotal),
		})
	}
	return OrderResponse{
		OrderID:    o.ID,
		Message:    "Order confirmed! Your coffee is brewing! ☕",
		Lines:      lines,
		TotalItems: o.TotalItems,
		Subtotal:   money(o.Subtotal),
		Shipping:   money(o.Shipping),
		Total:      money(o.Total),
		PlacedAt:   o.PlacedAt.UTC().Format(time.RFC3339),
	}
}
