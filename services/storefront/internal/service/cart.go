package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
)

// CartView корзина сессии с посчитанными итогами
type CartView struct {
	Items      []cart.Item
	TotalItems int
	Quote
	Wishlist []int
}

// CartService операции корзины и вишлиста поверх store сессии.
// id товаров сверяются с каталогом; сама корзина хранит копии товаров.
type CartService struct {
	catalog  *catalog.Catalog
	stores   CartStores
	shipping ShippingPolicy
	logger   *zap.Logger
}

// NewCartService создаёт CartService
func NewCartService(cat *catalog.Catalog, stores CartStores, shipping ShippingPolicy, logger *zap.Logger) *CartService {
	return &CartService{
		catalog:  cat,
		stores:   stores,
		shipping: shipping,
		logger:   logger,
	}
}

// GetCart возвращает текущую корзину
func (s *CartService) GetCart(ctx context.Context, sessionID string) (CartView, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return s.view(store.Snapshot()), nil
}

// AddToCart добавляет товар; changed == false если упёрлись в stock
func (s *CartService) AddToCart(ctx context.Context, sessionID string, productID int) (CartView, bool, error) {
	product, ok := s.catalog.Get(productID)
	if !ok {
		return CartView{}, false, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}

	store, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, false, err
	}

	changed := store.AddToCart(ctx, product)
	if !changed {
		s.logger.Debug("add to cart ignored",
			zap.Int("product_id", productID),
			zap.Int("stock", product.Stock),
		)
	}
	return s.view(store.Snapshot()), changed, nil
}

// RemoveFromCart удаляет позицию; отсутствующая позиция не ошибка
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID string, productID int) (CartView, bool, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, false, err
	}
	changed := store.RemoveFromCart(ctx, productID)
	return s.view(store.Snapshot()), changed, nil
}

// UpdateQuantity меняет количество с ограничением по stock; qty < 0 игнорируется
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID, qty int) (CartView, bool, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, false, err
	}
	changed := store.UpdateQuantity(ctx, productID, qty)
	return s.view(store.Snapshot()), changed, nil
}

// ClearCart очищает корзину
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (CartView, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	store.ClearCart(ctx)
	return s.view(store.Snapshot()), nil
}

// ToggleWishlist переключает товар в вишлисте и возвращает новое членство
func (s *CartService) ToggleWishlist(ctx context.Context, sessionID string, productID int) (bool, error) {
	if _, ok := s.catalog.Get(productID); !ok {
		return false, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}

	store, err := s.open(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return store.ToggleWishlist(ctx, productID), nil
}

// Wishlist товары из вишлиста в порядке добавления; исчезнувшие из каталога пропускаются
func (s *CartService) Wishlist(ctx context.Context, sessionID string) ([]catalog.Product, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ids := store.Snapshot().Wishlist
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.catalog.Get(id); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// ClearWishlist очищает вишлист
func (s *CartService) ClearWishlist(ctx context.Context, sessionID string) error {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return err
	}
	store.ClearWishlist(ctx)
	return nil
}

// Subscribe подписывает listener на изменения корзины сессии
func (s *CartService) Subscribe(ctx context.Context, sessionID string, l cart.Listener) (CartView, func(), error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return CartView{}, nil, err
	}
	unsubscribe := store.Subscribe(l)
	return s.view(store.Snapshot()), unsubscribe, nil
}

// View считает итоги для снимка
func (s *CartService) View(snap cart.Snapshot) CartView {
	return s.view(snap)
}

func (s *CartService) view(snap cart.Snapshot) CartView {
	return CartView{
		Items:      snap.Cart,
		TotalItems: snap.TotalItems(),
		Quote:      s.shipping.Quote(subtotal(snap.Cart)),
		Wishlist:   snap.Wishlist,
	}
}

func (s *CartService) open(ctx context.Context, sessionID string) (*cart.Store, error) {
	return openStore(ctx, s.stores, sessionID)
}

func openStore(ctx context.Context, stores CartStores, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	store, err := stores.Open(ctx, sessionID)
	if err != nil {
		if errors.Is(err, cart.ErrEmptySession) {
			return nil, ErrSessionRequired
		}
		return nil, fmt.Errorf("failed to open cart: %w", err)
	}
	return store, nil
}
