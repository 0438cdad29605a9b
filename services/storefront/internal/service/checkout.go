package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/platform/clock"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
)

// OrderLine позиция оформленного заказа
type OrderLine struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Order подтверждение симулированного оформления; оплата не проводится
type Order struct {
	ID        string
	SessionID string
	Lines     []OrderLine
	Quote
	TotalItems int
	PlacedAt   time.Time
}

// CheckoutService оформляет корзину сессии
type CheckoutService struct {
	stores    CartStores
	publisher CheckoutPublisher
	shipping  ShippingPolicy
	clock     clock.Clock
	logger    *zap.Logger
}

// NewCheckoutService создаёт CheckoutService
func NewCheckoutService(stores CartStores, publisher CheckoutPublisher, shipping ShippingPolicy, clk clock.Clock, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		stores:    stores,
		publisher: publisher,
		shipping:  shipping,
		clock:     clk,
		logger:    logger,
	}
}

// Checkout фиксирует заказ из текущей корзины, публикует событие и убирает
// оформленные позиции из корзины. Параллельные оформления одной сессии идут по очереди.
// При ошибке публикации корзина остаётся нетронутой.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (Order, error) {
	store, err := openStore(ctx, s.stores, sessionID)
	if err != nil {
		return Order{}, err
	}

	var order Order
	err = store.Checkout(ctx, func(snap cart.Snapshot) error {
		if len(snap.Cart) == 0 {
			return ErrEmptyCart
		}

		order = s.buildOrder(sessionID, snap)
		if err := s.publisher.PublishCheckoutCompleted(ctx, order); err != nil {
			s.logger.Error("failed to publish checkout",
				zap.Error(err),
				zap.String("order_id", order.ID),
			)
			return fmt.Errorf("failed to publish checkout: %w", err)
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.Info("checkout completed",
		zap.String("order_id", order.ID),
		zap.Int("total_items", order.TotalItems),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

func (s *CheckoutService) buildOrder(sessionID string, snap cart.Snapshot) Order {
	order := Order{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Lines:      make([]OrderLine, 0, len(snap.Cart)),
		Quote:      s.shipping.Quote(subtotal(snap.Cart)),
		TotalItems: snap.TotalItems(),
		PlacedAt:   s.clock.Now(),
	}
	for _, it := range snap.Cart {
		order.Lines = append(order.Lines, OrderLine{
			ProductID: it.ID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			LineTotal: lineTotal(it),
		})
	}
	return order
}
