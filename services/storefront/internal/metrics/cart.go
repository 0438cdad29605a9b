package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
)

// CartMetrics OTel инструменты корзины
type CartMetrics struct {
	sessionsOpened metric.Int64Counter
	mutations      metric.Int64Counter
	cartSize       metric.Int64Histogram
}

// NewCartMetrics регистрирует инструменты; registry отдаёт число загруженных сессий
func NewCartMetrics(meter metric.Meter, registry *cart.Registry) (*CartMetrics, error) {
	sessionsOpened, err := meter.Int64Counter("storefront.cart.sessions.opened",
		metric.WithDescription("Cart stores hydrated from storage"))
	if err != nil {
		return nil, fmt.Errorf("sessions opened counter: %w", err)
	}

	mutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart and wishlist operations that changed state"))
	if err != nil {
		return nil, fmt.Errorf("mutations counter: %w", err)
	}

	cartSize, err := meter.Int64Histogram("storefront.cart.items",
		metric.WithDescription("Total cart quantity after a mutation"),
		metric.WithUnit("{item}"))
	if err != nil {
		return nil, fmt.Errorf("cart size histogram: %w", err)
	}

	_, err = meter.Int64ObservableGauge("storefront.cart.sessions.active",
		metric.WithDescription("Cart stores used within the idle TTL or pinned in memory"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(registry.Active()))
			return nil
		}))
	if err != nil {
		return nil, fmt.Errorf("active sessions gauge: %w", err)
	}

	return &CartMetrics{
		sessionsOpened: sessionsOpened,
		mutations:      mutations,
		cartSize:       cartSize,
	}, nil
}

// Attach подключает метрики к реестру: открытия сессий и изменения состояния.
// Наблюдатели реестра не удерживают store от выгрузки.
func (m *CartMetrics) Attach(registry *cart.Registry) {
	registry.OnOpen(func(string, *cart.Store) {
		m.sessionsOpened.Add(context.Background(), 1)
	})
	registry.OnChange(func(_ string, snap cart.Snapshot) {
		ctx := context.Background()
		m.mutations.Add(ctx, 1)
		m.cartSize.Record(ctx, int64(snap.TotalItems()))
	})
}
