package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/platform/clock"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/memory"
)

func findSum(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				return total, true
			case metricdata.Gauge[int64]:
				if len(data.DataPoints) > 0 {
					return data.DataPoints[0].Value, true
				}
			}
		}
	}
	return 0, false
}

func TestCartMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	clk := clock.NewMockClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	registry := cart.NewRegistry(memory.NewStateRepository(), "purrfect-brew-storage", time.Hour, clk, zap.NewNop())

	m, err := NewCartMetrics(provider.Meter("storefront"), registry)
	require.NoError(t, err)
	m.Attach(registry)

	store, err := registry.Open(ctx, "s1")
	require.NoError(t, err)

	p := catalog.Product{ID: 1, Price: decimal.NewFromInt(5), Category: catalog.CategoryClassic, Roast: catalog.RoastDark, Stock: 1}
	store.AddToCart(ctx, p)
	store.AddToCart(ctx, p) // упёрлись в stock, не считается
	store.ToggleWishlist(ctx, 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	opened, ok := findSum(rm, "storefront.cart.sessions.opened")
	require.True(t, ok)
	assert.Equal(t, int64(1), opened)

	mutations, ok := findSum(rm, "storefront.cart.mutations")
	require.True(t, ok)
	assert.Equal(t, int64(2), mutations)

	active, ok := findSum(rm, "storefront.cart.sessions.active")
	require.True(t, ok)
	assert.Equal(t, int64(1), active)

	// Простаивающая сессия не считается активной ещё до ленивой выгрузки
	clk.Advance(2 * time.Hour)
	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(ctx, &rm))
	active, ok = findSum(rm, "storefront.cart.sessions.active")
	require.True(t, ok)
	assert.Equal(t, int64(0), active)
	assert.Equal(t, 1, registry.Len())

	// Метрики не мешают выгрузке простаивающей сессии
	_, err = registry.Open(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())
}
