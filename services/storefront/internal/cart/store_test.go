package cart

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/memory"
	repoMocks "github.com/omeldon/purrfect-cafe/services/storefront/internal/repository/mocks"
)

const testKey = "purrfect-brew-storage:test"

func product(id int, price string, stock int) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Coffee",
		Price:    decimal.RequireFromString(price),
		Category: catalog.CategoryClassic,
		Roast:    catalog.RoastMedium,
		Stock:    stock,
	}
}

func newMemoryStore(t *testing.T) (*Store, *memory.StateRepository) {
	t.Helper()
	repo := memory.NewStateRepository()
	return New(context.Background(), repo, testKey, zap.NewNop()), repo
}

func TestStore_AddToCart_BoundedByStock(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)
	p := product(7, "9.50", 3)

	assert.True(t, s.AddToCart(ctx, p))
	assert.True(t, s.AddToCart(ctx, p))
	assert.True(t, s.AddToCart(ctx, p))
	assert.False(t, s.AddToCart(ctx, p))

	item, ok := s.CartItem(7)
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 3, s.TotalItems())
}

func TestStore_AddToCart_OutOfStock(t *testing.T) {
	s, _ := newMemoryStore(t)

	assert.False(t, s.AddToCart(context.Background(), product(1, "10", 0)))
	_, ok := s.CartItem(1)
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot().Cart)
}

func TestStore_AddToCart_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	s.AddToCart(ctx, product(3, "1", 5))
	s.AddToCart(ctx, product(1, "1", 5))
	s.AddToCart(ctx, product(2, "1", 5))
	s.AddToCart(ctx, product(3, "1", 5))

	snap := s.Snapshot()
	require.Len(t, snap.Cart, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{snap.Cart[0].ID, snap.Cart[1].ID, snap.Cart[2].ID})
	assert.Equal(t, 2, snap.Cart[0].Quantity)
}

func TestStore_Totals(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	assert.True(t, s.TotalPrice().Equal(decimal.Zero))
	assert.Equal(t, 0, s.TotalItems())

	p := product(1, "10", 2)
	s.AddToCart(ctx, p)
	s.AddToCart(ctx, p)
	assert.Equal(t, 2, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(decimal.NewFromInt(20)))

	// Третье добавление упирается в stock
	s.AddToCart(ctx, p)
	assert.Equal(t, 2, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(decimal.NewFromInt(20)))

	s.AddToCart(ctx, product(2, "0.10", 5))
	s.AddToCart(ctx, product(2, "0.10", 5))
	s.AddToCart(ctx, product(2, "0.10", 5))
	assert.Equal(t, "20.3", s.TotalPrice().String())
}

func TestStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name        string
		id          int
		qty         int
		wantChanged bool
		wantQty     int // 0 - позиции нет
	}{
		{name: "set within stock", id: 5, qty: 4, wantChanged: true, wantQty: 4},
		{name: "clamped to stock", id: 5, qty: 10, wantChanged: true, wantQty: 5},
		{name: "zero removes", id: 5, qty: 0, wantChanged: true, wantQty: 0},
		{name: "negative rejected", id: 5, qty: -1, wantChanged: false, wantQty: 2},
		{name: "same quantity", id: 5, qty: 2, wantChanged: false, wantQty: 2},
		{name: "unknown id", id: 99, qty: 3, wantChanged: false, wantQty: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, _ := newMemoryStore(t)
			p := product(5, "3", 5)
			s.AddToCart(ctx, p)
			s.AddToCart(ctx, p)

			assert.Equal(t, tt.wantChanged, s.UpdateQuantity(ctx, tt.id, tt.qty))

			item, ok := s.CartItem(5)
			if tt.wantQty == 0 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, item.Quantity)
		})
	}
}

func TestStore_UpdateQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	a, _ := newMemoryStore(t)
	b, _ := newMemoryStore(t)

	for _, s := range []*Store{a, b} {
		s.AddToCart(ctx, product(1, "1", 3))
		s.AddToCart(ctx, product(2, "2", 3))
	}

	a.UpdateQuantity(ctx, 1, 0)
	b.RemoveFromCart(ctx, 1)

	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestStore_RemoveFromCart_Missing(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)
	s.AddToCart(ctx, product(1, "1", 3))
	before := s.Snapshot()

	assert.False(t, s.RemoveFromCart(ctx, 42))
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_ToggleWishlist(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)
	s.ToggleWishlist(ctx, 4)
	before := s.Snapshot()

	assert.True(t, s.ToggleWishlist(ctx, 9))
	assert.True(t, s.IsInWishlist(9))
	assert.False(t, s.ToggleWishlist(ctx, 9))
	assert.False(t, s.IsInWishlist(9))

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)
	s.AddToCart(ctx, product(1, "1", 3))
	s.ToggleWishlist(ctx, 1)

	assert.True(t, s.ClearCart(ctx))
	assert.False(t, s.ClearCart(ctx))
	assert.Empty(t, s.Snapshot().Cart)
	assert.True(t, s.IsInWishlist(1))

	assert.True(t, s.ClearWishlist(ctx))
	assert.False(t, s.ClearWishlist(ctx))
	assert.Empty(t, s.Snapshot().Wishlist)
}

func TestStore_PersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	s, repo := newMemoryStore(t)

	s.AddToCart(ctx, product(2, "21.99", 8))
	s.AddToCart(ctx, product(1, "24.99", 12))
	s.AddToCart(ctx, product(2, "21.99", 8))
	s.ToggleWishlist(ctx, 6)
	s.ToggleWishlist(ctx, 3)

	raw, err := repo.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cart"`)
	assert.Contains(t, string(raw), `"wishlist":[6,3]`)

	restored := New(ctx, repo, testKey, zap.NewNop())
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	assert.True(t, restored.TotalPrice().Equal(s.TotalPrice()))
	assert.False(t, restored.MemoryOnly())
}

func TestStore_NoOpDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	repo := repoMocks.NewStateRepository(t)
	repo.On("Load", mock.Anything, testKey).Return(nil, repository.ErrNotFound).Once()
	repo.On("Save", mock.Anything, testKey, mock.Anything).Return(nil).Once()

	s := New(ctx, repo, testKey, zap.NewNop())

	s.RemoveFromCart(ctx, 1)
	s.UpdateQuantity(ctx, 1, -1)
	s.ClearCart(ctx)
	s.AddToCart(ctx, product(1, "1", 0))

	// Единственная запись
	s.ToggleWishlist(ctx, 1)
}

func TestStore_SaveFailureFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	repo := repoMocks.NewStateRepository(t)
	repo.On("Load", mock.Anything, testKey).Return(nil, repository.ErrNotFound).Once()
	repo.On("Save", mock.Anything, testKey, mock.Anything).Return(errors.New("quota exceeded")).Once()

	s := New(ctx, repo, testKey, zap.NewNop())

	assert.True(t, s.AddToCart(ctx, product(1, "5", 3)))
	assert.True(t, s.MemoryOnly())

	// Дальше работаем в памяти без обращений к хранилищу
	assert.True(t, s.AddToCart(ctx, product(1, "5", 3)))
	assert.Equal(t, 2, s.TotalItems())
}

func TestStore_LoadFailureFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	repo := repoMocks.NewStateRepository(t)
	repo.On("Load", mock.Anything, testKey).Return(nil, errors.New("connection refused")).Once()

	s := New(ctx, repo, testKey, zap.NewNop())
	assert.True(t, s.MemoryOnly())
	assert.True(t, s.ToggleWishlist(ctx, 2))
	assert.True(t, s.IsInWishlist(2))
}

func TestStore_MalformedRecordStartsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStateRepository()
	require.NoError(t, repo.Save(ctx, testKey, []byte("{not json")))

	s := New(ctx, repo, testKey, zap.NewNop())
	assert.Empty(t, s.Snapshot().Cart)
	assert.False(t, s.MemoryOnly())

	s.ToggleWishlist(ctx, 1)
	restored := New(ctx, repo, testKey, zap.NewNop())
	assert.True(t, restored.IsInWishlist(1))
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore(t)

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})

	s.AddToCart(ctx, product(1, "2", 2))
	s.RemoveFromCart(ctx, 42) // no-op, без уведомления
	s.ToggleWishlist(ctx, 1)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].TotalItems())
	assert.Equal(t, []int{1}, got[1].Wishlist)

	// Снимок не связан с состоянием store
	got[1].Cart[0].Quantity = 100
	item, _ := s.CartItem(1)
	assert.Equal(t, 1, item.Quantity)

	unsubscribe()
	unsubscribe()
	s.ClearCart(ctx)
	assert.Len(t, got, 2)
}

func TestStore_NilRepository(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, nil, testKey, zap.NewNop())

	assert.True(t, s.MemoryOnly())
	assert.True(t, s.AddToCart(ctx, product(1, "1", 1)))
	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_NotifiesInMutationOrder(t *testing.T) {
	ctx := context.Background()
	const writers = 50

	for round := 0; round < 20; round++ {
		s, _ := newMemoryStore(t)
		p := product(1, "1", writers)

		var (
			mu       sync.Mutex
			seen     []int
			inFlight int
			overlap  bool
		)
		s.Subscribe(func(snap Snapshot) {
			mu.Lock()
			inFlight++
			overlap = overlap || inFlight > 1
			mu.Unlock()

			runtime.Gosched()

			mu.Lock()
			seen = append(seen, snap.TotalItems())
			inFlight--
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.AddToCart(ctx, p)
			}()
		}
		wg.Wait()

		// Каждое добавление +1, значит снимки должны прийти строго 1..writers
		require.Len(t, seen, writers)
		for i, total := range seen {
			require.Equal(t, i+1, total, "round %d", round)
		}
		require.False(t, overlap, "listener called concurrently")
		require.Equal(t, s.TotalItems(), seen[len(seen)-1])
	}
}

func TestStore_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only ordered quantities", func(t *testing.T) {
		s, repo := newMemoryStore(t)
		a, b := product(1, "10", 5), product(2, "3", 5)
		s.AddToCart(ctx, a)
		s.AddToCart(ctx, a)

		var ordered Snapshot
		err := s.Checkout(ctx, func(snap Snapshot) error {
			ordered = snap
			// Параллельный запрос той же сессии
			s.AddToCart(ctx, a)
			s.AddToCart(ctx, b)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, ordered.TotalItems())

		item, ok := s.CartItem(1)
		require.True(t, ok)
		assert.Equal(t, 1, item.Quantity)
		_, ok = s.CartItem(2)
		assert.True(t, ok)
		assert.Equal(t, 2, s.TotalItems())

		data, err := repo.Load(ctx, testKey)
		require.NoError(t, err)
		persisted, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, 2, persisted.TotalItems())
	})

	t.Run("error keeps cart", func(t *testing.T) {
		s, _ := newMemoryStore(t)
		s.AddToCart(ctx, product(1, "10", 5))

		publishErr := errors.New("broker unavailable")
		err := s.Checkout(ctx, func(Snapshot) error { return publishErr })
		require.ErrorIs(t, err, publishErr)
		assert.Equal(t, 1, s.TotalItems())
	})
}
