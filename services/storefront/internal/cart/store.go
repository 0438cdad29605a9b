package cart

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

// persistTimeout ограничивает одну запись в хранилище
const persistTimeout = 3 * time.Second

// Listener получает снимок состояния после каждой изменившей его операции
type Listener func(Snapshot)

// Store единственный владелец корзины и вишлиста одной сессии.
// Безопасен для конкурентного использования. Операции, которые не меняют
// состояние (no-op), не пишут в хранилище и не уведомляют подписчиков.
// Listener не должен синхронно вызывать мутации того же store.
type Store struct {
	mu sync.Mutex
	// notifyMu берётся до отпускания mu: подписчики получают снимки
	// в порядке мутаций и не вызываются параллельно сами с собой
	notifyMu sync.Mutex
	// checkoutMu сериализует Checkout одной сессии
	checkoutMu sync.Mutex

	key      string
	repo     repository.StateRepository // nil - только память
	logger   *zap.Logger
	cart     []Item
	wishlist []int

	listenersMu sync.Mutex
	listeners   map[uint64]Listener
	nextID      uint64

	// observers задаются реестром до публикации store и не удерживают его от выгрузки
	observers []Listener
}

// New создаёт store и гидрирует его из repo по ключу key.
// Отсутствие записи даёт пустое состояние. Ошибка чтения переводит store
// в режим "только память" до конца его жизни; repo == nil означает то же самое.
func New(ctx context.Context, repo repository.StateRepository, key string, logger *zap.Logger) *Store {
	s := &Store{
		key:       key,
		repo:      repo,
		logger:    logger.With(zap.String("storage_key", key)),
		cart:      []Item{},
		wishlist:  []int{},
		listeners: make(map[uint64]Listener),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	if s.repo == nil {
		return
	}

	data, err := s.repo.Load(ctx, s.key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Debug("no persisted cart state, starting empty")
		return
	case err != nil:
		s.logger.Warn("failed to load cart state, falling back to memory-only", zap.Error(err))
		s.repo = nil
		return
	}

	snap, err := Unmarshal(data)
	if err != nil {
		// Битая запись: стартуем с пустого состояния, следующая мутация её перезапишет
		s.logger.Warn("persisted cart state is malformed, starting empty", zap.Error(err))
		return
	}

	s.cart = snap.Cart
	s.wishlist = snap.Wishlist
	s.logger.Debug("cart state hydrated",
		zap.Int("cart_items", len(s.cart)),
		zap.Int("wishlist_items", len(s.wishlist)),
	)
}

// AddToCart добавляет товар или увеличивает количество на 1 в пределах stock.
// Возвращает false, если состояние не изменилось.
func (s *Store) AddToCart(ctx context.Context, p catalog.Product) bool {
	return s.mutate(ctx, func() bool {
		if idx := s.indexOf(p.ID); idx >= 0 {
			if s.cart[idx].Quantity+1 > p.Stock {
				return false
			}
			s.cart[idx].Quantity++
			return true
		}
		if p.Stock <= 0 {
			return false
		}
		s.cart = append(s.cart, Item{Product: p, Quantity: 1})
		return true
	})
}

// RemoveFromCart удаляет позицию; отсутствующий id - no-op
func (s *Store) RemoveFromCart(ctx context.Context, id int) bool {
	return s.mutate(ctx, func() bool {
		return s.remove(id)
	})
}

// UpdateQuantity: qty < 0 - no-op, qty == 0 - удаление, иначе min(qty, stock)
func (s *Store) UpdateQuantity(ctx context.Context, id, qty int) bool {
	return s.mutate(ctx, func() bool {
		if qty < 0 {
			return false
		}
		idx := s.indexOf(id)
		if idx < 0 {
			return false
		}
		if qty == 0 {
			return s.remove(id)
		}
		clamped := min(qty, s.cart[idx].Stock)
		if clamped < 1 || clamped == s.cart[idx].Quantity {
			return false
		}
		s.cart[idx].Quantity = clamped
		return true
	})
}

// ToggleWishlist добавляет id в вишлист или убирает его оттуда.
// Возвращает новое членство id в вишлисте.
func (s *Store) ToggleWishlist(ctx context.Context, id int) bool {
	var inWishlist bool
	s.mutate(ctx, func() bool {
		if idx := slices.Index(s.wishlist, id); idx >= 0 {
			s.wishlist = slices.Delete(s.wishlist, idx, idx+1)
			inWishlist = false
			return true
		}
		s.wishlist = append(s.wishlist, id)
		inWishlist = true
		return true
	})
	return inWishlist
}

// ClearCart очищает корзину
func (s *Store) ClearCart(ctx context.Context) bool {
	return s.mutate(ctx, func() bool {
		if len(s.cart) == 0 {
			return false
		}
		s.cart = []Item{}
		return true
	})
}

// ClearWishlist очищает вишлист
func (s *Store) ClearWishlist(ctx context.Context) bool {
	return s.mutate(ctx, func() bool {
		if len(s.wishlist) == 0 {
			return false
		}
		s.wishlist = []int{}
		return true
	})
}

// IsInWishlist проверяет наличие id в вишлисте
func (s *Store) IsInWishlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.wishlist, id)
}

// TotalPrice сумма price × quantity; для пустой корзины ровно 0
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, it := range s.cart {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// TotalItems сумма количеств
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.cart {
		total += it.Quantity
	}
	return total
}

// CartItem возвращает позицию по id
func (s *Store) CartItem(id int) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Item{}, false
	}
	return s.cart[idx], true
}

// Snapshot копия текущего состояния
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe регистрирует listener; возвращённая функция снимает подписку
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// Checkout оформляет текущую корзину. fn получает снимок и публикует заказ;
// store при этом не заблокирован. После успешного fn из корзины вычитаются
// ровно оформленные количества: добавленное во время fn остаётся в корзине.
// Ошибка fn возвращается как есть, корзина не меняется.
func (s *Store) Checkout(ctx context.Context, fn func(Snapshot) error) error {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	snap := s.Snapshot()
	if err := fn(snap); err != nil {
		return err
	}

	s.mutate(ctx, func() bool {
		changed := false
		for _, ordered := range snap.Cart {
			idx := s.indexOf(ordered.ID)
			if idx < 0 {
				continue
			}
			changed = true
			if left := s.cart[idx].Quantity - ordered.Quantity; left > 0 {
				s.cart[idx].Quantity = left
				continue
			}
			s.cart = slices.Delete(s.cart, idx, idx+1)
		}
		return changed
	})
	return nil
}

// MemoryOnly сообщает, что store больше не пишет в хранилище
func (s *Store) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo == nil
}

func (s *Store) hasListeners() bool {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	return len(s.listeners) > 0
}

// mutate применяет fn под блокировкой; при изменении состояния сохраняет его
// и уведомляет подписчиков уже вне блокировки
func (s *Store) mutate(ctx context.Context, fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	snap := s.snapshotLocked()
	s.persistLocked(ctx, snap)
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.notify(snap)
	s.notifyMu.Unlock()
	return true
}

// persistLocked пишет под s.mu, чтобы записи в хранилище шли в порядке мутаций
func (s *Store) persistLocked(ctx context.Context, snap Snapshot) {
	if s.repo == nil {
		return
	}

	data, err := Marshal(snap)
	if err != nil {
		s.logger.Warn("failed to encode cart state, falling back to memory-only", zap.Error(err))
		s.repo = nil
		return
	}

	// Отмена запроса не должна обрывать запись уже применённой мутации
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.repo.Save(saveCtx, s.key, data); err != nil {
		s.logger.Warn("failed to persist cart state, falling back to memory-only", zap.Error(err))
		s.repo = nil
	}
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		// Каждый listener получает свою копию
		l(snap.clone())
	}
	for _, o := range s.observers {
		o(snap.clone())
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Cart: s.cart, Wishlist: s.wishlist}.clone()
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.cart, func(it Item) bool { return it.ID == id })
}

func (s *Store) remove(id int) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.cart = slices.Delete(s.cart, idx, idx+1)
	return true
}
