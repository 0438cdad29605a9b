package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/platform/clock"
	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

// ErrEmptySession возвращается Open для пустого session id
var ErrEmptySession = errors.New("empty session id")

// OpenHook вызывается один раз для каждого нового (гидрированного) store
type OpenHook func(sessionID string, s *Store)

// ChangeHook вызывается после каждой изменившей состояние операции любой сессии
type ChangeHook func(sessionID string, snap Snapshot)

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry держит по одному Store на сессию.
// Store без обращений дольше idleTTL выгружается при следующем Open;
// следующее обращение гидрирует его заново. Не выгружаются store с подписчиками
// и store в режиме "только память": их состояние есть только здесь.
type Registry struct {
	repo    repository.StateRepository
	prefix  string
	idleTTL time.Duration
	clock   clock.Clock
	logger  *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	hooks   []OpenHook
	changes []ChangeHook
}

// NewRegistry создаёт реестр. prefix - имя записи хранилища (STORAGE_KEY),
// ключ сессии строится как prefix:sessionID. idleTTL <= 0 отключает выгрузку.
func NewRegistry(repo repository.StateRepository, prefix string, idleTTL time.Duration, clk clock.Clock, logger *zap.Logger) *Registry {
	return &Registry{
		repo:    repo,
		prefix:  prefix,
		idleTTL: idleTTL,
		clock:   clk,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// OnOpen регистрирует hook для новых store; вызывать до начала обслуживания
func (r *Registry) OnOpen(h OpenHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// OnChange регистрирует наблюдателя за изменениями всех сессий.
// В отличие от Store.Subscribe не мешает выгрузке простаивающих store.
func (r *Registry) OnChange(h ChangeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, h)
}

// Key ключ записи хранилища для сессии
func (r *Registry) Key(sessionID string) string {
	return r.prefix + ":" + sessionID
}

// Open возвращает store сессии, при первом обращении гидрируя его из хранилища
func (r *Registry) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}

	now := r.clock.Now()

	r.mu.Lock()
	r.evictIdleLocked(now)
	if e, ok := r.entries[sessionID]; ok {
		e.lastSeen = now
		r.mu.Unlock()
		return e.store, nil
	}
	r.mu.Unlock()

	// Гидрация идёт без блокировки реестра
	s := New(ctx, r.repo, r.Key(sessionID), r.logger)
	s.observers = r.observersFor(sessionID)

	r.mu.Lock()
	if e, ok := r.entries[sessionID]; ok {
		// Параллельный Open успел раньше
		e.lastSeen = now
		r.mu.Unlock()
		return e.store, nil
	}
	r.entries[sessionID] = &entry{store: s, lastSeen: now}
	hooks := make([]OpenHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	for _, h := range hooks {
		h(sessionID, s)
	}
	return s, nil
}

// Len количество загруженных store, включая ещё не выгруженные простаивающие
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Active количество store, которые не подлежат выгрузке на текущий момент
func (r *Registry) Active() int {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	active := 0
	for _, e := range r.entries {
		if !r.evictableLocked(e, now) {
			active++
		}
	}
	return active
}

func (r *Registry) observersFor(sessionID string) []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Listener, 0, len(r.changes))
	for _, h := range r.changes {
		out = append(out, func(snap Snapshot) { h(sessionID, snap) })
	}
	return out
}

func (r *Registry) evictIdleLocked(now time.Time) {
	if r.idleTTL <= 0 {
		return
	}
	for id, e := range r.entries {
		if !r.evictableLocked(e, now) {
			continue
		}
		delete(r.entries, id)
		r.logger.Debug("idle cart session evicted", zap.String("session_id", id))
	}
}

func (r *Registry) evictableLocked(e *entry, now time.Time) bool {
	if r.idleTTL <= 0 || now.Sub(e.lastSeen) < r.idleTTL {
		return false
	}
	return !e.store.hasListeners() && !e.store.MemoryOnly()
}
