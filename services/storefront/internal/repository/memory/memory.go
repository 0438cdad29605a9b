package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

// StateRepository реализует repository.StateRepository в памяти процесса.
// Используется по умолчанию (STORAGE_BACKEND=memory) и в тестах.
type StateRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewStateRepository создаёт пустой in-memory репозиторий состояния
func NewStateRepository() *StateRepository {
	return &StateRepository{
		records: make(map[string][]byte),
	}
}

// Load возвращает копию записи, чтобы вызывающий не мог изменить хранимые байты
func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.records[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return slices.Clone(data), nil
}

// Save перезаписывает запись копией data
func (r *StateRepository) Save(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[key] = slices.Clone(data)
	return nil
}

// Delete удаляет запись
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, key)
	return nil
}

// SubscriberRepository реализует repository.SubscriberRepository в памяти процесса
type SubscriberRepository struct {
	mu   sync.Mutex
	subs map[string]repository.Subscriber
}

// NewSubscriberRepository создаёт пустой in-memory репозиторий подписчиков
func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{
		subs: make(map[string]repository.Subscriber),
	}
}

// Add сохраняет подписчика; email сравнивается без учёта регистра
func (r *SubscriberRepository) Add(ctx context.Context, sub repository.Subscriber) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(sub.Email)
	if _, exists := r.subs[key]; exists {
		return false, nil
	}
	r.subs[key] = sub
	return true, nil
}
