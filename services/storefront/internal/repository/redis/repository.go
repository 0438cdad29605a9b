package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

const (
	subscribersSetKey   = "newsletter:subscribers"   // множество email подписчиков
	subscribedAtHashKey = "newsletter:subscribed_at" // email -> время подписки (RFC3339)
)

// StateRepository реализует repository.StateRepository поверх строковых ключей Redis
type StateRepository struct {
	client *redis.Client
	ttl    time.Duration // 0 - без истечения
	logger *zap.Logger
}

// NewStateRepository создаёт Redis репозиторий состояния.
// ttl > 0 продлевается при каждом Save.
func NewStateRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StateRepository {
	return &StateRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Load читает запись по ключу
func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		r.logger.Error("failed to load state from redis", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return data, nil
}

// Save перезаписывает запись (SET key value [EX ttl])
func (r *StateRepository) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("failed to save state to redis", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Delete удаляет запись
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

// SubscriberRepository реализует repository.SubscriberRepository через SADD
type SubscriberRepository struct {
	client *redis.Client
}

// NewSubscriberRepository создаёт Redis репозиторий подписчиков
func NewSubscriberRepository(client *redis.Client) *SubscriberRepository {
	return &SubscriberRepository{client: client}
}

// Add добавляет email в множество; SADD возвращает 0 для уже существующего.
// SADD выполняется последним и служит точкой фиксации: если запись времени
// не удалась, email в множество не попадает и повтор создаст подписку заново.
func (r *SubscriberRepository) Add(ctx context.Context, sub repository.Subscriber) (bool, error) {
	email := strings.ToLower(sub.Email)

	// HSETNX не перетирает время уже существующей подписки
	if err := r.client.HSetNX(ctx, subscribedAtHashKey, email, sub.SubscribedAt.UTC().Format(time.RFC3339)).Err(); err != nil {
		return false, fmt.Errorf("failed to store subscription time: %w", err)
	}

	added, err := r.client.SAdd(ctx, subscribersSetKey, email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add subscriber: %w", err)
	}
	return added == 1, nil
}
