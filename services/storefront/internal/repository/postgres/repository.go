package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

// StateRepository реализует repository.StateRepository в таблице storefront_state (JSONB)
type StateRepository struct {
	pool *pgxpool.Pool
}

// NewStateRepository создаёт PostgreSQL репозиторий состояния
func NewStateRepository(pool *pgxpool.Pool) *StateRepository {
	return &StateRepository{pool: pool}
}

// Load читает payload по ключу
func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM storefront_state WHERE storage_key = $1`,
		key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return payload, nil
}

// Save делает upsert записи; updated_at обновляется при каждом сохранении
func (r *StateRepository) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO storefront_state (storage_key, payload, updated_at)
		 VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (storage_key) DO UPDATE SET
		   payload = EXCLUDED.payload,
		   updated_at = EXCLUDED.updated_at`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Delete удаляет запись
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM storefront_state WHERE storage_key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

// SubscriberRepository реализует repository.SubscriberRepository в таблице newsletter_subscribers
type SubscriberRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriberRepository создаёт PostgreSQL репозиторий подписчиков
func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

// Add вставляет подписчика; ON CONFLICT DO NOTHING даёт 0 затронутых строк для дубля
func (r *SubscriberRepository) Add(ctx context.Context, sub repository.Subscriber) (bool, error) {
	subscribedAt := sub.SubscribedAt
	if subscribedAt.IsZero() {
		subscribedAt = time.Now().UTC()
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers (email, subscribed_at)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING`,
		strings.ToLower(sub.Email), subscribedAt)
	if err != nil {
		return false, fmt.Errorf("failed to add subscriber: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
