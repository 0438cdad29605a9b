package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/repository"
)

const (
	stateCollection       = "storefront_state"
	subscribersCollection = "newsletter_subscribers"
)

// StateDocument документ состояния корзины; payload хранится как JSON строка
type StateDocument struct {
	Key       string    `bson:"storage_key"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SubscriberDocument документ подписчика
type SubscriberDocument struct {
	Email        string    `bson:"email"`
	SubscribedAt time.Time `bson:"subscribed_at"`
}

// StateRepository реализует repository.StateRepository используя MongoDB
type StateRepository struct {
	col *mongo.Collection
}

// NewStateRepository создаёт MongoDB репозиторий состояния.
// Создаёт уникальный индекс на storage_key.
func NewStateRepository(ctx context.Context, client *mongo.Client, dbName string) (*StateRepository, error) {
	col := client.Database(dbName).Collection(stateCollection)
	if err := ensureUniqueIndex(ctx, col, "storage_key"); err != nil {
		return nil, err
	}
	return &StateRepository{col: col}, nil
}

// Load читает payload по ключу
func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var doc StateDocument
	err := r.col.FindOne(ctx, bson.M{"storage_key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return []byte(doc.Payload), nil
}

// Save заменяет документ целиком (upsert)
func (r *StateRepository) Save(ctx context.Context, key string, data []byte) error {
	doc := StateDocument{
		Key:       key,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"storage_key": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Delete удаляет документ
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"storage_key": key}); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

// SubscriberRepository реализует repository.SubscriberRepository используя MongoDB
type SubscriberRepository struct {
	col *mongo.Collection
}

// NewSubscriberRepository создаёт MongoDB репозиторий подписчиков с уникальным индексом на email
func NewSubscriberRepository(ctx context.Context, client *mongo.Client, dbName string) (*SubscriberRepository, error) {
	col := client.Database(dbName).Collection(subscribersCollection)
	if err := ensureUniqueIndex(ctx, col, "email"); err != nil {
		return nil, err
	}
	return &SubscriberRepository{col: col}, nil
}

// Add вставляет документ только если email ещё нет ($setOnInsert + upsert)
func (r *SubscriberRepository) Add(ctx context.Context, sub repository.Subscriber) (bool, error) {
	email := strings.ToLower(sub.Email)
	update := bson.M{
		"$setOnInsert": SubscriberDocument{Email: email, SubscribedAt: sub.SubscribedAt.UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to add subscriber: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

func ensureUniqueIndex(ctx context.Context, col *mongo.Collection, field string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s.%s: %w", col.Name(), field, err)
	}
	return nil
}
