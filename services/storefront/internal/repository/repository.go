package repository

import (
	"context"
	"errors"
	"time"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=StateRepository --dir=. --output=./mocks --outpkg=mocks

// StateRepository хранит сериализованное состояние корзины/вишлиста.
// Одна запись на ключ (STORAGE_KEY:session_id), значение непрозрачно для хранилища.
type StateRepository interface {
	// Load возвращает сохранённую запись; ErrNotFound если её нет
	Load(ctx context.Context, key string) ([]byte, error)

	// Save перезаписывает запись целиком
	Save(ctx context.Context, key string, data []byte) error

	// Delete удаляет запись; отсутствие записи не ошибка
	Delete(ctx context.Context, key string) error
}

// Subscriber подписчик рассылки
type Subscriber struct {
	Email        string
	SubscribedAt time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=SubscriberRepository --dir=. --output=./mocks --outpkg=mocks

// SubscriberRepository хранит подписчиков рассылки
type SubscriberRepository interface {
	// Add сохраняет подписчика; created == false если email уже был подписан
	Add(ctx context.Context, sub Subscriber) (created bool, err error)
}

// ErrNotFound возвращается, когда запись состояния не найдена
var ErrNotFound = errors.New("state not found")
