package service

import (
	"context"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
)

// CartStores выдаёт store корзины по session id (cart.Registry)
type CartStores interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CheckoutPublisher --dir=. --output=./mocks --outpkg=mocks

// CheckoutPublisher публикует событие оформленного заказа
type CheckoutPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, order Order) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Mailer --dir=. --output=./mocks --outpkg=mocks

// Mailer отправляет письма подписчикам рассылки
type Mailer interface {
	SendWelcome(ctx context.Context, email string) error
}
