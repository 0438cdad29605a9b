package service

import "errors"

var (
	// ErrSessionRequired запрос без session id
	ErrSessionRequired = errors.New("session id is required")
	// ErrProductNotFound товара нет в каталоге
	ErrProductNotFound = errors.New("product not found")
	// ErrEmptyCart оформление пустой корзины
	ErrEmptyCart = errors.New("cart is empty")
	// ErrEmailRequired пустой email в подписке
	ErrEmailRequired = errors.New("please enter your email address")
	// ErrInvalidEmail email без "@"
	ErrInvalidEmail = errors.New("please enter a valid email address")
)
