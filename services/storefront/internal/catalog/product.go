package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category линейка кофе
type Category string

const (
	CategoryPremium   Category = "Premium"
	CategorySignature Category = "Signature"
	CategoryClassic   Category = "Classic"
)

// Roast степень обжарки
type Roast string

const (
	RoastLight      Roast = "Light"
	RoastMedium     Roast = "Medium"
	RoastMediumDark Roast = "Medium-Dark"
	RoastDark       Roast = "Dark"
)

// Categories все известные категории в порядке отображения
var Categories = []Category{CategoryPremium, CategorySignature, CategoryClassic}

// Valid сообщает, входит ли категория в фиксированный набор
func (c Category) Valid() bool {
	switch c {
	case CategoryPremium, CategorySignature, CategoryClassic:
		return true
	}
	return false
}

// Valid сообщает, входит ли обжарка в фиксированный набор
func (r Roast) Valid() bool {
	switch r {
	case RoastLight, RoastMedium, RoastMediumDark, RoastDark:
		return true
	}
	return false
}

// Product товар каталога. Каталог только читается, корзина хранит копии.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	CatImage    string          `json:"catImage"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Category    Category        `json:"category"`
	Roast       Roast           `json:"roast"`
	Origin      string          `json:"origin"`
	IsNew       bool            `json:"isNew"`
	Stock       int             `json:"stock"`
}

// ErrInvalidProduct возвращается Validate для товара с нарушенными ограничениями
var ErrInvalidProduct = errors.New("invalid product")

// Validate проверяет ограничения модели товара
func Validate(p Product) error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidProduct, p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must be non-negative, got %s", ErrInvalidProduct, p.Price)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: rating must be in [0,5], got %v", ErrInvalidProduct, p.Rating)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must be non-negative, got %d", ErrInvalidProduct, p.Stock)
	case !p.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	case !p.Roast.Valid():
		return fmt.Errorf("%w: unknown roast %q", ErrInvalidProduct, p.Roast)
	}
	return nil
}

// lowStockThreshold остаток, при котором витрина предупреждает "Only N left"
const lowStockThreshold = 5

// InStock есть ли товар в наличии
func (p Product) InStock() bool {
	return p.Stock > 0
}

// LowStock мало товара, но он ещё есть
func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock <= lowStockThreshold
}
