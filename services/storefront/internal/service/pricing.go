package service

import (
	"github.com/shopspring/decimal"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/cart"
)

// ShippingPolicy правила доставки: бесплатно при сумме строго больше порога
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

// DefaultShippingPolicy бесплатная доставка от 50, иначе 4.99
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(50),
		Fee:           decimal.RequireFromString("4.99"),
	}
}

// Quote итог корзины
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	// FreeShippingRemaining сколько осталось до бесплатной доставки; 0 если подсказка не нужна
	FreeShippingRemaining decimal.Decimal
}

// Quote считает доставку и итог для суммы subtotal.
// Для пустой корзины все суммы нулевые.
func (p ShippingPolicy) Quote(subtotal decimal.Decimal) Quote {
	q := Quote{
		Subtotal:              subtotal,
		Shipping:              decimal.Zero,
		FreeShippingRemaining: decimal.Zero,
	}
	if !subtotal.IsPositive() {
		q.Total = subtotal
		return q
	}

	if !subtotal.GreaterThan(p.FreeThreshold) {
		q.Shipping = p.Fee
	}
	if subtotal.LessThan(p.FreeThreshold) {
		q.FreeShippingRemaining = p.FreeThreshold.Sub(subtotal)
	}
	q.Total = subtotal.Add(q.Shipping)
	return q
}

// subtotal сумма price × quantity по позициям снимка
func subtotal(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(lineTotal(it))
	}
	return total
}

func lineTotal(it cart.Item) decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
