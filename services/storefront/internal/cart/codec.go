package cart

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/omeldon/purrfect-cafe/services/storefront/internal/catalog"
)

// Item позиция корзины: копия товара и выбранное количество (1 ≤ Quantity ≤ Stock)
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Snapshot сохраняемая часть состояния: ровно поля cart и wishlist
type Snapshot struct {
	Cart     []Item `json:"cart"`
	Wishlist []int  `json:"wishlist"`
}

// TotalItems сумма количеств по корзине
func (s Snapshot) TotalItems() int {
	total := 0
	for _, it := range s.Cart {
		total += it.Quantity
	}
	return total
}

// clone глубокая копия; nil слайсы превращаются в пустые
func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Cart:     make([]Item, len(s.Cart)),
		Wishlist: make([]int, len(s.Wishlist)),
	}
	copy(out.Cart, s.Cart)
	copy(out.Wishlist, s.Wishlist)
	return out
}

// Marshal сериализует снимок в формат хранилища
func Marshal(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s.clone())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart state: %w", err)
	}
	return data, nil
}

// Unmarshal разбирает запись хранилища.
// Отсутствующие и неизвестные поля допустимы; позиции, нарушающие
// ограничения корзины, отбрасываются или приводятся к ним.
func Unmarshal(data []byte) (Snapshot, error) {
	var raw Snapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal cart state: %w", err)
	}
	return sanitize(raw), nil
}

func sanitize(raw Snapshot) Snapshot {
	out := Snapshot{
		Cart:     make([]Item, 0, len(raw.Cart)),
		Wishlist: make([]int, 0, len(raw.Wishlist)),
	}

	seen := make(map[int]struct{}, len(raw.Cart))
	for _, it := range raw.Cart {
		if it.ID <= 0 || it.Stock < 0 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		it.Quantity = min(it.Quantity, it.Stock)
		if it.Quantity < 1 {
			continue
		}
		seen[it.ID] = struct{}{}
		out.Cart = append(out.Cart, it)
	}

	for _, id := range raw.Wishlist {
		if !slices.Contains(out.Wishlist, id) {
			out.Wishlist = append(out.Wishlist, id)
		}
	}
	return out
}
