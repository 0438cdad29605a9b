package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey порядок выдачи меню
type SortKey string

const (
	SortRating    SortKey = "rating"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// allCategories значение фильтра "без фильтра"
const allCategories = "All"

// CategoryFilters значения фильтра меню: "All" и категории в порядке отображения
func CategoryFilters() []string {
	filters := make([]string, 0, len(Categories)+1)
	filters = append(filters, allCategories)
	for _, c := range Categories {
		filters = append(filters, string(c))
	}
	return filters
}

var (
	// ErrUnknownCategory фильтр по категории вне фиксированного набора
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownSort неизвестный ключ сортировки
	ErrUnknownSort = errors.New("unknown sort key")
	// ErrDuplicateProduct два товара с одним id
	ErrDuplicateProduct = errors.New("duplicate product id")
)

// Filter параметры выдачи меню.
// Пустые поля означают: все категории, без поиска, сортировка по рейтингу.
type Filter struct {
	Category string
	Query    string
	Sort     string
}

// ListResult выдача меню; Total размер всего каталога ("Showing N of M")
type ListResult struct {
	Products []Product
	Total    int
}

// Catalog неизменяемый каталог товаров и отзывов
type Catalog struct {
	products     []Product
	byID         map[int]int
	testimonials []Testimonial
}

// New проверяет товары и строит каталог
func New(products []Product, testimonials []Testimonial) (*Catalog, error) {
	c := &Catalog{
		products:     make([]Product, 0, len(products)),
		byID:         make(map[int]int, len(products)),
		testimonials: slices.Clone(testimonials),
	}
	for _, p := range products {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Default каталог кофейни
func Default() *Catalog {
	c, err := New(coffeeProducts(), defaultTestimonials())
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Get возвращает товар по id
func (c *Catalog) Get(id int) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Len количество товаров
func (c *Catalog) Len() int {
	return len(c.products)
}

// Testimonials отзывы гостей
func (c *Catalog) Testimonials() []Testimonial {
	return slices.Clone(c.testimonials)
}

// List фильтрует и сортирует меню
func (c *Catalog) List(f Filter) (ListResult, error) {
	sortKey, err := ParseSort(f.Sort)
	if err != nil {
		return ListResult{}, err
	}

	category := Category(strings.TrimSpace(f.Category))
	anyCategory := category == "" || category == allCategories
	if !anyCategory && !category.Valid() {
		return ListResult{}, fmt.Errorf("%w: %q", ErrUnknownCategory, f.Category)
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if !anyCategory && p.Category != category {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, sortKey)

	return ListResult{Products: out, Total: len(c.products)}, nil
}

// ParseSort разбирает ключ сортировки; пустая строка означает сортировку по рейтингу
func ParseSort(s string) (SortKey, error) {
	switch key := SortKey(strings.TrimSpace(s)); key {
	case "":
		return SortRating, nil
	case SortRating, SortPriceLow, SortPriceHigh, SortName:
		return key, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// matches поиск по имени, описанию и происхождению; query уже в нижнем регистре
func matches(p Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Origin), query)
}

func sortProducts(products []Product, key SortKey) {
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(products, func(a, b Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	case SortName:
		// Collator не потокобезопасен, поэтому новый на каждый вызов
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(products, func(a, b Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}
