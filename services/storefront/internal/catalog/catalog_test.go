package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 6, c.Len())
	require.Len(t, c.Testimonials(), 6)

	p, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Siamese Supreme", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("26.99")))
	assert.Equal(t, 15, p.Stock)

	_, ok = c.Get(42)
	assert.False(t, ok)
}

func TestCatalog_List(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int
		wantErr error
	}{
		{
			name:    "default sort by rating",
			filter:  Filter{},
			wantIDs: []int{1, 3, 6, 2, 4, 5},
		},
		{
			name:    "all category",
			filter:  Filter{Category: "All", Sort: "rating"},
			wantIDs: []int{1, 3, 6, 2, 4, 5},
		},
		{
			name:    "price low to high",
			filter:  Filter{Sort: "price-low"},
			wantIDs: []int{4, 2, 6, 5, 1, 3},
		},
		{
			name:    "price high to low",
			filter:  Filter{Sort: "price-high"},
			wantIDs: []int{3, 1, 5, 6, 2, 4},
		},
		{
			name:    "name",
			filter:  Filter{Sort: "name"},
			wantIDs: []int{6, 2, 1, 5, 3, 4},
		},
		{
			name:    "category filter",
			filter:  Filter{Category: "Classic"},
			wantIDs: []int{6, 4},
		},
		{
			name:    "query matches origin case-insensitively",
			filter:  Filter{Query: "  KENYA "},
			wantIDs: []int{6},
		},
		{
			name:    "query matches description",
			filter:  Filter{Query: "catnip"},
			wantIDs: []int{1},
		},
		{
			name:    "category and query combined",
			filter:  Filter{Category: "Premium", Query: "e", Sort: "price-low"},
			wantIDs: []int{1, 3},
		},
		{
			name:    "no matches",
			filter:  Filter{Query: "espresso martini"},
			wantIDs: []int{},
		},
		{
			name:    "unknown category",
			filter:  Filter{Category: "Decaf"},
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "unknown sort",
			filter:  Filter{Sort: "popularity"},
			wantErr: ErrUnknownSort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.List(tt.filter)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(res.Products))
			assert.Equal(t, 6, res.Total)
		})
	}
}

func TestNew_Validation(t *testing.T) {
	valid := Product{
		ID:       1,
		Name:     "House Blend",
		Price:    decimal.RequireFromString("10.00"),
		Rating:   4,
		Category: CategoryClassic,
		Roast:    RoastMedium,
		Stock:    1,
	}

	_, err := New([]Product{valid, valid}, nil)
	require.ErrorIs(t, err, ErrDuplicateProduct)

	bad := valid
	bad.Rating = 5.5
	_, err = New([]Product{bad}, nil)
	require.ErrorIs(t, err, ErrInvalidProduct)

	bad = valid
	bad.Stock = -1
	_, err = New([]Product{bad}, nil)
	require.ErrorIs(t, err, ErrInvalidProduct)

	bad = valid
	bad.Roast = "Burnt"
	_, err = New([]Product{bad}, nil)
	require.ErrorIs(t, err, ErrInvalidProduct)
}

func TestParseSort(t *testing.T) {
	key, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortRating, key)

	key, err = ParseSort("price-high")
	require.NoError(t, err)
	assert.Equal(t, SortPriceHigh, key)
}
