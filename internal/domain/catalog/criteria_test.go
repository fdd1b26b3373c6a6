package catalog

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"featured", SortFeatured},
		{"newest", SortNewest},
		{"price-asc", SortPriceAsc},
		{"PRICE-DESC", SortPriceDesc},
		{"", SortFeatured},
		{"popularity", SortFeatured},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSortKey(tt.in))
		})
	}
}

func TestParseCriteria_Empty(t *testing.T) {
	cr, err := ParseCriteria(url.Values{})

	require.NoError(t, err)
	assert.Equal(t, DefaultCriteria(), cr)
}

func TestParseCriteria_StorefrontParams(t *testing.T) {
	cr, err := ParseCriteria(url.Values{
		"search":   {"Neon"},
		"category": {"Hoodies"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Neon", cr.Search)
	assert.Equal(t, []string{"hoodies"}, cr.Categories)
}

func TestParseCriteria_APIParams(t *testing.T) {
	cr, err := ParseCriteria(url.Values{
		"size":      {"M", "L", "M"},
		"color":     {"Black"},
		"min_price": {"50"},
		"max_price": {"150.5"},
		"sort":      {"price-desc"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"M", "L"}, cr.Sizes)
	assert.Equal(t, []string{"Black"}, cr.Colors)
	assert.True(t, cr.Price.Min.Equal(decimal.NewFromInt(50)))
	assert.True(t, cr.Price.Max.Equal(decimal.RequireFromString("150.5")))
	assert.Equal(t, SortPriceDesc, cr.Sort)
}

func TestParseCriteria_InvalidPrice(t *testing.T) {
	tests := []struct {
		name string
		v    url.Values
	}{
		{"bad min", url.Values{"min_price": {"cheap"}}},
		{"bad max", url.Values{"max_price": {"$$"}}},
		{"min above max", url.Values{"min_price": {"150"}, "max_price": {"100"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriteria(tt.v)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}

func TestCriteria_Toggle(t *testing.T) {
	cr := DefaultCriteria().
		ToggleCategory("T-Shirts").
		ToggleSize("M").
		ToggleSize("L").
		ToggleColor("Black")

	assert.Equal(t, []string{"t-shirts"}, cr.Categories)
	assert.Equal(t, []string{"M", "L"}, cr.Sizes)
	assert.Equal(t, []string{"Black"}, cr.Colors)

	cr = cr.ToggleSize("M").ToggleColor("Black")
	assert.Equal(t, []string{"L"}, cr.Sizes)
	assert.Empty(t, cr.Colors)
}

func TestCriteria_ToggleDoesNotAlias(t *testing.T) {
	base := DefaultCriteria().ToggleSize("S")
	a := base.ToggleSize("M")
	b := base.ToggleSize("L")

	assert.Equal(t, []string{"S"}, base.Sizes)
	assert.Equal(t, []string{"S", "M"}, a.Sizes)
	assert.Equal(t, []string{"S", "L"}, b.Sizes)
}

func TestCriteria_ActiveFilters(t *testing.T) {
	cr := DefaultCriteria().
		ToggleCategory("hoodies").
		ToggleSize("XL").
		ToggleColor("Red").
		ToggleColor("Black")
	cr.Price = PriceRange{Min: decimal.NewFromInt(20), Max: decimal.NewFromInt(150)}

	want := []ActiveFilter{
		{Kind: FilterCategory, Value: "hoodies", Label: "hoodies"},
		{Kind: FilterSize, Value: "XL", Label: "XL"},
		{Kind: FilterColor, Value: "Red", Label: "Red"},
		{Kind: FilterColor, Value: "Black", Label: "Black"},
		{Kind: FilterPrice, Value: "$20-$150", Label: "$20-$150"},
	}
	assert.Equal(t, want, cr.ActiveFilters())
}

func TestCriteria_ActiveFiltersSearchAndSortNotBadged(t *testing.T) {
	cr := DefaultCriteria()
	cr.Search = "tee"
	cr.Sort = SortNewest

	assert.Empty(t, cr.ActiveFilters())
}

func TestCriteria_RemoveEachFilter(t *testing.T) {
	cr := DefaultCriteria().ToggleCategory("jackets").ToggleSize("S").ToggleColor("Blue")
	cr.Price = PriceRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(200)}

	for _, f := range cr.ActiveFilters() {
		cr = cr.Remove(f)
	}

	assert.Empty(t, cr.ActiveFilters())
	assert.True(t, cr.Price.IsDefault())
}

func TestCriteria_ClearAll(t *testing.T) {
	cr := DefaultCriteria().ToggleCategory("jackets").ToggleSize("S")
	cr.Search = "wave"
	cr.Sort = SortPriceAsc
	cr.Price = PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(20)}

	cleared := cr.ClearAll()

	want := DefaultCriteria()
	want.Search = "wave"
	assert.Equal(t, want, cleared)
}

func TestPriceRange(t *testing.T) {
	r := PriceRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(200)}

	assert.True(t, r.Contains(decimal.NewFromInt(100)))
	assert.True(t, r.Contains(decimal.NewFromInt(200)))
	assert.False(t, r.Contains(decimal.RequireFromString("99.99")))
	assert.False(t, r.IsDefault())
	assert.True(t, DefaultPriceRange.IsDefault())
	assert.Equal(t, "$0-$200", DefaultPriceRange.Label())
}
