package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// ParseSortKey maps unknown keys to SortFeatured
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortPriceAsc, SortPriceDesc:
		return k
	default:
		return SortFeatured
	}
}

var ErrInvalidPrice = errors.New("invalid price range")

// PriceRange is inclusive on both ends. The zero PriceRange stands for
// DefaultPriceRange, so Criteria{} selects the full catalog.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// DefaultPriceRange covers the whole catalog
var DefaultPriceRange = PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(200)}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	r = r.orDefault()
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

func (r PriceRange) IsDefault() bool {
	r = r.orDefault()
	return r.Min.Equal(DefaultPriceRange.Min) && r.Max.Equal(DefaultPriceRange.Max)
}

func (r PriceRange) orDefault() PriceRange {
	if r.Min.IsZero() && r.Max.IsZero() {
		return DefaultPriceRange
	}
	return r
}

// Label renders the range the way the active filter badge shows it
func (r PriceRange) Label() string {
	return fmt.Sprintf("$%s-$%s", r.Min.String(), r.Max.String())
}

// Criteria is the transient filter state behind a product listing
type Criteria struct {
	Search     string     `json:"search,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Sizes      []string   `json:"sizes,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	Price      PriceRange `json:"price"`
	Sort       SortKey    `json:"sort,omitempty"`
}

// DefaultCriteria selects nothing: the full catalog in featured order
func DefaultCriteria() Criteria {
	return Criteria{Price: DefaultPriceRange, Sort: SortFeatured}
}

// ParseCriteria reads criteria from URL query parameters.
// search and category come from storefront links; size, color,
// min_price, max_price and sort are accepted from API clients.
func ParseCriteria(v url.Values) (Criteria, error) {
	c := DefaultCriteria()
	c.Search = v.Get("search")
	for _, cat := range v["category"] {
		if cat = strings.ToLower(strings.TrimSpace(cat)); cat != "" {
			c.Categories = appendUnique(c.Categories, cat)
		}
	}
	for _, s := range v["size"] {
		if s != "" {
			c.Sizes = appendUnique(c.Sizes, s)
		}
	}
	for _, col := range v["color"] {
		if col != "" {
			c.Colors = appendUnique(c.Colors, col)
		}
	}
	if s := v.Get("min_price"); s != "" {
		min, err := decimal.NewFromString(s)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: min_price %q", ErrInvalidPrice, s)
		}
		c.Price.Min = min
	}
	if s := v.Get("max_price"); s != "" {
		max, err := decimal.NewFromString(s)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: max_price %q", ErrInvalidPrice, s)
		}
		c.Price.Max = max
	}
	if c.Price.Min.GreaterThan(c.Price.Max) {
		return Criteria{}, fmt.Errorf("%w: min %s exceeds max %s", ErrInvalidPrice, c.Price.Min, c.Price.Max)
	}
	c.Sort = ParseSortKey(v.Get("sort"))
	return c, nil
}

func (c Criteria) ToggleCategory(category string) Criteria {
	c.Categories = toggle(c.Categories, strings.ToLower(category))
	return c
}

func (c Criteria) ToggleSize(size string) Criteria {
	c.Sizes = toggle(c.Sizes, size)
	return c
}

func (c Criteria) ToggleColor(color string) Criteria {
	c.Colors = toggle(c.Colors, color)
	return c
}

// ClearAll resets every user-selected filter and the sort order.
// The search text is kept since it comes from the URL.
func (c Criteria) ClearAll() Criteria {
	cleared := DefaultCriteria()
	cleared.Search = c.Search
	return cleared
}

type FilterKind string

const (
	FilterCategory FilterKind = "category"
	FilterSize     FilterKind = "size"
	FilterColor    FilterKind = "color"
	FilterPrice    FilterKind = "price"
)

// ActiveFilter is one removable badge describing an applied criterion
type ActiveFilter struct {
	Kind  FilterKind `json:"kind"`
	Value string     `json:"value"`
	Label string     `json:"label"`
}

// ActiveFilters lists categories, sizes and colors in selection order,
// followed by the price range when it differs from the default.
func (c Criteria) ActiveFilters() []ActiveFilter {
	filters := make([]ActiveFilter, 0, len(c.Categories)+len(c.Sizes)+len(c.Colors)+1)
	for _, cat := range c.Categories {
		filters = append(filters, ActiveFilter{Kind: FilterCategory, Value: cat, Label: cat})
	}
	for _, s := range c.Sizes {
		filters = append(filters, ActiveFilter{Kind: FilterSize, Value: s, Label: s})
	}
	for _, col := range c.Colors {
		filters = append(filters, ActiveFilter{Kind: FilterColor, Value: col, Label: col})
	}
	if !c.Price.IsDefault() {
		label := c.Price.Label()
		filters = append(filters, ActiveFilter{Kind: FilterPrice, Value: label, Label: label})
	}
	return filters
}

// Remove clears the criterion behind an active filter badge
func (c Criteria) Remove(f ActiveFilter) Criteria {
	switch f.Kind {
	case FilterCategory:
		c.Categories = without(c.Categories, f.Value)
	case FilterSize:
		c.Sizes = without(c.Sizes, f.Value)
	case FilterColor:
		c.Colors = without(c.Colors, f.Value)
	case FilterPrice:
		c.Price = DefaultPriceRange
	}
	return c
}

func toggle(values []string, v string) []string {
	if contains(values, v) {
		return without(values, v)
	}
	out := make([]string, 0, len(values)+1)
	out = append(out, values...)
	return append(out, v)
}

func without(values []string, v string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func appendUnique(values []string, v string) []string {
	if contains(values, v) {
		return values
	}
	return append(values, v)
}
