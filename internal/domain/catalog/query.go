package catalog

import (
	"slices"
	"strings"
)

// Result is the visible product list for a set of criteria
type Result struct {
	Products      []Product      `json:"products"`
	ActiveFilters []ActiveFilter `json:"active_filters"`
	Count         int            `json:"count"`
}

// Query narrows the catalog by search text, category, size, color and
// price, in that order, then sorts. An empty result is not an error.
func (c *Catalog) Query(cr Criteria) Result {
	products := c.All()

	if cr.Search != "" {
		needle := strings.ToLower(cr.Search)
		products = filter(products, func(p Product) bool {
			return strings.Contains(strings.ToLower(p.Name), needle)
		})
	}

	if len(cr.Categories) > 0 {
		selected := make(map[string]struct{}, len(cr.Categories))
		for _, cat := range cr.Categories {
			selected[strings.ToLower(cat)] = struct{}{}
		}
		products = filter(products, func(p Product) bool {
			_, ok := selected[p.Category]
			return ok
		})
	}

	if len(cr.Sizes) > 0 {
		products = filter(products, func(p Product) bool {
			return intersects(p.Sizes, cr.Sizes)
		})
	}

	if len(cr.Colors) > 0 {
		products = filter(products, func(p Product) bool {
			return intersects(p.Colors, cr.Colors)
		})
	}

	products = filter(products, func(p Product) bool {
		return cr.Price.Contains(p.Price)
	})

	switch cr.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortNewest:
		// no timestamps on products; reverse seeding order stands in for recency
		slices.Reverse(products)
	}

	return Result{
		Products:      products,
		ActiveFilters: cr.ActiveFilters(),
		Count:         len(products),
	}
}

func filter(products []Product, keep func(Product) bool) []Product {
	out := products[:0]
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}
