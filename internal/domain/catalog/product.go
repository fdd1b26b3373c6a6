package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category slugs
const (
	CategoryTShirts     = "t-shirts"
	CategoryHoodies     = "hoodies"
	CategoryJackets     = "jackets"
	CategoryAccessories = "accessories"
)

// Categories lists the taxonomy in display order
var Categories = []string{CategoryTShirts, CategoryHoodies, CategoryJackets, CategoryAccessories}

// Sizes and Colors are the filter options offered by the storefront
var (
	Sizes  = []string{"XS", "S", "M", "L", "XL", "XXL"}
	Colors = []string{"Black", "White", "Gray", "Red", "Blue", "Purple"}
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateID     = errors.New("duplicate product id")
	ErrInvalidID       = errors.New("product id must be positive")
	ErrNegativePrice   = errors.New("price must not be negative")
)

type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Badge    string          `json:"badge,omitempty"`
	Category string          `json:"category"`
	Sizes    []string        `json:"sizes,omitempty"`
	Colors   []string        `json:"colors,omitempty"`
}

// OneSize reports whether the product is sold without a size choice
func (p Product) OneSize() bool {
	return len(p.Sizes) == 0
}

// HasSize reports whether size is offered for the product
func (p Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

// HasColor reports whether color is offered for the product
func (p Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

// Catalog is an immutable, id-ordered product list
type Catalog struct {
	products []Product
	byID     map[int]int
}

// New builds a catalog, keeping the given order
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidID, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %d", ErrNegativePrice, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		p.Category = strings.ToLower(p.Category)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// All returns a copy of every product in catalog order
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Get looks a product up by id
func (c *Catalog) Get(id int) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// Related returns up to n products other than id, in catalog order
func (c *Catalog) Related(id, n int) []Product {
	related := make([]Product, 0, n)
	for _, p := range c.products {
		if len(related) == n {
			break
		}
		if p.ID != id {
			related = append(related, p)
		}
	}
	return related
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
