package catalog

import "github.com/shopspring/decimal"

const placeholderImage = "/placeholder.svg?height=600&width=400"

// SeedProducts returns the storefront's sample catalog
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Neon Dreams Tee", Price: usd("89.99"), Image: placeholderImage, Badge: "New", Category: CategoryTShirts,
			Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Black", "White", "Red"}},
		{ID: 2, Name: "Urban Flux Oversized", Price: usd("99.99"), Image: placeholderImage, Badge: "Bestseller", Category: CategoryTShirts,
			Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Black", "Gray"}},
		{ID: 3, Name: "Midnight Haze Tee", Price: usd("79.99"), Image: placeholderImage, Category: CategoryTShirts,
			Sizes: []string{"S", "M", "L"}, Colors: []string{"Black", "Blue"}},
		{ID: 4, Name: "Digital Nomad Tee", Price: usd("89.99"), Image: placeholderImage, Badge: "Limited", Category: CategoryTShirts,
			Sizes: []string{"M", "L", "XL"}, Colors: []string{"White", "Gray"}},
		{ID: 5, Name: "Cyber Punk Hoodie", Price: usd("129.99"), Image: placeholderImage, Category: CategoryHoodies,
			Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Black", "Red"}},
		{ID: 6, Name: "Retro Wave Jacket", Price: usd("149.99"), Image: placeholderImage, Badge: "Sale", Category: CategoryJackets,
			Sizes: []string{"S", "M", "L"}, Colors: []string{"Blue", "Black"}},
		{ID: 7, Name: "Future Fade Tee", Price: usd("69.99"), Image: placeholderImage, Category: CategoryTShirts,
			Sizes: []string{"XS", "S", "M", "L", "XL"}, Colors: []string{"White", "Gray", "Black"}},
		{ID: 8, Name: "Neon Lights Sweatshirt", Price: usd("119.99"), Image: placeholderImage, Category: CategoryHoodies,
			Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Black", "Gray"}},
		{ID: 9, Name: "Urban Stealth Tee", Price: usd("79.99"), Image: placeholderImage, Category: CategoryTShirts,
			Sizes: []string{"S", "M", "L"}, Colors: []string{"Black", "White"}},
		{ID: 10, Name: "Glitch Art Hoodie", Price: usd("139.99"), Image: placeholderImage, Badge: "Limited", Category: CategoryHoodies,
			Sizes: []string{"M", "L", "XL"}, Colors: []string{"Black", "Red"}},
		{ID: 11, Name: "Synthwave Tee", Price: usd("84.99"), Image: placeholderImage, Category: CategoryTShirts,
			Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Purple", "Black"}},
		{ID: 12, Name: "Dystopian Dreams Jacket", Price: usd("159.99"), Image: placeholderImage, Category: CategoryJackets,
			Sizes: []string{"S", "M", "L"}, Colors: []string{"Black", "Gray"}},
	}
}

// Seed builds the sample catalog
func Seed() *Catalog {
	c, err := New(SeedProducts())
	if err != nil {
		panic(err)
	}
	return c
}

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
