// internal/catalog/generator.go
package catalog

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	mockCategories = []string{"Electronics", "Clothing", "Books", "Home & Garden", "Sports", "Beauty", "Toys", "Automotive"}
	mockBrands     = []string{"Apple", "Samsung", "Nike", "Adidas", "Sony", "LG", "HP", "Dell", "Canon", "Nikon"}
	mockAdjectives = []string{"Premium", "Essential", "Pro", "Deluxe", "Classic", "Modern", "Advanced", "Basic"}
)

// Generate builds count mock products with ids 1..count. The same seed
// always yields the same catalog.
func Generate(count int, seed uint64) []Product {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	products := make([]Product, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		category := mockCategories[r.IntN(len(mockCategories))]
		brand := mockBrands[r.IntN(len(mockBrands))]
		adjective := mockAdjectives[r.IntN(len(mockAdjectives))]
		price := decimal.NewFromInt(int64(r.IntN(500) + 10))
		stock := r.IntN(100)

		name := fmt.Sprintf("%s %s %s", adjective, brand, productNoun(category))
		image := fmt.Sprintf("https://picsum.photos/60/60?random=%d", i)
		products = append(products, NewProduct(int64(i), name, category, price, stock, image))
	}
	return products
}

func productNoun(category string) string {
	if category == "Electronics" {
		return "Device"
	}
	return strings.TrimSuffix(category, "s")
}

// Sample returns the four hand-written products the dashboard was first
// designed around.
func Sample() []Product {
	return []Product{
		NewProduct(1, "Wireless Bluetooth Headphones", "Electronics", decimal.RequireFromString("89.99"), 45,
			"https://m.media-amazon.com/images/I/71v9XWzqQ6L._AC_UF1000,1000_QL80_.jpg"),
		NewProduct(2, "Smartphone Pro Max", "Electronics", decimal.RequireFromString("999.00"), 8,
			"https://m.media-amazon.com/images/I/61L5QgPvgxL._AC_UF1000,1000_QL80_.jpg"),
		NewProduct(3, "Organic Cotton T-Shirt", "Clothing", decimal.RequireFromString("24.99"), 0,
			"https://m.media-amazon.com/images/I/71X8N9n2UIL._AC_UF1000,1000_QL80_.jpg"),
		NewProduct(4, "Stainless Steel Water Bottle", "Home", decimal.RequireFromString("19.95"), 32,
			"https://m.media-amazon.com/images/I/71g2ednj0JL._AC_UF1000,1000_QL80_.jpg"),
	}
}
