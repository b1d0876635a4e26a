package catalog

import "shopsmart/api/models"

var defaultProducts = []models.Product{
	{
		ID:       1,
		Name:     "Wireless Noise Cancelling Headphones",
		Category: "Electronics",
		Price:    299.99,
		Image:    "https://picsum.photos/400/400?random=1",
		Tags:     []string{"audio", "travel", "tech", "premium"},
	},
	{
		ID:       2,
		Name:     "Ergonomic Office Chair",
		Category: "Furniture",
		Price:    159.50,
		Image:    "https://picsum.photos/400/400?random=2",
		Tags:     []string{"comfort", "work", "home office"},
	},
	{
		ID:       3,
		Name:     "Organic Green Tea Set",
		Category: "Groceries",
		Price:    24.99,
		Image:    "https://picsum.photos/400/400?random=3",
		Tags:     []string{"health", "wellness", "drink"},
	},
	{
		ID:       4,
		Name:     "Running Shoes - Speed 500",
		Category: "Fashion",
		Price:    89.99,
		Image:    "https://picsum.photos/400/400?random=4",
		Tags:     []string{"sport", "fitness", "clothing"},
	},
	{
		ID:       5,
		Name:     "Smart Watch Series 7",
		Category: "Electronics",
		Price:    349.00,
		Image:    "https://picsum.photos/400/400?random=5",
		Tags:     []string{"tech", "fitness", "tracking"},
	},
	{
		ID:       6,
		Name:     "Minimalist Leather Wallet",
		Category: "Fashion",
		Price:    45.00,
		Image:    "https://picsum.photos/400/400?random=6",
		Tags:     []string{"accessory", "luxury", "gift"},
	},
	{
		ID:       7,
		Name:     "4K Gaming Monitor",
		Category: "Electronics",
		Price:    450.00,
		Image:    "https://picsum.photos/400/400?random=7",
		Tags:     []string{"gaming", "tech", "visual"},
	},
	{
		ID:       8,
		Name:     "Yoga Mat & Block Set",
		Category: "Fitness",
		Price:    35.00,
		Image:    "https://picsum.photos/400/400?random=8",
		Tags:     []string{"health", "exercise", "hobby"},
	},
}
