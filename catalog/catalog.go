package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"shopsmart/api/models"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is an immutable, ordered product list.
type Catalog struct {
	products []models.Product
	byID     map[int]int
}

// New validates products and builds a catalog preserving their order.
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %d has no name", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d has negative price %.2f", p.ID, p.Price)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, cloneProduct(p))
	}
	return c, nil
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	c, err := New(defaultProducts)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// Load reads a YAML catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("catalog file %s lists no products", path)
	}
	return New(f.Products)
}

func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = cloneProduct(p)
	}
	return out
}

func (c *Catalog) Find(id int) (models.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
	}
	return cloneProduct(c.products[i]), nil
}

// Filter keeps products whose name or category contains text, ignoring case.
// Empty text keeps everything.
func (c *Catalog) Filter(text string) []models.Product {
	needle := strings.ToLower(text)
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func cloneProduct(p models.Product) models.Product {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}
