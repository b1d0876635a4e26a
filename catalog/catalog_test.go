package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsmart/api/models"
)

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text keeps everything",
			text: "",
			want: names(c.All()),
		},
		{
			name: "matches category case-insensitively",
			text: "fASHion",
			want: []string{"Running Shoes - Speed 500", "Minimalist Leather Wallet"},
		},
		{
			name: "matches name substring",
			text: "watch",
			want: []string{"Smart Watch Series 7"},
		},
		{
			name: "name or category",
			text: "fit",
			want: []string{"Yoga Mat & Block Set"},
		},
		{
			name: "no match",
			text: "banana",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(c.Filter(tt.text)))
		})
	}
}

func TestFind(t *testing.T) {
	c := Default()

	p, err := c.Find(4)
	require.NoError(t, err)
	assert.Equal(t, "Running Shoes - Speed 500", p.Name)
	assert.Equal(t, 89.99, p.Price)

	_, err = c.Find(99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAllReturnsCopies(t *testing.T) {
	c := Default()

	all := c.All()
	all[0].Name = "changed"
	all[0].Tags[0] = "changed"

	p, err := c.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Noise Cancelling Headphones", p.Name)
	assert.Equal(t, "audio", p.Tags[0])
}

func TestCategories(t *testing.T) {
	assert.Equal(t,
		[]string{"Electronics", "Furniture", "Groceries", "Fashion", "Fitness"},
		Default().Categories())
}

func TestNewRejectsInvalidProducts(t *testing.T) {
	_, err := New([]models.Product{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}})
	assert.Error(t, err)

	_, err = New([]models.Product{{ID: 1, Name: "a", Price: -1}})
	assert.Error(t, err)

	_, err = New([]models.Product{{ID: 1, Name: " "}})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses built-in catalog", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 8, c.Len())
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := `products:
  - id: 10
    name: Trail Backpack
    category: Fitness
    price: 79.5
    image: https://example.com/bag.png
    tags: [outdoor, travel]
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())

		p, err := c.Find(10)
		require.NoError(t, err)
		assert.Equal(t, "Trail Backpack", p.Name)
		assert.Equal(t, []string{"outdoor", "travel"}, p.Tags)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("no products", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
