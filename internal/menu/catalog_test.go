package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	counts := c.CategoryCounts()
	assert.Equal(t, 8, counts[CategoryBeverage])
	assert.Equal(t, 8, counts[CategoryDessert])
	assert.Equal(t, 8, counts[CategoryMeal])
	assert.Len(t, c.AllNames(), 24)
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Item{
		{Name: "아메리카노", Category: CategoryBeverage, BasePrice: 4500},
		{Name: "아메리카노", Category: CategoryMeal, BasePrice: 9000},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewCatalogRejectsBadItems(t *testing.T) {
	_, err := NewCatalog([]Item{{Name: "", Category: CategoryBeverage, BasePrice: 100}})
	assert.Error(t, err)

	_, err = NewCatalog([]Item{{Name: "커피", Category: CategoryBeverage, BasePrice: 0}})
	assert.Error(t, err)

	_, err = NewCatalog([]Item{{Name: "커피", Category: "간식", BasePrice: 100}})
	assert.Error(t, err)
}

func TestItemPrice(t *testing.T) {
	c := Default()
	it, ok := c.Lookup("아메리카노")
	require.True(t, ok)

	assert.Equal(t, 4500, it.Price(""))
	assert.Equal(t, 4500, it.Price(SizeTall))
	assert.Equal(t, 5000, it.Price(SizeGrande))
	assert.Equal(t, 5500, it.Price(SizeVenti))

	// Items without size options still price by base price only.
	cake, ok := c.Lookup("케이크")
	require.True(t, ok)
	assert.Equal(t, 6000, cake.Price(""))
	assert.False(t, cake.SupportsSize(SizeGrande))
}

func TestItemLookupWithCategory(t *testing.T) {
	c := Default()

	_, ok := c.Item("아메리카노", CategoryBeverage)
	assert.True(t, ok)

	// Right name, wrong category.
	_, ok = c.Item("아메리카노", CategoryMeal)
	assert.False(t, ok)

	_, ok = c.Item("없는메뉴", "")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c := Default()

	results := c.Search("라떼")
	names := make([]string, 0, len(results))
	for _, it := range results {
		names = append(names, it.Name)
	}
	assert.Contains(t, names, "카페라떼")
	assert.Contains(t, names, "바닐라라떼")
	assert.Contains(t, names, "그린티라떼")

	// Description matches count too.
	results = c.Search("에스프레소")
	assert.NotEmpty(t, results)

	assert.Empty(t, c.Search("없는키워드"))
}

func TestAvailableNamesSkipsSoldOut(t *testing.T) {
	c, err := NewCatalog([]Item{
		{Name: "아메리카노", Category: CategoryBeverage, BasePrice: 4500, Available: true},
		{Name: "카페라떼", Category: CategoryBeverage, BasePrice: 5000, Available: false},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"아메리카노"}, c.AvailableNames(CategoryBeverage))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.yaml")
	doc := `menu:
  - name: 아메리카노
    category: 음료
    base_price: 4000
    available: true
    sizes: [Tall, Grande]
    temperatures: [Hot, Ice]
  - name: 쿠키
    category: 디저트
    base_price: 2000
    available: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	it, ok := c.Lookup("아메리카노")
	require.True(t, ok)
	assert.Equal(t, 4000, it.BasePrice)
	assert.True(t, it.SupportsSize(SizeGrande))
	assert.False(t, it.SupportsSize(SizeVenti))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
