package menu

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only menu directory. It is built once at startup and
// safe for concurrent reads without locking.
type Catalog struct {
	byCategory map[Category][]Item
	byName     map[string]Item
	order      []string
}

// NewCatalog builds a catalog from the given items. Item names must be unique
// across all categories.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		byCategory: make(map[Category][]Item),
		byName:     make(map[string]Item),
	}
	for _, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("menu item with empty name")
		}
		if it.BasePrice <= 0 {
			return nil, fmt.Errorf("menu item %q: base price must be positive", it.Name)
		}
		if _, dup := c.byName[it.Name]; dup {
			return nil, fmt.Errorf("duplicate menu item name %q", it.Name)
		}
		switch it.Category {
		case CategoryBeverage, CategoryDessert, CategoryMeal:
		default:
			return nil, fmt.Errorf("menu item %q: unknown category %q", it.Name, it.Category)
		}
		c.byName[it.Name] = it
		c.byCategory[it.Category] = append(c.byCategory[it.Category], it)
		c.order = append(c.order, it.Name)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(defaultItems())
	if err != nil {
		// The built-in data is validated by tests; a failure here is a bug.
		panic(err)
	}
	return c
}

// LoadFile builds a catalog from a YAML file containing a list of items
// under a top-level "menu" key.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	var doc struct {
		Menu []Item `yaml:"menu"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if len(doc.Menu) == 0 {
		return nil, fmt.Errorf("menu file %s contains no items", path)
	}
	return NewCatalog(doc.Menu)
}

// ByCategory returns the items of a category in catalog order.
func (c *Catalog) ByCategory(cat Category) []Item {
	items := c.byCategory[cat]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Item looks up an item by name. When a category is given, the item must
// belong to it. The boolean is false when no such item exists.
func (c *Catalog) Item(name string, cat Category) (Item, bool) {
	it, ok := c.byName[name]
	if !ok {
		return Item{}, false
	}
	if cat != "" && it.Category != cat {
		return Item{}, false
	}
	return it, true
}

// Lookup finds an item by name across all categories.
func (c *Catalog) Lookup(name string) (Item, bool) {
	it, ok := c.byName[name]
	return it, ok
}

// Search returns all items whose name or description contains the keyword,
// case-insensitively, in catalog order.
func (c *Catalog) Search(keyword string) []Item {
	kw := strings.ToLower(keyword)
	var out []Item
	for _, name := range c.order {
		it := c.byName[name]
		if strings.Contains(strings.ToLower(it.Name), kw) ||
			strings.Contains(strings.ToLower(it.Description), kw) {
			out = append(out, it)
		}
	}
	return out
}

// AvailableNames lists the names of in-stock items in a category.
func (c *Catalog) AvailableNames(cat Category) []string {
	var names []string
	for _, it := range c.byCategory[cat] {
		if it.Available {
			names = append(names, it.Name)
		}
	}
	return names
}

// AllNames lists every item name in catalog order.
func (c *Catalog) AllNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// CategoryCounts reports the number of items per category.
func (c *Catalog) CategoryCounts() map[Category]int {
	counts := make(map[Category]int, len(c.byCategory))
	for cat, items := range c.byCategory {
		counts[cat] = len(items)
	}
	return counts
}
