package menu

// Category partitions the menu for routing and filtering.
type Category string

const (
	CategoryBeverage Category = "음료"
	CategoryDessert  Category = "디저트"
	CategoryMeal     Category = "식사"
)

// Categories lists all menu categories in catalog order.
func Categories() []Category {
	return []Category{CategoryBeverage, CategoryDessert, CategoryMeal}
}

// SizeOption is a cup size for items that support sizing.
type SizeOption string

const (
	SizeTall   SizeOption = "Tall"
	SizeGrande SizeOption = "Grande"
	SizeVenti  SizeOption = "Venti"
)

// TemperatureOption is the serving temperature for items that support it.
type TemperatureOption string

const (
	TemperatureHot TemperatureOption = "Hot"
	TemperatureIce TemperatureOption = "Ice"
)

// Size surcharges in won, applied on top of the base price.
const (
	grandeSurcharge = 500
	ventiSurcharge  = 1000
)

// Item is a single menu entry. Items are loaded once at startup and never
// mutated afterwards; names are unique across the whole catalog.
type Item struct {
	Name         string              `yaml:"name"`
	Category     Category            `yaml:"category"`
	BasePrice    int                 `yaml:"base_price"`
	Description  string              `yaml:"description"`
	Available    bool                `yaml:"available"`
	Sizes        []SizeOption        `yaml:"sizes,omitempty"`
	Temperatures []TemperatureOption `yaml:"temperatures,omitempty"`
	ExtraOptions []string            `yaml:"extra_options,omitempty"`
}

// Price returns the item price for the given size. The surcharge is a fixed
// delta per size; Tall or no size costs the base price.
func (it Item) Price(size SizeOption) int {
	switch size {
	case SizeGrande:
		return it.BasePrice + grandeSurcharge
	case SizeVenti:
		return it.BasePrice + ventiSurcharge
	default:
		return it.BasePrice
	}
}

// SupportsSize reports whether the item offers the given size option.
func (it Item) SupportsSize(size SizeOption) bool {
	for _, s := range it.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// SupportsTemperature reports whether the item offers the given temperature.
func (it Item) SupportsTemperature(temp TemperatureOption) bool {
	for _, t := range it.Temperatures {
		if t == temp {
			return true
		}
	}
	return false
}
