package order

import "cafekiosk/internal/menu"

// ItemRequest is a structured line item as extracted from order text, before
// validation and pricing. Size and Temperature are empty when unspecified.
type ItemRequest struct {
	Menu        string   `json:"menu"`
	Quantity    int      `json:"quantity"`
	Size        string   `json:"size,omitempty"`
	Temperature string   `json:"temperature,omitempty"`
	Options     []string `json:"options"`
}

// Flat surcharge per extra option, in won.
const optionSurcharge = 500

// Item is a priced order line. Subtotal is recomputed whenever quantity,
// size, or options change.
type Item struct {
	MenuName    string                 `json:"menu_name"`
	Quantity    int                    `json:"quantity"`
	Category    menu.Category          `json:"category"`
	BasePrice   int                    `json:"base_price"`
	Size        menu.SizeOption        `json:"size,omitempty"`
	Temperature menu.TemperatureOption `json:"temperature,omitempty"`
	Options     []string               `json:"options"`
	Subtotal    int                    `json:"subtotal"`
}

// NewItem builds a priced line item from a catalog entry.
func NewItem(mi menu.Item, quantity int, size menu.SizeOption, temp menu.TemperatureOption, options []string) Item {
	it := Item{
		MenuName:    mi.Name,
		Quantity:    quantity,
		Category:    mi.Category,
		BasePrice:   mi.BasePrice,
		Size:        size,
		Temperature: temp,
		Options:     options,
	}
	it.recalc(mi)
	return it
}

// recalc applies subtotal = (unit price for size + option surcharges) x quantity.
func (it *Item) recalc(mi menu.Item) {
	unit := mi.Price(it.Size)
	unit += optionSurcharge * len(it.Options)
	it.Subtotal = unit * it.Quantity
}
