package validate

import (
	"fmt"
	"strings"

	"cafekiosk/internal/menu"
	"cafekiosk/internal/order"
)

// Error codes for item-level rejections.
const (
	CodeNoItems          = "no_items"
	CodeMenuMissing      = "menu_missing"
	CodeMenuNotFound     = "menu_not_found"
	CodeMenuUnavailable  = "menu_unavailable"
	CodeInvalidQuantity  = "invalid_quantity"
	CodeQuantityTooLarge = "quantity_too_large"
	CodeInvalidSize      = "invalid_size"
	CodeSizeNotOffered   = "size_not_available"
	CodeInvalidTemp      = "invalid_temperature"
	CodeTempNotOffered   = "temperature_not_available"
)

const (
	minQuantity = 1
	maxQuantity = 99
)

var sizeAliases = map[string]menu.SizeOption{
	"톨":      menu.SizeTall,
	"tall":   menu.SizeTall,
	"그란데":    menu.SizeGrande,
	"grande": menu.SizeGrande,
	"벤티":     menu.SizeVenti,
	"venti":  menu.SizeVenti,
}

var temperatureAliases = map[string]menu.TemperatureOption{
	"뜨거운":  menu.TemperatureHot,
	"핫":    menu.TemperatureHot,
	"hot":  menu.TemperatureHot,
	"차가운":  menu.TemperatureIce,
	"아이스":  menu.TemperatureIce,
	"ice":  menu.TemperatureIce,
	"iced": menu.TemperatureIce,
}

// NormalizeSize resolves a spoken or English size label to its canonical
// option. The boolean is false for unrecognized labels.
func NormalizeSize(size string) (menu.SizeOption, bool) {
	s, ok := sizeAliases[strings.ToLower(strings.TrimSpace(size))]
	return s, ok
}

// NormalizeTemperature resolves a temperature label to its canonical option.
func NormalizeTemperature(temp string) (menu.TemperatureOption, bool) {
	t, ok := temperatureAliases[strings.ToLower(strings.TrimSpace(temp))]
	return t, ok
}

// ItemValidator checks extracted line items against the menu catalog.
type ItemValidator struct {
	catalog *menu.Catalog
}

// NewItemValidator returns a validator bound to the given catalog.
func NewItemValidator(catalog *menu.Catalog) *ItemValidator {
	return &ItemValidator{catalog: catalog}
}

// Quantity checks the per-line quantity bounds.
func (v *ItemValidator) Quantity(quantity int) Result {
	if quantity < minQuantity {
		return fail("수량은 1개 이상이어야 합니다.", CodeInvalidQuantity)
	}
	if quantity > maxQuantity {
		return fail("한 번에 최대 99개까지 주문 가능합니다.", CodeQuantityTooLarge)
	}
	return ok("유효한 수량입니다.")
}

// MenuItem checks that the named menu exists and is in stock.
func (v *ItemValidator) MenuItem(name string) Result {
	it, found := v.catalog.Lookup(name)
	if !found {
		return fail(fmt.Sprintf("'%s' 메뉴를 찾을 수 없습니다.", name), CodeMenuNotFound)
	}
	if !it.Available {
		return fail(fmt.Sprintf("'%s' 메뉴는 현재 품절입니다.", name), CodeMenuUnavailable)
	}
	return ok("유효한 메뉴입니다.")
}

// Size checks that the label is a recognized size and that the menu item
// offers it.
func (v *ItemValidator) Size(size, menuName string) Result {
	normalized, known := NormalizeSize(size)
	if !known {
		return fail(fmt.Sprintf("'%s'는 유효하지 않은 사이즈입니다.", size), CodeInvalidSize)
	}
	if it, found := v.catalog.Lookup(menuName); found && !it.SupportsSize(normalized) {
		return fail(fmt.Sprintf("'%s' 메뉴는 '%s' 사이즈를 제공하지 않습니다.", menuName, size), CodeSizeNotOffered)
	}
	return ok("유효한 사이즈입니다.")
}

// Temperature checks that the label is recognized and offered by the item.
func (v *ItemValidator) Temperature(temp, menuName string) Result {
	normalized, known := NormalizeTemperature(temp)
	if !known {
		return fail(fmt.Sprintf("'%s'는 유효하지 않은 온도 옵션입니다.", temp), CodeInvalidTemp)
	}
	if it, found := v.catalog.Lookup(menuName); found && !it.SupportsTemperature(normalized) {
		return fail(fmt.Sprintf("'%s' 메뉴는 '%s' 옵션을 제공하지 않습니다.", menuName, temp), CodeTempNotOffered)
	}
	return ok("유효한 온도 옵션입니다.")
}

// Items validates a whole extracted item list. Validation is all-or-nothing:
// any failing line rejects the batch, with one message per failing line
// tagged by its 1-based position.
func (v *ItemValidator) Items(items []order.ItemRequest) Result {
	if len(items) == 0 {
		return fail("주문 항목이 없습니다.", CodeNoItems)
	}

	var errs []string
	for idx, item := range items {
		pos := idx + 1
		if item.Menu == "" {
			errs = append(errs, fmt.Sprintf("항목 %d: 메뉴 이름이 없습니다.", pos))
			continue
		}
		if r := v.MenuItem(item.Menu); !r.Valid {
			errs = append(errs, fmt.Sprintf("항목 %d: %s", pos, r.Message))
			continue
		}
		if r := v.Quantity(item.Quantity); !r.Valid {
			errs = append(errs, fmt.Sprintf("항목 %d: %s", pos, r.Message))
			continue
		}
		if item.Size != "" {
			if r := v.Size(item.Size, item.Menu); !r.Valid {
				errs = append(errs, fmt.Sprintf("항목 %d: %s", pos, r.Message))
				continue
			}
		}
		if item.Temperature != "" {
			if r := v.Temperature(item.Temperature, item.Menu); !r.Valid {
				errs = append(errs, fmt.Sprintf("항목 %d: %s", pos, r.Message))
				continue
			}
		}
	}

	if len(errs) > 0 {
		return Result{Valid: false, Message: "일부 주문 항목이 유효하지 않습니다.", Errors: errs}
	}
	return ok("모든 주문 항목이 유효합니다.")
}
