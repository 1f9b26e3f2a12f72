package llm

import (
	"strings"

	"cafekiosk/internal/order"
)

// FallbackExtract recovers line items from order text without a model. It
// surface-matches menu names against the text, reads the first digit it can
// find for quantity, and picks up any size or temperature keywords. At most
// one item is returned; multi-item orders need the model path.
func FallbackExtract(orderText string, availableMenus []string) []order.ItemRequest {
	lower := strings.ToLower(orderText)

	var matched string
	for _, name := range availableMenus {
		if menuMentioned(lower, strings.ToLower(name)) {
			matched = name
			break
		}
	}
	if matched == "" {
		return []order.ItemRequest{}
	}

	req := order.ItemRequest{
		Menu:     matched,
		Quantity: firstDigit(orderText),
		Options:  []string{},
	}

	for _, kw := range fallbackSizes {
		if strings.Contains(lower, kw.keyword) {
			req.Size = kw.value
			break
		}
	}
	for _, kw := range fallbackTemperatures {
		if strings.Contains(lower, kw.keyword) {
			req.Temperature = kw.value
			break
		}
	}

	return []order.ItemRequest{req}
}

type fallbackKeyword struct {
	keyword string
	value   string
}

// Checked in order; the first hit wins, so texts mentioning both values
// resolve the same way every time.
var fallbackSizes = []fallbackKeyword{
	{"톨", "Tall"},
	{"tall", "Tall"},
	{"그란데", "Grande"},
	{"grande", "Grande"},
	{"벤티", "Venti"},
	{"venti", "Venti"},
}

var fallbackTemperatures = []fallbackKeyword{
	{"아이스", "Ice"},
	{"ice", "Ice"},
	{"차가", "Ice"},
	{"핫", "Hot"},
	{"hot", "Hot"},
	{"뜨거", "Hot"},
}

// menuMentioned reports whether the menu name, or one of its longer word
// fragments, appears in the text.
func menuMentioned(lowerText, lowerName string) bool {
	if strings.Contains(lowerText, lowerName) {
		return true
	}
	for _, token := range strings.Fields(lowerName) {
		if len([]rune(token)) > 2 && strings.Contains(lowerText, token) {
			return true
		}
	}
	return false
}

// firstDigit returns the first single digit 1..9 in the text, or 1.
func firstDigit(text string) int {
	for _, r := range text {
		if r >= '1' && r <= '9' {
			return int(r - '0')
		}
	}
	return 1
}
