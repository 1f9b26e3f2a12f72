package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses whitespace runs to single spaces and trims.
func NormalizeWhitespace(text string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// numberWord maps a Korean counting word to its digit form. RE2 has no
// Unicode-aware \b, so boundaries are matched explicitly as start/end of
// string or whitespace.
type numberWord struct {
	re    *regexp.Regexp
	digit string
}

var numberWords = buildNumberWords()

func buildNumberWords() []numberWord {
	pairs := []struct{ word, digit string }{
		{"하나", "1"}, {"한", "1"},
		{"둘", "2"}, {"두", "2"},
		{"셋", "3"}, {"세", "3"},
		{"넷", "4"}, {"네", "4"},
		{"다섯", "5"},
		{"여섯", "6"},
		{"일곱", "7"},
		{"여덟", "8"},
		{"아홉", "9"},
		{"열", "10"},
	}
	words := make([]numberWord, 0, len(pairs))
	for _, p := range pairs {
		words = append(words, numberWord{
			re:    regexp.MustCompile(`(^|\s)` + p.word + `($|\s)`),
			digit: p.digit,
		})
	}
	return words
}

// NormalizeNumbers replaces standalone Korean number words with digits:
// "아메리카노 한 잔" becomes "아메리카노 1 잔".
func NormalizeNumbers(text string) string {
	for _, nw := range numberWords {
		text = nw.re.ReplaceAllString(text, "${1}"+nw.digit+"${2}")
	}
	return text
}

// Common spoken shorthand for menu names.
var menuNameVariants = []struct{ short, full string }{
	{"까페라떼", "카페라떼"},
	{"카페라테", "카페라떼"},
	{"마끼아또", "카라멜마끼아또"},
	{"마끼", "카라멜마끼아또"},
	{"아메", "아메리카노"},
	{"카푸", "카푸치노"},
	{"라떼", "카페라떼"},
}

// NormalizeMenuName expands spoken shorthand to full catalog names. Longer
// variants are applied first so "마끼아또" does not re-expand through "마끼".
func NormalizeMenuName(text string) string {
	text = strings.TrimSpace(text)
	for _, v := range menuNameVariants {
		if strings.Contains(text, v.full) {
			continue
		}
		text = strings.ReplaceAll(text, v.short, v.full)
	}
	return text
}

var (
	quantityUnitRe = regexp.MustCompile(`(\d+)\s*(?:잔|개|인분|조각|판)`)
	bareQuantityRe = regexp.MustCompile(`(^|\s)(\d+)($|\s)`)
)

// ExtractQuantity pulls a quantity out of free text, preferring digits with
// a counting suffix ("2잔", "3개") over bare digits. Returns 0 when no
// quantity is present.
func ExtractQuantity(text string) int {
	if m := quantityUnitRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n
		}
	}
	if m := bareQuantityRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return n
		}
	}
	return 0
}
