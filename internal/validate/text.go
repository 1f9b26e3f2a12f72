// Package validate holds the pure input validation, sanitization, and text
// normalization used in front of the order pipeline. Nothing here performs
// I/O or keeps state.
package validate

import (
	"regexp"
	"strings"
)

// Error codes surfaced to callers for text-level rejections.
const (
	CodeEmptyOrder       = "empty_order"
	CodeOrderTooShort    = "order_too_short"
	CodeOrderTooLong     = "order_too_long"
	CodeUnsafeCharacters = "unsafe_characters"
)

const (
	minOrderTextLen = 2
	maxOrderTextLen = 500
)

// Result carries a validation outcome with a human-readable message and
// machine-readable error codes.
type Result struct {
	Valid   bool
	Message string
	Errors  []string
}

func ok(message string) Result {
	return Result{Valid: true, Message: message}
}

func fail(message string, codes ...string) Result {
	return Result{Valid: false, Message: message, Errors: codes}
}

// OrderText checks raw order text for emptiness and length bounds.
func OrderText(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fail("주문 내용이 비어있습니다.", CodeEmptyOrder)
	}
	if len([]rune(trimmed)) < minOrderTextLen {
		return fail("주문 내용이 너무 짧습니다.", CodeOrderTooShort)
	}
	if len([]rune(text)) > maxOrderTextLen {
		return fail("주문 내용이 너무 깁니다. (최대 500자)", CodeOrderTooLong)
	}
	return ok("유효한 주문입니다.")
}

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

	// Defense in depth against injection-looking input. Not a security
	// boundary; the catalog allow-list is what actually bounds behavior.
	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i);\s*DROP\s+TABLE`),
		regexp.MustCompile(`(?i);\s*DELETE\s+FROM`),
		regexp.MustCompile(`(?i);\s*UPDATE\s+`),
		regexp.MustCompile(`--`),
		regexp.MustCompile(`/\*`),
		regexp.MustCompile(`\*/`),
	}

	safeCharsRe = regexp.MustCompile(`^[가-힣a-zA-Z0-9\s.,!?()+-]*$`)
)

// Sanitize strips HTML-like tags, script blocks, and SQL-looking fragments.
func Sanitize(text string) string {
	text = scriptBlockRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	for _, re := range sqlPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// SafeCharacters reports whether text contains only Hangul syllables, Latin
// letters, digits, whitespace, and basic punctuation.
func SafeCharacters(text string) bool {
	return safeCharsRe.MatchString(text)
}
