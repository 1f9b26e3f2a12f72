package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "아메리카노 2잔 주세요", NormalizeWhitespace("  아메리카노   2잔\t주세요\n"))
	assert.Equal(t, "", NormalizeWhitespace("   "))
}

func TestNormalizeNumbers(t *testing.T) {
	tests := []struct{ in, want string }{
		{"아이스 아메리카노 한 잔 주세요", "아이스 아메리카노 1 잔 주세요"},
		{"케이크 두 개", "케이크 2 개"},
		{"쿠키 다섯 개요", "쿠키 5 개요"},
		{"커피 열 잔", "커피 10 잔"},
		// Number words embedded inside other words stay untouched.
		{"한라봉주스 주세요", "한라봉주스 주세요"},
		{"세 잔", "3 잔"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeNumbers(tt.in), tt.in)
	}
}

func TestNormalizeMenuName(t *testing.T) {
	assert.Equal(t, "아메리카노", NormalizeMenuName("아메"))
	assert.Equal(t, "카푸치노", NormalizeMenuName("카푸"))
	assert.Equal(t, "카페라떼", NormalizeMenuName("라떼"))
	assert.Equal(t, "카페라떼", NormalizeMenuName("카페라테"))
	assert.Equal(t, "카라멜마끼아또", NormalizeMenuName("마끼아또"))
	// Already-full names pass through unchanged.
	assert.Equal(t, "카페라떼", NormalizeMenuName("카페라떼"))
}

func TestExtractQuantity(t *testing.T) {
	assert.Equal(t, 2, ExtractQuantity("아메리카노 2잔 주세요"))
	assert.Equal(t, 3, ExtractQuantity("쿠키 3개"))
	assert.Equal(t, 1, ExtractQuantity("피자 1판"))
	// Unit-suffixed digits win over bare digits.
	assert.Equal(t, 2, ExtractQuantity("4시에 아메리카노 2잔"))
	assert.Equal(t, 5, ExtractQuantity("커피 5 부탁해요"))
	assert.Equal(t, 0, ExtractQuantity("아메리카노 주세요"))
}
