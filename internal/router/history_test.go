package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingAppendBelowCapacity(t *testing.T) {
	r := NewRing[int](5)
	r.Append(1)
	r.Append(2)
	r.Append(3)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{1, 2, 3}, r.Snapshot())
}

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Append(i)
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{3, 4, 5}, r.Snapshot())
}

func TestRingRecent(t *testing.T) {
	r := NewRing[int](10)
	for i := 1; i <= 6; i++ {
		r.Append(i)
	}

	assert.Equal(t, []int{5, 6}, r.Recent(2))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, r.Recent(0))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, r.Recent(100))
}

func TestRingClear(t *testing.T) {
	r := NewRing[string](4)
	r.Append("a")
	r.Append("b")

	assert.Equal(t, 2, r.Clear())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot())

	r.Append("c")
	assert.Equal(t, []string{"c"}, r.Snapshot())
}
