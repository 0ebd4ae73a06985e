package util

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* Ensure Oversize() gives linear amortized cost of realloc/copy */
func TestGrowth(t *testing.T) {
	currentSize := 0
	var copyCost int64

	// Make sure it hits MAX_ARRAY_LENGTH, if we insist:
	for currentSize != MAX_ARRAY_LENGTH {
		nextSize := Oversize(1+currentSize, 8)
		require.Greater(t, nextSize, currentSize)
		if currentSize > 0 {
			copyCost += int64(currentSize)
			require.Less(t, float64(copyCost)/float64(currentSize), 10.0)
		}
		currentSize = nextSize
	}
}

func TestOversizeAlignment(t *testing.T) {
	tassert.Equal(t, 0, Oversize(0, 1))
	for size := 1; size < 100; size++ {
		tassert.Zero(t, Oversize(size, 1)%8, "size=%v", size)
		tassert.Zero(t, Oversize(size, 2)%4, "size=%v", size)
		tassert.Zero(t, Oversize(size, 4)%2, "size=%v", size)
		tassert.GreaterOrEqual(t, Oversize(size, 8), size+3)
	}
	tassert.Panics(t, func() { Oversize(-1, 1) })
}

func TestGrowKeepsContent(t *testing.T) {
	b := []byte{1, 2, 3}
	tassert.Equal(t, b, GrowBytes(b, 2))
	grown := GrowBytes(b, 10)
	tassert.GreaterOrEqual(t, len(grown), 10)
	tassert.Equal(t, b, grown[:3])

	ints := GrowInts([]int{4, 5}, 5)
	tassert.GreaterOrEqual(t, len(ints), 5)
	tassert.Equal(t, []int{4, 5}, ints[:2])

	longs := GrowLongs([]int64{6}, 3)
	tassert.GreaterOrEqual(t, len(longs), 3)
	tassert.Equal(t, int64(6), longs[0])
}
