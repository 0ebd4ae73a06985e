package util

import (
	"fmt"
	"math"
)

/* Maximum length for an array */
const MAX_ARRAY_LENGTH = math.MaxInt32 - 16

/*
Returns an array size >= minTargetSize, generally over-allocating
exponentially to achieve amortized linear-time cost as the array
grows.
*/
func Oversize(minTargetSize int, bytesPerElement int) int {
	assert2(minTargetSize >= 0, "invalid array size %v", minTargetSize)
	if minTargetSize == 0 {
		// wait until at least one element is requested
		return 0
	}
	assert2(minTargetSize <= MAX_ARRAY_LENGTH,
		"requested array size %v exceeds maximum array length (%v)",
		minTargetSize, MAX_ARRAY_LENGTH)

	// asymptotic exponential growth by 1/8th
	extra := minTargetSize >> 3
	if extra < 3 {
		// small arrays grow faster
		extra = 3
	}
	newSize := minTargetSize + extra
	if newSize+7 < 0 || newSize+7 > MAX_ARRAY_LENGTH {
		return MAX_ARRAY_LENGTH
	}

	// round up to the machine word for the common element sizes
	switch bytesPerElement {
	case 4:
		return (newSize + 1) &^ 1
	case 2:
		return (newSize + 3) &^ 3
	case 1:
		return (newSize + 7) &^ 7
	default:
		return newSize
	}
}

// Returns a slice of at least minSize bytes which keeps the content of arr.
func GrowBytes(arr []byte, minSize int) []byte {
	if len(arr) >= minSize {
		return arr
	}
	ans := make([]byte, Oversize(minSize, 1))
	copy(ans, arr)
	return ans
}

func GrowInts(arr []int, minSize int) []int {
	if len(arr) >= minSize {
		return arr
	}
	ans := make([]int, Oversize(minSize, 4))
	copy(ans, arr)
	return ans
}

func GrowLongs(arr []int64, minSize int) []int64 {
	if len(arr) >= minSize {
		return arr
	}
	ans := make([]int64, Oversize(minSize, 8))
	copy(ans, arr)
	return ans
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
