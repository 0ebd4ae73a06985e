package util

/*
Compares two byte slices, element by element, and returns the number
of elements common to both arrays.
*/
func BytesDifference(left, right []byte) int {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		if left[i] != right[i] {
			return i
		}
	}
	return n
}
