package util

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"
)

func TestBytesDifference(t *testing.T) {
	for _, c := range []struct {
		left, right string
		want        int
	}{
		{"apple", "application", 4},
		{"apple", "apple", 5},
		{"app", "apple", 3},
		{"banana", "apple", 0},
		{"", "apple", 0},
	} {
		tassert.Equal(t, c.want, BytesDifference([]byte(c.left), []byte(c.right)), "%q vs %q", c.left, c.right)
	}
}
