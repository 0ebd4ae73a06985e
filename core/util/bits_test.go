package util

import (
	"errors"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveDocs(t *testing.T) {
	for _, n := range []int{1, 63, 64, 65, 200} {
		live := NewLiveDocs(n)
		tassert.Equal(t, n, live.Length())
		tassert.Equal(t, n, live.Cardinality(), "n=%v", n)
		live.Clear(n - 1)
		live.Clear(0)
		tassert.False(t, live.At(0))
		tassert.False(t, live.At(n-1))
		if n > 2 {
			tassert.True(t, live.At(1))
		}
		tassert.Panics(t, func() { live.At(n) })
	}
}

func TestFixedBitSet(t *testing.T) {
	bits := NewFixedBitSet(130)
	tassert.Zero(t, bits.Cardinality())
	for _, i := range []int{0, 64, 129} {
		bits.Set(i)
	}
	tassert.Equal(t, 3, bits.Cardinality())
	tassert.True(t, bits.At(64))
	tassert.False(t, bits.At(63))
	bits.Clear(64)
	tassert.False(t, bits.At(64))

	var _ MutableBits = bits
}

func TestZigZag(t *testing.T) {
	for _, l := range []int64{0, -1, 1, -64, 63, 1 << 40, -(1 << 62)} {
		tassert.Equal(t, l, ZigZagDecodeLong(ZigZagEncodeLong(l)))
	}
	tassert.Equal(t, int64(1), ZigZagEncodeLong(-1))
	tassert.Equal(t, int64(2), ZigZagEncodeLong(1))
	for _, i := range []int32{0, -1, 1, -(1 << 30), 1<<31 - 1} {
		tassert.Equal(t, i, ZigZagDecodeInt(ZigZagEncodeInt(i)))
	}
}

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	a, b, c := &closer{err: errA}, &closer{}, &closer{err: errB}
	err := Close(a, nil, b, c)
	require.Error(t, err)
	tassert.True(t, a.closed && b.closed && c.closed)
	tassert.ErrorIs(t, err, errA)
	tassert.ErrorIs(t, err, errB)

	tassert.Same(t, errA, Close(&closer{err: errA}, &closer{}))
	tassert.NoError(t, Close())

	d := &closer{err: errA}
	CloseWhileSuppressingError(d, nil)
	tassert.True(t, d.closed)
}
