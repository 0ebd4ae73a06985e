package packed

import (
	"errors"
	"io"
)

/*
PackedReaderIterator decodes PACKED values one at a time, reading
the underlying stream lazily. Once all values have been consumed,
exactly ByteCount() bytes have been read.
*/
type PackedReaderIterator struct {
	in           DataInput
	valueCount   int
	bitsPerValue int
	ord          int

	cur   byte
	avail int // unread bits remaining in cur
}

func newPackedReaderIterator(valueCount, bitsPerValue int, in DataInput) *PackedReaderIterator {
	assert2(bitsPerValue >= 0 && bitsPerValue <= 64, "illegal bitsPerValue: %v", bitsPerValue)
	return &PackedReaderIterator{
		in:           in,
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
	}
}

func (it *PackedReaderIterator) Next() (int64, error) {
	if it.ord >= it.valueCount {
		return 0, io.EOF
	}
	var v uint64
	for bits := it.bitsPerValue; bits > 0; {
		if it.avail == 0 {
			b, err := it.in.ReadByte()
			if err != nil {
				if err == io.EOF {
					return 0, io.ErrUnexpectedEOF
				}
				return 0, err
			}
			it.cur, it.avail = b, 8
		}
		take := it.avail
		if bits < take {
			take = bits
		}
		chunk := (it.cur >> uint(it.avail-take)) & byte((1<<uint(take))-1)
		v = v<<uint(take) | uint64(chunk)
		it.avail -= take
		bits -= take
	}
	it.ord++
	return int64(v), nil
}

// Reads count values into dst, which must be large enough.
func (it *PackedReaderIterator) NextN(dst []int64) error {
	for i := range dst {
		v, err := it.Next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func (it *PackedReaderIterator) BitsPerValue() int {
	return it.bitsPerValue
}

func (it *PackedReaderIterator) Size() int {
	return it.valueCount
}

func (it *PackedReaderIterator) Ord() int {
	return it.ord - 1
}

var errCorruptBlock = errors.New("Corrupted block")
