package packed

type directValue interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

/*
Direct wrapping of byte-aligned values to a backing slice. Used in
place of Packed64 when bitsPerValue is 8, 16, 32 or 64.
*/
type Direct[T directValue] struct {
	values       []T
	bitsPerValue int
}

func newDirect[T directValue](valueCount, bitsPerValue int) *Direct[T] {
	return &Direct[T]{
		values:       make([]T, valueCount),
		bitsPerValue: bitsPerValue,
	}
}

/*
Decodes valueCount big-endian values. byteCount may exceed what the
values need when the stream was long-aligned; the padding is skipped.
*/
func newDirectFromInput[T directValue](in DataInput, byteCount int64, valueCount, bitsPerValue int) (*Direct[T], error) {
	ans := newDirect[T](valueCount, bitsPerValue)
	buf := make([]byte, byteCount)
	if err := in.ReadBytes(buf); err != nil {
		return nil, err
	}
	width := bitsPerValue / 8
	for i := range ans.values {
		var v T
		for _, b := range buf[i*width : (i+1)*width] {
			v = v<<8 | T(b)
		}
		ans.values[i] = v
	}
	return ans, nil
}

func (d *Direct[T]) Get(index int) int64 {
	return int64(d.values[index])
}

func (d *Direct[T]) Set(index int, value int64) {
	d.values[index] = T(value)
}

func (d *Direct[T]) Size() int {
	return len(d.values)
}

func (d *Direct[T]) BitsPerValue() int {
	return d.bitsPerValue
}

func (d *Direct[T]) Clear() {
	clear(d.values)
}

func newDirectMutable(valueCount, bitsPerValue int) Mutable {
	switch bitsPerValue {
	case 8:
		return newDirect[uint8](valueCount, 8)
	case 16:
		return newDirect[uint16](valueCount, 16)
	case 32:
		return newDirect[uint32](valueCount, 32)
	case 64:
		return newDirect[uint64](valueCount, 64)
	}
	return nil
}

func newDirectReader(in DataInput, byteCount int64, valueCount, bitsPerValue int) (r PackedIntsReader, err error) {
	switch bitsPerValue {
	case 8:
		r, err = newDirectFromInput[uint8](in, byteCount, valueCount, 8)
	case 16:
		r, err = newDirectFromInput[uint16](in, byteCount, valueCount, 16)
	case 32:
		r, err = newDirectFromInput[uint32](in, byteCount, valueCount, 32)
	default:
		r, err = newDirectFromInput[uint64](in, byteCount, valueCount, 64)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func isDirect(bitsPerValue int) bool {
	switch bitsPerValue {
	case 8, 16, 32, 64:
		return true
	}
	return false
}
