package packed

import (
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/util"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bytesOutput struct {
	*util.DataOutputImpl
	bytes []byte
}

func newBytesOutput() *bytesOutput {
	ans := &bytesOutput{}
	ans.DataOutputImpl = util.NewDataOutput(ans)
	return ans
}

func (o *bytesOutput) WriteByte(b byte) error {
	o.bytes = append(o.bytes, b)
	return nil
}

func (o *bytesOutput) WriteBytes(buf []byte) error {
	o.bytes = append(o.bytes, buf...)
	return nil
}

type bytesInput struct {
	*util.DataInputImpl
	bytes []byte
	pos   int
}

func newBytesInput(bytes []byte) *bytesInput {
	ans := &bytesInput{bytes: bytes}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *bytesInput) ReadByte() (byte, error) {
	if in.pos >= len(in.bytes) {
		return 0, io.EOF
	}
	in.pos++
	return in.bytes[in.pos-1], nil
}

func (in *bytesInput) ReadBytes(buf []byte) error {
	if in.pos+len(buf) > len(in.bytes) {
		return io.ErrUnexpectedEOF
	}
	copy(buf, in.bytes[in.pos:])
	in.pos += len(buf)
	return nil
}

func TestByteCount(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		valueCount := int(r.Int31n(math.MaxInt32-1)) + 1
		for bpv := 1; bpv <= 64; bpv++ {
			byteCount := PACKED.ByteCount(VERSION_CURRENT, valueCount, bpv)
			if byteCount*8 < int64(valueCount)*int64(bpv) {
				t.Errorf("valueCount=%v bpv=%v: %v bytes are too few", valueCount, bpv, byteCount)
			}
			if (byteCount-1)*8 >= int64(valueCount)*int64(bpv) {
				t.Errorf("valueCount=%v bpv=%v: %v bytes are too many", valueCount, bpv, byteCount)
			}
		}
	}
}

func TestMaxValue(t *testing.T) {
	if MaxValue(0) != 0 {
		t.Error("0 bit -> 0")
	}
	if MaxValue(1) != 1 {
		t.Error("1 bit -> 1")
	}
	if MaxValue(2) != 3 {
		t.Error("2 bits -> 3")
	}
	if MaxValue(64) != 0x7fffffffffffffff {
		t.Error("64 bits -> 0x7fffffffffffffff")
	}
}

func TestUnsignedBitsRequired(t *testing.T) {
	if n := UnsignedBitsRequired(-158146830731166066); n != 64 {
		t.Errorf("-158146830731166066 -> 64bit (got %v)", n)
	}
	if n := BitsRequired(0); n != 1 {
		t.Errorf("0 -> 1bit (got %v)", n)
	}
	if n := BitsRequired(255); n != 8 {
		t.Errorf("255 -> 8bit (got %v)", n)
	}
	if n := BitsRequired(256); n != 9 {
		t.Errorf("256 -> 9bit (got %v)", n)
	}
}

func randomValues(r *rand.Rand, n, bpv int) []int64 {
	values := make([]int64, n)
	for i := range values {
		switch bpv {
		case 64:
			values[i] = r.Int63() ^ (r.Int63() << 1)
		case 63:
			values[i] = r.Int63()
		default:
			values[i] = r.Int63n(MaxValue(bpv) + 1)
		}
	}
	// the widest value of each width
	if bpv == 64 {
		values[n-1] = -1
	} else {
		values[n-1] = MaxValue(bpv)
	}
	return values
}

func TestWriterReaderRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tested := 0
	for bpv := 1; bpv <= 64; bpv++ {
		valueCount := r.Intn(200) + 1
		values := randomValues(r, valueCount, bpv)

		out := newBytesOutput()
		w := WriterNoHeader(out, PACKED, valueCount, bpv)
		for _, v := range values {
			require.NoError(t, w.Add(v))
		}
		tassert.Equal(t, valueCount-1, w.Ord())
		require.NoError(t, w.Finish())
		require.EqualValues(t, PACKED.ByteCount(VERSION_CURRENT, valueCount, bpv), len(out.bytes), "bpv=%v", bpv)

		reader, err := ReaderNoHeader(newBytesInput(out.bytes), PACKED, VERSION_CURRENT, valueCount, bpv)
		require.NoError(t, err)
		it, err := ReaderIteratorNoHeader(newBytesInput(out.bytes), PACKED, VERSION_CURRENT, valueCount, bpv)
		require.NoError(t, err)
		for i, v := range values {
			tassert.Equal(t, v, reader.Get(i), "bpv=%v i=%v", bpv, i)
			got, err := it.Next()
			require.NoError(t, err)
			tassert.Equal(t, v, got, "bpv=%v i=%v", bpv, i)
		}
		_, err = it.Next()
		tassert.Equal(t, io.EOF, err)
		tested++
	}
	tassert.Equal(t, 64, tested)
}

func TestWriterPadsMissingValues(t *testing.T) {
	out := newBytesOutput()
	w := WriterNoHeader(out, PACKED, 10, 7)
	require.NoError(t, w.Add(127))
	require.NoError(t, w.Finish())
	tassert.Len(t, out.bytes, 9)

	reader, err := ReaderNoHeader(newBytesInput(out.bytes), PACKED, VERSION_CURRENT, 10, 7)
	require.NoError(t, err)
	tassert.EqualValues(t, 127, reader.Get(0))
	for i := 1; i < 10; i++ {
		tassert.EqualValues(t, 0, reader.Get(i))
	}
}

func TestCheckVersion(t *testing.T) {
	tassert.NoError(t, CheckVersion(VERSION_CURRENT))
	tassert.Error(t, CheckVersion(VERSION_CURRENT+1))
	tassert.Error(t, CheckVersion(-1))
	_, err := ReaderNoHeader(newBytesInput(nil), PACKED, VERSION_CURRENT+1, 1, 1)
	tassert.Error(t, err)
}

func TestMutable(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, bpv := range []int{1, 3, 7, 13, 31, 32, 33, 63, 64} {
		m := MutableFor(300, bpv)
		values := randomValues(r, 300, bpv)
		for i, v := range values {
			m.Set(i, v)
		}
		for i, v := range values {
			require.Equal(t, v, m.Get(i), "bpv=%v i=%v", bpv, i)
		}
		// overwrite in reverse order, neighbours must be untouched
		for i := len(values) - 1; i >= 0; i -= 2 {
			m.Set(i, 0)
			values[i] = 0
		}
		for i, v := range values {
			require.Equal(t, v, m.Get(i), "bpv=%v i=%v", bpv, i)
		}
		m.Clear()
		for i := range values {
			require.EqualValues(t, 0, m.Get(i))
		}
	}
}

func TestBlockPackedRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, valueCount := range []int{0, 1, 63, 64, 65, 1000} {
		values := make([]int64, valueCount)
		for i := range values {
			switch i % 4 {
			case 0:
				values[i] = r.Int63n(100) - 50
			case 1:
				values[i] = 1 << 40
			case 2:
				values[i] = 5
			default:
				values[i] = r.Int63n(1 << 20)
			}
		}
		// a constant block and a block with a negative minimum
		if valueCount > 128 {
			for i := 64; i < 128; i++ {
				values[i] = 42
			}
			values[130] = math.MinInt64
		}

		out := newBytesOutput()
		w := NewBlockPackedWriter(out, 64)
		for _, v := range values {
			require.NoError(t, w.Add(v))
		}
		require.NoError(t, w.Finish())
		tassert.EqualValues(t, valueCount, w.Ord())
		require.NoError(t, out.WriteByte(0xAB)) // trailing marker

		in := newBytesInput(out.bytes)
		it := NewBlockPackedReaderIterator(in, VERSION_CURRENT, 64, int64(valueCount))
		for i, v := range values {
			got, err := it.Next()
			require.NoError(t, err)
			require.Equal(t, v, got, "valueCount=%v i=%v", valueCount, i)
		}
		b, err := in.ReadByte()
		require.NoError(t, err)
		tassert.EqualValues(t, 0xAB, b)
	}
}

func TestBlockPackedSkipAndNextN(t *testing.T) {
	values := make([]int64, 500)
	for i := range values {
		values[i] = int64(i * i)
	}
	out := newBytesOutput()
	w := NewBlockPackedWriter(out, 64)
	for _, v := range values {
		require.NoError(t, w.Add(v))
	}
	require.NoError(t, w.Finish())

	in := newBytesInput(out.bytes)
	it := NewBlockPackedReaderIterator(in, VERSION_CURRENT, 64, int64(len(values)))
	require.NoError(t, it.Skip(10))
	v, err := it.Next()
	require.NoError(t, err)
	tassert.Equal(t, values[10], v)

	require.NoError(t, it.Skip(200))
	tassert.EqualValues(t, 211, it.Ord())
	vs, err := it.NextN(100)
	require.NoError(t, err)
	tassert.Equal(t, values[211:211+len(vs)], vs)

	require.NoError(t, it.Skip(int64(len(values))-it.Ord()))
	tassert.Equal(t, len(out.bytes), in.pos)
	tassert.Error(t, it.Skip(1))
}

func TestDirectForByteAlignedWidths(t *testing.T) {
	for bpv, expected := range map[int]interface{}{
		8:  (*Direct[uint8])(nil),
		16: (*Direct[uint16])(nil),
		32: (*Direct[uint32])(nil),
		64: (*Direct[uint64])(nil),
		12: (*Packed64)(nil),
	} {
		tassert.IsType(t, expected, MutableFor(4, bpv), "bpv=%v", bpv)
	}

	m := MutableFor(3, 16)
	m.Set(0, 0xFFFF)
	m.Set(1, 0x1FFFF) // truncated to 16 bits
	tassert.EqualValues(t, 0xFFFF, m.Get(0))
	tassert.EqualValues(t, 0xFFFF, m.Get(1))
	tassert.Equal(t, 16, m.BitsPerValue())
	tassert.Equal(t, 3, m.Size())
}

func TestDirectReaderSkipsLongAlignedPadding(t *testing.T) {
	// 3 16-bit values padded to one long, then a marker byte
	data := []byte{0x00, 0x01, 0x12, 0x34, 0xFF, 0xFE, 0, 0, 0x7F}
	in := newBytesInput(data)
	reader, err := ReaderNoHeader(in, PACKED, VERSION_START, 3, 16)
	require.NoError(t, err)
	tassert.EqualValues(t, 1, reader.Get(0))
	tassert.EqualValues(t, 0x1234, reader.Get(1))
	tassert.EqualValues(t, 0xFFFE, reader.Get(2))
	b, err := in.ReadByte()
	require.NoError(t, err)
	tassert.EqualValues(t, 0x7F, b)
}
