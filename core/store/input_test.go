package store

import (
	"fmt"
	"hash/crc32"
	"io"
	"math/rand"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byten(n int64) byte {
	return byte(n * n % 251)
}

// Input whose content is generated from the position, so reads past
// any buffer boundary can be verified.
type generatedInput struct {
	*BufferedIndexInput
	length int64
	reads  int
}

func newGeneratedInput(length int64) *generatedInput {
	ans := &generatedInput{length: length}
	ans.BufferedIndexInput = newBufferedIndexInput(ans, fmt.Sprintf("generated(%v)", length), IO_CONTEXT_DEFAULT)
	return ans
}

func (in *generatedInput) readInternal(buf []byte, pos int64) error {
	in.reads++
	for i := range buf {
		buf[i] = byten(pos + int64(i))
	}
	return nil
}

func (in *generatedInput) Length() int64 {
	return in.length
}

func (in *generatedInput) Close() error {
	return nil
}

func (in *generatedInput) Clone() IndexInput {
	ans := &generatedInput{length: in.length}
	ans.BufferedIndexInput = in.BufferedIndexInput.clone(ans)
	return ans
}

func TestReadByte(t *testing.T) {
	in := newGeneratedInput(10 * BUFFER_SIZE)
	for i := int64(0); i < 3*BUFFER_SIZE; i++ {
		b, err := in.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byten(i), b, "pos=%v", i)
	}
	tassert.Equal(t, 3, in.reads)
}

func TestReadBytes(t *testing.T) {
	const length = 64 * BUFFER_SIZE
	in := newGeneratedInput(length)
	r := rand.New(rand.NewSource(42))
	pos := int64(0)
	for pos < length {
		size := 1 + r.Intn(3*BUFFER_SIZE)
		if remaining := length - pos; int64(size) > remaining {
			size = int(remaining)
		}
		buf := make([]byte, size)
		require.NoError(t, in.ReadBytes(buf))
		for i, b := range buf {
			require.Equal(t, byten(pos+int64(i)), b, "pos=%v", pos+int64(i))
		}
		pos += int64(size)
		tassert.Equal(t, pos, in.FilePointer())
	}
	_, err := in.ReadByte()
	tassert.ErrorIs(t, err, io.EOF)
}

func TestReadPastEOF(t *testing.T) {
	in := newGeneratedInput(BUFFER_SIZE + 10)
	require.NoError(t, in.Seek(BUFFER_SIZE))
	buf := make([]byte, 20)
	tassert.ErrorIs(t, in.ReadBytes(buf), io.ErrUnexpectedEOF)

	require.NoError(t, in.Seek(0))
	big := make([]byte, 2*BUFFER_SIZE)
	tassert.ErrorIs(t, in.ReadBytes(big), io.ErrUnexpectedEOF)
}

func TestBufferedSeek(t *testing.T) {
	in := newGeneratedInput(8 * BUFFER_SIZE)
	b, err := in.ReadByte()
	require.NoError(t, err)
	tassert.Equal(t, byten(0), b)
	reads := in.reads

	// within the current buffer
	require.NoError(t, in.Seek(BUFFER_SIZE-1))
	b, err = in.ReadByte()
	require.NoError(t, err)
	tassert.Equal(t, byten(BUFFER_SIZE-1), b)
	tassert.Equal(t, reads, in.reads)

	require.NoError(t, in.Seek(5*BUFFER_SIZE+3))
	b, err = in.ReadByte()
	require.NoError(t, err)
	tassert.Equal(t, byten(5*BUFFER_SIZE+3), b)
	tassert.Equal(t, reads+1, in.reads)

	clone := in.Clone()
	tassert.Equal(t, in.FilePointer(), clone.FilePointer())
	b, err = clone.ReadByte()
	require.NoError(t, err)
	tassert.Equal(t, byten(5*BUFFER_SIZE+4), b)
	tassert.Equal(t, int64(5*BUFFER_SIZE+4), in.FilePointer())
}

func TestMergeContextBufferSize(t *testing.T) {
	in := &generatedInput{length: 1 << 20}
	in.BufferedIndexInput = newBufferedIndexInput(in, "merge", NewIOContextForMerge(&MergeInfo{TotalDocCount: 10}))
	_, err := in.ReadByte()
	require.NoError(t, err)
	tassert.Len(t, in.buffer, MERGE_BUFFER_SIZE)
}

func TestByteArrayDataInput(t *testing.T) {
	in := NewByteArrayDataInput([]byte{0x81, 0x01, 'h', 'i', 9})
	v, err := in.ReadVInt()
	require.NoError(t, err)
	tassert.Equal(t, int32(129), v)
	buf := make([]byte, 2)
	require.NoError(t, in.ReadBytes(buf))
	tassert.Equal(t, "hi", string(buf))
	tassert.False(t, in.Eof())
	require.NoError(t, in.SkipBytes(1))
	tassert.True(t, in.Eof())
	_, err = in.ReadByte()
	tassert.ErrorIs(t, err, io.EOF)
	tassert.ErrorIs(t, in.ReadBytes(buf), io.ErrUnexpectedEOF)

	in.Reset([]byte{7})
	tassert.Equal(t, 1, in.Length())
	b, err := in.ReadByte()
	require.NoError(t, err)
	tassert.Equal(t, byte(7), b)
}

func TestBufferedChecksum(t *testing.T) {
	data := randomBytes(7, 5*CHECKSUM_BUFFER_SIZE)
	bc := newBufferedCRC32()
	r := rand.New(rand.NewSource(7))
	for rest := data; len(rest) > 0; {
		switch n := r.Intn(2 * CHECKSUM_BUFFER_SIZE); {
		case n == 0:
			bc.WriteByte(rest[0])
			rest = rest[1:]
		default:
			if n > len(rest) {
				n = len(rest)
			}
			written, err := bc.Write(rest[:n])
			require.NoError(t, err)
			require.Equal(t, n, written)
			rest = rest[n:]
		}
	}
	want := crc32.ChecksumIEEE(data)
	tassert.Equal(t, want, bc.Sum32())
	plain := crc32.NewIEEE()
	plain.Write(data)
	tassert.Equal(t, plain.Sum(nil), bc.Sum(nil))

	bc.Reset()
	for _, b := range data[:10] {
		bc.WriteByte(b)
	}
	tassert.Equal(t, crc32.ChecksumIEEE(data[:10]), bc.Sum32())
}
