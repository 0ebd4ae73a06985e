package compressing

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pierrec/lz4/v4"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/store"
)

func sampleInputs(r *rand.Rand) map[string][]byte {
	random := make([]byte, 1<<15)
	r.Read(random)

	lowEntropy := make([]byte, 1<<16)
	for i := range lowEntropy {
		lowEntropy[i] = byte('a' + r.Intn(3))
	}

	// long runs of a single byte need multi-byte match lengths
	runs := bytes.Repeat([]byte{'x'}, 5000)
	runs = append(runs, bytes.Repeat([]byte("abcdefgh"), 700)...)

	return map[string][]byte{
		"empty":       {},
		"one byte":    {42},
		"short":       []byte("hello"),
		"text":        []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)),
		"random":      random,
		"low entropy": lowEntropy,
		"runs":        runs,
		"far match":   append(append(append([]byte{}, random[:70000%len(random)]...), random...), random[:100]...),
	}
}

func compress(t *testing.T, mode CompressionMode, data []byte) []byte {
	out := newGrowableByteArrayDataOutput(16)
	require.NoError(t, mode.NewCompressor().Compress(data, out))
	return append([]byte(nil), out.bytes...)
}

func decompress(t *testing.T, mode CompressionMode, compressed []byte, originalLength, offset, length int) []byte {
	in := store.NewByteArrayDataInput(compressed)
	res, err := mode.NewDecompressor().Decompress(in, originalLength, offset, length, nil)
	require.NoError(t, err)
	return res
}

var allModes = []CompressionModeDefaults{
	COMPRESSION_MODE_FAST,
	COMPRESSION_MODE_HIGH_COMPRESSION,
	COMPRESSION_MODE_FAST_DECOMPRESSION,
}

func TestCompressionRoundTrip(t *testing.T) {
	inputs := sampleInputs(rand.New(rand.NewSource(1)))
	for _, mode := range allModes {
		for name, data := range inputs {
			t.Run(mode.String()+"/"+name, func(t *testing.T) {
				compressed := compress(t, mode, data)
				tassert.Equal(t, data, decompress(t, mode, compressed, len(data), 0, len(data))[:len(data)])
			})
		}
	}
}

func TestDecompressRange(t *testing.T) {
	data := sampleInputs(rand.New(rand.NewSource(2)))["text"]
	for _, mode := range allModes {
		compressed := compress(t, mode, data)
		for _, r := range [][2]int{{0, 0}, {0, 10}, {5, 100}, {len(data) - 7, 7}, {len(data), 0}} {
			got := decompress(t, mode, compressed, len(data), r[0], r[1])
			tassert.Equal(t, data[r[0]:r[0]+r[1]], got, "mode=%v offset=%v length=%v", mode, r[0], r[1])
		}
	}
}

func TestLZ4ReadableByReferenceDecoder(t *testing.T) {
	inputs := sampleInputs(rand.New(rand.NewSource(3)))
	for _, mode := range []CompressionModeDefaults{COMPRESSION_MODE_FAST, COMPRESSION_MODE_FAST_DECOMPRESSION} {
		for name, data := range inputs {
			if len(data) == 0 {
				continue
			}
			compressed := compress(t, mode, data)
			dst := make([]byte, len(data))
			n, err := lz4.UncompressBlock(compressed, dst)
			require.NoError(t, err, "mode=%v input=%v", mode, name)
			tassert.Equal(t, data, dst[:n], "mode=%v input=%v", mode, name)
		}
	}
}

// Words from a small dictionary mixed with noise, so matches are found
// at every distance up to and past the window.
func largeInput(r *rand.Rand, n int) []byte {
	words := make([][]byte, 512)
	for i := range words {
		words[i] = make([]byte, 3+r.Intn(12))
		r.Read(words[i])
	}
	var buf bytes.Buffer
	for buf.Len() < n {
		if r.Intn(8) == 0 {
			noise := make([]byte, 1+r.Intn(300))
			r.Read(noise)
			buf.Write(noise)
		} else {
			buf.Write(words[r.Intn(len(words))])
		}
	}
	return buf.Bytes()[:n]
}

func TestLZ4LargeInputs(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	block := make([]byte, 100<<10)
	r.Read(block)
	inputs := [][]byte{
		largeInput(r, 400<<10),
		bytes.Repeat(block, 4), // repeats lie beyond MAX_DISTANCE
		bytes.Repeat([]byte{7}, 200<<10),
		largeInput(r, 70<<10),
	}
	for _, mode := range []CompressionModeDefaults{COMPRESSION_MODE_FAST, COMPRESSION_MODE_FAST_DECOMPRESSION} {
		// one compressor for all inputs
		c, d := mode.NewCompressor(), mode.NewDecompressor()
		for i, data := range inputs {
			out := newGrowableByteArrayDataOutput(16)
			require.NoError(t, c.Compress(data, out))

			dst := make([]byte, len(data))
			n, err := lz4.UncompressBlock(out.bytes, dst)
			require.NoError(t, err, "mode=%v input=%v", mode, i)
			require.Equal(t, len(data), n, "mode=%v input=%v", mode, i)
			tassert.True(t, bytes.Equal(data, dst), "mode=%v input=%v", mode, i)

			res, err := d.Decompress(store.NewByteArrayDataInput(out.bytes), len(data), 0, len(data), nil)
			require.NoError(t, err)
			tassert.True(t, bytes.Equal(data, res), "mode=%v input=%v", mode, i)

			mid := len(data) / 2
			res, err = d.Decompress(store.NewByteArrayDataInput(out.bytes), len(data), mid, 1000, nil)
			require.NoError(t, err)
			tassert.True(t, bytes.Equal(data[mid:mid+1000], res), "mode=%v input=%v", mode, i)
		}
	}
}

func TestLZ4HCCompressesBetter(t *testing.T) {
	data := sampleInputs(rand.New(rand.NewSource(4)))["low entropy"]
	fast := compress(t, COMPRESSION_MODE_FAST, data)
	hc := compress(t, COMPRESSION_MODE_FAST_DECOMPRESSION, data)
	tassert.Less(t, len(fast), len(data))
	tassert.LessOrEqual(t, len(hc), len(fast))
}

func TestLZ4EmptyInput(t *testing.T) {
	compressed := compress(t, COMPRESSION_MODE_FAST, nil)
	// a single token without literals nor match
	tassert.Equal(t, []byte{0}, compressed)
}

func TestLZ4Truncated(t *testing.T) {
	data := []byte(strings.Repeat("abcdefghij", 100))
	compressed := compress(t, COMPRESSION_MODE_FAST, data)
	in := store.NewByteArrayDataInput(compressed[:len(compressed)/2])
	_, err := COMPRESSION_MODE_FAST.NewDecompressor().Decompress(in, len(data), 0, len(data), nil)
	tassert.Error(t, err)
}

func TestLZ4InvalidDistance(t *testing.T) {
	// literal "ab" then a match at distance 10 which is before the start
	in := store.NewByteArrayDataInput([]byte{0x20, 'a', 'b', 10, 0, 0x00})
	dest := make([]byte, 64)
	_, err := LZ4Decompress(in, 20, dest)
	require.Error(t, err)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))
}

func TestDeflateEmpty(t *testing.T) {
	compressed := compress(t, COMPRESSION_MODE_HIGH_COMPRESSION, nil)
	tassert.Equal(t, []byte{0}, compressed)
	for _, mode := range allModes {
		res := decompress(t, mode, compress(t, mode, nil), 0, 0, 0)
		tassert.NotNil(t, res, mode.String())
		tassert.Empty(t, res, mode.String())
	}
}

// Returns no bytes and no error every other call.
type stallingReader struct {
	r       io.Reader
	stalled bool
}

func (s *stallingReader) Read(p []byte) (int, error) {
	if s.stalled = !s.stalled; s.stalled {
		return 0, nil
	}
	return s.r.Read(p)
}

func TestDrained(t *testing.T) {
	ok, err := drained(&stallingReader{r: bytes.NewReader([]byte{1})})
	require.NoError(t, err)
	tassert.False(t, ok)

	ok, err = drained(&stallingReader{r: bytes.NewReader(nil)})
	require.NoError(t, err)
	tassert.True(t, ok)

	broken := errors.New("broken")
	ok, err = drained(iotest.ErrReader(broken))
	tassert.False(t, ok)
	tassert.Equal(t, broken, err)
}

func TestDeflateLengthMismatch(t *testing.T) {
	data := []byte(strings.Repeat("0123456789", 50))
	compressed := compress(t, COMPRESSION_MODE_HIGH_COMPRESSION, data)
	d := COMPRESSION_MODE_HIGH_COMPRESSION.NewDecompressor()

	_, err := d.Decompress(store.NewByteArrayDataInput(compressed), len(data)+1, 0, 1, nil)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))

	_, err = d.Decompress(store.NewByteArrayDataInput(compressed), len(data)-1, 0, 1, nil)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))
}

func TestDeflateConsumesWholeBlock(t *testing.T) {
	data := []byte(strings.Repeat("0123456789", 50))
	out := newGrowableByteArrayDataOutput(16)
	c := COMPRESSION_MODE_HIGH_COMPRESSION.NewCompressor()
	require.NoError(t, c.Compress(data, out))
	require.NoError(t, out.WriteVInt(12345))

	in := store.NewByteArrayDataInput(out.bytes)
	_, err := COMPRESSION_MODE_HIGH_COMPRESSION.NewDecompressor().Decompress(in, len(data), 3, 0, nil)
	require.NoError(t, err)
	n, err := in.ReadVInt()
	require.NoError(t, err)
	tassert.Equal(t, int32(12345), n)
}

func TestCompressionModeByName(t *testing.T) {
	for _, mode := range allModes {
		m, err := CompressionModeByName(strings.ToLower(mode.String()))
		require.NoError(t, err)
		tassert.Equal(t, mode, m)
	}
	_, err := CompressionModeByName("zstd")
	tassert.Error(t, err)
}
