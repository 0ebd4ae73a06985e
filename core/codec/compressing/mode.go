package compressing

import (
	"fmt"
	"strings"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
)

/*
A compression mode. Tells how much effort should be spent on
compression and decompression of stored fields and term vectors.
*/
type CompressionMode interface {
	// Create a new Compressor instance.
	NewCompressor() Compressor
	// Create a new Decompressor instance.
	NewDecompressor() Decompressor
	String() string
}

const (
	/*
		A compression mode that trades compression ratio for speed.
		Although the compression ratio might remain high, compression and
		decompression are very fast. Use this mode with indices that have
		a high update rate but should be able to load documents from disk
		quickly.
	*/
	COMPRESSION_MODE_FAST = CompressionModeDefaults(1)
	/*
		A compression mode that trades speed for compression ratio.
		Although compression and decompression might be slow, this mode
		should provide a good compression ratio. This mode might be
		interesting if/when your index size is much bigger than your OS
		cache.
	*/
	COMPRESSION_MODE_HIGH_COMPRESSION = CompressionModeDefaults(2)
	/*
		This compression mode is similar to FAST but it spends more time
		compressing in order to improve the compression ratio. This
		compression mode is best used with indices that have a low update
		rate but should be able to load documents from disk quickly.
	*/
	COMPRESSION_MODE_FAST_DECOMPRESSION = CompressionModeDefaults(3)
)

type CompressionModeDefaults int

func (m CompressionModeDefaults) NewCompressor() Compressor {
	switch m {
	case COMPRESSION_MODE_FAST:
		return &lz4FastCompressor{ht: new(LZ4HashTable)}
	case COMPRESSION_MODE_HIGH_COMPRESSION:
		return newDeflateCompressor(DEFLATE_LEVEL)
	case COMPRESSION_MODE_FAST_DECOMPRESSION:
		return &lz4HighCompressor{ht: NewLZ4HCHashTable()}
	}
	panic(fmt.Sprintf("unknown compression mode: %v", int(m)))
}

func (m CompressionModeDefaults) NewDecompressor() Decompressor {
	switch m {
	case COMPRESSION_MODE_FAST, COMPRESSION_MODE_FAST_DECOMPRESSION:
		return lz4Decompressor{}
	case COMPRESSION_MODE_HIGH_COMPRESSION:
		return newDeflateDecompressor()
	}
	panic(fmt.Sprintf("unknown compression mode: %v", int(m)))
}

func (m CompressionModeDefaults) String() string {
	switch m {
	case COMPRESSION_MODE_FAST:
		return "FAST"
	case COMPRESSION_MODE_HIGH_COMPRESSION:
		return "HIGH_COMPRESSION"
	case COMPRESSION_MODE_FAST_DECOMPRESSION:
		return "FAST_DECOMPRESSION"
	}
	return fmt.Sprintf("CompressionMode(%v)", int(m))
}

// Resolves one of the predefined modes by its (case-insensitive) name.
func CompressionModeByName(name string) (CompressionMode, error) {
	for _, m := range []CompressionModeDefaults{
		COMPRESSION_MODE_FAST,
		COMPRESSION_MODE_HIGH_COMPRESSION,
		COMPRESSION_MODE_FAST_DECOMPRESSION,
	} {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown compression mode: %q", name)
}

// Segment attribute holding the mode a format's data file was written with.
func modeAttributeKey(formatName, extension string) string {
	return formatName + "." + extension + ".mode"
}

/*
Records mode on the segment. A segment keeps a single mode per format:
a different one recorded earlier is an error and stays in place.
*/
func putModeAttribute(si *model.SegmentInfo, key string, mode CompressionMode) error {
	if previous := si.PutAttribute(key, mode.String()); previous != "" && previous != mode.String() {
		si.PutAttribute(key, previous)
		return fmt.Errorf("found existing value for %v for segment %v: old=%v, new=%v",
			key, si.Name, previous, mode)
	}
	return nil
}

// Fails when the segment says it was written with another mode.
func checkModeAttribute(si *model.SegmentInfo, key string, mode CompressionMode) error {
	if recorded := si.Attribute(key); recorded != "" && recorded != mode.String() {
		return codec.NewCorruptIndexError(si.Name,
			"%v: segment was written with %v, cannot decompress it with %v", key, recorded, mode)
	}
	return nil
}

/*
A data compressor. It is the responsibility of the compressor to add
all necessary information so that a Decompressor will know when to
stop decompressing bytes from the stream.

A Compressor keeps scratch state and must not be shared across
goroutines.
*/
type Compressor interface {
	Compress(bytes []byte, out DataOutput) error
}

/*
A decompressor.

Decompress 'bytes' that were stored between [offset:offset+length] in
the original stream from the compressed stream 'in' to 'bytes'. The
length of the returned slice must be equal to 'length'.
Implementations are free to reuse or resize 'bytes' depending on
their needs.
*/
type Decompressor interface {
	Decompress(in DataInput, originalLength, offset, length int, bytes []byte) ([]byte, error)
	// Returns an independent decompressor usable from another goroutine.
	Clone() Decompressor
}

type lz4FastCompressor struct {
	ht *LZ4HashTable
}

func (c *lz4FastCompressor) Compress(bytes []byte, out DataOutput) error {
	return LZ4Compress(bytes, out, c.ht)
}

type lz4HighCompressor struct {
	ht *LZ4HCHashTable
}

func (c *lz4HighCompressor) Compress(bytes []byte, out DataOutput) error {
	return LZ4CompressHC(bytes, out, c.ht)
}

type lz4Decompressor struct{}

func (d lz4Decompressor) Decompress(in DataInput, originalLength, offset, length int, bytes []byte) (res []byte, err error) {
	assert(offset+length <= originalLength)
	// add 7 padding bytes, this is not necessary but can help decompression run faster
	res = bytes
	if cap(res) < originalLength+7 {
		res = make([]byte, originalLength+7)
	}
	res = res[:cap(res)]
	decompressedLength, err := LZ4Decompress(in, offset+length, res)
	if err != nil {
		return nil, err
	}
	if decompressedLength > originalLength {
		return nil, codec.NewCorruptIndexError(in,
			"Corrupted: lengths mismatch: %v > %v", decompressedLength, originalLength)
	}
	return res[offset : offset+length], nil
}

func (d lz4Decompressor) Clone() Decompressor {
	return d
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
