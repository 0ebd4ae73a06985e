package compressing

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/balzaczyy/golucene-compressing/core/codec"
)

// Level used by HIGH_COMPRESSION.
const DEFLATE_LEVEL = flate.BestCompression

/*
Raw DEFLATE (no zlib header or trailer). A block is written as the
VInt compressed length followed by the compressed bytes; an empty
input is written as a single VInt 0.
*/
type deflateCompressor struct {
	level      int
	compressed bytes.Buffer
	w          *flate.Writer
}

func newDeflateCompressor(level int) *deflateCompressor {
	return &deflateCompressor{level: level}
}

func (c *deflateCompressor) Compress(data []byte, out DataOutput) (err error) {
	if len(data) == 0 {
		return out.WriteVInt(0)
	}
	c.compressed.Reset()
	if c.w == nil {
		if c.w, err = flate.NewWriter(&c.compressed, c.level); err != nil {
			return err
		}
	} else {
		c.w.Reset(&c.compressed)
	}
	if _, err = c.w.Write(data); err != nil {
		return err
	}
	if err = c.w.Close(); err != nil {
		return err
	}
	if err = out.WriteVInt(int32(c.compressed.Len())); err != nil {
		return err
	}
	return out.WriteBytes(c.compressed.Bytes())
}

type deflateDecompressor struct {
	compressed []byte
	src        *bytes.Reader
	r          io.ReadCloser
}

func newDeflateDecompressor() *deflateDecompressor {
	return &deflateDecompressor{src: bytes.NewReader(nil)}
}

func (d *deflateDecompressor) Decompress(in DataInput, originalLength, offset, length int, buf []byte) ([]byte, error) {
	assert(offset+length <= originalLength)
	n, err := in.ReadVInt()
	if err != nil {
		return nil, err
	}
	compressedLength := int(n)
	if compressedLength < 0 {
		return nil, codec.NewCorruptIndexError(in, "invalid compressed length: %v", compressedLength)
	}
	if compressedLength == 0 {
		if originalLength != 0 {
			return nil, codec.NewCorruptIndexError(in, "Lengths mismatch: 0 != %v", originalLength)
		}
		if buf == nil {
			buf = []byte{}
		}
		return buf[:0], nil
	}
	if cap(d.compressed) < compressedLength {
		d.compressed = make([]byte, compressedLength)
	}
	d.compressed = d.compressed[:compressedLength]
	if err = in.ReadBytes(d.compressed); err != nil {
		return nil, err
	}

	d.src.Reset(d.compressed)
	if d.r == nil {
		d.r = flate.NewReader(d.src)
	} else if err = d.r.(flate.Resetter).Reset(d.src, nil); err != nil {
		return nil, err
	}

	if cap(buf) < originalLength {
		buf = make([]byte, originalLength)
	}
	buf = buf[:originalLength]
	if _, err = io.ReadFull(d.r, buf); err != nil {
		return nil, d.corrupt(in, err, originalLength)
	}
	// the stream must end exactly at originalLength
	if ok, err := drained(d.r); !ok {
		return nil, d.corrupt(in, err, originalLength)
	}
	return buf[offset : offset+length], nil
}

// Whether r has no bytes left. Empty reads do not count as the end.
func drained(r io.Reader) (bool, error) {
	var extra [1]byte
	n, err := io.ReadFull(r, extra[:])
	if n > 0 {
		return false, nil
	}
	if err == io.EOF {
		return true, nil
	}
	return false, err
}

func (d *deflateDecompressor) corrupt(in DataInput, err error, originalLength int) error {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return codec.NewCorruptIndexError(in, "Lengths mismatch: decompressed length != %v", originalLength)
	}
	return codec.NewCorruptIndexError(in, "invalid deflate stream: %v", err)
}

func (d *deflateDecompressor) Clone() Decompressor {
	return newDeflateDecompressor()
}
