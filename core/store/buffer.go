package store

import (
	"errors"
	"fmt"
	"io"
)

type SeekReader interface {
	// Reads len(buf) bytes starting at pos.
	readInternal(buf []byte, pos int64) error
	Length() int64
}

/* Minimum buffer size allowed */
const MIN_BUFFER_SIZE = 8

/* Base implementation for buffered IndexInput. */
type BufferedIndexInput struct {
	*IndexInputImpl
	spi            SeekReader
	bufferSize     int
	buffer         []byte
	bufferStart    int64 // position in file of buffer
	bufferLength   int   // end of valid bytes
	bufferPosition int   // next byte to read
}

func newBufferedIndexInput(spi SeekReader, desc string, context IOContext) *BufferedIndexInput {
	bufferSize := bufferSize(context)
	assert2(bufferSize >= MIN_BUFFER_SIZE,
		"bufferSize must be at least MIN_BUFFER_SIZE (got %v)", bufferSize)
	ans := &BufferedIndexInput{spi: spi, bufferSize: bufferSize}
	ans.IndexInputImpl = NewIndexInputImpl(desc, ans)
	return ans
}

func (in *BufferedIndexInput) ReadByte() (b byte, err error) {
	if in.bufferPosition >= in.bufferLength {
		if err = in.refill(); err != nil {
			return 0, err
		}
	}
	b = in.buffer[in.bufferPosition]
	in.bufferPosition++
	return
}

func (in *BufferedIndexInput) ReadBytes(buf []byte) error {
	available := in.bufferLength - in.bufferPosition
	if len(buf) <= available {
		// the buffer contains enough data to satisfy this request
		copy(buf, in.buffer[in.bufferPosition:])
		in.bufferPosition += len(buf)
		return nil
	}
	// the buffer does not have enough data. First serve all we've got.
	if available > 0 {
		copy(buf, in.buffer[in.bufferPosition:in.bufferLength])
		buf = buf[available:]
		in.bufferPosition += available
	}
	if len(buf) < in.bufferSize {
		// small enough: fill the buffer and copy from it
		if err := in.refill(); err != nil {
			return err
		}
		if in.bufferLength < len(buf) {
			copy(buf, in.buffer[:in.bufferLength])
			in.bufferPosition = in.bufferLength
			return io.ErrUnexpectedEOF
		}
		copy(buf, in.buffer[:len(buf)])
		in.bufferPosition = len(buf)
		return nil
	}
	// larger than the buffer: read it all at once
	start := in.bufferStart + int64(in.bufferPosition)
	after := start + int64(len(buf))
	if after > in.spi.Length() {
		return io.ErrUnexpectedEOF
	}
	if err := in.spi.readInternal(buf, start); err != nil {
		return err
	}
	in.bufferStart = after
	in.bufferPosition = 0
	in.bufferLength = 0 // trigger refill() on read
	return nil
}

func (in *BufferedIndexInput) refill() error {
	start := in.bufferStart + int64(in.bufferPosition)
	end := start + int64(in.bufferSize)
	if length := in.spi.Length(); end > length {
		end = length
	}
	newLength := int(end - start)
	if newLength <= 0 {
		return io.EOF
	}
	if in.buffer == nil {
		in.buffer = make([]byte, in.bufferSize)
	}
	if err := in.spi.readInternal(in.buffer[:newLength], start); err != nil {
		return err
	}
	in.bufferLength = newLength
	in.bufferStart = start
	in.bufferPosition = 0
	return nil
}

func (in *BufferedIndexInput) FilePointer() int64 {
	return in.bufferStart + int64(in.bufferPosition)
}

func (in *BufferedIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > in.spi.Length() {
		return errors.New(fmt.Sprintf("seek position %v out of bounds [0, %v]: %v", pos, in.spi.Length(), in))
	}
	if pos >= in.bufferStart && pos < in.bufferStart+int64(in.bufferLength) {
		in.bufferPosition = int(pos - in.bufferStart) // seek within buffer
	} else {
		in.bufferStart = pos
		in.bufferPosition = 0
		in.bufferLength = 0 // trigger refill() on read()
	}
	return nil
}

// Returns a copy positioned like in, with its own (lazily allocated) buffer.
func (in *BufferedIndexInput) clone(spi SeekReader) *BufferedIndexInput {
	ans := &BufferedIndexInput{
		spi:         spi,
		bufferSize:  in.bufferSize,
		bufferStart: in.FilePointer(),
	}
	ans.IndexInputImpl = NewIndexInputImpl(in.desc, ans)
	return ans
}
