package store

import (
	"bufio"
	"fmt"
	"io"
)

const OUTPUT_BUFFER_SIZE = 8192

/*
Buffered IndexOutput writing to an io.WriteCloser. The checksum covers
every byte written, including those still in the buffer.
*/
type OutputStreamIndexOutput struct {
	*IndexOutputImpl
	name         string
	os           io.WriteCloser
	writer       *bufio.Writer
	crc          *BufferedChecksum
	bytesWritten int64
	closed       bool
}

func newOutputStreamIndexOutput(name string, out io.WriteCloser, bufferSize int) *OutputStreamIndexOutput {
	ans := &OutputStreamIndexOutput{
		name:   name,
		os:     out,
		writer: bufio.NewWriterSize(out, bufferSize),
		crc:    newBufferedCRC32(),
	}
	ans.IndexOutputImpl = newIndexOutput(ans)
	return ans
}

func (out *OutputStreamIndexOutput) WriteByte(b byte) error {
	if err := out.writer.WriteByte(b); err != nil {
		return err
	}
	out.crc.WriteByte(b)
	out.bytesWritten++
	return nil
}

func (out *OutputStreamIndexOutput) WriteBytes(p []byte) error {
	if _, err := out.writer.Write(p); err != nil {
		return err
	}
	out.crc.Write(p)
	out.bytesWritten += int64(len(p))
	return nil
}

// Flushes the buffer and closes the stream. Closing twice is a no-op.
func (out *OutputStreamIndexOutput) Close() error {
	if out.closed {
		return nil
	}
	out.closed = true
	err := out.writer.Flush()
	if err2 := out.os.Close(); err == nil {
		err = err2
	}
	return err
}

func (out *OutputStreamIndexOutput) FilePointer() int64 {
	return out.bytesWritten
}

func (out *OutputStreamIndexOutput) Checksum() int64 {
	return int64(out.crc.Sum32())
}

func (out *OutputStreamIndexOutput) String() string {
	return fmt.Sprintf("OutputStreamIndexOutput(name=%v)", out.name)
}
