package store

import (
	"fmt"
	"io"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

/*
Abstract base for input from a file in a Directory. A random-access
input stream. Used for all index data reads.

IndexInput may only be used from one goroutine. Clone() returns an
independent copy, positioned at the same place, that reads the same
underlying data; clones are how readers are shared across goroutines.
Closing the original input makes its clones unusable.
*/
type IndexInput interface {
	io.Closer
	util.DataInput
	// Returns the current position in this file, where the next read will occur.
	FilePointer() int64
	// Sets current position in this file, where the next read will occur.
	Seek(pos int64) error
	// The number of bytes in the file.
	Length() int64
	Clone() IndexInput
}

type IndexInputImpl struct {
	*util.DataInputImpl
	desc string
}

func NewIndexInputImpl(desc string, r util.DataReader) *IndexInputImpl {
	assert2(desc != "", "resourceDescription must not be empty")
	return &IndexInputImpl{DataInputImpl: util.NewDataInput(r), desc: desc}
}

func (in *IndexInputImpl) String() string {
	return in.desc
}

/*
DataInput backed by a byte slice.
Warning: this type omits all low-level checks.
*/
type ByteArrayDataInput struct {
	*util.DataInputImpl
	bytes []byte
	Pos   int
}

func NewByteArrayDataInput(bytes []byte) *ByteArrayDataInput {
	ans := &ByteArrayDataInput{}
	ans.DataInputImpl = util.NewDataInput(ans)
	ans.Reset(bytes)
	return ans
}

func (in *ByteArrayDataInput) Reset(bytes []byte) {
	in.bytes = bytes
	in.Pos = 0
}

func (in *ByteArrayDataInput) Length() int {
	return len(in.bytes)
}

func (in *ByteArrayDataInput) Eof() bool {
	return in.Pos == len(in.bytes)
}

func (in *ByteArrayDataInput) SkipBytes(count int64) error {
	if in.Pos+int(count) > len(in.bytes) {
		return io.ErrUnexpectedEOF
	}
	in.Pos += int(count)
	return nil
}

func (in *ByteArrayDataInput) ReadByte() (b byte, err error) {
	if in.Pos >= len(in.bytes) {
		return 0, io.EOF
	}
	in.Pos++
	return in.bytes[in.Pos-1], nil
}

func (in *ByteArrayDataInput) ReadBytes(buf []byte) error {
	if in.Pos+len(buf) > len(in.bytes) {
		return io.ErrUnexpectedEOF
	}
	copy(buf, in.bytes[in.Pos:in.Pos+len(buf)])
	in.Pos += len(buf)
	return nil
}

func (in *ByteArrayDataInput) String() string {
	return fmt.Sprintf("ByteArrayDataInput(pos=%v, length=%v)", in.Pos, len(in.bytes))
}
