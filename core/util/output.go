package util

/*
DataOutput writes the low-level data types of the index format.

DataOutput may only be used from one goroutine, because it is not
safe for concurrent use (it keeps internal state like file position).
*/
type DataOutput interface {
	DataWriter
	WriteShort(i int16) error
	WriteInt(i int32) error
	WriteVInt(i int32) error
	WriteLong(i int64) error
	WriteVLong(i int64) error
	WriteString(s string) error
	CopyBytes(input DataInput, numBytes int64) error
}

type DataWriter interface {
	WriteByte(b byte) error
	WriteBytes(buf []byte) error
}

const COPY_BUFFER_SIZE = 16384

type DataOutputImpl struct {
	Writer     DataWriter
	copyBuffer []byte
}

func NewDataOutput(part DataWriter) *DataOutputImpl {
	assert(part != nil)
	return &DataOutputImpl{Writer: part}
}

func (out *DataOutputImpl) WriteByte(b byte) error {
	return out.Writer.WriteByte(b)
}

func (out *DataOutputImpl) WriteBytes(buf []byte) error {
	return out.Writer.WriteBytes(buf)
}

func (out *DataOutputImpl) WriteShort(i int16) error {
	return out.Writer.WriteBytes([]byte{byte(i >> 8), byte(i)})
}

/*
Writes an int as four bytes.

32-bit unsigned integer written as four bytes, high-order bytes first.
*/
func (out *DataOutputImpl) WriteInt(i int32) error {
	return out.Writer.WriteBytes([]byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)})
}

/*
Writes an int in a variable-length format. Writes between one and
five bytes. Smaller values take fewer bytes. Negative numbers are
supported, but should be avoided.

The high-order bit of each byte indicates whether more bytes remain
to be read. The low-order seven bits are appended as increasingly
more significant bits in the resulting integer value. Thus values
from zero to 127 may be stored in a single byte, values from 128 to
16,383 may be stored in two bytes, and so on.
*/
func (out *DataOutputImpl) WriteVInt(i int32) error {
	var buf [5]byte
	n := 0
	u := uint32(i)
	for u&^0x7F != 0 {
		buf[n] = byte(u&0x7F) | 0x80
		n++
		u >>= 7
	}
	buf[n] = byte(u)
	return out.Writer.WriteBytes(buf[:n+1])
}

/*
Writes a long as eight bytes.

64-bit unsigned integer written as eight bytes, high-order bytes first.
*/
func (out *DataOutputImpl) WriteLong(i int64) error {
	err := out.WriteInt(int32(i >> 32))
	if err == nil {
		err = out.WriteInt(int32(i))
	}
	return err
}

/*
Writes an long in a variable-length format. Writes between one and
nine bytes. Smaller values take fewer bytes. Negative numbers are not
supported.
*/
func (out *DataOutputImpl) WriteVLong(i int64) error {
	assert2(i >= 0, "cannot write negative vLong (got: %v)", i)
	var buf [9]byte
	n := 0
	for i&^0x7F != 0 {
		buf[n] = byte(i&0x7F) | 0x80
		n++
		i = int64(uint64(i) >> 7)
	}
	buf[n] = byte(i)
	return out.Writer.WriteBytes(buf[:n+1])
}

// Writes a string as a VInt byte length followed by its UTF-8 bytes.
func (out *DataOutputImpl) WriteString(s string) error {
	bytes := []byte(s)
	err := out.WriteVInt(int32(len(bytes)))
	if err == nil {
		err = out.Writer.WriteBytes(bytes)
	}
	return err
}

// Copy numBytes bytes from input to ourself.
func (out *DataOutputImpl) CopyBytes(input DataInput, numBytes int64) error {
	assert2(numBytes >= 0, "numBytes must be >= 0, got %v", numBytes)
	if out.copyBuffer == nil {
		out.copyBuffer = make([]byte, COPY_BUFFER_SIZE)
	}
	for left := numBytes; left > 0; {
		toCopy := int64(COPY_BUFFER_SIZE)
		if left < toCopy {
			toCopy = left
		}
		if err := input.ReadBytes(out.copyBuffer[:toCopy]); err != nil {
			return err
		}
		if err := out.Writer.WriteBytes(out.copyBuffer[:toCopy]); err != nil {
			return err
		}
		left -= toCopy
	}
	return nil
}
