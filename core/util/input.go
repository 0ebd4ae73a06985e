package util

import (
	"errors"
	"fmt"
)

/*
DataInput reads the low-level data types of the index format.

A DataInput keeps a position and is therefore not safe for use by more
than one goroutine. Seekable implementations provide Clone() so each
goroutine can hold its own independently positioned copy.
*/
type DataInput interface {
	DataReader
	ReadShort() (n int16, err error)
	ReadInt() (n int32, err error)
	ReadVInt() (n int32, err error)
	ReadLong() (n int64, err error)
	ReadVLong() (n int64, err error)
	ReadString() (s string, err error)
	SkipBytes(numBytes int64) error
}

type DataReader interface {
	/* Reads and returns a single byte.	*/
	ReadByte() (b byte, err error)
	/* Reads len(buf) bytes into buf */
	ReadBytes(buf []byte) error
}

const SKIP_BUFFER_SIZE = 1024

var (
	ErrInvalidVInt  = errors.New("Invalid vInt detected (too many bits)")
	ErrInvalidVLong = errors.New("Invalid vLong detected (negative values disallowed)")
)

/*
DataInputImpl derives every typed read from the ReadByte/ReadBytes
pair of its Reader. Concrete inputs embed it and pass themselves as
the Reader.
*/
type DataInputImpl struct {
	Reader DataReader
	// private so that concurrent clones never share the scratch space
	skipBuffer []byte
}

func NewDataInput(spi DataReader) *DataInputImpl {
	return &DataInputImpl{Reader: spi}
}

func (in *DataInputImpl) ReadByte() (byte, error) {
	return in.Reader.ReadByte()
}

func (in *DataInputImpl) ReadBytes(buf []byte) error {
	return in.Reader.ReadBytes(buf)
}

func (in *DataInputImpl) ReadShort() (n int16, err error) {
	var buf [2]byte
	if err = in.Reader.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return int16(buf[0])<<8 | int16(buf[1]), nil
}

// Reads four bytes, high-order bytes first.
func (in *DataInputImpl) ReadInt() (n int32, err error) {
	var buf [4]byte
	if err = in.Reader.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return int32(buf[0])<<24 | int32(buf[1])<<16 | int32(buf[2])<<8 | int32(buf[3]), nil
}

/*
Reads an int stored in variable-length format. Reads between one and
five bytes. Smaller values take fewer bytes. Negative numbers are
supported, but should be avoided.
*/
func (in *DataInputImpl) ReadVInt() (n int32, err error) {
	var b byte
	for shift := uint(0); shift < 28; shift += 7 {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		n |= int32(b&0x7F) << shift
		if b < 0x80 {
			return n, nil
		}
	}
	if b, err = in.Reader.ReadByte(); err != nil {
		return 0, err
	}
	// the fifth byte only carries the 4 highest bits
	if b&0xF0 != 0 {
		return 0, ErrInvalidVInt
	}
	return n | int32(b&0x0F)<<28, nil
}

func (in *DataInputImpl) ReadLong() (n int64, err error) {
	d1, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	d2, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	return int64(d1)<<32 | int64(d2)&0xFFFFFFFF, nil
}

/*
Reads a long stored in variable-length format. Reads between one and
nine bytes. Negative numbers are not supported.
*/
func (in *DataInputImpl) ReadVLong() (n int64, err error) {
	var b byte
	for shift := uint(0); shift <= 56; shift += 7 {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		n |= int64(b&0x7F) << shift
		if b < 0x80 {
			return n, nil
		}
	}
	return 0, ErrInvalidVLong
}

// Reads a string written as a VInt byte length followed by UTF-8 bytes.
func (in *DataInputImpl) ReadString() (s string, err error) {
	length, err := in.ReadVInt()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("invalid string length: %v", length)
	}
	bytes := make([]byte, length)
	if err = in.Reader.ReadBytes(bytes); err != nil {
		return "", err
	}
	return string(bytes), nil
}

/*
Skip over numBytes bytes. The contract on this method is that it
should have the same behavior as reading the same number of bytes
into a buffer and discarding its content. Negative values of numBytes
are not supported.
*/
func (in *DataInputImpl) SkipBytes(numBytes int64) (err error) {
	assert2(numBytes >= 0, "numBytes must be >= 0, got %v", numBytes)
	if in.skipBuffer == nil {
		in.skipBuffer = make([]byte, SKIP_BUFFER_SIZE)
	}
	for skipped := int64(0); skipped < numBytes; {
		step := SKIP_BUFFER_SIZE
		if remaining := numBytes - skipped; remaining < int64(step) {
			step = int(remaining)
		}
		if err = in.Reader.ReadBytes(in.skipBuffer[:step]); err != nil {
			return err
		}
		skipped += int64(step)
	}
	return nil
}
