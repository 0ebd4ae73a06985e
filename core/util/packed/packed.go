package packed

import (
	"errors"
	"fmt"
)

/*
Simplistic compression for arrays of unsigned long values. Each value
is >= 0 and <= a specified maximum value. The values are stored as
packed ints, with each value consuming a fixed number of bits.
*/

type DataInput interface {
	ReadByte() (byte, error)
	ReadBytes(buf []byte) error
	ReadVInt() (int32, error)
	SkipBytes(numBytes int64) error
}

type DataOutput interface {
	WriteByte(b byte) error
	WriteBytes(buf []byte) error
	WriteVInt(i int32) error
}

const (
	VERSION_START                    = 0 // PACKED format used to be long-aligned
	VERSION_BYTE_ALIGNED             = 1
	VERSION_MONOTONIC_WITHOUT_ZIGZAG = 2
	VERSION_CURRENT                  = VERSION_MONOTONIC_WITHOUT_ZIGZAG
)

// Check the validity of a version number.
func CheckVersion(version int32) error {
	if version < VERSION_START {
		return errors.New(fmt.Sprintf("Version is too old, should be at least %v (got %v)", VERSION_START, version))
	} else if version > VERSION_CURRENT {
		return errors.New(fmt.Sprintf("Version is too new, should be at most %v (got %v)", VERSION_CURRENT, version))
	}
	return nil
}

/*
A format to write packed ints.

PACKED: compact format, all bits are written contiguously, most
significant bits first. This is the only format this package reads
and writes.
*/
type PackedFormat int

const (
	PACKED              = PackedFormat(0)
	PACKED_SINGLE_BLOCK = PackedFormat(1)
)

func (f PackedFormat) Id() int {
	return int(f)
}

/*
Computes how many byte blocks are needed to store valueCount values
of size bitsPerValue.
*/
func (f PackedFormat) ByteCount(packedIntsVersion int32, valueCount, bitsPerValue int) int64 {
	assert2(f == PACKED, "unsupported format: %v", f)
	assert(bitsPerValue >= 0 && bitsPerValue <= 64)
	if packedIntsVersion < VERSION_BYTE_ALIGNED {
		// long-aligned
		return 8 * int64((int64(valueCount)*int64(bitsPerValue)+63)/64)
	}
	return (int64(valueCount)*int64(bitsPerValue) + 7) / 8
}

func (f PackedFormat) String() string {
	switch f {
	case PACKED:
		return "PACKED"
	case PACKED_SINGLE_BLOCK:
		return "PACKED_SINGLE_BLOCK"
	}
	return fmt.Sprintf("Format(%v)", int(f))
}

/* A read-only random access array of positive integers. */
type PackedIntsReader interface {
	// Returns the value at the given index.
	Get(index int) int64
	// Returns the number of values.
	Size() int
}

/* Run-once iterator interface, to decode previously saved PackedInts. */
type ReaderIterator interface {
	// Returns next value
	Next() (v int64, err error)
	// Returns number of bits per value
	BitsPerValue() int
	// Returns number of values
	Size() int
	// Returns the current position
	Ord() int
}

/* A packed integer array that can be modified. */
type Mutable interface {
	PackedIntsReader
	// Returns the number of bits used to store any given value.
	BitsPerValue() int
	// Set the value at the given index in the array.
	Set(index int, value int64)
	// Sets all values to 0
	Clear()
}

/* A write-once Writer. */
type Writer interface {
	// Add a value to the stream.
	Add(v int64) error
	// The number of bits per value.
	BitsPerValue() int
	// Perform end-of-stream operations.
	Finish() error
	// Returns the current ord in the stream (number of values that have
	// been written so far minus one).
	Ord() int
}

/*
Expert: Restore a Reader from a stream without reading metadata at
the beginning of the stream. Exactly ByteCount() bytes are consumed.
*/
func ReaderNoHeader(in DataInput, format PackedFormat, version int32,
	valueCount, bitsPerValue int) (PackedIntsReader, error) {
	if err := CheckVersion(version); err != nil {
		return nil, err
	}
	assert2(format == PACKED, "unsupported format: %v", format)
	if isDirect(bitsPerValue) {
		return newDirectReader(in, format.ByteCount(version, valueCount, bitsPerValue), valueCount, bitsPerValue)
	}
	return newPacked64FromInput(version, in, valueCount, bitsPerValue)
}

/*
Expert: Restore a ReaderIterator from a stream without reading
metadata at the beginning of the stream. This method is useful to
restore data from streams which have been created using
WriterNoHeader().
*/
func ReaderIteratorNoHeader(in DataInput, format PackedFormat, version int32,
	valueCount, bitsPerValue int) (ReaderIterator, error) {
	if err := CheckVersion(version); err != nil {
		return nil, err
	}
	assert2(format == PACKED, "unsupported format: %v", format)
	return newPackedReaderIterator(valueCount, bitsPerValue, in), nil
}

/*
Create a packed integer slice with the given amount of values
initialized to 0. The valueCount and the bitsPerValue cannot be
changed after creation.
*/
func MutableFor(valueCount, bitsPerValue int) Mutable {
	assert(valueCount >= 0)
	if isDirect(bitsPerValue) {
		return newDirectMutable(valueCount, bitsPerValue)
	}
	return newPacked64(valueCount, bitsPerValue)
}

/*
Expert: Create a packed integer array writer for the given output,
format, value count, and number of bits per value.

This method does not write any metadata to the stream, meaning that
it is your responsibility to store it somewhere else in order to be
able to recover data from the stream later on: valueCount,
bitsPerValue and VERSION_CURRENT.

For any non-negative valueCount, the returned writer will make sure
that you don't write more values than expected and pad the end of
stream with zeros in case you have written less than valueCount when
calling Finish(). Pass -1 when the number of values is unknown.
*/
func WriterNoHeader(out DataOutput, format PackedFormat, valueCount, bitsPerValue int) Writer {
	assert2(format == PACKED, "unsupported format: %v", format)
	return newPackedWriter(out, valueCount, bitsPerValue)
}

/*
Returns how many bits are required to hold values up to and including maxValue
NOTE: This method returns at least 1.
*/
func BitsRequired(maxValue int64) int {
	assert2(maxValue >= 0, "maxValue must be non-negative (got: %v)", maxValue)
	return UnsignedBitsRequired(maxValue)
}

/*
Returns how many bits are required to store bits, interpreted as an
unsigned value.
NOTE: This method returns at least 1.
*/
func UnsignedBitsRequired(bits int64) int {
	ans := 1
	for n := uint64(bits) >> 1; n != 0; n >>= 1 {
		ans++
	}
	return ans
}

// Calculates the maximum unsigned long that can be expressed with the given number of bits
func MaxValue(bitsPerValue int) int64 {
	if bitsPerValue == 64 {
		return int64(^uint64(0) >> 1) // Long.MAX_VALUE
	}
	return ^(^int64(0) << uint(bitsPerValue))
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
