package packed

import (
	"errors"
	"fmt"
	"io"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

const (
	MIN_BLOCK_SIZE     = 64
	MAX_BLOCK_SIZE     = 1 << (30 - 3)
	MIN_VALUE_EQUALS_0 = 1 << 0
	BPV_SHIFT          = 1
)

func checkBlockSize(blockSize, minBlockSize, maxBlockSize int) int {
	assert2(blockSize >= minBlockSize && blockSize <= maxBlockSize,
		"blockSize must be >= %v and <= %v, got %v", minBlockSize, maxBlockSize, blockSize)
	assert2(blockSize&(blockSize-1) == 0, "blockSize must be a power of two, got %v", blockSize)
	return blockSize
}

// Same as DataOutput.WriteVLong but accepts negative values.
func writeVLong(out DataOutput, i uint64) error {
	var buf [9]byte
	n := 0
	for i&^0x7F != 0 && n < 8 {
		buf[n] = byte(i&0x7F) | 0x80
		n++
		i >>= 7
	}
	buf[n] = byte(i)
	return out.WriteBytes(buf[:n+1])
}

func readVLong(in DataInput) (uint64, error) {
	var i uint64
	for shift := uint(0); shift < 56; shift += 7 {
		b, err := in.ReadByte()
		if err != nil {
			return 0, err
		}
		i |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return i, nil
		}
	}
	b, err := in.ReadByte()
	if err != nil {
		return 0, err
	}
	return i | uint64(b)<<56, nil
}

/*
A writer for large sequences of longs.

The sequence is divided into fixed-size blocks and for each block,
the difference between each value and the minimum value of the block
is encoded using as few bits as possible. Memory usage of this class
is proportional to the block size. Each block has an overhead between
1 and 10 bytes to store the minimum value and the number of bits per
value of the block.

Format:

	<BLock>^(ValueCount/BlockSize)
	BLock: <Header, (Ints)>
	Header: <Token, (MinValue)>
	Token: a byte, first 7 bits are the number of bits per value
	  (bitsPerValue). If the 8th bit is 1, then MinValue (see next) is
	  0, otherwise MinValue and needs to be decoded
	MinValue: a zigzag-encoded variable-length long whose value should
	  be added to every int from the block to restore the original values
	Ints: If the number of bits per value is 0, then there is nothing
	  to decode and all ints are equal to MinValue. Otherwise:
	  BlockSize packed ints encoded on exactly bitsPerValue bits per
	  value. They are the subtraction of the original values and
	  MinValue
*/
type BlockPackedWriter struct {
	out      DataOutput
	values   []int64
	off      int
	ord      int64
	finished bool
}

func NewBlockPackedWriter(out DataOutput, blockSize int) *BlockPackedWriter {
	checkBlockSize(blockSize, MIN_BLOCK_SIZE, MAX_BLOCK_SIZE)
	return &BlockPackedWriter{
		out:    out,
		values: make([]int64, blockSize),
	}
}

// Reset this writer to wrap out. The block size remains unchanged.
func (w *BlockPackedWriter) Reset(out DataOutput) {
	assert(out != nil)
	w.out = out
	w.off = 0
	w.ord = 0
	w.finished = false
}

// Append a new long.
func (w *BlockPackedWriter) Add(l int64) error {
	assert2(!w.finished, "Already finished")
	if w.off == len(w.values) {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.values[w.off] = l
	w.off++
	w.ord++
	return nil
}

/*
Flush all buffered data to disk. This instance is not usable anymore
after this method has been called until Reset() has been called.
*/
func (w *BlockPackedWriter) Finish() error {
	assert2(!w.finished, "Already finished")
	if w.off > 0 {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.finished = true
	return nil
}

// Return the number of values which have been added.
func (w *BlockPackedWriter) Ord() int64 {
	return w.ord
}

func (w *BlockPackedWriter) flush() error {
	assert(w.off > 0)
	min, max := w.values[0], w.values[0]
	for _, v := range w.values[1:w.off] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	delta := uint64(max) - uint64(min)
	bitsRequired := 0
	if delta != 0 {
		bitsRequired = UnsignedBitsRequired(int64(delta))
	}
	if bitsRequired == 64 {
		// no need to delta-encode
		min = 0
	} else if min > 0 {
		// make min as small as possible so that writeVLong requires fewer bytes
		if m := max - MaxValue(bitsRequired); m > 0 {
			min = m
		} else {
			min = 0
		}
	}

	token := bitsRequired << BPV_SHIFT
	if min == 0 {
		token |= MIN_VALUE_EQUALS_0
	}
	if err := w.out.WriteByte(byte(token)); err != nil {
		return err
	}
	if min != 0 {
		if err := writeVLong(w.out, uint64(util.ZigZagEncodeLong(min))-1); err != nil {
			return err
		}
	}

	if bitsRequired > 0 {
		writer := WriterNoHeader(w.out, PACKED, w.off, bitsRequired)
		for _, v := range w.values[:w.off] {
			if err := writer.Add(v - min); err != nil {
				return err
			}
		}
		if err := writer.Finish(); err != nil {
			return err
		}
	}

	w.off = 0
	return nil
}

/* Reader for sequences of longs written with BlockPackedWriter. */
type BlockPackedReaderIterator struct {
	in                DataInput
	packedIntsVersion int32
	valueCount        int64
	blockSize         int
	values            []int64
	off               int
	ord               int64
}

func NewBlockPackedReaderIterator(in DataInput, packedIntsVersion int32,
	blockSize int, valueCount int64) *BlockPackedReaderIterator {
	checkBlockSize(blockSize, MIN_BLOCK_SIZE, MAX_BLOCK_SIZE)
	ans := &BlockPackedReaderIterator{
		packedIntsVersion: packedIntsVersion,
		blockSize:         blockSize,
		values:            make([]int64, blockSize),
	}
	ans.Reset(in, valueCount)
	return ans
}

/*
Reset the current reader to wrap a stream of valueCount values
contained in in. The block size remains unchanged.
*/
func (it *BlockPackedReaderIterator) Reset(in DataInput, valueCount int64) {
	assert(valueCount >= 0)
	it.in = in
	it.valueCount = valueCount
	it.off = it.blockSize
	it.ord = 0
}

// Skip exactly count values.
func (it *BlockPackedReaderIterator) Skip(count int64) error {
	assert2(count >= 0, "count=%v", count)
	if it.ord+count > it.valueCount {
		return errors.New(fmt.Sprintf("Cannot skip %v values, only %v remaining", count, it.valueCount-it.ord))
	}

	// 1. skip buffered values
	skipBuffer := int64(it.blockSize - it.off)
	if count < skipBuffer {
		skipBuffer = count
	}
	it.off += int(skipBuffer)
	it.ord += skipBuffer
	count -= skipBuffer
	if count == 0 {
		return nil
	}

	// 2. skip as many blocks as necessary
	assert(it.off == it.blockSize)
	for count >= int64(it.blockSize) {
		token, err := it.in.ReadByte()
		if err != nil {
			return err
		}
		bitsPerValue := int(token) >> BPV_SHIFT
		if bitsPerValue > 64 {
			return errCorruptBlock
		}
		if token&MIN_VALUE_EQUALS_0 == 0 {
			if _, err = readVLong(it.in); err != nil {
				return err
			}
		}
		if bitsPerValue > 0 {
			blockBytes := PACKED.ByteCount(it.packedIntsVersion, it.blockSize, bitsPerValue)
			if err = it.in.SkipBytes(blockBytes); err != nil {
				return err
			}
		}
		it.ord += int64(it.blockSize)
		count -= int64(it.blockSize)
	}
	if count == 0 {
		return nil
	}

	// 3. skip last values
	assert(count < int64(it.blockSize))
	if err := it.refill(); err != nil {
		return err
	}
	it.ord += count
	it.off += int(count)
	return nil
}

// Read the next value.
func (it *BlockPackedReaderIterator) Next() (int64, error) {
	if it.ord == it.valueCount {
		return 0, io.EOF
	}
	if it.off == it.blockSize {
		if err := it.refill(); err != nil {
			return 0, err
		}
	}
	v := it.values[it.off]
	it.off++
	it.ord++
	return v, nil
}

/*
Read between 1 and count values. The returned slice aliases the
internal buffer and is only valid until the next call.
*/
func (it *BlockPackedReaderIterator) NextN(count int) ([]int64, error) {
	assert(count > 0)
	if it.ord == it.valueCount {
		return nil, io.EOF
	}
	if it.off == it.blockSize {
		if err := it.refill(); err != nil {
			return nil, err
		}
	}
	if remaining := it.blockSize - it.off; count > remaining {
		count = remaining
	}
	if remaining := it.valueCount - it.ord; int64(count) > remaining {
		count = int(remaining)
	}
	ans := it.values[it.off : it.off+count]
	it.off += count
	it.ord += int64(count)
	return ans, nil
}

func (it *BlockPackedReaderIterator) refill() error {
	token, err := it.in.ReadByte()
	if err != nil {
		return err
	}
	minEquals0 := token&MIN_VALUE_EQUALS_0 != 0
	bitsPerValue := int(token) >> BPV_SHIFT
	if bitsPerValue > 64 {
		return errCorruptBlock
	}
	var minValue int64
	if !minEquals0 {
		zz, err := readVLong(it.in)
		if err != nil {
			return err
		}
		minValue = util.ZigZagDecodeLong(int64(zz + 1))
	}

	if bitsPerValue == 0 {
		for i := range it.values {
			it.values[i] = minValue
		}
	} else {
		valueCount := it.valueCount - it.ord
		if valueCount > int64(it.blockSize) {
			valueCount = int64(it.blockSize)
		}
		reader := newPackedReaderIterator(int(valueCount), bitsPerValue, it.in)
		if err = reader.NextN(it.values[:valueCount]); err != nil {
			return err
		}
		for i := 0; i < int(valueCount); i++ {
			it.values[i] += minValue
		}
	}
	it.off = 0
	return nil
}

// Return the offset of the next value to read.
func (it *BlockPackedReaderIterator) Ord() int64 {
	return it.ord
}
