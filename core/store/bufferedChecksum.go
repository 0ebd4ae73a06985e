package store

import (
	"hash"
	"hash/crc32"
)

const CHECKSUM_BUFFER_SIZE = 256

/*
Wraps another checksum with an internal buffer, so the single bytes
written by WriteByte reach the underlying hash in batches.
*/
type BufferedChecksum struct {
	in     hash.Hash32
	buffer []byte
	upto   int
}

// A buffered CRC32 (IEEE), the checksum of index footers.
func newBufferedCRC32() *BufferedChecksum {
	return newBufferedChecksum(crc32.NewIEEE(), CHECKSUM_BUFFER_SIZE)
}

func newBufferedChecksum(in hash.Hash32, bufferSize int) *BufferedChecksum {
	return &BufferedChecksum{in: in, buffer: make([]byte, bufferSize)}
}

func (bc *BufferedChecksum) BlockSize() int {
	return bc.in.BlockSize()
}

func (bc *BufferedChecksum) Reset() {
	bc.upto = 0
	bc.in.Reset()
}

func (bc *BufferedChecksum) Size() int {
	return bc.in.Size()
}

func (bc *BufferedChecksum) Sum(p []byte) []byte {
	bc.flush()
	return bc.in.Sum(p)
}

func (bc *BufferedChecksum) Sum32() uint32 {
	bc.flush()
	return bc.in.Sum32()
}

func (bc *BufferedChecksum) flush() {
	if bc.upto > 0 {
		bc.in.Write(bc.buffer[:bc.upto])
	}
	bc.upto = 0
}

func (bc *BufferedChecksum) WriteByte(b byte) error {
	if bc.upto == len(bc.buffer) {
		bc.flush()
	}
	bc.buffer[bc.upto] = b
	bc.upto++
	return nil
}

func (bc *BufferedChecksum) Write(p []byte) (int, error) {
	if len(p) >= len(bc.buffer) {
		bc.flush()
		return bc.in.Write(p)
	}
	if bc.upto+len(p) > len(bc.buffer) {
		bc.flush()
	}
	copy(bc.buffer[bc.upto:], p)
	bc.upto += len(p)
	return len(p), nil
}

var _ hash.Hash32 = (*BufferedChecksum)(nil)
