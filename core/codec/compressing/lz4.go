package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/codec"
)

/*
LZ4 compression and decompression routines.

http://code.google.com/p/lz4/
http://fastcompression.blogspot.fr/p/lz4.html

The block format is a sequence of (token, literals, match) triples.
The token carries the literal length in its high nibble and the match
length minus MIN_MATCH in its low nibble; lengths of 15 or more spill
into extra bytes of 0xFF followed by a remainder byte. Match
distances are 2-byte little-endian integers.
*/

const (
	MIN_MATCH     = 4       // minimum length of a match
	MAX_DISTANCE  = 1 << 16 // maximum distance of a reference
	LAST_LITERALS = 5       // the last 5 bytes must be encoded as literals
	MEMORY_USAGE  = 14

	HASH_LOG_HC        = 15 // log size of the dictionary for compressHC
	HASH_TABLE_SIZE_HC = 1 << HASH_LOG_HC
	OPTIMAL_ML         = 0x0F + 4 - 1 // match length that doesn't require an additional byte
)

type DataInput interface {
	ReadByte() (b byte, err error)
	ReadBytes(buf []byte) error
	ReadVInt() (n int32, err error)
}

type DataOutput interface {
	WriteByte(b byte) error
	WriteBytes(buf []byte) error
	WriteVInt(i int32) error
}

/*
Decompress at least decompressedLen bytes into dest. Please note that
dest must be large enough to be able to hold all decompressed data
(meaning that you need to know the total decompressed length) plus
7 bytes of slack used by the fast copy path.
*/
func LZ4Decompress(compressed DataInput, decompressedLen int, dest []byte) (length int, err error) {
	dOff, destEnd := 0, len(dest)

	for {
		// literals
		var token int
		if token, err = asInt(compressed.ReadByte()); err != nil {
			return 0, err
		}
		if literalLen := token >> 4; literalLen != 0 {
			if literalLen == 0x0F {
				if literalLen, err = readLength(compressed, literalLen); err != nil {
					return 0, err
				}
			}
			if dOff+literalLen > destEnd {
				return 0, codec.NewCorruptIndexError(compressed,
					"literals overflow the destination: %v > %v", dOff+literalLen, destEnd)
			}
			if err = compressed.ReadBytes(dest[dOff : dOff+literalLen]); err != nil {
				return 0, err
			}
			dOff += literalLen
		}

		if dOff >= decompressedLen {
			break
		}

		// matches
		var lo, hi int
		if lo, err = asInt(compressed.ReadByte()); err != nil {
			return 0, err
		}
		if hi, err = asInt(compressed.ReadByte()); err != nil {
			return 0, err
		}
		matchDec := lo | hi<<8
		if matchDec == 0 || matchDec > dOff {
			return 0, codec.NewCorruptIndexError(compressed,
				"invalid match distance %v at offset %v", matchDec, dOff)
		}

		matchLen := token & 0x0F
		if matchLen == 0x0F {
			if matchLen, err = readLength(compressed, matchLen); err != nil {
				return 0, err
			}
		}
		matchLen += MIN_MATCH
		if dOff+matchLen > destEnd {
			return 0, codec.NewCorruptIndexError(compressed,
				"match overflows the destination: %v > %v", dOff+matchLen, destEnd)
		}

		// copying a multiple of 8 bytes can make decompression from 5% to 10% faster
		fastLen := (matchLen + 7) &^ 7
		if matchDec < matchLen || dOff+fastLen > destEnd {
			// overlap -> naive incremental copy
			for ref, end := dOff-matchDec, dOff+matchLen; dOff < end; {
				dest[dOff] = dest[ref]
				ref++
				dOff++
			}
		} else {
			// no overlap -> memmove
			ref := dOff - matchDec
			copy(dest[dOff:dOff+fastLen], dest[ref:ref+fastLen])
			dOff += matchLen
		}

		if dOff >= decompressedLen {
			break
		}
	}

	return dOff, nil
}

// Reads the 0xFF-continued extension of a length whose nibble was 15.
func readLength(in DataInput, l int) (int, error) {
	for {
		b, err := in.ReadByte()
		if err != nil {
			return 0, err
		}
		l += int(b)
		if b != 0xFF {
			return l, nil
		}
	}
}

func asInt(b byte, err error) (n int, err2 error) {
	return int(b), err
}

func hash(i, hashBits int) int {
	assert(hashBits >= 0 && hashBits <= 32)
	return int(uint32(int32(i)*-1640531535) >> uint(32-hashBits))
}

func hashHC(i int) int {
	return hash(i, HASH_LOG_HC)
}

func readInt(buf []byte, i int) int {
	return int(buf[i])<<24 | int(buf[i+1])<<16 | int(buf[i+2])<<8 | int(buf[i+3])
}

func readIntEquals(buf []byte, i, j int) bool {
	return readInt(buf, i) == readInt(buf, j)
}

// Number of equal bytes at o1 and o2, stopping before o2 reaches limit.
func commonBytes(b []byte, o1, o2, limit int) int {
	assert(o1 < o2)
	count := 0
	for o2 < limit && b[o1] == b[o2] {
		o1++
		o2++
		count++
	}
	return count
}

func commonBytesBackward(b []byte, o1, o2, l1, l2 int) int {
	count := 0
	for o1 > l1 && o2 > l2 && b[o1-1] == b[o2-1] {
		o1--
		o2--
		count++
	}
	return count
}

func encodeLen(l int, out DataOutput) error {
	for l >= 0xFF {
		if err := out.WriteByte(0xFF); err != nil {
			return err
		}
		l -= 0xFF
	}
	return out.WriteByte(byte(l))
}

func encodeLiterals(bytes []byte, token byte, out DataOutput) error {
	if err := out.WriteByte(token); err != nil {
		return err
	}

	// encode literal length
	if len(bytes) >= 0x0F {
		if err := encodeLen(len(bytes)-0x0F, out); err != nil {
			return err
		}
	}

	// encode literals
	return out.WriteBytes(bytes)
}

func encodeLastLiterals(bytes []byte, out DataOutput) error {
	token := byte(min(len(bytes), 0x0F) << 4)
	return encodeLiterals(bytes, token, out)
}

func encodeSequence(bytes []byte, matchDec, matchLen int, out DataOutput) error {
	literalLen := len(bytes)
	assert(matchLen >= 4)
	// encode token
	token := byte((min(literalLen, 0x0F) << 4) | min(matchLen-4, 0x0F))
	if err := encodeLiterals(bytes, token, out); err != nil {
		return err
	}

	// encode match dec
	assert(matchDec > 0 && matchDec < 1<<16)
	if err := out.WriteByte(byte(matchDec)); err != nil {
		return err
	}
	if err := out.WriteByte(byte(uint(matchDec) >> 8)); err != nil {
		return err
	}

	// encode match len
	if matchLen >= MIN_MATCH+0x0F {
		return encodeLen(matchLen-0x0F-MIN_MATCH, out)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
