package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

/*
Hash table of the fast compressor. It maps the hash of 4 bytes to
the last offset they were seen at, packed on just enough bits to hold
any offset of the current input. It shouldn't be shared across
goroutines but can safely be reused.
*/
type LZ4HashTable struct {
	hashLog   int
	hashTable packed.Mutable
}

func (h *LZ4HashTable) reset(length int) {
	bitsPerOffset := packed.BitsRequired(int64(length - LAST_LITERALS))
	bitsPerOffsetLog := ceilLog2(bitsPerOffset)
	h.hashLog = MEMORY_USAGE + 3 - bitsPerOffsetLog
	assert(h.hashLog > 0)
	if h.hashTable == nil || h.hashTable.Size() < (1<<uint(h.hashLog)) || h.hashTable.BitsPerValue() < bitsPerOffset {
		h.hashTable = packed.MutableFor(1<<uint(h.hashLog), bitsPerOffset)
	} else {
		h.hashTable.Clear()
	}
}

// 32 - leadingZero(n-1)
func ceilLog2(n int) int {
	assert(n >= 1)
	if n == 1 {
		return 0
	}
	n--
	ans := 0
	for n > 0 {
		n >>= 1
		ans++
	}
	return ans
}

/*
Compress bytes into out using at most 16KB of memory. The output can
be decoded with LZ4Decompress().
*/
func LZ4Compress(bytes []byte, out DataOutput, ht *LZ4HashTable) error {
	offset, length := 0, len(bytes)
	base, end := offset, offset+length

	anchor := offset
	offset++

	if length > LAST_LITERALS+MIN_MATCH {
		limit := end - LAST_LITERALS
		matchLimit := limit - MIN_MATCH
		ht.reset(length)
		hashLog := ht.hashLog
		hashTable := ht.hashTable

	main:
		for offset <= limit {
			// find a match
			var ref int
			for {
				if offset >= matchLimit {
					break main
				}
				v := readInt(bytes, offset)
				h := hash(v, hashLog)
				ref = base + int(hashTable.Get(h))
				assert(packed.BitsRequired(int64(offset-base)) <= hashTable.BitsPerValue())
				hashTable.Set(h, int64(offset-base))
				if offset-ref < MAX_DISTANCE && readInt(bytes, ref) == v {
					break
				}
				offset++
			}

			// compute match length
			matchLen := MIN_MATCH + commonBytes(bytes, ref+MIN_MATCH, offset+MIN_MATCH, limit)

			if err := encodeSequence(bytes[anchor:offset], offset-ref, matchLen, out); err != nil {
				return err
			}
			offset += matchLen
			anchor = offset
		}
	}

	// last literals
	literalLen := end - anchor
	assert(literalLen >= LAST_LITERALS || literalLen == length)
	return encodeLastLiterals(bytes[anchor:], out)
}
