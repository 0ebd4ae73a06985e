package compressing

const (
	MAX_ATTEMPTS = 256
	MASK         = MAX_DISTANCE - 1
)

type lz4Match struct {
	start, ref, len int
}

func (m *lz4Match) fix(correction int) {
	m.start += correction
	m.ref += correction
	m.len -= correction
}

func (m *lz4Match) end() int {
	return m.start + m.len
}

/*
Hash table of the high-compression compressor: a head table indexed by
the hash of 4 bytes plus a chain table linking every position to the
previous position with the same hash. Like LZ4HashTable, it can be
reused but not shared.
*/
type LZ4HCHashTable struct {
	nextToUpdate int
	base         int
	hashTable    []int
	chainTable   []uint16
}

func NewLZ4HCHashTable() *LZ4HCHashTable {
	return &LZ4HCHashTable{
		hashTable:  make([]int, HASH_TABLE_SIZE_HC),
		chainTable: make([]uint16, MAX_DISTANCE),
	}
}

func (ht *LZ4HCHashTable) reset(base int) {
	ht.base = base
	ht.nextToUpdate = base
	for i := range ht.hashTable {
		ht.hashTable[i] = -1
	}
	for i := range ht.chainTable {
		ht.chainTable[i] = 0
	}
}

func (ht *LZ4HCHashTable) hashPointer(bytes []byte, off int) int {
	return ht.hashTable[hashHC(readInt(bytes, off))]
}

func (ht *LZ4HCHashTable) next(off int) int {
	return off - int(ht.chainTable[off&MASK])
}

func (ht *LZ4HCHashTable) addHash(bytes []byte, off int) {
	h := hashHC(readInt(bytes, off))
	delta := off - ht.hashTable[h]
	assert(delta > 0)
	if delta >= MAX_DISTANCE {
		delta = MAX_DISTANCE - 1
	}
	ht.chainTable[off&MASK] = uint16(delta)
	ht.hashTable[h] = off
}

func (ht *LZ4HCHashTable) insert(off int, bytes []byte) {
	for ; ht.nextToUpdate < off; ht.nextToUpdate++ {
		ht.addHash(bytes, ht.nextToUpdate)
	}
}

func (ht *LZ4HCHashTable) insertAndFindBestMatch(buf []byte, off, matchLimit int, match *lz4Match) bool {
	match.start = off
	match.len = 0
	delta, repl := 0, 0

	ht.insert(off, buf)

	ref := ht.hashPointer(buf, off)

	if ref >= off-4 && ref <= off && ref >= ht.base { // potential repetition
		if readIntEquals(buf, ref, off) { // confirmed
			delta = off - ref
			match.len = MIN_MATCH + commonBytes(buf, ref+MIN_MATCH, off+MIN_MATCH, matchLimit)
			repl = match.len
			match.ref = ref
		}
		ref = ht.next(ref)
	}

	for i := 0; i < MAX_ATTEMPTS; i++ {
		if ref < max(ht.base, off-MAX_DISTANCE+1) || ref > off {
			break
		}
		if buf[ref+match.len] == buf[off+match.len] && readIntEquals(buf, ref, off) {
			matchLen := MIN_MATCH + commonBytes(buf, ref+MIN_MATCH, off+MIN_MATCH, matchLimit)
			if matchLen > match.len {
				match.ref = ref
				match.len = matchLen
			}
		}
		ref = ht.next(ref)
	}

	if repl != 0 {
		ptr := off
		end := off + repl - (MIN_MATCH - 1)
		for ptr < end-delta {
			ht.chainTable[ptr&MASK] = uint16(delta) // pre load
			ptr++
		}
		for {
			ht.chainTable[ptr&MASK] = uint16(delta)
			ht.hashTable[hashHC(readInt(buf, ptr))] = ptr
			ptr++
			if ptr >= end {
				break
			}
		}
		ht.nextToUpdate = end
	}

	return match.len != 0
}

func (ht *LZ4HCHashTable) insertAndFindWiderMatch(buf []byte, off, startLimit, matchLimit, minLen int, match *lz4Match) bool {
	match.len = minLen

	ht.insert(off, buf)

	delta := off - startLimit
	ref := ht.hashPointer(buf, off)
	for i := 0; i < MAX_ATTEMPTS; i++ {
		if ref < max(ht.base, off-MAX_DISTANCE+1) || ref > off {
			break
		}
		if buf[ref-delta+match.len] == buf[startLimit+match.len] && readIntEquals(buf, ref, off) {
			matchLenForward := MIN_MATCH + commonBytes(buf, ref+MIN_MATCH, off+MIN_MATCH, matchLimit)
			matchLenBackward := commonBytesBackward(buf, ref, off, ht.base, startLimit)
			matchLen := matchLenBackward + matchLenForward
			if matchLen > match.len {
				match.len = matchLen
				match.ref = ref - matchLenBackward
				match.start = off - matchLenBackward
			}
		}
		ref = ht.next(ref)
	}

	return match.len > minLen
}

func (ht *LZ4HCHashTable) encode(src []byte, anchor int, m *lz4Match, out DataOutput) error {
	return encodeSequence(src[anchor:m.start], m.start-m.ref, m.len, out)
}

/*
Compress bytes into out. It is slower than LZ4Compress() but
compresses more efficiently: up to MAX_ATTEMPTS candidates are
examined for every position and overlapping matches are arbitrated
so that the cheapest encoding wins. The output is a regular LZ4 block
that LZ4Decompress() decodes.
*/
func LZ4CompressHC(src []byte, out DataOutput, ht *LZ4HCHashTable) error {
	srcOff, srcEnd := 0, len(src)
	matchLimit := srcEnd - LAST_LITERALS
	mfLimit := matchLimit - MIN_MATCH

	sOff := srcOff
	anchor := sOff
	sOff++

	ht.reset(srcOff)
	var match0, match1, match2, match3 lz4Match

main:
	for sOff <= mfLimit {
		if !ht.insertAndFindBestMatch(src, sOff, matchLimit, &match1) {
			sOff++
			continue
		}

		// saved, in case we would skip too much
		match0 = match1

	search2:
		for {
			assert(match1.start >= anchor)
			if match1.end() >= mfLimit ||
				!ht.insertAndFindWiderMatch(src, match1.end()-2, match1.start+1, matchLimit, match1.len, &match2) {
				// no better match
				if err := ht.encode(src, anchor, &match1, out); err != nil {
					return err
				}
				anchor = match1.end()
				sOff = anchor
				continue main
			}

			if match0.start < match1.start {
				if match2.start < match1.start+match0.len { // empirical
					match1 = match0
				}
			}
			assert(match2.start > match1.start)

			if match2.start-match1.start < 3 { // first match too small: removed
				match1 = match2
				continue search2
			}

		search3:
			for {
				if match2.start-match1.start < OPTIMAL_ML {
					newMatchLen := match1.len
					if newMatchLen > OPTIMAL_ML {
						newMatchLen = OPTIMAL_ML
					}
					if match1.start+newMatchLen > match2.end()-MIN_MATCH {
						newMatchLen = match2.start - match1.start + match2.len - MIN_MATCH
					}
					if correction := newMatchLen - (match2.start - match1.start); correction > 0 {
						match2.fix(correction)
					}
				}

				if match2.start+match2.len >= mfLimit ||
					!ht.insertAndFindWiderMatch(src, match2.end()-3, match2.start, matchLimit, match2.len, &match3) {
					// no better match -> 2 sequences to encode
					if match2.start < match1.end() {
						match1.len = match2.start - match1.start
					}
					if err := ht.encode(src, anchor, &match1, out); err != nil {
						return err
					}
					anchor = match1.end()
					if err := ht.encode(src, anchor, &match2, out); err != nil {
						return err
					}
					anchor = match2.end()
					sOff = anchor
					continue main
				}

				if match3.start < match1.end()+3 { // not enough space for match 2: remove it
					if match3.start >= match1.end() {
						// can write seq1 immediately; seq2 is removed so seq3 becomes seq1
						if match2.start < match1.end() {
							match2.fix(match1.end() - match2.start)
							if match2.len < MIN_MATCH {
								match2 = match3
							}
						}

						if err := ht.encode(src, anchor, &match1, out); err != nil {
							return err
						}
						anchor = match1.end()
						sOff = anchor

						match1 = match3
						match0 = match2

						continue search2
					}

					match2 = match3
					continue search3
				}

				// 3 ascending matches: write at least the first one
				if match2.start < match1.end() {
					if match2.start-match1.start < 0x0F {
						if match1.len > OPTIMAL_ML {
							match1.len = OPTIMAL_ML
						}
						if match1.end() > match2.end()-MIN_MATCH {
							match1.len = match2.end() - match1.start - MIN_MATCH
						}
						match2.fix(match1.end() - match2.start)
					} else {
						match1.len = match2.start - match1.start
					}
				}

				if err := ht.encode(src, anchor, &match1, out); err != nil {
					return err
				}
				anchor = match1.end()
				sOff = anchor

				match1 = match2
				match2 = match3

				continue search3
			}
		}
	}

	return encodeLastLiterals(src[anchor:srcEnd], out)
}
