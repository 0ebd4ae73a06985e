package util

import (
	"math/bits"
)

/* Interface for Bitset-like structures. */
type Bits interface {
	/*
		Returns the value of the bit with the specified index. The result
		of passing negative or out of bounds values is undefined.
	*/
	At(index int) bool
	// Returns the number of bits in the set
	Length() int
}

/* Extension of Bits for live documents. */
type MutableBits interface {
	Bits
	// Sets the bit specified by index to false.
	Clear(index int)
}

/* FixedBitSet is a fixed-length bit set backed by a []uint64. */
type FixedBitSet struct {
	words   []uint64
	numBits int
}

func NewFixedBitSet(numBits int) *FixedBitSet {
	return &FixedBitSet{
		words:   make([]uint64, (numBits+63)>>6),
		numBits: numBits,
	}
}

// Returns a set of numBits bits with every bit set, as used for live docs.
func NewLiveDocs(numBits int) *FixedBitSet {
	ans := NewFixedBitSet(numBits)
	for i := range ans.words {
		ans.words[i] = ^uint64(0)
	}
	if extra := numBits & 63; extra != 0 {
		ans.words[len(ans.words)-1] = (uint64(1) << uint(extra)) - 1
	}
	return ans
}

func (b *FixedBitSet) At(index int) bool {
	assert2(index >= 0 && index < b.numBits, "index=%v numBits=%v", index, b.numBits)
	return b.words[index>>6]&(uint64(1)<<uint(index&63)) != 0
}

func (b *FixedBitSet) Length() int {
	return b.numBits
}

func (b *FixedBitSet) Set(index int) {
	assert2(index >= 0 && index < b.numBits, "index=%v numBits=%v", index, b.numBits)
	b.words[index>>6] |= uint64(1) << uint(index&63)
}

func (b *FixedBitSet) Clear(index int) {
	assert2(index >= 0 && index < b.numBits, "index=%v numBits=%v", index, b.numBits)
	b.words[index>>6] &^= uint64(1) << uint(index&63)
}

// Returns the number of set bits.
func (b *FixedBitSet) Cardinality() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}
