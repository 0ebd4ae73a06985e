package packed

const (
	PACKED64_BLOCK_SIZE = 64                      // 32 = int, 64 = long
	PACKED64_BLOCK_BITS = 6                       // The #bits representing BLOCK_SIZE
	PACKED64_MOD_MASK   = PACKED64_BLOCK_SIZE - 1 // x % BLOCK_SIZE
)

/*
Space optimized random access capable array of values with a fixed
number of bits/value. Values are packed contiguously, most significant
bits first, in a []uint64, so a value may straddle two blocks.
*/
type Packed64 struct {
	blocks            []uint64
	valueCount        int
	bitsPerValue      int
	maskRight         uint64
	bpvMinusBlockSize int
}

func newPacked64(valueCount, bitsPerValue int) *Packed64 {
	assert2(bitsPerValue >= 0 && bitsPerValue <= 64, "illegal bitsPerValue: %v", bitsPerValue)
	longCount := (int64(valueCount)*int64(bitsPerValue) + 63) / 64
	var maskRight uint64
	if bitsPerValue > 0 {
		maskRight = ^uint64(0) >> uint(PACKED64_BLOCK_SIZE-bitsPerValue)
	}
	return &Packed64{
		blocks:            make([]uint64, longCount),
		valueCount:        valueCount,
		bitsPerValue:      bitsPerValue,
		maskRight:         maskRight,
		bpvMinusBlockSize: bitsPerValue - PACKED64_BLOCK_SIZE,
	}
}

func newPacked64FromInput(version int32, in DataInput, valueCount, bitsPerValue int) (*Packed64, error) {
	ans := newPacked64(valueCount, bitsPerValue)
	byteCount := PACKED.ByteCount(version, valueCount, bitsPerValue)
	if byteCount == 0 {
		return ans, nil
	}
	buf := make([]byte, byteCount)
	if err := in.ReadBytes(buf); err != nil {
		return nil, err
	}
	for i, b := range buf {
		ans.blocks[i>>3] |= uint64(b) << uint(56-(i&7)*8)
	}
	return ans, nil
}

func (p *Packed64) Get(index int) int64 {
	if p.bitsPerValue == 0 {
		return 0
	}
	// The abstract index in a bit stream
	majorBitPos := int64(index) * int64(p.bitsPerValue)
	// The index in the backing long-array
	elementPos := int(uint64(majorBitPos) >> PACKED64_BLOCK_BITS)
	// The number of value-bits in the second long
	endBits := int(majorBitPos&PACKED64_MOD_MASK) + p.bpvMinusBlockSize

	if endBits <= 0 { // Single block
		return int64((p.blocks[elementPos] >> uint(-endBits)) & p.maskRight)
	}
	// Two blocks
	return int64(((p.blocks[elementPos] << uint(endBits)) |
		(p.blocks[elementPos+1] >> uint(PACKED64_BLOCK_SIZE-endBits))) & p.maskRight)
}

func (p *Packed64) Set(index int, value int64) {
	if p.bitsPerValue == 0 {
		return
	}
	v := uint64(value) & p.maskRight
	majorBitPos := int64(index) * int64(p.bitsPerValue)
	elementPos := int(uint64(majorBitPos) >> PACKED64_BLOCK_BITS)
	endBits := int(majorBitPos&PACKED64_MOD_MASK) + p.bpvMinusBlockSize

	if endBits <= 0 { // Single block
		p.blocks[elementPos] = p.blocks[elementPos]&^(p.maskRight<<uint(-endBits)) |
			v<<uint(-endBits)
		return
	}
	// Two blocks
	p.blocks[elementPos] = p.blocks[elementPos]&^(p.maskRight>>uint(endBits)) |
		v>>uint(endBits)
	p.blocks[elementPos+1] = p.blocks[elementPos+1]&(^uint64(0)>>uint(endBits)) |
		v<<uint(PACKED64_BLOCK_SIZE-endBits)
}

func (p *Packed64) Size() int {
	return p.valueCount
}

func (p *Packed64) BitsPerValue() int {
	return p.bitsPerValue
}

func (p *Packed64) Clear() {
	for i := range p.blocks {
		p.blocks[i] = 0
	}
}
