package packed

const writerBufferSize = 1024

/*
PackedWriter streams values to a DataOutput in the PACKED format:
bits are concatenated most significant first and the stream ends on
the first byte boundary after the last value.
*/
type PackedWriter struct {
	out          DataOutput
	valueCount   int
	bitsPerValue int
	finished     bool

	buf     []byte
	cur     byte // partially filled byte
	curBits int  // number of bits used in cur
	written int
}

func newPackedWriter(out DataOutput, valueCount, bitsPerValue int) *PackedWriter {
	assert2(bitsPerValue > 0 && bitsPerValue <= 64, "illegal bitsPerValue: %v", bitsPerValue)
	return &PackedWriter{
		out:          out,
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
		buf:          make([]byte, 0, writerBufferSize),
	}
}

func (w *PackedWriter) Add(v int64) error {
	assert2(w.bitsPerValue == 64 || (v >= 0 && v <= MaxValue(w.bitsPerValue)),
		"value %v does not fit on %v bits", v, w.bitsPerValue)
	assert(!w.finished)
	assert2(w.valueCount == -1 || w.written < w.valueCount, "writing past end of stream")
	u := uint64(v)
	for bits := w.bitsPerValue; bits > 0; {
		take := 8 - w.curBits
		if bits < take {
			take = bits
		}
		chunk := byte(u>>uint(bits-take)) & byte((1<<uint(take))-1)
		w.cur |= chunk << uint(8-w.curBits-take)
		w.curBits += take
		bits -= take
		if w.curBits == 8 {
			if err := w.flushByte(); err != nil {
				return err
			}
		}
	}
	w.written++
	return nil
}

func (w *PackedWriter) flushByte() error {
	w.buf = append(w.buf, w.cur)
	w.cur, w.curBits = 0, 0
	if len(w.buf) == cap(w.buf) {
		return w.flushBuffer()
	}
	return nil
}

func (w *PackedWriter) flushBuffer() error {
	if len(w.buf) == 0 {
		return nil
	}
	err := w.out.WriteBytes(w.buf)
	w.buf = w.buf[:0]
	return err
}

func (w *PackedWriter) Finish() error {
	assert(!w.finished)
	if w.valueCount != -1 {
		for w.written < w.valueCount {
			if err := w.Add(0); err != nil {
				return err
			}
		}
	}
	if w.curBits > 0 {
		w.buf = append(w.buf, w.cur)
		w.cur, w.curBits = 0, 0
	}
	w.finished = true
	return w.flushBuffer()
}

func (w *PackedWriter) BitsPerValue() int {
	return w.bitsPerValue
}

func (w *PackedWriter) Ord() int {
	return w.written - 1
}
