package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/util"
)

/* A DataOutput that can be used to build a []byte */
type GrowableByteArrayDataOutput struct {
	*util.DataOutputImpl
	bytes []byte
}

func newGrowableByteArrayDataOutput(cp int) *GrowableByteArrayDataOutput {
	ans := &GrowableByteArrayDataOutput{bytes: make([]byte, 0, util.Oversize(cp, 1))}
	ans.DataOutputImpl = util.NewDataOutput(ans)
	return ans
}

func (out *GrowableByteArrayDataOutput) WriteByte(b byte) error {
	out.bytes = append(out.bytes, b)
	return nil
}

func (out *GrowableByteArrayDataOutput) WriteBytes(b []byte) error {
	out.bytes = append(out.bytes, b...)
	return nil
}

func (out *GrowableByteArrayDataOutput) length() int {
	return len(out.bytes)
}

func (out *GrowableByteArrayDataOutput) reset() {
	out.bytes = out.bytes[:0]
}
