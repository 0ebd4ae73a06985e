package compressing

import (
	"fmt"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

/* number of chunks to serialize at once */
const BLOCK_SIZE = 1024

/*
Efficient index format for block-based codecs.

This writer generates a file which can be loaded into memory using
memory-efficient data structures to quickly locate the chunk that
contains any document. It is shared by the stored fields and the term
vectors formats.

In order to have a compact in-memory representation, for every block
of 1024 chunks, this index computes the average number of bytes per
chunk and for every chunk, only stores the difference between

- ${chunk number} * ${average length of a chunk}
- and the actual start offset of the chunk

Data is written as follows:

	- PackedIntsVersion, <Block>^BlockCount, BlocksEndMarker, MaxPointer, Footer
	- PackedIntsVersion --> VERSION_CURRENT as a vint
	- BlocksEndMarker --> 0 as a vint, this marks the end of blocks since blocks are not allowed to start with 0
	- Block --> BlockChunks, <DocBases>, <StartPointers>
	- BlockChunks --> a vint which is the number of chunks encoded in the block
	- DocBases --> DocBase, AvgChunkDocs, BitsPerDocBaseDelta, DocBaseDeltas
	- DocBase --> first document ID of the block of chunks, as a vint
	- AvgChunkDocs --> average number of documents in a single chunk, as a vint
	- BitsPerDocBaseDelta --> number of bits required to represent a delta from the average using ZigZag encoding
	- DocBaseDeltas --> packed array of BlockChunks elements of BitsPerDocBaseDelta bits each, representing the deltas from the average doc base using ZigZag encoding.
	- StartPointers --> StartPointerBase, AvgChunkSize, BitsPerStartPointerDelta, StartPointerDeltas
	- StartPointerBase --> the first start pointer of the block, as a vlong
	- AvgChunkSize --> the average size of a chunk of compressed documents, as a vlong
	- BitsPerStartPointerDelta --> number of bits required to represent a delta from the average using ZigZag encoding
	- StartPointerDeltas --> packed array of BlockChunks elements of BitsPerStartPointerDelta bits each, representing the deltas from the average start pointer using ZigZag encoding
	- MaxPointer --> end of the data file (the position of its footer), as a vlong

Notes

- For any block, the doc base of the n-th chunk can be restored with
DocBase + AvgChunkDocs * n + DocBaseDeltas[n].
- For any block, the start pointer of the n-th chunk can be restored
with StartPointerBase + AvgChunkSize * n + StartPointerDeltas[n].
- Once data is loaded into memory, you can lookup the start pointer
of any document by performing two binary searches: a first one based
on the values of DocBase in order to find the right block, and then
inside the block based on DocBaseDeltas (by reconstructing the doc
bases for every chunk).
*/
type StoredFieldsIndexWriter struct {
	fieldsIndexOut     store.IndexOutput
	totalDocs          int
	blockDocs          int
	blockChunks        int
	firstStartPointer  int64
	maxStartPointer    int64
	docBaseDeltas      []int
	startPointerDeltas []int64
}

func NewStoredFieldsIndexWriter(indexOutput store.IndexOutput) (*StoredFieldsIndexWriter, error) {
	if err := indexOutput.WriteVInt(packed.VERSION_CURRENT); err != nil {
		return nil, err
	}
	return &StoredFieldsIndexWriter{
		fieldsIndexOut:     indexOutput,
		firstStartPointer:  -1,
		docBaseDeltas:      make([]int, BLOCK_SIZE),
		startPointerDeltas: make([]int64, BLOCK_SIZE),
	}, nil
}

func (w *StoredFieldsIndexWriter) reset() {
	w.blockChunks = 0
	w.blockDocs = 0
	w.firstStartPointer = -1 // means unset
}

func (w *StoredFieldsIndexWriter) writeBlock() error {
	assert(w.blockChunks > 0)
	if err := w.fieldsIndexOut.WriteVInt(int32(w.blockChunks)); err != nil {
		return err
	}

	// The trick here is that we only store the difference from the
	// average start pointer or doc base, this helps save bits per
	// value. And in order to prevent a few chunks that would be far
	// from the average to raise the number of bits per value for all
	// of them, we only encode blocks of 1024 chunks at once.
	if err := w.writeDocBases(); err != nil {
		return err
	}
	return w.writeStartPointers()
}

func (w *StoredFieldsIndexWriter) writeDocBases() error {
	avgChunkDocs := 0
	if w.blockChunks > 1 {
		avgChunkDocs = int(math.Floor(float64(w.blockDocs-w.docBaseDeltas[w.blockChunks-1])/float64(w.blockChunks-1) + 0.5))
	}
	if err := w.fieldsIndexOut.WriteVInt(int32(w.totalDocs - w.blockDocs)); err != nil { // doc base
		return err
	}
	if err := w.fieldsIndexOut.WriteVInt(int32(avgChunkDocs)); err != nil {
		return err
	}

	deltas := make([]int64, w.blockChunks)
	var maxDelta int64
	for i, docBase := 0, 0; i < w.blockChunks; i++ {
		deltas[i] = util.ZigZagEncodeLong(int64(docBase - avgChunkDocs*i))
		maxDelta |= deltas[i]
		docBase += w.docBaseDeltas[i]
	}
	return w.writeDeltas(deltas, maxDelta)
}

func (w *StoredFieldsIndexWriter) writeStartPointers() error {
	if err := w.fieldsIndexOut.WriteVLong(w.firstStartPointer); err != nil {
		return err
	}
	var avgChunkSize int64
	if w.blockChunks > 1 {
		avgChunkSize = (w.maxStartPointer - w.firstStartPointer) / int64(w.blockChunks-1)
	}
	if err := w.fieldsIndexOut.WriteVLong(avgChunkSize); err != nil {
		return err
	}

	deltas := make([]int64, w.blockChunks)
	var startPointer, maxDelta int64
	for i := 0; i < w.blockChunks; i++ {
		startPointer += w.startPointerDeltas[i]
		deltas[i] = util.ZigZagEncodeLong(startPointer - avgChunkSize*int64(i))
		maxDelta |= deltas[i]
	}
	return w.writeDeltas(deltas, maxDelta)
}

// Writes the bit width followed by the packed zigzag deltas.
func (w *StoredFieldsIndexWriter) writeDeltas(deltas []int64, maxDelta int64) error {
	bitsPerValue := packed.UnsignedBitsRequired(maxDelta)
	if err := w.fieldsIndexOut.WriteVInt(int32(bitsPerValue)); err != nil {
		return err
	}
	writer := packed.WriterNoHeader(w.fieldsIndexOut, packed.PACKED, len(deltas), bitsPerValue)
	for _, delta := range deltas {
		if err := writer.Add(delta); err != nil {
			return err
		}
	}
	return writer.Finish()
}

/*
Records a chunk of numDocs documents starting at startPointer in the
data file. Start pointers must be non-decreasing.
*/
func (w *StoredFieldsIndexWriter) writeIndex(numDocs int, startPointer int64) error {
	if w.blockChunks == BLOCK_SIZE {
		if err := w.writeBlock(); err != nil {
			return err
		}
		w.reset()
	}

	if w.firstStartPointer == -1 {
		w.firstStartPointer, w.maxStartPointer = startPointer, startPointer
	}
	assert(w.firstStartPointer > 0 && startPointer >= w.firstStartPointer)

	w.docBaseDeltas[w.blockChunks] = numDocs
	w.startPointerDeltas[w.blockChunks] = startPointer - w.maxStartPointer

	w.blockChunks++
	w.blockDocs += numDocs
	w.totalDocs += numDocs
	w.maxStartPointer = startPointer
	return nil
}

func (w *StoredFieldsIndexWriter) finish(numDocs int, maxPointer int64) (err error) {
	if numDocs != w.totalDocs {
		return fmt.Errorf("Expected %v docs, but got %v", numDocs, w.totalDocs)
	}
	if w.blockChunks > 0 {
		if err = w.writeBlock(); err != nil {
			return
		}
	}
	if err = w.fieldsIndexOut.WriteVInt(0); err != nil { // end marker
		return
	}
	if err = w.fieldsIndexOut.WriteVLong(maxPointer); err != nil {
		return
	}
	return codec.WriteFooter(w.fieldsIndexOut)
}

func (w *StoredFieldsIndexWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.fieldsIndexOut.Close()
}
