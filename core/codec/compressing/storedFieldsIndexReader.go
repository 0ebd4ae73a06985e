package compressing

import (
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

// Random-access reader for StoredFieldsIndexWriter
type StoredFieldsIndexReader struct {
	maxDoc              int
	docBases            []int
	startPointers       []int64
	avgChunkDocs        []int
	avgChunkSizes       []int64
	docBasesDeltas      []packed.PackedIntsReader
	startPointersDeltas []packed.PackedIntsReader
}

/*
Loads every block of the index into memory. The input is left
positioned right after the blocks end marker. A negative maxDoc
disables the doc id range check, which is only useful for tools
inspecting a segment whose size is not known yet.
*/
func newStoredFieldsIndexReader(fieldsIndexIn store.IndexInput, maxDoc int) (*StoredFieldsIndexReader, error) {
	r := &StoredFieldsIndexReader{
		maxDoc:              maxDoc,
		docBases:            make([]int, 0, 16),
		startPointers:       make([]int64, 0, 16),
		avgChunkDocs:        make([]int, 0, 16),
		avgChunkSizes:       make([]int64, 0, 16),
		docBasesDeltas:      make([]packed.PackedIntsReader, 0, 16),
		startPointersDeltas: make([]packed.PackedIntsReader, 0, 16),
	}

	packedIntsVersion, err := fieldsIndexIn.ReadVInt()
	if err != nil {
		return nil, err
	}
	if err = packed.CheckVersion(packedIntsVersion); err != nil {
		return nil, codec.NewCorruptIndexError(fieldsIndexIn, "%v", err)
	}

	for {
		numChunks, err := int32AsInt(fieldsIndexIn.ReadVInt())
		if err != nil {
			return nil, err
		}
		if numChunks == 0 {
			break
		}
		if numChunks < 0 {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn, "Corrupted numChunks: %v", numChunks)
		}

		// doc bases
		docBase, err := int32AsInt(fieldsIndexIn.ReadVInt())
		if err != nil {
			return nil, err
		}
		if n := len(r.docBases); n > 0 && docBase <= r.docBases[n-1] {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn,
				"Corrupted docBase: %v after %v", docBase, r.docBases[n-1])
		}
		avgChunkDocs, err := int32AsInt(fieldsIndexIn.ReadVInt())
		if err != nil {
			return nil, err
		}
		bitsPerDocBase, err := int32AsInt(fieldsIndexIn.ReadVInt())
		if err != nil {
			return nil, err
		}
		if bitsPerDocBase < 1 || bitsPerDocBase > 32 {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn, "Corrupted bitsPerDocBase: %v", bitsPerDocBase)
		}
		docBasesDeltas, err := packed.ReaderNoHeader(fieldsIndexIn, packed.PACKED, packedIntsVersion, numChunks, bitsPerDocBase)
		if err != nil {
			return nil, err
		}

		// start pointers
		startPointer, err := fieldsIndexIn.ReadVLong()
		if err != nil {
			return nil, err
		}
		avgChunkSize, err := fieldsIndexIn.ReadVLong()
		if err != nil {
			return nil, err
		}
		bitsPerStartPointer, err := int32AsInt(fieldsIndexIn.ReadVInt())
		if err != nil {
			return nil, err
		}
		if bitsPerStartPointer < 1 || bitsPerStartPointer > 64 {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn, "Corrupted bitsPerStartPointer: %v", bitsPerStartPointer)
		}
		startPointersDeltas, err := packed.ReaderNoHeader(fieldsIndexIn, packed.PACKED, packedIntsVersion, numChunks, bitsPerStartPointer)
		if err != nil {
			return nil, err
		}

		r.docBases = append(r.docBases, docBase)
		r.avgChunkDocs = append(r.avgChunkDocs, avgChunkDocs)
		r.docBasesDeltas = append(r.docBasesDeltas, docBasesDeltas)
		r.startPointers = append(r.startPointers, startPointer)
		r.avgChunkSizes = append(r.avgChunkSizes, avgChunkSize)
		r.startPointersDeltas = append(r.startPointersDeltas, startPointersDeltas)
	}

	return r, nil
}

// rightmost block whose doc base is <= docID
func (r *StoredFieldsIndexReader) block(docID int) int {
	lo, hi := 0, len(r.docBases)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		midValue := r.docBases[mid]
		if midValue == docID {
			return mid
		} else if midValue < docID {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}

func (r *StoredFieldsIndexReader) relativeDocBase(block, relativeChunk int) int {
	expected := r.avgChunkDocs[block] * relativeChunk
	delta := util.ZigZagDecodeLong(r.docBasesDeltas[block].Get(relativeChunk))
	return expected + int(delta)
}

func (r *StoredFieldsIndexReader) relativeStartPointer(block, relativeChunk int) int64 {
	expected := r.avgChunkSizes[block] * int64(relativeChunk)
	delta := util.ZigZagDecodeLong(r.startPointersDeltas[block].Get(relativeChunk))
	return expected + delta
}

func (r *StoredFieldsIndexReader) relativeChunk(block, relativeDoc int) int {
	lo, hi := 0, r.docBasesDeltas[block].Size()-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		midValue := r.relativeDocBase(block, mid)
		if midValue == relativeDoc {
			return mid
		} else if midValue < relativeDoc {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}

// Returns the start pointer of the chunk that contains docID.
func (r *StoredFieldsIndexReader) startPointer(docID int) int64 {
	if docID < 0 || (r.maxDoc >= 0 && docID >= r.maxDoc) {
		panic(fmt.Sprintf("docID out of range [0-%v]: %v", r.maxDoc, docID))
	}
	block := r.block(docID)
	relativeChunk := r.relativeChunk(block, docID-r.docBases[block])
	return r.startPointers[block] + r.relativeStartPointer(block, relativeChunk)
}

// Total number of chunks referenced by the index.
func (r *StoredFieldsIndexReader) numChunks() int {
	n := 0
	for _, deltas := range r.docBasesDeltas {
		n += deltas.Size()
	}
	return n
}

// Start pointer of the last chunk, or -1 if the index is empty.
func (r *StoredFieldsIndexReader) lastStartPointer() int64 {
	if len(r.docBases) == 0 {
		return -1
	}
	block := len(r.docBases) - 1
	return r.startPointers[block] + r.relativeStartPointer(block, r.docBasesDeltas[block].Size()-1)
}

func (r *StoredFieldsIndexReader) Clone() *StoredFieldsIndexReader {
	return r
}

func int32AsInt(n int32, err error) (int, error) {
	return int(n), err
}
