package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/codec"
	. "github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

func nextLiveDoc(doc int, liveDocs util.Bits, maxDoc int) int {
	if liveDocs == nil {
		return doc
	}
	for doc < maxDoc && !liveDocs.At(doc) {
		doc++
	}
	return doc
}

func nextDeletedDoc(doc int, liveDocs util.Bits, maxDoc int) int {
	if liveDocs == nil {
		return maxDoc
	}
	for doc < maxDoc && liveDocs.At(doc) {
		doc++
	}
	return doc
}

/*
Returns the reader of a source segment whose chunks can be reused
as-is, or nil if its documents have to be re-encoded.
*/
func (w *CompressingStoredFieldsWriter) matchingReader(reader *MergeReader) *CompressingStoredFieldsReader {
	if !reader.Matching {
		return nil
	}
	r, ok := reader.StoredFieldsReader.(*CompressingStoredFieldsReader)
	if !ok || r.version != VERSION_CURRENT ||
		r.compressionMode != w.compressionMode ||
		r.chunkSize != w.chunkSize ||
		r.packedIntsVersion != packed.VERSION_CURRENT {
		return nil
	}
	return r
}

func (w *CompressingStoredFieldsWriter) Merge(mergeState *MergeState) (int, error) {
	docCount := 0
	for idx, reader := range mergeState.Readers {
		var n int
		var err error
		if matching := w.matchingReader(reader); matching != nil {
			log.Debugf("Merging stored fields of segment #%v from compressed chunks", idx)
			n, err = w.mergeChunks(reader, matching)
		} else {
			log.Debugf("Merging stored fields of segment #%v document by document", idx)
			n, err = w.mergeNaive(mergeState, reader)
		}
		if err != nil {
			return 0, err
		}
		docCount += n
	}
	if err := w.Finish(mergeState.FieldInfos, docCount); err != nil {
		return 0, err
	}
	return docCount, nil
}

// Re-adds every live document through a visitor.
func (w *CompressingStoredFieldsWriter) mergeNaive(mergeState *MergeState, reader *MergeReader) (int, error) {
	docCount := 0
	for i := nextLiveDoc(0, reader.LiveDocs, reader.MaxDoc); i < reader.MaxDoc; i = nextLiveDoc(i+1, reader.LiveDocs, reader.MaxDoc) {
		visitor := document.NewDocumentStoredFieldVisitor()
		if err := reader.StoredFieldsReader.VisitDocument(i, visitor); err != nil {
			return 0, err
		}
		doc := visitor.Document()
		if err := w.StartDocument(doc.Len()); err != nil {
			return 0, err
		}
		for _, field := range doc.Fields() {
			info := mergeState.FieldInfos.FieldInfoByName(field.Name())
			assert2(info != nil, "no merged field info for %v", field.Name())
			if err := w.WriteField(info, field); err != nil {
				return 0, err
			}
		}
		if err := w.FinishDocument(); err != nil {
			return 0, err
		}
		docCount++
	}
	w.metrics.MergedDocs.WithLabelValues(MERGE_PATH_NAIVE).Add(float64(docCount))
	return docCount, nil
}

/*
Walks the chunks of a matching segment. Full chunks without
deletions are copied compressed; the others are decompressed and
their live documents re-buffered.
*/
func (w *CompressingStoredFieldsWriter) mergeChunks(reader *MergeReader, matching *CompressingStoredFieldsReader) (int, error) {
	maxDoc, liveDocs := reader.MaxDoc, reader.LiveDocs
	docCount := 0
	docID := nextLiveDoc(0, liveDocs, maxDoc)
	if docID >= maxDoc {
		// all docs were deleted
		return 0, nil
	}

	it, err := matching.chunkIterator(docID)
	if err != nil {
		return 0, err
	}
	var startOffsets []int
	for docID < maxDoc {
		// go to the next chunk that contains docID
		if err = it.next(docID); err != nil {
			return 0, err
		}
		// transform lengths into offsets
		if len(startOffsets) < it.chunkDocs {
			startOffsets = make([]int, util.Oversize(it.chunkDocs, 4))
		}
		for i := 1; i < it.chunkDocs; i++ {
			startOffsets[i] = startOffsets[i-1] + it.lengths[i-1]
		}

		last := it.chunkDocs - 1
		if w.numBufferedDocs == 0 && // starting a new chunk
			startOffsets[last] < w.chunkSize && // chunk is small enough
			startOffsets[last]+it.lengths[last] >= w.chunkSize && // chunk is large enough
			nextDeletedDoc(it.docBase, liveDocs, it.docBase+it.chunkDocs) == it.docBase+it.chunkDocs { // no deletion in the chunk
			assert(docID == it.docBase)

			// no need to decompress, just copy data
			if err = w.indexWriter.writeIndex(it.chunkDocs, w.fieldsStream.FilePointer()); err != nil {
				return 0, err
			}
			if err = w.writeHeader(w.docBase, it.chunkDocs, it.numStoredFields, it.lengths); err != nil {
				return 0, err
			}
			if err = it.copyCompressedData(w.fieldsStream); err != nil {
				return 0, err
			}
			w.docBase += it.chunkDocs
			docID = nextLiveDoc(it.docBase+it.chunkDocs, liveDocs, maxDoc)
			docCount += it.chunkDocs
			w.metrics.MergedChunks.WithLabelValues(MERGE_PATH_BULK).Inc()
			w.metrics.MergedDocs.WithLabelValues(MERGE_PATH_BULK).Add(float64(it.chunkDocs))
			continue
		}

		// decompress
		if err = it.decompress(); err != nil {
			return 0, err
		}
		if startOffsets[last]+it.lengths[last] != len(it.bytes) {
			return 0, codec.NewCorruptIndexError(it.fieldsStream,
				"Corrupted: expected chunk size=%v, got %v", startOffsets[last]+it.lengths[last], len(it.bytes))
		}
		// copy non-deleted docs
		copied := 0
		for ; docID < it.docBase+it.chunkDocs; docID = nextLiveDoc(docID+1, liveDocs, maxDoc) {
			diff := docID - it.docBase
			if err = w.StartDocument(it.numStoredFields[diff]); err != nil {
				return 0, err
			}
			if err = w.bufferedDocs.WriteBytes(it.bytes[startOffsets[diff] : startOffsets[diff]+it.lengths[diff]]); err != nil {
				return 0, err
			}
			w.numStoredFieldsInDoc = it.numStoredFields[diff]
			if err = w.FinishDocument(); err != nil {
				return 0, err
			}
			copied++
		}
		docCount += copied
		w.metrics.MergedChunks.WithLabelValues(MERGE_PATH_DECOMPRESS).Inc()
		w.metrics.MergedDocs.WithLabelValues(MERGE_PATH_DECOMPRESS).Add(float64(copied))
	}

	return docCount, it.checkIntegrity()
}
