package compressing

import (
	"fmt"
	"math"
	"sort"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	. "github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

const (
	VECTORS_EXTENSION       = "tvd"
	VECTORS_INDEX_EXTENSION = "tvx"

	VECTORS_VERSION_START    = 0
	VECTORS_VERSION_CHECKSUM = 1
	VECTORS_VERSION_CURRENT  = VECTORS_VERSION_CHECKSUM

	// block size of the block-packed sub-streams of a chunk
	VECTORS_BLOCK_SIZE = 64
)

const (
	POSITIONS = 0x01
	OFFSETS   = 0x02
	PAYLOADS  = 0x04
)

var FLAGS_BITS = packed.BitsRequired(POSITIONS | OFFSETS | PAYLOADS)

// a pending doc
type tvDocData struct {
	numFields                    int
	fields                       []*tvFieldData
	posStart, offStart, payStart int
}

func (dd *tvDocData) addField(fieldNum, numTerms int, positions, offsets, payloads bool) *tvFieldData {
	posStart, offStart, payStart := dd.posStart, dd.offStart, dd.payStart
	if n := len(dd.fields); n > 0 {
		posStart, offStart, payStart = dd.fields[n-1].nextStarts()
	}
	field := newTVFieldData(fieldNum, numTerms, positions, offsets, payloads, posStart, offStart, payStart)
	dd.fields = append(dd.fields, field)
	return field
}

// a pending field
type tvFieldData struct {
	hasPositions, hasOffsets, hasPayloads bool
	fieldNum, flags, numTerms             int
	freqs, prefixLengths, suffixLengths   []int
	posStart, offStart, payStart          int
	totalPositions                        int
	ord                                   int
}

func newTVFieldData(fieldNum, numTerms int, positions, offsets, payloads bool,
	posStart, offStart, payStart int) *tvFieldData {
	flags := 0
	if positions {
		flags |= POSITIONS
	}
	if offsets {
		flags |= OFFSETS
	}
	if payloads {
		flags |= PAYLOADS
	}
	return &tvFieldData{
		hasPositions:  positions,
		hasOffsets:    offsets,
		hasPayloads:   payloads,
		fieldNum:      fieldNum,
		flags:         flags,
		numTerms:      numTerms,
		freqs:         make([]int, numTerms),
		prefixLengths: make([]int, numTerms),
		suffixLengths: make([]int, numTerms),
		posStart:      posStart,
		offStart:      offStart,
		payStart:      payStart,
	}
}

// Where the positions, offsets and payload lengths of the next field start.
func (fd *tvFieldData) nextStarts() (posStart, offStart, payStart int) {
	posStart, offStart, payStart = fd.posStart, fd.offStart, fd.payStart
	if fd.hasPositions {
		posStart += fd.totalPositions
	}
	if fd.hasOffsets {
		offStart += fd.totalPositions
	}
	if fd.hasPayloads {
		payStart += fd.totalPositions
	}
	return
}

func (fd *tvFieldData) addTerm(freq, prefixLength, suffixLength int) {
	fd.freqs[fd.ord] = freq
	fd.prefixLengths[fd.ord] = prefixLength
	fd.suffixLengths[fd.ord] = suffixLength
	fd.ord++
}

func (fd *tvFieldData) addPosition(w *CompressingTermVectorsWriter, position, startOffset, length, payloadLength int) {
	if fd.hasPositions {
		w.positionsBuf = setAt(w.positionsBuf, fd.posStart+fd.totalPositions, position)
	}
	if fd.hasOffsets {
		w.startOffsetsBuf = setAt(w.startOffsetsBuf, fd.offStart+fd.totalPositions, startOffset)
		w.lengthsBuf = setAt(w.lengthsBuf, fd.offStart+fd.totalPositions, length)
	}
	if fd.hasPayloads {
		w.payloadLengthsBuf = setAt(w.payloadLengthsBuf, fd.payStart+fd.totalPositions, payloadLength)
	}
	fd.totalPositions++
}

func setAt(buf []int, i, v int) []int {
	if i >= len(buf) {
		buf = growInts(buf, util.Oversize(i+1, 8))
	}
	buf[i] = v
	return buf
}

/* TermVectorsWriter for CompressingTermVectorsFormat. */
type CompressingTermVectorsWriter struct {
	directory     *store.TrackingDirectoryWrapper
	indexWriter   *StoredFieldsIndexWriter
	vectorsStream store.IndexOutput

	compressionMode CompressionMode
	compressor      Compressor
	chunkSize       int
	metrics         *Metrics

	numDocs     int // cumulative number of docs seen
	pendingDocs []*tvDocData
	curDoc      *tvDocData
	curField    *tvFieldData
	lastTerm    []byte

	positionsBuf, startOffsetsBuf, lengthsBuf, payloadLengthsBuf []int
	termSuffixes *GrowableByteArrayDataOutput // buffered term suffixes
	payloadBytes *GrowableByteArrayDataOutput // buffered term payloads
	writer       *packed.BlockPackedWriter
}

func NewCompressingTermVectorsWriter(d store.Directory, si *model.SegmentInfo,
	segmentSuffix string, ctx store.IOContext, formatName string,
	compressionMode CompressionMode, chunkSize int, metrics *Metrics) (*CompressingTermVectorsWriter, error) {

	assert(d != nil)
	if metrics == nil {
		metrics = defaultMetrics
	}
	w := &CompressingTermVectorsWriter{
		directory:         store.NewTrackingDirectoryWrapper(d),
		compressionMode:   compressionMode,
		compressor:        compressionMode.NewCompressor(),
		chunkSize:         chunkSize,
		metrics:           metrics,
		lastTerm:          make([]byte, 0, util.Oversize(30, 1)),
		termSuffixes:      newGrowableByteArrayDataOutput(util.Oversize(chunkSize, 1)),
		payloadBytes:      newGrowableByteArrayDataOutput(util.Oversize(1, 1)),
		positionsBuf:      make([]int, 1024),
		startOffsetsBuf:   make([]int, 1024),
		lengthsBuf:        make([]int, 1024),
		payloadLengthsBuf: make([]int, 1024),
	}

	success := false
	indexStream, err := w.directory.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix,
		VECTORS_INDEX_EXTENSION), ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(indexStream)
			w.Abort()
		}
	}()

	if w.vectorsStream, err = w.directory.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix,
		VECTORS_EXTENSION), ctx); err != nil {
		return nil, err
	}

	codecNameIdx := formatName + CODEC_SFX_IDX
	codecNameDat := formatName + CODEC_SFX_DAT
	if err = codec.WriteHeader(indexStream, codecNameIdx, VECTORS_VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = codec.WriteHeader(w.vectorsStream, codecNameDat, VECTORS_VERSION_CURRENT); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	assert(int64(codec.HeaderLength(codecNameDat)) == w.vectorsStream.FilePointer())

	if w.indexWriter, err = NewStoredFieldsIndexWriter(indexStream); err != nil {
		return nil, err
	}
	indexStream = nil

	if err = w.vectorsStream.WriteVInt(packed.VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = w.vectorsStream.WriteVInt(int32(chunkSize)); err != nil {
		return nil, err
	}
	w.writer = packed.NewBlockPackedWriter(w.vectorsStream, VECTORS_BLOCK_SIZE)

	success = true
	return w, nil
}

func (w *CompressingTermVectorsWriter) Close() error {
	defer func() {
		w.vectorsStream = nil
		w.indexWriter = nil
	}()
	return util.Close(w.vectorsStream, w.indexWriter)
}

func (w *CompressingTermVectorsWriter) Abort() {
	if w == nil {
		return
	}
	util.CloseWhileSuppressingError(w)
	util.DeleteFilesIgnoringErrors(w.directory, w.directory.CreatedFiles()...)
}

func (w *CompressingTermVectorsWriter) addDocData(numVectorFields int) *tvDocData {
	var last *tvFieldData
	for i := len(w.pendingDocs) - 1; i >= 0; i-- {
		if fields := w.pendingDocs[i].fields; len(fields) > 0 {
			last = fields[len(fields)-1]
			break
		}
	}
	doc := &tvDocData{numFields: numVectorFields}
	if last != nil {
		doc.posStart, doc.offStart, doc.payStart = last.nextStarts()
	}
	w.pendingDocs = append(w.pendingDocs, doc)
	return doc
}

func (w *CompressingTermVectorsWriter) StartDocument(numVectorFields int) error {
	w.curDoc = w.addDocData(numVectorFields)
	return nil
}

func (w *CompressingTermVectorsWriter) FinishDocument() error {
	assert2(w.curDoc != nil, "FinishDocument called before StartDocument")
	assert2(len(w.curDoc.fields) == w.curDoc.numFields,
		"document announced %v vector fields but wrote %v", w.curDoc.numFields, len(w.curDoc.fields))
	// append the payload bytes of the doc after its terms
	if err := w.termSuffixes.WriteBytes(w.payloadBytes.bytes); err != nil {
		return err
	}
	w.payloadBytes.reset()
	w.numDocs++
	w.curDoc = nil
	if w.triggerFlush() {
		return w.flush()
	}
	return nil
}

func (w *CompressingTermVectorsWriter) StartField(info *model.FieldInfo,
	numTerms int, positions, offsets, payloads bool) error {
	w.curField = w.curDoc.addField(int(info.Number), numTerms, positions, offsets, payloads)
	w.lastTerm = w.lastTerm[:0]
	return nil
}

func (w *CompressingTermVectorsWriter) FinishField() error {
	assert2(w.curField.ord == w.curField.numTerms,
		"field announced %v terms but wrote %v", w.curField.numTerms, w.curField.ord)
	w.curField = nil
	return nil
}

func (w *CompressingTermVectorsWriter) StartTerm(term []byte, freq int) error {
	assert(freq >= 1)
	prefix := util.BytesDifference(w.lastTerm, term)
	w.curField.addTerm(freq, prefix, len(term)-prefix)
	if err := w.termSuffixes.WriteBytes(term[prefix:]); err != nil {
		return err
	}
	// copy last term
	w.lastTerm = append(w.lastTerm[:0], term...)
	return nil
}

func (w *CompressingTermVectorsWriter) FinishTerm() error {
	return nil
}

func (w *CompressingTermVectorsWriter) AddPosition(position, startOffset, endOffset int, payload []byte) error {
	assert(w.curField.flags != 0)
	w.curField.addPosition(w, position, startOffset, endOffset-startOffset, len(payload))
	if w.curField.hasPayloads && len(payload) > 0 {
		return w.payloadBytes.WriteBytes(payload)
	}
	return nil
}

func (w *CompressingTermVectorsWriter) triggerFlush() bool {
	return w.termSuffixes.length() >= w.chunkSize ||
		len(w.pendingDocs) >= MAX_DOCUMENTS_PER_CHUNK
}

func (w *CompressingTermVectorsWriter) flush() (err error) {
	chunkDocs := len(w.pendingDocs)
	assert2(chunkDocs > 0, "%v", chunkDocs)
	start := w.vectorsStream.FilePointer()

	// write the index file
	if err = w.indexWriter.writeIndex(chunkDocs, start); err != nil {
		return err
	}

	docBase := w.numDocs - chunkDocs
	if err = w.vectorsStream.WriteVInt(int32(docBase)); err != nil {
		return err
	}
	if err = w.vectorsStream.WriteVInt(int32(chunkDocs)); err != nil {
		return err
	}

	// total number of fields of the chunk
	totalFields, err := w.flushNumFields(chunkDocs)
	if err != nil {
		return err
	}

	if totalFields > 0 {
		// unique field numbers (sorted)
		fieldNums, err := w.flushFieldNums()
		if err != nil {
			return err
		}
		for _, step := range []func() error{
			// offsets in the array of unique field numbers
			func() error { return w.flushFields(totalFields, fieldNums) },
			// flags (does the field have positions, offsets, payloads?)
			func() error { return w.flushFlags(totalFields, fieldNums) },
			// number of terms of each field
			func() error { return w.flushNumTerms(totalFields) },
			// prefix and suffix lengths for each field
			w.flushTermLengths,
			// term freqs - 1 (because termFreq is always >=1) for each term
			w.flushTermFreqs,
			// positions for all terms, when enabled
			w.flushPositions,
			// offsets for all terms, when enabled
			func() error { return w.flushOffsets(fieldNums) },
			// payload lengths for all terms, when enabled
			w.flushPayloadLengths,
			// compress terms and payloads and write them to the output
			func() error { return w.compressor.Compress(w.termSuffixes.bytes, w.vectorsStream) },
		} {
			if err = step(); err != nil {
				return err
			}
		}
	}

	w.metrics.chunkFlushed(FORMAT_TERM_VECTORS, w.termSuffixes.length(), w.vectorsStream.FilePointer()-start)
	log.Debugf("Flushed term vectors chunk of %v docs at %v (docBase=%v, %v fields)",
		chunkDocs, start, docBase, totalFields)

	// reset
	for i := range w.pendingDocs {
		w.pendingDocs[i] = nil
	}
	w.pendingDocs = w.pendingDocs[:0]
	w.curDoc = nil
	w.curField = nil
	w.termSuffixes.reset()
	return nil
}

func (w *CompressingTermVectorsWriter) flushNumFields(chunkDocs int) (int, error) {
	if chunkDocs == 1 {
		numFields := w.pendingDocs[0].numFields
		return numFields, w.vectorsStream.WriteVInt(int32(numFields))
	}
	w.writer.Reset(w.vectorsStream)
	totalFields := 0
	for _, dd := range w.pendingDocs {
		if err := w.writer.Add(int64(dd.numFields)); err != nil {
			return 0, err
		}
		totalFields += dd.numFields
	}
	return totalFields, w.writer.Finish()
}

// Returns a sorted array containing unique field numbers
func (w *CompressingTermVectorsWriter) flushFieldNums() ([]int, error) {
	seen := make(map[int]bool)
	var fieldNums []int
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if !seen[fd.fieldNum] {
				seen[fd.fieldNum] = true
				fieldNums = append(fieldNums, fd.fieldNum)
			}
		}
	}
	sort.Ints(fieldNums)

	numDistinctFields := len(fieldNums)
	assert(numDistinctFields > 0)
	bitsRequired := packed.BitsRequired(int64(fieldNums[numDistinctFields-1]))
	token := (min(numDistinctFields-1, 0x07) << 5) | bitsRequired
	if err := w.vectorsStream.WriteByte(byte(token)); err != nil {
		return nil, err
	}
	if numDistinctFields-1 >= 0x07 {
		if err := w.vectorsStream.WriteVInt(int32(numDistinctFields - 1 - 0x07)); err != nil {
			return nil, err
		}
	}
	writer := packed.WriterNoHeader(w.vectorsStream, packed.PACKED, numDistinctFields, bitsRequired)
	for _, fieldNum := range fieldNums {
		if err := writer.Add(int64(fieldNum)); err != nil {
			return nil, err
		}
	}
	return fieldNums, writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushFields(totalFields int, fieldNums []int) error {
	writer := packed.WriterNoHeader(w.vectorsStream, packed.PACKED, totalFields,
		packed.BitsRequired(int64(len(fieldNums)-1)))
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			fieldNumIndex := sort.SearchInts(fieldNums, fd.fieldNum)
			assert(fieldNumIndex >= 0)
			if err := writer.Add(int64(fieldNumIndex)); err != nil {
				return err
			}
		}
	}
	return writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushFlags(totalFields int, fieldNums []int) error {
	// check if fields always have the same flags
	nonChangingFlags := true
	fieldFlags := make([]int, len(fieldNums))
	for i := range fieldFlags {
		fieldFlags[i] = -1
	}
outer:
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			fieldNumOff := sort.SearchInts(fieldNums, fd.fieldNum)
			if fieldFlags[fieldNumOff] == -1 {
				fieldFlags[fieldNumOff] = fd.flags
			} else if fieldFlags[fieldNumOff] != fd.flags {
				nonChangingFlags = false
				break outer
			}
		}
	}

	if nonChangingFlags {
		// write one flag per field num
		if err := w.vectorsStream.WriteVInt(0); err != nil {
			return err
		}
		writer := packed.WriterNoHeader(w.vectorsStream, packed.PACKED, len(fieldFlags), FLAGS_BITS)
		for _, flags := range fieldFlags {
			assert(flags >= 0)
			if err := writer.Add(int64(flags)); err != nil {
				return err
			}
		}
		assert(writer.Ord() == len(fieldFlags)-1)
		return writer.Finish()
	}

	// write one flag for every field instance
	if err := w.vectorsStream.WriteVInt(1); err != nil {
		return err
	}
	writer := packed.WriterNoHeader(w.vectorsStream, packed.PACKED, totalFields, FLAGS_BITS)
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if err := writer.Add(int64(fd.flags)); err != nil {
				return err
			}
		}
	}
	assert(writer.Ord() == totalFields-1)
	return writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushNumTerms(totalFields int) error {
	maxNumTerms := 0
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			maxNumTerms |= fd.numTerms
		}
	}
	bitsRequired := packed.BitsRequired(int64(maxNumTerms))
	if err := w.vectorsStream.WriteVInt(int32(bitsRequired)); err != nil {
		return err
	}
	writer := packed.WriterNoHeader(w.vectorsStream, packed.PACKED, totalFields, bitsRequired)
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if err := writer.Add(int64(fd.numTerms)); err != nil {
				return err
			}
		}
	}
	assert(writer.Ord() == totalFields-1)
	return writer.Finish()
}

// Writes one block-packed stream with the values produced by fn for every pending field.
func (w *CompressingTermVectorsWriter) flushPerField(fn func(fd *tvFieldData, add func(int64) error) error) error {
	w.writer.Reset(w.vectorsStream)
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if err := fn(fd, w.writer.Add); err != nil {
				return err
			}
		}
	}
	return w.writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushTermLengths() error {
	if err := w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		for _, l := range fd.prefixLengths[:fd.numTerms] {
			if err := add(int64(l)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		for _, l := range fd.suffixLengths[:fd.numTerms] {
			if err := add(int64(l)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushTermFreqs() error {
	return w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		for _, freq := range fd.freqs[:fd.numTerms] {
			if err := add(int64(freq - 1)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushPositions() error {
	return w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		if !fd.hasPositions {
			return nil
		}
		pos := 0
		for i := 0; i < fd.numTerms; i++ {
			previousPosition := 0
			for j := 0; j < fd.freqs[i]; j++ {
				position := w.positionsBuf[fd.posStart+pos]
				pos++
				if err := add(int64(position - previousPosition)); err != nil {
					return err
				}
				previousPosition = position
			}
		}
		assert(pos == fd.totalPositions)
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushOffsets(fieldNums []int) error {
	hasOffsets := false
	sumPos := make([]int64, len(fieldNums))
	sumOffsets := make([]int64, len(fieldNums))
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if fd.hasOffsets && fd.totalPositions > 0 {
				hasOffsets = true
			}
			if fd.hasOffsets && fd.hasPositions {
				fieldNumOff := sort.SearchInts(fieldNums, fd.fieldNum)
				pos := 0
				for i := 0; i < fd.numTerms; i++ {
					previousPos, previousOff := 0, 0
					for j := 0; j < fd.freqs[i]; j++ {
						position := w.positionsBuf[fd.posStart+pos]
						startOffset := w.startOffsetsBuf[fd.offStart+pos]
						sumPos[fieldNumOff] += int64(position - previousPos)
						sumOffsets[fieldNumOff] += int64(startOffset - previousOff)
						previousPos, previousOff = position, startOffset
						pos++
					}
				}
				assert(pos == fd.totalPositions)
			}
		}
	}

	if !hasOffsets {
		// nothing to do
		return nil
	}

	charsPerTerm := make([]float32, len(fieldNums))
	for i := range fieldNums {
		if sumPos[i] > 0 && sumOffsets[i] > 0 {
			charsPerTerm[i] = float32(float64(sumOffsets[i]) / float64(sumPos[i]))
		}
	}

	// start offsets
	for _, cpt := range charsPerTerm {
		if err := w.vectorsStream.WriteInt(int32(math.Float32bits(cpt))); err != nil {
			return err
		}
	}

	if err := w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		if fd.flags&OFFSETS == 0 {
			return nil
		}
		cpt := charsPerTerm[sort.SearchInts(fieldNums, fd.fieldNum)]
		pos := 0
		for i := 0; i < fd.numTerms; i++ {
			previousPos, previousOff := 0, 0
			for j := 0; j < fd.freqs[i]; j++ {
				position := 0
				if fd.hasPositions {
					position = w.positionsBuf[fd.posStart+pos]
				}
				startOffset := w.startOffsetsBuf[fd.offStart+pos]
				if err := add(int64(startOffset - previousOff - int(cpt*float32(position-previousPos)))); err != nil {
					return err
				}
				previousPos, previousOff = position, startOffset
				pos++
			}
		}
		return nil
	}); err != nil {
		return err
	}

	// lengths
	return w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		if fd.flags&OFFSETS == 0 {
			return nil
		}
		pos := 0
		for i := 0; i < fd.numTerms; i++ {
			for j := 0; j < fd.freqs[i]; j++ {
				length := w.lengthsBuf[fd.offStart+pos]
				pos++
				if err := add(int64(length - fd.prefixLengths[i] - fd.suffixLengths[i])); err != nil {
					return err
				}
			}
		}
		assert(pos == fd.totalPositions)
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushPayloadLengths() error {
	return w.flushPerField(func(fd *tvFieldData, add func(int64) error) error {
		if !fd.hasPayloads {
			return nil
		}
		for _, l := range w.payloadLengthsBuf[fd.payStart : fd.payStart+fd.totalPositions] {
			if err := add(int64(l)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) Finish(fis model.FieldInfos, numDocs int) (err error) {
	assert2(w.indexWriter != nil, "already closed?")
	if len(w.pendingDocs) > 0 {
		if err = w.flush(); err != nil {
			return err
		}
	}
	if numDocs != w.numDocs {
		return fmt.Errorf("Wrote %v docs, finish called with numDocs=%v", w.numDocs, numDocs)
	}
	if err = w.indexWriter.finish(numDocs, w.vectorsStream.FilePointer()); err != nil {
		return err
	}
	return codec.WriteFooter(w.vectorsStream)
}

/*
Merges the term vectors of every live document of the source
segments, decoding them through their readers. Field numbers are
remapped by name to the merged field infos.
*/
func (w *CompressingTermVectorsWriter) Merge(mergeState *MergeState) (int, error) {
	docCount := 0
	for idx, reader := range mergeState.Readers {
		log.Debugf("Merging term vectors of segment #%v", idx)
		for i := nextLiveDoc(0, reader.LiveDocs, reader.MaxDoc); i < reader.MaxDoc; i = nextLiveDoc(i+1, reader.LiveDocs, reader.MaxDoc) {
			var vectors model.Fields
			if reader.TermVectorsReader != nil {
				var err error
				if vectors, err = reader.TermVectorsReader.Get(i); err != nil {
					return 0, err
				}
			}
			if err := w.addAllDocVectors(vectors, mergeState); err != nil {
				return 0, err
			}
			docCount++
		}
	}
	if err := w.Finish(mergeState.FieldInfos, docCount); err != nil {
		return 0, err
	}
	return docCount, nil
}

func (w *CompressingTermVectorsWriter) addAllDocVectors(vectors model.Fields, mergeState *MergeState) (err error) {
	if vectors == nil {
		if err = w.StartDocument(0); err != nil {
			return err
		}
		return w.FinishDocument()
	}

	// fields without terms are not written
	names := vectors.Names()
	terms := make([]model.Terms, 0, len(names))
	infos := make([]*model.FieldInfo, 0, len(names))
	for _, name := range names {
		if t := vectors.Terms(name); t != nil {
			info := mergeState.FieldInfos.FieldInfoByName(name)
			assert2(info != nil, "no merged field info for %v", name)
			terms = append(terms, t)
			infos = append(infos, info)
		}
	}

	if err = w.StartDocument(len(terms)); err != nil {
		return err
	}
	var termsEnum model.TermsEnum
	var docsAndPositions model.DocsAndPositionsEnum
	for i, t := range terms {
		hasPositions, hasOffsets, hasPayloads := t.HasPositions(), t.HasOffsets(), t.HasPayloads()
		assert(!hasPayloads || hasPositions)
		numTerms := int(t.Size())
		if err = w.StartField(infos[i], numTerms, hasPositions, hasOffsets, hasPayloads); err != nil {
			return err
		}
		termsEnum = t.Iterator(termsEnum)
		termCount := 0
		for {
			term, err := termsEnum.Next()
			if err != nil {
				return err
			}
			if term == nil {
				break
			}
			termCount++
			freq := int(termsEnum.TotalTermFreq())
			if err = w.StartTerm(term, freq); err != nil {
				return err
			}
			if hasPositions || hasOffsets {
				docsAndPositions = termsEnum.DocsAndPositions(nil, docsAndPositions)
				assert(docsAndPositions != nil)
				docID := docsAndPositions.NextDoc()
				assert(docID != model.NO_MORE_DOCS)
				assert(docsAndPositions.Freq() == freq)
				for posUpto := 0; posUpto < freq; posUpto++ {
					pos := docsAndPositions.NextPosition()
					startOffset := docsAndPositions.StartOffset()
					endOffset := docsAndPositions.EndOffset()
					payload := docsAndPositions.Payload()
					assert(!hasPositions || pos >= 0)
					if err = w.AddPosition(pos, startOffset, endOffset, payload); err != nil {
						return err
					}
				}
			}
			if err = w.FinishTerm(); err != nil {
				return err
			}
		}
		assert(termCount == numTerms)
		if err = w.FinishField(); err != nil {
			return err
		}
	}
	return w.FinishDocument()
}

var _ TermVectorsWriter = (*CompressingTermVectorsWriter)(nil)
