package compressing

import (
	"bytes"
	"fmt"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	. "github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

// TermVectorsReader for CompressingTermVectorsFormat
type CompressingTermVectorsReader struct {
	fieldInfos        model.FieldInfos
	indexReader       *StoredFieldsIndexReader
	vectorsStream     store.IndexInput
	version           int
	packedIntsVersion int32
	compressionMode   CompressionMode
	decompressor      Decompressor
	chunkSize         int
	numDocs           int
	closed            bool
	reader            *packed.BlockPackedReaderIterator
	metrics           *Metrics
}

// used by clone
func newCompressingTermVectorsReaderFrom(r *CompressingTermVectorsReader) *CompressingTermVectorsReader {
	return &CompressingTermVectorsReader{
		fieldInfos:        r.fieldInfos,
		vectorsStream:     r.vectorsStream.Clone(),
		indexReader:       r.indexReader.Clone(),
		version:           r.version,
		packedIntsVersion: r.packedIntsVersion,
		compressionMode:   r.compressionMode,
		decompressor:      r.decompressor.Clone(),
		chunkSize:         r.chunkSize,
		numDocs:           r.numDocs,
		reader:            packed.NewBlockPackedReaderIterator(nil, r.packedIntsVersion, VECTORS_BLOCK_SIZE, 0),
		metrics:           r.metrics,
	}
}

// Sole constructor
func NewCompressingTermVectorsReader(d store.Directory, si *model.SegmentInfo,
	segmentSuffix string, fn model.FieldInfos, ctx store.IOContext, formatName string,
	compressionMode CompressionMode, metrics *Metrics) (_ *CompressingTermVectorsReader, err error) {

	if metrics == nil {
		metrics = defaultMetrics
	}
	r := &CompressingTermVectorsReader{
		compressionMode: compressionMode,
		fieldInfos:      fn,
		numDocs:         si.DocCount(),
		metrics:         metrics,
	}
	segment := si.Name

	var indexStream store.ChecksumIndexInput
	success := false
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(r, indexStream)
		}
	}()

	// Load the index into memory
	indexStreamFN := util.SegmentFileName(segment, segmentSuffix, VECTORS_INDEX_EXTENSION)
	if indexStream, err = d.OpenChecksumInput(indexStreamFN, ctx); err != nil {
		return nil, err
	}
	codecNameIdx := formatName + CODEC_SFX_IDX
	if r.version, err = int32AsInt(codec.CheckHeader(indexStream, codecNameIdx,
		VECTORS_VERSION_START, VECTORS_VERSION_CURRENT)); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	if r.indexReader, err = newStoredFieldsIndexReader(indexStream, r.numDocs); err != nil {
		return nil, err
	}

	if r.version >= VECTORS_VERSION_CHECKSUM {
		if _, err = indexStream.ReadVLong(); err != nil { // the end of the data file
			return nil, err
		}
		if _, err = codec.CheckFooter(indexStream); err != nil {
			return nil, err
		}
	} else {
		if err = codec.CheckEOF(indexStream); err != nil {
			return nil, err
		}
	}
	if err = indexStream.Close(); err != nil {
		return nil, err
	}
	indexStream = nil

	vectorsStreamFN := util.SegmentFileName(segment, segmentSuffix, VECTORS_EXTENSION)
	if r.vectorsStream, err = d.OpenInput(vectorsStreamFN, ctx); err != nil {
		return nil, err
	}
	codecNameDat := formatName + CODEC_SFX_DAT
	var version2 int
	if version2, err = int32AsInt(codec.CheckHeader(r.vectorsStream, codecNameDat,
		VECTORS_VERSION_START, VECTORS_VERSION_CURRENT)); err != nil {
		return nil, err
	}
	if r.version != version2 {
		return nil, codec.NewCorruptIndexError(r.vectorsStream,
			"Version mismatch between term vectors index and data: %v != %v", r.version, version2)
	}
	assert(int64(codec.HeaderLength(codecNameDat)) == r.vectorsStream.FilePointer())

	if r.packedIntsVersion, err = r.vectorsStream.ReadVInt(); err != nil {
		return nil, err
	}
	if r.chunkSize, err = int32AsInt(r.vectorsStream.ReadVInt()); err != nil {
		return nil, err
	}
	r.decompressor = compressionMode.NewDecompressor()
	r.reader = packed.NewBlockPackedReaderIterator(r.vectorsStream, r.packedIntsVersion, VECTORS_BLOCK_SIZE, 0)

	if r.version >= VECTORS_VERSION_CHECKSUM {
		// only verify the structure of the footer, every Get() seeks anyway
		if _, err = codec.RetrieveChecksum(r.vectorsStream); err != nil {
			return nil, err
		}
	}

	success = true
	return r, nil
}

func (r *CompressingTermVectorsReader) ensureOpen() {
	assert2(!r.closed, "this TermVectorsReader is closed")
}

func (r *CompressingTermVectorsReader) Close() (err error) {
	if !r.closed {
		if err = util.Close(r.vectorsStream); err == nil {
			r.closed = true
		}
	}
	return
}

func (r *CompressingTermVectorsReader) Clone() TermVectorsReader {
	r.ensureOpen()
	return newCompressingTermVectorsReaderFrom(r)
}

func (r *CompressingTermVectorsReader) CheckIntegrity() error {
	r.ensureOpen()
	if r.version >= VECTORS_VERSION_CHECKSUM {
		_, err := store.ChecksumEntireFile(r.vectorsStream)
		return err
	}
	return nil
}

func (r *CompressingTermVectorsReader) CompressionMode() CompressionMode { return r.compressionMode }
func (r *CompressingTermVectorsReader) ChunkSize() int                   { return r.chunkSize }
func (r *CompressingTermVectorsReader) NumChunks() int                   { return r.indexReader.numChunks() }

func (r *CompressingTermVectorsReader) String() string {
	return fmt.Sprintf("CompressingTermVectorsReader(mode=%v,chunksize=%v)", r.compressionMode, r.chunkSize)
}

func (r *CompressingTermVectorsReader) corrupt(format string, args ...interface{}) error {
	return codec.NewCorruptIndexError(r.vectorsStream, format, args...)
}

func (r *CompressingTermVectorsReader) readPacked(valueCount, bitsPerValue int) (packed.PackedIntsReader, error) {
	if bitsPerValue < 1 || bitsPerValue > 64 {
		return nil, r.corrupt("Invalid bitsPerValue: %v", bitsPerValue)
	}
	return packed.ReaderNoHeader(r.vectorsStream, packed.PACKED, r.packedIntsVersion, valueCount, bitsPerValue)
}

// Reads exactly len(dst) block-packed values.
func (r *CompressingTermVectorsReader) readBlock(dst []int) error {
	for i := 0; i < len(dst); {
		next, err := r.reader.NextN(len(dst) - i)
		if err != nil {
			return err
		}
		for _, v := range next {
			dst[i] = int(v)
			i++
		}
	}
	return nil
}

func (r *CompressingTermVectorsReader) next() (int, error) {
	v, err := r.reader.Next()
	return int(v), err
}

// Returns the term vectors of doc, or nil if it has none.
func (r *CompressingTermVectorsReader) Get(doc int) (model.Fields, error) {
	r.ensureOpen()
	if doc < 0 || doc >= r.numDocs {
		return nil, fmt.Errorf("docID must be >= 0 and < maxDoc=%v (got docID=%v)", r.numDocs, doc)
	}

	// seek to the right place
	if err := r.vectorsStream.Seek(r.indexReader.startPointer(doc)); err != nil {
		return nil, err
	}

	// decode
	// - docBase: first doc ID of the chunk
	// - chunkDocs: number of docs of the chunk
	docBase, err := int32AsInt(r.vectorsStream.ReadVInt())
	if err != nil {
		return nil, err
	}
	chunkDocs, err := int32AsInt(r.vectorsStream.ReadVInt())
	if err != nil {
		return nil, err
	}
	if doc < docBase || doc >= docBase+chunkDocs || docBase+chunkDocs > r.numDocs {
		return nil, r.corrupt("docBase=%v,chunkDocs=%v,doc=%v", docBase, chunkDocs, doc)
	}

	// number of fields to skip, of the doc, and of the chunk
	var skip, numFields, totalFields int
	if chunkDocs == 1 {
		if numFields, err = int32AsInt(r.vectorsStream.ReadVInt()); err != nil {
			return nil, err
		}
		totalFields = numFields
	} else {
		r.reader.Reset(r.vectorsStream, int64(chunkDocs))
		counts := make([]int, chunkDocs)
		if err = r.readBlock(counts); err != nil {
			return nil, err
		}
		for i, n := range counts {
			if i < doc-docBase {
				skip += n
			}
			totalFields += n
		}
		numFields = counts[doc-docBase]
	}

	if numFields == 0 {
		// no vectors
		return nil, nil
	}

	// read field numbers that have term vectors
	token, err := r.vectorsStream.ReadByte()
	if err != nil {
		return nil, err
	}
	bitsPerFieldNum := int(token & 0x1F)
	totalDistinctFields := int(token >> 5)
	if totalDistinctFields == 0x07 {
		n, err := int32AsInt(r.vectorsStream.ReadVInt())
		if err != nil {
			return nil, err
		}
		totalDistinctFields += n
	}
	totalDistinctFields++
	fieldNumsReader, err := r.readPacked(totalDistinctFields, bitsPerFieldNum)
	if err != nil {
		return nil, err
	}
	fieldNums := make([]int, totalDistinctFields)
	for i := range fieldNums {
		fieldNums[i] = int(fieldNumsReader.Get(i))
	}

	// read field numbers and flags
	fieldNumOffs := make([]int, numFields)
	allFieldNumOffs, err := r.readPacked(totalFields, packed.BitsRequired(int64(len(fieldNums)-1)))
	if err != nil {
		return nil, err
	}
	var flags packed.PackedIntsReader
	flagsMode, err := r.vectorsStream.ReadVInt()
	if err != nil {
		return nil, err
	}
	switch flagsMode {
	case 0:
		fieldFlags, err := r.readPacked(len(fieldNums), FLAGS_BITS)
		if err != nil {
			return nil, err
		}
		f := packed.MutableFor(totalFields, FLAGS_BITS)
		for i := 0; i < totalFields; i++ {
			fieldNumOff := int(allFieldNumOffs.Get(i))
			if fieldNumOff >= len(fieldNums) {
				return nil, r.corrupt("Invalid field number offset: %v", fieldNumOff)
			}
			f.Set(i, fieldFlags.Get(fieldNumOff))
		}
		flags = f
	case 1:
		if flags, err = r.readPacked(totalFields, FLAGS_BITS); err != nil {
			return nil, err
		}
	default:
		return nil, r.corrupt("Invalid flags mode: %v", flagsMode)
	}
	for i := range fieldNumOffs {
		fieldNumOffs[i] = int(allFieldNumOffs.Get(skip + i))
		if fieldNumOffs[i] >= len(fieldNums) {
			return nil, r.corrupt("Invalid field number offset: %v", fieldNumOffs[i])
		}
	}

	// number of terms per field for all fields
	bitsRequired, err := int32AsInt(r.vectorsStream.ReadVInt())
	if err != nil {
		return nil, err
	}
	numTermsReader, err := r.readPacked(totalFields, bitsRequired)
	if err != nil {
		return nil, err
	}
	numTerms := make([]int, totalFields)
	totalTerms := 0
	for i := range numTerms {
		numTerms[i] = int(numTermsReader.Get(i))
		totalTerms += numTerms[i]
	}
	termsBefore := func(field int) (n int) {
		for _, c := range numTerms[:field] {
			n += c
		}
		return
	}

	// term lengths
	var docOff, docLen, totalLen int
	fieldLengths := make([]int, numFields)
	prefixLengths := make([][]int, numFields)
	suffixLengths := make([][]int, numFields)
	{
		r.reader.Reset(r.vectorsStream, int64(totalTerms))
		if err = r.reader.Skip(int64(termsBefore(skip))); err != nil {
			return nil, err
		}
		for i := range prefixLengths {
			prefixLengths[i] = make([]int, numTerms[skip+i])
			if err = r.readBlock(prefixLengths[i]); err != nil {
				return nil, err
			}
		}
		if err = r.reader.Skip(int64(totalTerms) - r.reader.Ord()); err != nil {
			return nil, err
		}

		r.reader.Reset(r.vectorsStream, int64(totalTerms))
		for i := termsBefore(skip); i > 0; i-- {
			n, err := r.next()
			if err != nil {
				return nil, err
			}
			docOff += n
		}
		for i := range suffixLengths {
			suffixLengths[i] = make([]int, numTerms[skip+i])
			if err = r.readBlock(suffixLengths[i]); err != nil {
				return nil, err
			}
			for _, l := range suffixLengths[i] {
				fieldLengths[i] += l
			}
			docLen += fieldLengths[i]
		}
		totalLen = docOff + docLen
		for i := int64(totalTerms) - r.reader.Ord(); i > 0; i-- {
			n, err := r.next()
			if err != nil {
				return nil, err
			}
			totalLen += n
		}
	}

	// term freqs
	termFreqs := make([]int, totalTerms)
	r.reader.Reset(r.vectorsStream, int64(totalTerms))
	if err = r.readBlock(termFreqs); err != nil {
		return nil, err
	}
	for i := range termFreqs {
		termFreqs[i]++
	}

	// total number of positions, offsets and payloads
	var totalPositions, totalOffsets, totalPayloads int
	for i, termIndex := 0, 0; i < totalFields; i++ {
		f := int(flags.Get(i))
		for j := 0; j < numTerms[i]; j++ {
			freq := termFreqs[termIndex]
			termIndex++
			if f&POSITIONS != 0 {
				totalPositions += freq
			}
			if f&OFFSETS != 0 {
				totalOffsets += freq
			}
			if f&PAYLOADS != 0 {
				totalPayloads += freq
			}
		}
	}

	positionIndex := r.positionIndex(skip, numFields, numTerms, termFreqs)
	positions := make([][]int, numFields)
	startOffsets := make([][]int, numFields)
	lengths := make([][]int, numFields)
	if totalPositions > 0 {
		if positions, err = r.readPositions(skip, numFields, flags, numTerms, termFreqs,
			POSITIONS, totalPositions, positionIndex); err != nil {
			return nil, err
		}
	}

	if totalOffsets > 0 {
		// average number of chars per term
		charsPerTerm := make([]float32, len(fieldNums))
		for i := range charsPerTerm {
			bits, err := r.vectorsStream.ReadInt()
			if err != nil {
				return nil, err
			}
			charsPerTerm[i] = math.Float32frombits(uint32(bits))
		}
		if startOffsets, err = r.readPositions(skip, numFields, flags, numTerms, termFreqs,
			OFFSETS, totalOffsets, positionIndex); err != nil {
			return nil, err
		}
		if lengths, err = r.readPositions(skip, numFields, flags, numTerms, termFreqs,
			OFFSETS, totalOffsets, positionIndex); err != nil {
			return nil, err
		}

		for i := 0; i < numFields; i++ {
			fStartOffsets, fPositions := startOffsets[i], positions[i]
			// patch offsets from positions
			if fStartOffsets != nil && fPositions != nil {
				fieldCharsPerTerm := charsPerTerm[fieldNumOffs[i]]
				for j := range fStartOffsets {
					fStartOffsets[j] += int(fieldCharsPerTerm * float32(fPositions[j]))
				}
			}
			if fStartOffsets != nil {
				fPrefixLengths, fSuffixLengths, fLengths := prefixLengths[i], suffixLengths[i], lengths[i]
				fPositionIndex := positionIndex[i]
				for j := 0; j < numTerms[skip+i]; j++ {
					// delta-decode start offsets and patch lengths using term lengths
					termLength := fPrefixLengths[j] + fSuffixLengths[j]
					fLengths[fPositionIndex[j]] += termLength
					for k := fPositionIndex[j] + 1; k < fPositionIndex[j+1]; k++ {
						fStartOffsets[k] += fStartOffsets[k-1]
						fLengths[k] += termLength
					}
				}
			}
		}
	}

	if totalPositions > 0 {
		// delta-decode positions
		for i := 0; i < numFields; i++ {
			fPositions, fPositionIndex := positions[i], positionIndex[i]
			if fPositions == nil {
				continue
			}
			for j := 0; j < numTerms[skip+i]; j++ {
				for k := fPositionIndex[j] + 1; k < fPositionIndex[j+1]; k++ {
					fPositions[k] += fPositions[k-1]
				}
			}
		}
	}

	// payload lengths
	payloadIndex := make([][]int, numFields)
	var totalPayloadLength, payloadOff, payloadLen int
	if totalPayloads > 0 {
		r.reader.Reset(r.vectorsStream, int64(totalPayloads))
		// skip
		termIndex := 0
		for i := 0; i < skip; i++ {
			if flags.Get(i)&PAYLOADS != 0 {
				for _, freq := range termFreqs[termIndex : termIndex+numTerms[i]] {
					for k := 0; k < freq; k++ {
						l, err := r.next()
						if err != nil {
							return nil, err
						}
						payloadOff += l
					}
				}
			}
			termIndex += numTerms[i]
		}
		totalPayloadLength = payloadOff
		// read doc payload lengths
		for i := 0; i < numFields; i++ {
			termCount := numTerms[skip+i]
			if flags.Get(skip+i)&PAYLOADS != 0 {
				totalFreq := positionIndex[i][termCount]
				fPayloadIndex := make([]int, totalFreq+1)
				fPayloadIndex[0] = payloadLen
				posIdx := 0
				for _, freq := range termFreqs[termIndex : termIndex+termCount] {
					for k := 0; k < freq; k++ {
						l, err := r.next()
						if err != nil {
							return nil, err
						}
						payloadLen += l
						posIdx++
						fPayloadIndex[posIdx] = payloadLen
					}
				}
				assert(posIdx == totalFreq)
				payloadIndex[i] = fPayloadIndex
			}
			termIndex += termCount
		}
		totalPayloadLength += payloadLen
		for i := skip + numFields; i < totalFields; i++ {
			if flags.Get(i)&PAYLOADS != 0 {
				for _, freq := range termFreqs[termIndex : termIndex+numTerms[i]] {
					for k := 0; k < freq; k++ {
						l, err := r.next()
						if err != nil {
							return nil, err
						}
						totalPayloadLength += l
					}
				}
			}
			termIndex += numTerms[i]
		}
		assert(termIndex == totalTerms)
	}

	// decompress data
	data, err := r.decompressor.Decompress(r.vectorsStream, totalLen+totalPayloadLength,
		docOff+payloadOff, docLen+payloadLen, nil)
	if err != nil {
		return nil, err
	}
	suffixBytes := data[:docLen]
	payloadBytes := data[docLen : docLen+payloadLen]

	fieldFlags := make([]int, numFields)
	fieldNumTerms := numTerms[skip : skip+numFields]
	fieldTermFreqs := make([][]int, numFields)
	termIdx := termsBefore(skip)
	for i := range fieldFlags {
		fieldFlags[i] = int(flags.Get(skip + i))
		fieldTermFreqs[i] = termFreqs[termIdx : termIdx+fieldNumTerms[i]]
		termIdx += fieldNumTerms[i]
	}

	r.metrics.VectorsRead.Inc()
	return &tvFields{
		fieldInfos:    r.fieldInfos,
		fieldNums:     fieldNums,
		fieldFlags:    fieldFlags,
		fieldNumOffs:  fieldNumOffs,
		numTerms:      fieldNumTerms,
		fieldLengths:  fieldLengths,
		prefixLengths: prefixLengths,
		suffixLengths: suffixLengths,
		termFreqs:     fieldTermFreqs,
		positionIndex: positionIndex,
		positions:     positions,
		startOffsets:  startOffsets,
		lengths:       lengths,
		payloadBytes:  payloadBytes,
		payloadIndex:  payloadIndex,
		suffixBytes:   suffixBytes,
	}, nil
}

// For every field of the doc, the start of each term in its positions.
func (r *CompressingTermVectorsReader) positionIndex(skip, numFields int, numTerms, termFreqs []int) [][]int {
	positionIndex := make([][]int, numFields)
	termIndex := 0
	for _, n := range numTerms[:skip] {
		termIndex += n
	}
	for i := range positionIndex {
		termCount := numTerms[skip+i]
		positionIndex[i] = make([]int, termCount+1)
		for j := 0; j < termCount; j++ {
			positionIndex[i][j+1] = positionIndex[i][j] + termFreqs[termIndex+j]
		}
		termIndex += termCount
	}
	return positionIndex
}

func (r *CompressingTermVectorsReader) readPositions(skip, numFields int,
	flags packed.PackedIntsReader, numTerms, termFreqs []int, flag, totalPositions int,
	positionIndex [][]int) ([][]int, error) {

	positions := make([][]int, numFields)
	r.reader.Reset(r.vectorsStream, int64(totalPositions))
	// skip
	toSkip, termIndex := 0, 0
	for i := 0; i < skip; i++ {
		if int(flags.Get(i))&flag != 0 {
			for _, freq := range termFreqs[termIndex : termIndex+numTerms[i]] {
				toSkip += freq
			}
		}
		termIndex += numTerms[i]
	}
	if err := r.reader.Skip(int64(toSkip)); err != nil {
		return nil, err
	}
	// read doc positions
	for i := 0; i < numFields; i++ {
		termCount := numTerms[skip+i]
		if int(flags.Get(skip+i))&flag != 0 {
			positions[i] = make([]int, positionIndex[i][termCount])
			if err := r.readBlock(positions[i]); err != nil {
				return nil, err
			}
		}
	}
	if err := r.reader.Skip(int64(totalPositions) - r.reader.Ord()); err != nil {
		return nil, err
	}
	return positions, nil
}

var _ TermVectorsReader = (*CompressingTermVectorsReader)(nil)

// The term vectors of one document.
type tvFields struct {
	fieldInfos                              model.FieldInfos
	fieldNums, fieldFlags, fieldNumOffs     []int
	numTerms, fieldLengths                  []int
	prefixLengths, suffixLengths, termFreqs [][]int
	positionIndex, positions, startOffsets  [][]int
	lengths, payloadIndex                   [][]int
	payloadBytes, suffixBytes               []byte
}

func (f *tvFields) Names() []string {
	names := make([]string, 0, len(f.fieldNumOffs))
	for _, off := range f.fieldNumOffs {
		if info := f.fieldInfos.FieldInfoByNumber(f.fieldNums[off]); info != nil {
			names = append(names, info.Name)
		}
	}
	return names
}

func (f *tvFields) Terms(field string) model.Terms {
	info := f.fieldInfos.FieldInfoByName(field)
	if info == nil {
		return nil
	}
	idx := -1
	for i, off := range f.fieldNumOffs {
		if f.fieldNums[off] == int(info.Number) {
			idx = i
			break
		}
	}
	if idx == -1 || f.numTerms[idx] == 0 {
		// no term
		return nil
	}
	fieldOff := 0
	for _, l := range f.fieldLengths[:idx] {
		fieldOff += l
	}
	return &tvTerms{
		numTerms:      f.numTerms[idx],
		flags:         f.fieldFlags[idx],
		prefixLengths: f.prefixLengths[idx],
		suffixLengths: f.suffixLengths[idx],
		termFreqs:     f.termFreqs[idx],
		positionIndex: f.positionIndex[idx],
		positions:     f.positions[idx],
		startOffsets:  f.startOffsets[idx],
		lengths:       f.lengths[idx],
		payloadIndex:  f.payloadIndex[idx],
		payloadBytes:  f.payloadBytes,
		termBytes:     f.suffixBytes[fieldOff : fieldOff+f.fieldLengths[idx]],
	}
}

func (f *tvFields) Size() int {
	return len(f.fieldNumOffs)
}

type tvTerms struct {
	numTerms, flags                                        int
	prefixLengths, suffixLengths, termFreqs, positionIndex []int
	positions, startOffsets, lengths, payloadIndex         []int
	payloadBytes, termBytes                                []byte
}

func (t *tvTerms) Iterator(reuse model.TermsEnum) model.TermsEnum {
	termsEnum, ok := reuse.(*tvTermsEnum)
	if !ok {
		termsEnum = new(tvTermsEnum)
	}
	termsEnum.reset(t)
	return termsEnum
}

func (t *tvTerms) Size() int64        { return int64(t.numTerms) }
func (t *tvTerms) HasFreqs() bool     { return true }
func (t *tvTerms) HasOffsets() bool   { return t.flags&OFFSETS != 0 }
func (t *tvTerms) HasPositions() bool { return t.flags&POSITIONS != 0 }
func (t *tvTerms) HasPayloads() bool  { return t.flags&PAYLOADS != 0 }

/*
Walks the front-coded terms of a field. The slice returned by Next()
and Term() is reused across calls.
*/
type tvTermsEnum struct {
	*tvTerms
	ord  int
	in   int // read offset in termBytes
	term []byte
}

func (e *tvTermsEnum) reset(t *tvTerms) {
	e.tvTerms = t
	e.ord = -1
	e.in = 0
	e.term = e.term[:0]
}

func (e *tvTermsEnum) Next() ([]byte, error) {
	if e.ord == e.numTerms-1 {
		return nil, nil
	}
	assert(e.ord < e.numTerms)
	e.ord++

	// read term
	prefix, suffix := e.prefixLengths[e.ord], e.suffixLengths[e.ord]
	if prefix > len(e.term) || e.in+suffix > len(e.termBytes) {
		return nil, fmt.Errorf("%w: invalid term prefix=%v suffix=%v", codec.ErrCorruptIndex, prefix, suffix)
	}
	e.term = append(e.term[:prefix], e.termBytes[e.in:e.in+suffix]...)
	e.in += suffix
	return e.term, nil
}

func (e *tvTermsEnum) SeekCeil(text []byte) model.SeekStatus {
	if e.ord >= 0 && e.ord < e.numTerms {
		cmp := bytes.Compare(e.term, text)
		if cmp == 0 {
			return model.SEEK_STATUS_FOUND
		} else if cmp > 0 {
			e.reset(e.tvTerms)
		}
	}
	// linear scan
	for {
		term, err := e.Next()
		if err != nil || term == nil {
			return model.SEEK_STATUS_END
		}
		if cmp := bytes.Compare(term, text); cmp > 0 {
			return model.SEEK_STATUS_NOT_FOUND
		} else if cmp == 0 {
			return model.SEEK_STATUS_FOUND
		}
	}
}

func (e *tvTermsEnum) Term() []byte {
	return e.term
}

func (e *tvTermsEnum) DocFreq() int {
	return 1
}

func (e *tvTermsEnum) TotalTermFreq() int64 {
	return int64(e.termFreqs[e.ord])
}

func (e *tvTermsEnum) DocsAndPositions(liveDocs util.Bits, reuse model.DocsAndPositionsEnum) model.DocsAndPositionsEnum {
	if e.positions == nil && e.startOffsets == nil {
		return nil
	}
	docsEnum, ok := reuse.(*tvDocsAndPositionsEnum)
	if !ok {
		docsEnum = new(tvDocsAndPositionsEnum)
	}
	docsEnum.reset(liveDocs, e.termFreqs[e.ord], e.positionIndex[e.ord], e.tvTerms)
	return docsEnum
}

// Positions of one term of one document, always doc 0.
type tvDocsAndPositionsEnum struct {
	liveDocs      util.Bits
	doc           int
	termFreq      int
	positionIndex int
	terms         *tvTerms
	i             int
}

func (e *tvDocsAndPositionsEnum) reset(liveDocs util.Bits, freq, positionIndex int, terms *tvTerms) {
	e.liveDocs = liveDocs
	e.termFreq = freq
	e.positionIndex = positionIndex
	e.terms = terms
	e.doc = -1
	e.i = -1
}

func (e *tvDocsAndPositionsEnum) checkDoc() {
	assert2(e.doc != model.NO_MORE_DOCS, "DocsEnum exhausted")
	assert2(e.doc != -1, "DocsEnum not started")
}

func (e *tvDocsAndPositionsEnum) checkPosition() {
	e.checkDoc()
	assert2(e.i >= 0, "Position enum not started")
	assert2(e.i < e.termFreq, "Read past last position")
}

func (e *tvDocsAndPositionsEnum) NextPosition() int {
	assert2(e.doc == 0, "DocsEnum not positioned on a document")
	assert2(e.i < e.termFreq-1, "Read past last position")
	e.i++
	if e.terms.positions == nil {
		return -1
	}
	return e.terms.positions[e.positionIndex+e.i]
}

func (e *tvDocsAndPositionsEnum) Payload() []byte {
	e.checkPosition()
	idx := e.terms.payloadIndex
	if idx == nil || idx[e.positionIndex+e.i+1] == idx[e.positionIndex+e.i] {
		return nil
	}
	return e.terms.payloadBytes[idx[e.positionIndex+e.i]:idx[e.positionIndex+e.i+1]]
}

func (e *tvDocsAndPositionsEnum) StartOffset() int {
	e.checkPosition()
	if e.terms.startOffsets == nil {
		return -1
	}
	return e.terms.startOffsets[e.positionIndex+e.i]
}

func (e *tvDocsAndPositionsEnum) EndOffset() int {
	e.checkPosition()
	if e.terms.startOffsets == nil {
		return -1
	}
	return e.terms.startOffsets[e.positionIndex+e.i] + e.terms.lengths[e.positionIndex+e.i]
}

func (e *tvDocsAndPositionsEnum) Freq() int {
	e.checkDoc()
	return e.termFreq
}

func (e *tvDocsAndPositionsEnum) DocID() int {
	return e.doc
}

func (e *tvDocsAndPositionsEnum) NextDoc() int {
	if e.doc == -1 && (e.liveDocs == nil || e.liveDocs.At(0)) {
		e.doc = 0
	} else {
		e.doc = model.NO_MORE_DOCS
	}
	return e.doc
}

func (e *tvDocsAndPositionsEnum) Advance(target int) int {
	doc := e.doc
	for doc < target {
		doc = e.NextDoc()
	}
	return doc
}
