package compressing

import (
	"io"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	. "github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

// Do not reuse the decompression buffer when there is more than 32kb to decompress
const BUFFER_REUSE_THRESHOLD = 1 << 15

// StoredFieldsReader impl for CompressingStoredFieldsFormat
type CompressingStoredFieldsReader struct {
	version           int
	fieldInfos        model.FieldInfos
	indexReader       *StoredFieldsIndexReader
	maxPointer        int64
	fieldsStream      store.IndexInput
	chunkSize         int
	packedIntsVersion int32
	compressionMode   CompressionMode
	decompressor      Decompressor
	bytes             []byte
	numDocs           int
	closed            bool
	metrics           *Metrics
}

// used by clone
func newCompressingStoredFieldsReaderFrom(reader *CompressingStoredFieldsReader) *CompressingStoredFieldsReader {
	return &CompressingStoredFieldsReader{
		version:           reader.version,
		fieldInfos:        reader.fieldInfos,
		fieldsStream:      reader.fieldsStream.Clone(),
		indexReader:       reader.indexReader.Clone(),
		maxPointer:        reader.maxPointer,
		chunkSize:         reader.chunkSize,
		packedIntsVersion: reader.packedIntsVersion,
		compressionMode:   reader.compressionMode,
		decompressor:      reader.decompressor.Clone(),
		numDocs:           reader.numDocs,
		metrics:           reader.metrics,
	}
}

// Sole constructor
func newCompressingStoredFieldsReader(d store.Directory,
	si *model.SegmentInfo, segmentSuffix string,
	fn model.FieldInfos, ctx store.IOContext, formatName string,
	compressionMode CompressionMode, metrics *Metrics) (_ *CompressingStoredFieldsReader, err error) {

	if metrics == nil {
		metrics = defaultMetrics
	}
	r := &CompressingStoredFieldsReader{
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

	indexStreamFN := util.SegmentFileName(segment, segmentSuffix, FIELDS_INDEX_EXTENSION)
	fieldsStreamFN := util.SegmentFileName(segment, segmentSuffix, FIELDS_EXTENSION)
	// Load the index into memory
	if indexStream, err = d.OpenChecksumInput(indexStreamFN, ctx); err != nil {
		return nil, err
	}
	codecNameIdx := formatName + CODEC_SFX_IDX
	if r.version, err = int32AsInt(codec.CheckHeader(indexStream, codecNameIdx,
		VERSION_START, VERSION_CURRENT)); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	if r.indexReader, err = newStoredFieldsIndexReader(indexStream, r.numDocs); err != nil {
		return nil, err
	}

	var maxPointer int64 = -1

	if r.version >= VERSION_CHECKSUM {
		if maxPointer, err = indexStream.ReadVLong(); err != nil {
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

	// Open the data file and read metadata
	if r.fieldsStream, err = d.OpenInput(fieldsStreamFN, ctx); err != nil {
		return nil, err
	}
	if r.version >= VERSION_CHECKSUM {
		if maxPointer+codec.FOOTER_LENGTH != r.fieldsStream.Length() {
			return nil, codec.NewCorruptIndexError(r.fieldsStream,
				"Invalid fieldsStream maxPointer (file truncated?): maxPointer=%v, length=%v",
				maxPointer, r.fieldsStream.Length())
		}
	} else {
		maxPointer = r.fieldsStream.Length()
	}
	r.maxPointer = maxPointer
	codecNameDat := formatName + CODEC_SFX_DAT
	var fieldsVersion int
	if fieldsVersion, err = int32AsInt(codec.CheckHeader(r.fieldsStream,
		codecNameDat, VERSION_START, VERSION_CURRENT)); err != nil {
		return nil, err
	}
	if r.version != fieldsVersion {
		return nil, codec.NewCorruptIndexError(r.fieldsStream,
			"Version mismatch between stored fields index and data: %v != %v",
			r.version, fieldsVersion)
	}
	assert(int64(codec.HeaderLength(codecNameDat)) == r.fieldsStream.FilePointer())

	r.chunkSize = -1
	if r.version >= VERSION_BIG_CHUNKS {
		if r.chunkSize, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
			return nil, err
		}
	}

	if r.packedIntsVersion, err = r.fieldsStream.ReadVInt(); err != nil {
		return nil, err
	}
	r.decompressor = compressionMode.NewDecompressor()

	if r.version >= VERSION_CHECKSUM {
		// NOTE: data file is too costly to verify checksum against all the
		// bytes on open, but for now we at least verify proper structure
		// of the checksum footer: which looks for FOOTER_MAGIC +
		// algorithmID. This is cheap and can detect some forms of
		// corruption such as file truncation.
		if _, err = codec.RetrieveChecksum(r.fieldsStream); err != nil {
			return nil, err
		}
	}

	success = true
	return r, nil
}

func (r *CompressingStoredFieldsReader) ensureOpen() {
	assert2(!r.closed, "this FieldsReader is closed")
}

// Close the underlying IndexInputs
func (r *CompressingStoredFieldsReader) Close() (err error) {
	if !r.closed {
		if err = util.Close(r.fieldsStream); err == nil {
			r.closed = true
		}
	}
	return
}

func readField(in util.DataInput, visitor StoredFieldVisitor, info *model.FieldInfo, bits int) (err error) {
	switch bits & TYPE_MASK {
	case BYTE_ARR:
		var length int
		if length, err = int32AsInt(in.ReadVInt()); err != nil {
			return err
		}
		data := make([]byte, length)
		if err = in.ReadBytes(data); err != nil {
			return err
		}
		return visitor.BinaryField(info, data)
	case STRING:
		var length int
		if length, err = int32AsInt(in.ReadVInt()); err != nil {
			return err
		}
		data := make([]byte, length)
		if err = in.ReadBytes(data); err != nil {
			return err
		}
		return visitor.StringField(info, string(data))
	case NUMERIC_INT:
		var n int32
		if n, err = in.ReadInt(); err != nil {
			return err
		}
		return visitor.IntField(info, n)
	case NUMERIC_FLOAT:
		var n int32
		if n, err = in.ReadInt(); err != nil {
			return err
		}
		return visitor.FloatField(info, math.Float32frombits(uint32(n)))
	case NUMERIC_LONG:
		var n int64
		if n, err = in.ReadLong(); err != nil {
			return err
		}
		return visitor.LongField(info, n)
	case NUMERIC_DOUBLE:
		var n int64
		if n, err = in.ReadLong(); err != nil {
			return err
		}
		return visitor.DoubleField(info, math.Float64frombits(uint64(n)))
	}
	return codec.NewCorruptIndexError(in, "Unknown type flag: %x", bits)
}

func skipField(in util.DataInput, bits int) (err error) {
	switch bits & TYPE_MASK {
	case BYTE_ARR, STRING:
		var length int32
		if length, err = in.ReadVInt(); err != nil {
			return err
		}
		return in.SkipBytes(int64(length))
	case NUMERIC_INT, NUMERIC_FLOAT:
		_, err = in.ReadInt()
		return err
	case NUMERIC_LONG, NUMERIC_DOUBLE:
		_, err = in.ReadLong()
		return err
	}
	return codec.NewCorruptIndexError(in, "Unknown type flag: %x", bits)
}

func (r *CompressingStoredFieldsReader) VisitDocument(docID int, visitor StoredFieldVisitor) error {
	r.ensureOpen()
	err := r.fieldsStream.Seek(r.indexReader.startPointer(docID))
	if err != nil {
		return err
	}

	docBase, err := int32AsInt(r.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	chunkDocs, err := int32AsInt(r.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	if docID < docBase ||
		docID >= docBase+chunkDocs ||
		docBase+chunkDocs > r.numDocs {
		return codec.NewCorruptIndexError(r.fieldsStream,
			"Corrupted: docID=%v, docBase=%v, chunkDocs=%v, numDocs=%v",
			docID, docBase, chunkDocs, r.numDocs)
	}

	var numStoredFields, offset, length, totalLength int
	if chunkDocs == 1 {
		if numStoredFields, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		offset = 0
		if length, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		totalLength = length
	} else {
		bitsPerStoredFields, err := int32AsInt(r.fieldsStream.ReadVInt())
		if err != nil {
			return err
		}
		if bitsPerStoredFields == 0 {
			numStoredFields, err = int32AsInt(r.fieldsStream.ReadVInt())
			if err != nil {
				return err
			}
		} else if bitsPerStoredFields > 31 {
			return codec.NewCorruptIndexError(r.fieldsStream,
				"bitsPerStoredFields=%v", bitsPerStoredFields)
		} else {
			reader, err := packed.ReaderNoHeader(r.fieldsStream, packed.PACKED,
				r.packedIntsVersion, chunkDocs, bitsPerStoredFields)
			if err != nil {
				return err
			}
			numStoredFields = int(reader.Get(docID - docBase))
		}

		bitsPerLength, err := int32AsInt(r.fieldsStream.ReadVInt())
		if err != nil {
			return err
		}
		if bitsPerLength == 0 {
			if length, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
				return err
			}
			offset = (docID - docBase) * length
			totalLength = chunkDocs * length
		} else if bitsPerLength > 31 {
			return codec.NewCorruptIndexError(r.fieldsStream,
				"bitsPerLength=%v", bitsPerLength)
		} else {
			it, err := packed.ReaderIteratorNoHeader(r.fieldsStream, packed.PACKED,
				r.packedIntsVersion, chunkDocs, bitsPerLength)
			if err != nil {
				return err
			}
			var n int64
			off := 0
			for i := 0; i < docID-docBase; i++ {
				if n, err = it.Next(); err != nil {
					return err
				}
				off += int(n)
			}
			offset = off
			if n, err = it.Next(); err != nil {
				return err
			}
			length = int(n)
			off += length
			for i := docID - docBase + 1; i < chunkDocs; i++ {
				if n, err = it.Next(); err != nil {
					return err
				}
				off += int(n)
			}
			totalLength = off
		}
	}

	if (length == 0) != (numStoredFields == 0) {
		return codec.NewCorruptIndexError(r.fieldsStream,
			"length=%v, numStoredFields=%v", length, numStoredFields)
	}
	if numStoredFields == 0 {
		// nothing to do
		return nil
	}

	var documentInput util.DataInput
	if r.version >= VERSION_BIG_CHUNKS && totalLength >= 2*r.chunkSize {
		assert(r.chunkSize > 0)
		assert(offset < r.chunkSize)
		if documentInput, err = r.newBigChunkInput(offset, length); err != nil {
			return err
		}
	} else {
		var bytes []byte
		if totalLength <= BUFFER_REUSE_THRESHOLD {
			bytes = r.bytes
		}
		bytes, err = r.decompressor.Decompress(r.fieldsStream, totalLength, offset, length, bytes)
		if err != nil {
			return err
		}
		assert(len(bytes) == length)
		if totalLength <= BUFFER_REUSE_THRESHOLD {
			r.bytes = bytes
		}
		documentInput = store.NewByteArrayDataInput(bytes)
	}

	r.metrics.DocumentsVisited.Inc()
	for fieldIDX := 0; fieldIDX < numStoredFields; fieldIDX++ {
		infoAndBits, err := documentInput.ReadVLong()
		if err != nil {
			return err
		}
		fieldNumber := int(uint64(infoAndBits) >> uint64(TYPE_BITS))
		fieldInfo := r.fieldInfos.FieldInfoByNumber(fieldNumber)
		if fieldInfo == nil {
			return codec.NewCorruptIndexError(r.fieldsStream,
				"no field info for field number %v", fieldNumber)
		}

		bits := int(infoAndBits & int64(TYPE_MASK))
		if bits > NUMERIC_DOUBLE {
			return codec.NewCorruptIndexError(r.fieldsStream, "bits=%x", bits)
		}

		status, err := visitor.NeedsField(fieldInfo)
		if err != nil {
			return err
		}
		switch status {
		case STORED_FIELD_VISITOR_STATUS_YES:
			if err = readField(documentInput, visitor, fieldInfo, bits); err != nil {
				return err
			}
		case STORED_FIELD_VISITOR_STATUS_NO:
			if err = skipField(documentInput, bits); err != nil {
				return err
			}
		case STORED_FIELD_VISITOR_STATUS_STOP:
			return nil
		}
	}

	return nil
}

/*
Input over a document that spans several slices of a big chunk. The
first slice is decompressed eagerly, the following ones on demand.
*/
type bigChunkInput struct {
	*util.DataInputImpl
	r            *CompressingStoredFieldsReader
	length       int // total length of the document
	decompressed int
	bytes        []byte
	pos          int
}

func (r *CompressingStoredFieldsReader) newBigChunkInput(offset, length int) (*bigChunkInput, error) {
	bytes, err := r.decompressor.Decompress(r.fieldsStream, r.chunkSize,
		offset, min(length, r.chunkSize-offset), nil)
	if err != nil {
		return nil, err
	}
	in := &bigChunkInput{
		r:            r,
		length:       length,
		decompressed: len(bytes),
		bytes:        bytes,
	}
	in.DataInputImpl = util.NewDataInput(in)
	return in, nil
}

func (in *bigChunkInput) fillBuffer() (err error) {
	assert(in.decompressed <= in.length)
	if in.decompressed == in.length {
		return io.EOF
	}
	toDecompress := min(in.length-in.decompressed, in.r.chunkSize)
	if in.bytes, err = in.r.decompressor.Decompress(in.r.fieldsStream,
		toDecompress, 0, toDecompress, in.bytes); err != nil {
		return err
	}
	in.pos = 0
	in.decompressed += toDecompress
	return nil
}

func (in *bigChunkInput) ReadByte() (byte, error) {
	if in.pos == len(in.bytes) {
		if err := in.fillBuffer(); err != nil {
			return 0, err
		}
	}
	in.pos++
	return in.bytes[in.pos-1], nil
}

func (in *bigChunkInput) ReadBytes(buf []byte) error {
	for len(buf) > 0 {
		if in.pos == len(in.bytes) {
			if err := in.fillBuffer(); err != nil {
				if err == io.EOF {
					return io.ErrUnexpectedEOF
				}
				return err
			}
		}
		n := copy(buf, in.bytes[in.pos:])
		in.pos += n
		buf = buf[n:]
	}
	return nil
}

func (r *CompressingStoredFieldsReader) Clone() StoredFieldsReader {
	r.ensureOpen()
	return newCompressingStoredFieldsReaderFrom(r)
}

func (r *CompressingStoredFieldsReader) CheckIntegrity() error {
	r.ensureOpen()
	if r.version >= VERSION_CHECKSUM {
		_, err := store.ChecksumEntireFile(r.fieldsStream)
		return err
	}
	return nil
}

// Number of chunks of the segment.
func (r *CompressingStoredFieldsReader) NumChunks() int {
	return r.indexReader.numChunks()
}

func (r *CompressingStoredFieldsReader) CompressionMode() CompressionMode {
	return r.compressionMode
}

func (r *CompressingStoredFieldsReader) ChunkSize() int {
	return r.chunkSize
}

func (r *CompressingStoredFieldsReader) String() string {
	return "CompressingStoredFieldsReader(mode=" + r.compressionMode.String() + ")"
}

/* Returns a ChunkIterator positioned on the chunk that contains startDocID. */
func (r *CompressingStoredFieldsReader) chunkIterator(startDocID int) (*ChunkIterator, error) {
	r.ensureOpen()
	clone := r.fieldsStream.Clone()
	if err := clone.Seek(0); err != nil {
		return nil, err
	}
	in := store.NewBufferedChecksumIndexInput(clone)
	if err := in.Seek(r.indexReader.startPointer(startDocID)); err != nil {
		return nil, err
	}
	return &ChunkIterator{
		r:               r,
		fieldsStream:    in,
		decompressor:    r.decompressor.Clone(),
		docBase:         -1,
		numStoredFields: make([]int, 1),
		lengths:         make([]int, 1),
	}, nil
}

/*
Walks the chunks of a segment in order. Every byte read goes through
a checksum so that checkIntegrity can verify the footer once the
walk is over.
*/
type ChunkIterator struct {
	r               *CompressingStoredFieldsReader
	fieldsStream    store.ChecksumIndexInput
	decompressor    Decompressor
	docBase         int
	chunkDocs       int
	numStoredFields []int
	lengths         []int
	bytes           []byte
	spare           []byte
}

// Return the decompressed size of the chunk
func (it *ChunkIterator) chunkSize() int {
	sum := 0
	for _, l := range it.lengths[:it.chunkDocs] {
		sum += l
	}
	return sum
}

func (it *ChunkIterator) readInts(values []int) error {
	bitsPerValue, err := int32AsInt(it.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	if bitsPerValue == 0 {
		v, err := int32AsInt(it.fieldsStream.ReadVInt())
		if err != nil {
			return err
		}
		for i := range values {
			values[i] = v
		}
		return nil
	}
	if bitsPerValue > 31 {
		return codec.NewCorruptIndexError(it.fieldsStream, "bitsPerValue=%v", bitsPerValue)
	}
	reader, err := packed.ReaderIteratorNoHeader(it.fieldsStream, packed.PACKED,
		it.r.packedIntsVersion, len(values), bitsPerValue)
	if err != nil {
		return err
	}
	for i := range values {
		n, err := reader.Next()
		if err != nil {
			return err
		}
		values[i] = int(n)
	}
	return nil
}

// Go to the chunk containing the provided doc ID.
func (it *ChunkIterator) next(doc int) (err error) {
	assert2(doc >= it.docBase+it.chunkDocs, "%v %v %v", doc, it.docBase, it.chunkDocs)
	if err = it.fieldsStream.Seek(it.r.indexReader.startPointer(doc)); err != nil {
		return err
	}

	docBase, err := int32AsInt(it.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	chunkDocs, err := int32AsInt(it.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	if docBase < it.docBase+it.chunkDocs || chunkDocs < 1 || docBase+chunkDocs > it.r.numDocs {
		return codec.NewCorruptIndexError(it.fieldsStream,
			"Corrupted: current docBase=%v, current numDocs=%v, new docBase=%v, new numDocs=%v",
			it.docBase, it.chunkDocs, docBase, chunkDocs)
	}
	it.docBase, it.chunkDocs = docBase, chunkDocs

	if chunkDocs > len(it.numStoredFields) {
		newLength := util.Oversize(chunkDocs, 4)
		it.numStoredFields = make([]int, newLength)
		it.lengths = make([]int, newLength)
	}

	if chunkDocs == 1 {
		if it.numStoredFields[0], err = int32AsInt(it.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		it.lengths[0], err = int32AsInt(it.fieldsStream.ReadVInt())
		return err
	}
	if err = it.readInts(it.numStoredFields[:chunkDocs]); err != nil {
		return err
	}
	return it.readInts(it.lengths[:chunkDocs])
}

// Decompress the chunk.
func (it *ChunkIterator) decompress() (err error) {
	// decompress data
	chunkSize := it.chunkSize()
	if it.r.version >= VERSION_BIG_CHUNKS && chunkSize >= 2*it.r.chunkSize {
		it.bytes = it.bytes[:0]
		for decompressed := 0; decompressed < chunkSize; {
			toDecompress := min(chunkSize-decompressed, it.r.chunkSize)
			if it.spare, err = it.decompressor.Decompress(it.fieldsStream,
				toDecompress, 0, toDecompress, it.spare); err != nil {
				return err
			}
			it.bytes = append(it.bytes, it.spare...)
			decompressed += toDecompress
		}
	} else if it.bytes, err = it.decompressor.Decompress(it.fieldsStream,
		chunkSize, 0, chunkSize, it.bytes); err != nil {
		return err
	}
	if len(it.bytes) != chunkSize {
		return codec.NewCorruptIndexError(it.fieldsStream,
			"Corrupted: expected chunk size = %v, got %v", chunkSize, len(it.bytes))
	}
	return nil
}

// Copy compressed data.
func (it *ChunkIterator) copyCompressedData(out DataOutputCopier) error {
	assert(it.r.version == VERSION_CURRENT)
	chunkEnd := it.r.maxPointer
	if it.docBase+it.chunkDocs < it.r.numDocs {
		chunkEnd = it.r.indexReader.startPointer(it.docBase + it.chunkDocs)
	}
	return out.CopyBytes(it.fieldsStream, chunkEnd-it.fieldsStream.FilePointer())
}

// Check integrity of the data. The iterator is not usable after this.
func (it *ChunkIterator) checkIntegrity() error {
	if it.r.version >= VERSION_CHECKSUM {
		if err := it.fieldsStream.Seek(it.fieldsStream.Length() - codec.FOOTER_LENGTH); err != nil {
			return err
		}
		_, err := codec.CheckFooter(it.fieldsStream)
		return err
	}
	return nil
}

// The part of an output that chunk copies need.
type DataOutputCopier interface {
	CopyBytes(input util.DataInput, numBytes int64) error
}

/*
Reads the number of documents of a stored fields segment from its
files alone: the last chunk header tells its doc base and doc count.
Used by tools that open a segment without its metadata.
*/
func SegmentDocCount(d store.Directory, segment, formatName, segmentSuffix string) (n int, err error) {
	var indexStream store.ChecksumIndexInput
	var fieldsStream store.IndexInput
	defer func() {
		util.CloseWhileSuppressingError(indexStream, fieldsStream)
	}()

	if indexStream, err = d.OpenChecksumInput(util.SegmentFileName(segment, segmentSuffix,
		FIELDS_INDEX_EXTENSION), store.IO_CONTEXT_READONCE); err != nil {
		return 0, err
	}
	codecNameIdx := formatName + CODEC_SFX_IDX
	if _, err = codec.CheckHeader(indexStream, codecNameIdx, VERSION_CHECKSUM, VERSION_CURRENT); err != nil {
		return 0, err
	}
	indexReader, err := newStoredFieldsIndexReader(indexStream, -1)
	if err != nil {
		return 0, err
	}
	startPointer := indexReader.lastStartPointer()
	if startPointer < 0 {
		return 0, nil
	}

	if fieldsStream, err = d.OpenInput(util.SegmentFileName(segment, segmentSuffix,
		FIELDS_EXTENSION), store.IO_CONTEXT_READ); err != nil {
		return 0, err
	}
	if err = fieldsStream.Seek(startPointer); err != nil {
		return 0, err
	}
	docBase, err := int32AsInt(fieldsStream.ReadVInt())
	if err != nil {
		return 0, err
	}
	chunkDocs, err := int32AsInt(fieldsStream.ReadVInt())
	if err != nil {
		return 0, err
	}
	return docBase + chunkDocs, nil
}

var _ StoredFieldsReader = (*CompressingStoredFieldsReader)(nil)
