package compressing

import (
	"fmt"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	. "github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

/* hard limit on the maximum number of documents per chunk */
const MAX_DOCUMENTS_PER_CHUNK = 128

const (
	STRING         = 0x00
	BYTE_ARR       = 0x01
	NUMERIC_INT    = 0x02
	NUMERIC_FLOAT  = 0x03
	NUMERIC_LONG   = 0x04
	NUMERIC_DOUBLE = 0x05
)

var (
	TYPE_BITS = packed.BitsRequired(NUMERIC_DOUBLE)
	TYPE_MASK = int(packed.MaxValue(TYPE_BITS))
)

const (
	// Extension of stored fields file
	FIELDS_EXTENSION = "fdt"
	// Extension of stored fields index file
	FIELDS_INDEX_EXTENSION = "fdx"
)

const (
	CODEC_SFX_IDX      = "Index"
	CODEC_SFX_DAT      = "Data"
	VERSION_START      = 0
	VERSION_BIG_CHUNKS = 1
	VERSION_CHECKSUM   = 2
	VERSION_CURRENT    = VERSION_CHECKSUM
)

/* StoredFieldsWriter impl for CompressingStoredFieldsFormat */
type CompressingStoredFieldsWriter struct {
	directory    *store.TrackingDirectoryWrapper
	indexWriter  *StoredFieldsIndexWriter
	fieldsStream store.IndexOutput

	compressionMode CompressionMode
	compressor      Compressor
	chunkSize       int
	metrics         *Metrics

	bufferedDocs    *GrowableByteArrayDataOutput
	numStoredFields []int // number of stored fields
	endOffsets      []int // end offsets in bufferedDocs
	docBase         int   // doc ID at the beginning of the chunk
	numBufferedDocs int   // docBase + numBufferedDocs == current doc ID

	numStoredFieldsInDoc int // fields written so far for the current doc
}

func NewCompressingStoredFieldsWriter(dir store.Directory, si *model.SegmentInfo,
	segmentSuffix string, ctx store.IOContext, formatName string,
	compressionMode CompressionMode, chunkSize int, metrics *Metrics) (*CompressingStoredFieldsWriter, error) {

	assert(dir != nil)
	if metrics == nil {
		metrics = defaultMetrics
	}
	ans := &CompressingStoredFieldsWriter{
		directory:       store.NewTrackingDirectoryWrapper(dir),
		compressionMode: compressionMode,
		compressor:      compressionMode.NewCompressor(),
		chunkSize:       chunkSize,
		metrics:         metrics,
		bufferedDocs:    newGrowableByteArrayDataOutput(chunkSize),
		numStoredFields: make([]int, 16),
		endOffsets:      make([]int, 16),
	}

	var success = false
	indexStream, err := ans.directory.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix,
		FIELDS_INDEX_EXTENSION), ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(indexStream)
			ans.Abort()
		}
	}()

	ans.fieldsStream, err = ans.directory.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix,
		FIELDS_EXTENSION), ctx)
	if err != nil {
		return nil, err
	}

	codecNameIdx := formatName + CODEC_SFX_IDX
	codecNameDat := formatName + CODEC_SFX_DAT
	if err = codec.WriteHeader(indexStream, codecNameIdx, VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = codec.WriteHeader(ans.fieldsStream, codecNameDat, VERSION_CURRENT); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	assert(int64(codec.HeaderLength(codecNameDat)) == ans.fieldsStream.FilePointer())

	if ans.indexWriter, err = NewStoredFieldsIndexWriter(indexStream); err != nil {
		return nil, err
	}
	indexStream = nil

	if err = ans.fieldsStream.WriteVInt(int32(chunkSize)); err != nil {
		return nil, err
	}
	if err = ans.fieldsStream.WriteVInt(packed.VERSION_CURRENT); err != nil {
		return nil, err
	}

	success = true
	return ans, nil
}

func (w *CompressingStoredFieldsWriter) Close() error {
	defer func() {
		w.fieldsStream = nil
		w.indexWriter = nil
	}()
	return util.Close(w.fieldsStream, w.indexWriter)
}

func (w *CompressingStoredFieldsWriter) StartDocument(numStoredFields int) error {
	if w.numBufferedDocs == len(w.numStoredFields) {
		newLength := util.Oversize(w.numBufferedDocs+1, 4)
		w.numStoredFields = growInts(w.numStoredFields, newLength)
		w.endOffsets = growInts(w.endOffsets, newLength)
	}
	w.numStoredFields[w.numBufferedDocs] = numStoredFields
	w.numStoredFieldsInDoc = 0
	w.numBufferedDocs++
	return nil
}

func growInts(arr []int, newLength int) []int {
	ans := make([]int, newLength)
	copy(ans, arr)
	return ans
}

func (w *CompressingStoredFieldsWriter) FinishDocument() error {
	assert2(w.numBufferedDocs > 0, "FinishDocument called before StartDocument")
	assert2(w.numStoredFieldsInDoc == w.numStoredFields[w.numBufferedDocs-1],
		"document announced %v stored fields but wrote %v",
		w.numStoredFields[w.numBufferedDocs-1], w.numStoredFieldsInDoc)
	w.endOffsets[w.numBufferedDocs-1] = w.bufferedDocs.length()
	if w.triggerFlush() {
		return w.flush()
	}
	return nil
}

func saveInts(values []int, out DataOutput) error {
	length := len(values)
	assert(length > 0)
	if length == 1 {
		return out.WriteVInt(int32(values[0]))
	}

	var allEqual = true
	var sentinel = values[0]
	for _, v := range values[1:] {
		if v != sentinel {
			allEqual = false
			break
		}
	}
	if allEqual {
		err := out.WriteVInt(0)
		if err == nil {
			err = out.WriteVInt(int32(values[0]))
		}
		return err
	}

	var max int64 = 0
	for _, v := range values {
		max |= int64(v)
	}
	var bitsRequired = packed.BitsRequired(max)
	err := out.WriteVInt(int32(bitsRequired))
	if err != nil {
		return err
	}

	w := packed.WriterNoHeader(out, packed.PACKED, length, bitsRequired)
	for _, v := range values {
		if err = w.Add(int64(v)); err != nil {
			return err
		}
	}
	return w.Finish()
}

func (w *CompressingStoredFieldsWriter) writeHeader(docBase,
	numBufferedDocs int, numStoredFields, lengths []int) error {

	// save docBase and numBufferedDocs
	err := w.fieldsStream.WriteVInt(int32(docBase))
	if err == nil {
		err = w.fieldsStream.WriteVInt(int32(numBufferedDocs))
		if err == nil {
			// save numStoredFields
			err = saveInts(numStoredFields[:numBufferedDocs], w.fieldsStream)
			if err == nil {
				// save lengths
				err = saveInts(lengths[:numBufferedDocs], w.fieldsStream)
			}
		}
	}
	return err
}

func (w *CompressingStoredFieldsWriter) triggerFlush() bool {
	return w.bufferedDocs.length() >= w.chunkSize || // chunks of at least chunkSize bytes
		w.numBufferedDocs >= MAX_DOCUMENTS_PER_CHUNK
}

func (w *CompressingStoredFieldsWriter) flush() error {
	start := w.fieldsStream.FilePointer()
	err := w.indexWriter.writeIndex(w.numBufferedDocs, start)
	if err != nil {
		return err
	}

	// transform end offsets into lengths
	lengths := w.endOffsets
	for i := w.numBufferedDocs - 1; i > 0; i-- {
		lengths[i] = w.endOffsets[i] - w.endOffsets[i-1]
		assert(lengths[i] >= 0)
	}
	err = w.writeHeader(w.docBase, w.numBufferedDocs, w.numStoredFields, lengths)
	if err != nil {
		return err
	}

	// compress stored fields to fieldsStream
	data := w.bufferedDocs.bytes
	if len(data) >= 2*w.chunkSize {
		// big chunk, slice it
		for compressed := 0; compressed < len(data); compressed += w.chunkSize {
			size := len(data) - compressed
			if w.chunkSize < size {
				size = w.chunkSize
			}
			if err = w.compressor.Compress(data[compressed:compressed+size], w.fieldsStream); err != nil {
				return err
			}
		}
	} else if err = w.compressor.Compress(data, w.fieldsStream); err != nil {
		return err
	}

	w.metrics.chunkFlushed(FORMAT_STORED_FIELDS, len(data), w.fieldsStream.FilePointer()-start)
	log.Debugf("Flushed stored fields chunk of %v docs at %v (docBase=%v, %v bytes)",
		w.numBufferedDocs, start, w.docBase, len(data))

	// reset
	w.docBase += w.numBufferedDocs
	w.numBufferedDocs = 0
	w.bufferedDocs.reset()
	return nil
}

func (w *CompressingStoredFieldsWriter) WriteField(info *model.FieldInfo, field model.IndexableField) error {
	w.numStoredFieldsInDoc++

	bits := 0
	var bytes []byte
	var str string

	number := field.NumericValue()
	if number != nil {
		switch t := number.(type) {
		case int32:
			bits = NUMERIC_INT
		case int64:
			bits = NUMERIC_LONG
		case float32:
			bits = NUMERIC_FLOAT
		case float64:
			bits = NUMERIC_DOUBLE
		default:
			panic(fmt.Sprintf("cannot store numeric value %v of type %T", number, t))
		}
	} else {
		bytes = field.BinaryValue()
		if bytes != nil {
			bits = BYTE_ARR
		} else {
			bits = STRING
			str = field.StringValue()
		}
	}

	infoAndBits := (int64(info.Number) << uint(TYPE_BITS)) | int64(bits)
	err := w.bufferedDocs.WriteVLong(infoAndBits)
	if err != nil {
		return err
	}

	switch bits {
	case BYTE_ARR:
		err = w.bufferedDocs.WriteVInt(int32(len(bytes)))
		if err == nil {
			err = w.bufferedDocs.WriteBytes(bytes)
		}
	case STRING:
		err = w.bufferedDocs.WriteString(str)
	case NUMERIC_INT:
		err = w.bufferedDocs.WriteInt(number.(int32))
	case NUMERIC_LONG:
		err = w.bufferedDocs.WriteLong(number.(int64))
	case NUMERIC_FLOAT:
		err = w.bufferedDocs.WriteInt(int32(math.Float32bits(number.(float32))))
	case NUMERIC_DOUBLE:
		err = w.bufferedDocs.WriteLong(int64(math.Float64bits(number.(float64))))
	default:
		panic("Cannot get here")
	}
	return err
}

func (w *CompressingStoredFieldsWriter) Abort() {
	if w == nil { // tolerate early released pointer
		return
	}
	util.CloseWhileSuppressingError(w)
	util.DeleteFilesIgnoringErrors(w.directory, w.directory.CreatedFiles()...)
}

func (w *CompressingStoredFieldsWriter) Finish(fis model.FieldInfos, numDocs int) (err error) {
	assert2(w.indexWriter != nil, "already closed?")
	if w.numBufferedDocs > 0 {
		if err = w.flush(); err != nil {
			return err
		}
	} else {
		assert(w.bufferedDocs.length() == 0)
	}
	if w.docBase != numDocs {
		return fmt.Errorf("Wrote %v docs, finish called with numDocs=%v", w.docBase, numDocs)
	}
	if err = w.indexWriter.finish(numDocs, w.fieldsStream.FilePointer()); err != nil {
		return err
	}
	return codec.WriteFooter(w.fieldsStream)
}

var _ StoredFieldsWriter = (*CompressingStoredFieldsWriter)(nil)
