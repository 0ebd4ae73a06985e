package compressing

import (
	"fmt"

	. "github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("compressing")

/*
A StoredFieldsFormat that compresses documents in chunks in order to
improve the compression ratio.

For a chunk size of chunkSize bytes, this StoredFieldsFormat does not
support documents larger than (2^31 - chunkSize) bytes.

For optimal performance, merges should favor the segments that have
the biggest byte size first.
*/
type CompressingStoredFieldsFormat struct {
	formatName      string
	segmentSuffix   string
	compressionMode CompressionMode
	chunkSize       int
	metrics         *Metrics
}

/*
Create a new CompressingStoredFieldsFormat

formatName is the name of the format. This name will be used in the
file formats to perform CheckHeader().

segmentSuffix is the segment suffix. This suffix is added to the
result file name only if it's not the empty string.

The compressionMode parameter allows you to choose between
compression algorithms that have various compression and
decompression speeds so that you can pick the one that best fits
your indexing and searching throughput. You should never instantiate
two CompressingStoredFieldsFormats that have the same name but
different CompressionModes.

chunkSize is the minimum byte size of a chunk of documents. A value
of 1 can make sense if there is redundancy across fields. Higher
values of chunkSize should improve the compression ratio but will
require more memory at indexing time and might make document loading
a little slower.
*/
func NewCompressingStoredFieldsFormat(formatName, segmentSuffix string,
	compressionMode CompressionMode, chunkSize int) *CompressingStoredFieldsFormat {
	assert2(chunkSize >= 1, "chunkSize must be >= 1")
	return &CompressingStoredFieldsFormat{
		formatName:      formatName,
		segmentSuffix:   segmentSuffix,
		compressionMode: compressionMode,
		chunkSize:       chunkSize,
		metrics:         defaultMetrics,
	}
}

// WithMetrics makes readers and writers of this format report to m.
func (format *CompressingStoredFieldsFormat) WithMetrics(m *Metrics) *CompressingStoredFieldsFormat {
	if m != nil {
		format.metrics = m
	}
	return format
}

func (format *CompressingStoredFieldsFormat) FieldsReader(d store.Directory,
	si *model.SegmentInfo, fn model.FieldInfos, ctx store.IOContext) (r StoredFieldsReader, err error) {

	if err = checkModeAttribute(si, modeAttributeKey(format.formatName, FIELDS_EXTENSION),
		format.compressionMode); err != nil {
		return nil, err
	}
	if r, err = newCompressingStoredFieldsReader(d, si, format.segmentSuffix, fn,
		ctx, format.formatName, format.compressionMode, format.metrics); err != nil {
		return nil, err
	}
	return r, nil
}

func (format *CompressingStoredFieldsFormat) FieldsWriter(d store.Directory,
	si *model.SegmentInfo, ctx store.IOContext) (w StoredFieldsWriter, err error) {

	if err = putModeAttribute(si, modeAttributeKey(format.formatName, FIELDS_EXTENSION),
		format.compressionMode); err != nil {
		return nil, err
	}
	if w, err = NewCompressingStoredFieldsWriter(d, si, format.segmentSuffix, ctx,
		format.formatName, format.compressionMode, format.chunkSize, format.metrics); err != nil {
		return nil, err
	}
	return w, nil
}

func (format *CompressingStoredFieldsFormat) String() string {
	return fmt.Sprintf("CompressingStoredFieldsFormat(compressionMode=%v, chunkSize=%v)",
		format.compressionMode, format.chunkSize)
}

var _ StoredFieldsFormat = (*CompressingStoredFieldsFormat)(nil)
