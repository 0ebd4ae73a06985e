package compressing

import (
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
)

// A TermVectorsFormat that compresses chunks of documents together
// in order to improve the compression ratio.
type CompressingTermVectorsFormat struct {
	formatName      string
	segmentSuffix   string
	compressionMode CompressionMode
	chunkSize       int
	metrics         *Metrics
}

/*
Create a new CompressingTermVectorsFormat

formatName is the name of the format. This name will be used in the
file formats to perform codec header checks.

The compressionMode parameter allows you to choose between compression
algorithms that have various compression and decompression speeds so
that you can pick the one that best fits your indexing and searching
throughput. You should never instantiate two CompressingTermVectorsFormats
that have the same name but different CompressionModes.

chunkSize is the minimum byte size of a chunk of documents. Higher
values of chunkSize should improve the compression ratio but will
require more memory at indexing time.
*/
func NewCompressingTermVectorsFormat(formatName, segmentSuffix string,
	compressionMode CompressionMode, chunkSize int) *CompressingTermVectorsFormat {
	assert2(chunkSize >= 1, "chunkSize must be >= 1")
	return &CompressingTermVectorsFormat{
		formatName:      formatName,
		segmentSuffix:   segmentSuffix,
		compressionMode: compressionMode,
		chunkSize:       chunkSize,
		metrics:         defaultMetrics,
	}
}

// WithMetrics makes readers and writers of this format report to m.
func (vf *CompressingTermVectorsFormat) WithMetrics(m *Metrics) *CompressingTermVectorsFormat {
	if m != nil {
		vf.metrics = m
	}
	return vf
}

func (vf *CompressingTermVectorsFormat) VectorsReader(d store.Directory,
	segmentInfo *model.SegmentInfo, fieldsInfos model.FieldInfos,
	context store.IOContext) (spi.TermVectorsReader, error) {

	if err := checkModeAttribute(segmentInfo, modeAttributeKey(vf.formatName, VECTORS_EXTENSION),
		vf.compressionMode); err != nil {
		return nil, err
	}
	r, err := NewCompressingTermVectorsReader(d, segmentInfo, vf.segmentSuffix,
		fieldsInfos, context, vf.formatName, vf.compressionMode, vf.metrics)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (vf *CompressingTermVectorsFormat) VectorsWriter(d store.Directory,
	segmentInfo *model.SegmentInfo,
	context store.IOContext) (spi.TermVectorsWriter, error) {

	if err := putModeAttribute(segmentInfo, modeAttributeKey(vf.formatName, VECTORS_EXTENSION),
		vf.compressionMode); err != nil {
		return nil, err
	}
	w, err := NewCompressingTermVectorsWriter(d, segmentInfo, vf.segmentSuffix,
		context, vf.formatName, vf.compressionMode, vf.chunkSize, vf.metrics)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (vf *CompressingTermVectorsFormat) String() string {
	return fmt.Sprintf("CompressingTermVectorsFormat(compressionMode=%v, chunkSize=%v)",
		vf.compressionMode, vf.chunkSize)
}

var _ spi.TermVectorsFormat = (*CompressingTermVectorsFormat)(nil)
