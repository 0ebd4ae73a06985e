package spi

import (
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
)

/*
Encodes/decodes the document storage of a segment: its stored fields
and its term vectors.
*/
type Codec interface {
	// Returns this codec's name
	Name() string
	// Encodes/decodes stored fields
	StoredFieldsFormat() StoredFieldsFormat
	// Encodes/decodes term vectors
	TermVectorsFormat() TermVectorsFormat
}

type CodecImpl struct {
	name          string
	fieldsFormat  StoredFieldsFormat
	vectorsFormat TermVectorsFormat
}

func NewCodec(name string, fieldsFormat StoredFieldsFormat, vectorsFormat TermVectorsFormat) *CodecImpl {
	assert(fieldsFormat != nil)
	assert(vectorsFormat != nil)
	return &CodecImpl{name, fieldsFormat, vectorsFormat}
}

func (codec *CodecImpl) Name() string {
	return codec.name
}

func (codec *CodecImpl) StoredFieldsFormat() StoredFieldsFormat {
	return codec.fieldsFormat
}

func (codec *CodecImpl) TermVectorsFormat() TermVectorsFormat {
	return codec.vectorsFormat
}

func (codec *CodecImpl) String() string {
	return codec.name
}

// Controls the format of stored fields
type StoredFieldsFormat interface {
	// Returns a StoredFieldsReader to load stored fields.
	FieldsReader(d store.Directory, si *model.SegmentInfo, fn model.FieldInfos, context store.IOContext) (r StoredFieldsReader, err error)
	// Returns a StoredFieldsWriter to write stored fields.
	FieldsWriter(d store.Directory, si *model.SegmentInfo, context store.IOContext) (w StoredFieldsWriter, err error)
}

// Controls the format of term vectors
type TermVectorsFormat interface {
	// Returns a TermVectorsReader to read term vectors.
	VectorsReader(d store.Directory, si *model.SegmentInfo, fn model.FieldInfos, ctx store.IOContext) (r TermVectorsReader, err error)
	// Returns a TermVectorsWriter to write term vectors.
	VectorsWriter(d store.Directory, si *model.SegmentInfo, ctx store.IOContext) (w TermVectorsWriter, err error)
}

func assert(ok bool) {
	if !ok {
		panic("assert fail")
	}
}
