package model

import (
	"fmt"
)

/*
Access to the Field Info file that describes document fields and
whether or not they carry term vectors.
*/
type FieldInfo struct {
	// Field's name
	Name string
	// Internal field number
	Number int32

	// True if any document stored term vectors for this field
	storeTermVector bool
	storePayloads   bool
	indexOptions    IndexOptions

	*AttributesMixin
}

func NewFieldInfo(name string, number int32, storeTermVector, storePayloads bool,
	indexOptions IndexOptions, attributes map[string]string) *FieldInfo {
	assert2(number >= 0, "illegal field number: %v for field %v", number, name)
	return &FieldInfo{
		Name:            name,
		Number:          number,
		storeTermVector: storeTermVector,
		storePayloads:   storePayloads,
		indexOptions:    indexOptions,
		AttributesMixin: &AttributesMixin{attributes},
	}
}

/* Returns IndexOptions for the field, or 0 if the field is not indexed */
func (info *FieldInfo) IndexOptions() IndexOptions { return info.indexOptions }

/* Returns true if any payloads exist for this field. */
func (info *FieldInfo) HasPayloads() bool { return info.storePayloads }

/* Returns true if any term vectors exist for this field. */
func (info *FieldInfo) HasVectors() bool { return info.storeTermVector }

func (info *FieldInfo) HasPositions() bool {
	return info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS
}

func (info *FieldInfo) HasOffsets() bool {
	return info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS
}

func (fi *FieldInfo) String() string {
	return fmt.Sprintf("%v-%v, hasVectors=%v, indexOptions=%v, hasPayloads=%v, attributes=%v",
		fi.Number, fi.Name, fi.storeTermVector, fi.indexOptions, fi.storePayloads, fi.attributes)
}

type Int32Slice []int32

func (p Int32Slice) Len() int           { return len(p) }
func (p Int32Slice) Less(i, j int) bool { return p[i] < p[j] }
func (p Int32Slice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

type IndexOptions int

const (
	INDEX_OPT_DOCS_ONLY                                = IndexOptions(1)
	INDEX_OPT_DOCS_AND_FREQS                           = IndexOptions(2)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS             = IndexOptions(3)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS = IndexOptions(4)
)

func (opts IndexOptions) String() string {
	switch opts {
	case INDEX_OPT_DOCS_ONLY:
		return "DOCS_ONLY"
	case INDEX_OPT_DOCS_AND_FREQS:
		return "DOCS_AND_FREQS"
	case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS:
		return "DOCS_AND_FREQS_AND_POSITIONS"
	case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS:
		return "DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS"
	}
	return "NOT_INDEXED"
}
