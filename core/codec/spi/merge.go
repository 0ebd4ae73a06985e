package spi

import (
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

/* One source segment of a merge. */
type MergeReader struct {
	MaxDoc int
	// Live documents, or nil when the segment has no deletions.
	LiveDocs   util.Bits
	FieldInfos model.FieldInfos

	StoredFieldsReader StoredFieldsReader
	TermVectorsReader  TermVectorsReader

	// True when every field of this segment has the same number in the
	// merged FieldInfos, which allows raw chunk copies.
	Matching bool
}

/* Returns the number of live documents in this segment. */
func (r *MergeReader) NumDocs() int {
	if r.LiveDocs == nil {
		return r.MaxDoc
	}
	n := 0
	for i := 0; i < r.MaxDoc; i++ {
		if r.LiveDocs.At(i) {
			n++
		}
	}
	return n
}

/* Returns true if document i of this segment was not deleted. */
func (r *MergeReader) IsLive(i int) bool {
	return r.LiveDocs == nil || r.LiveDocs.At(i)
}

/* Holds common state used during segment merging. */
type MergeState struct {
	// The segment being written.
	SegmentInfo *model.SegmentInfo
	// The merged FieldInfos.
	FieldInfos model.FieldInfos
	// Readers being merged, in doc id order.
	Readers []*MergeReader
}

/*
Builds the merged FieldInfos and flags each reader as matching when
its field names map to the same numbers in the merged result.
*/
func NewMergeState(si *model.SegmentInfo, readers []*MergeReader) *MergeState {
	builder := model.NewFieldInfosBuilder(model.NewFieldNumbers())
	for _, r := range readers {
		builder.AddAll(r.FieldInfos)
	}
	merged := builder.Finish()
	for _, r := range readers {
		r.Matching = true
		for _, fi := range r.FieldInfos.Values {
			other := merged.FieldInfoByNumber(int(fi.Number))
			if other == nil || other.Name != fi.Name {
				r.Matching = false
				break
			}
		}
	}
	return &MergeState{
		SegmentInfo: si,
		FieldInfos:  merged,
		Readers:     readers,
	}
}
