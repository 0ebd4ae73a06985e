package model

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldInfosSortedByNumber(t *testing.T) {
	infos := NewFieldInfos([]*FieldInfo{
		NewFieldInfo("title", 2, true, false, INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS, nil),
		NewFieldInfo("id", 0, false, false, 0, nil),
		NewFieldInfo("body", 1, true, true, INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS, nil),
	})
	require.Equal(t, 3, infos.Size())
	tassert.Equal(t, "id", infos.Values[0].Name)
	tassert.Equal(t, "body", infos.Values[1].Name)
	tassert.Equal(t, "title", infos.Values[2].Name)
	tassert.True(t, infos.HasVectors)
	tassert.True(t, infos.HasOffsets)
	tassert.True(t, infos.HasPayloads)
	tassert.Equal(t, "body", infos.FieldInfoByNumber(1).Name)
	tassert.Equal(t, int32(2), infos.FieldInfoByName("title").Number)
	tassert.Nil(t, infos.FieldInfoByName("missing"))
	tassert.True(t, infos.FieldInfoByName("body").HasPositions())
	tassert.False(t, infos.FieldInfoByName("body").HasOffsets())
}

func TestFieldInfosDuplicateNumberPanics(t *testing.T) {
	tassert.Panics(t, func() {
		NewFieldInfos([]*FieldInfo{
			NewFieldInfo("a", 0, false, false, 0, nil),
			NewFieldInfo("b", 0, false, false, 0, nil),
		})
	})
}

func TestFieldInfosBuilder(t *testing.T) {
	numbers := NewFieldNumbers()
	b := NewFieldInfosBuilder(numbers)
	a := b.AddOrUpdate("a", false, false, 0)
	c := b.AddOrUpdate("c", true, false, INDEX_OPT_DOCS_AND_FREQS)
	again := b.AddOrUpdate("a", true, true, INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS)
	tassert.Same(t, a, again)
	tassert.True(t, a.HasVectors())
	tassert.True(t, a.HasPayloads())
	tassert.Equal(t, int32(0), a.Number)
	tassert.Equal(t, int32(1), c.Number)

	// a second segment sharing the numbers sees the same numbering
	b2 := NewFieldInfosBuilder(numbers)
	tassert.Equal(t, int32(1), b2.AddOrUpdate("c", false, false, 0).Number)
	tassert.Equal(t, int32(2), b2.AddOrUpdate("d", false, false, 0).Number)

	infos := b.Finish()
	tassert.Equal(t, 2, infos.Size())
}

func TestFieldInfosBuilderAddAll(t *testing.T) {
	src := NewFieldInfos([]*FieldInfo{
		NewFieldInfo("x", 5, true, false, INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS, nil),
	})
	b := NewFieldInfosBuilder(NewFieldNumbers())
	b.AddAll(src)
	merged := b.Finish()
	require.Equal(t, 1, merged.Size())
	tassert.Equal(t, int32(5), merged.FieldInfoByName("x").Number)
	tassert.True(t, merged.HasVectors)
}

func TestSegmentInfo(t *testing.T) {
	si := NewSegmentInfo(nil, "_0", -1)
	tassert.Len(t, si.ID(), 16)
	tassert.Panics(t, func() { si.DocCount() })
	si.SetDocCount(7)
	tassert.Equal(t, 7, si.DocCount())
	tassert.Panics(t, func() { si.SetDocCount(8) })

	other := NewSegmentInfo(nil, "_1", 0)
	tassert.NotEqual(t, si.ID(), other.ID())

	si.AddFile("_0.fdt")
	si.AddFile("_0.fdx")
	tassert.Equal(t, []string{"_0.fdt", "_0.fdx"}, si.Files())
	tassert.Panics(t, func() { si.AddFile("segments_1") })

	tassert.Equal(t, "", si.Attribute("mode"))
	si.PutAttribute("mode", "FAST")
	tassert.Equal(t, "FAST", si.Attribute("mode"))
}
