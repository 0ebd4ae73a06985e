package util

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"
)

func TestSegmentFileName(t *testing.T) {
	tassert.Equal(t, "_0.fdt", SegmentFileName("_0", "", "fdt"))
	tassert.Equal(t, "_0_sfx.fdx", SegmentFileName("_0", "sfx", "fdx"))
	tassert.Equal(t, "_0_sfx", SegmentFileName("_0", "sfx", ""))
	tassert.Equal(t, "_0", SegmentFileName("_0", "", ""))
}

func TestFileExtension(t *testing.T) {
	tassert.Equal(t, "tvd", FileExtension("_1.tvd"))
	tassert.Equal(t, "fdx", FileExtension("_1_sfx.fdx"))
	tassert.Equal(t, "", FileExtension("segments"))
}

func TestParseSegmentName(t *testing.T) {
	tassert.Equal(t, "_0", ParseSegmentName("_0.fnm"))
	tassert.Equal(t, "_0", ParseSegmentName("_0_Lucene41_0.doc"))
	tassert.Equal(t, "_a3", ParseSegmentName("_a3_sfx.tvx"))
	tassert.Equal(t, "_7", ParseSegmentName("_7"))
	tassert.Equal(t, "", ParseSegmentName(""))
}
