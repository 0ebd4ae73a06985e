package model

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"

	"github.com/balzaczyy/golucene-compressing/core/store"
)

/*
Information about a segment such as its name, directory, and the
unique ID that per-segment file headers are stamped with.
*/
type SegmentInfo struct {
	Dir      store.Directory
	Name     string
	docCount int // number of docs in seg, -1 until known
	id       []byte
	files    map[string]bool // must use checkFileNames()

	*AttributesMixin
}

/*
Creates a new segment with a freshly generated ID. docCount may be -1
when the document count is only known once the segment is written.
*/
func NewSegmentInfo(dir store.Directory, name string, docCount int) *SegmentInfo {
	id := uuid.New()
	return NewSegmentInfoWithID(dir, name, docCount, id[:])
}

/* Re-creates a segment whose ID was recorded elsewhere. */
func NewSegmentInfoWithID(dir store.Directory, name string, docCount int, id []byte) *SegmentInfo {
	assert2(len(id) == 16, "invalid id: %x", id)
	return &SegmentInfo{
		Dir:             dir,
		Name:            name,
		docCount:        docCount,
		id:              append([]byte(nil), id...),
		files:           make(map[string]bool),
		AttributesMixin: &AttributesMixin{},
	}
}

/* Returns the unique ID of this segment. */
func (si *SegmentInfo) ID() []byte {
	return si.id
}

func (si *SegmentInfo) DocCount() int {
	assert2(si.docCount != -1, "docCount isn't set yet")
	return si.docCount
}

/* Can only be called once. */
func (si *SegmentInfo) SetDocCount(docCount int) {
	assert2(si.docCount == -1, "docCount was already set")
	si.docCount = docCount
}

/* Return all files referenced by this SegmentInfo, sorted. */
func (si *SegmentInfo) Files() []string {
	ans := make([]string, 0, len(si.files))
	for file := range si.files {
		ans = append(ans, file)
	}
	sort.Strings(ans)
	return ans
}

/* Records one file written for this segment. */
func (si *SegmentInfo) AddFile(file string) {
	si.checkFileNames(file)
	si.files[file] = true
}

func (si *SegmentInfo) String() string {
	var buf bytes.Buffer
	buf.WriteString(si.Name)
	buf.WriteString(":C")
	if si.docCount == -1 {
		buf.WriteString("?")
	} else {
		fmt.Fprintf(&buf, "%v", si.docCount)
	}
	fmt.Fprintf(&buf, " id=%x", si.id)
	return buf.String()
}

var CODEC_FILE_PATTERN = regexp.MustCompile("_[a-z0-9]+(_.*)?\\..*")

func (si *SegmentInfo) checkFileNames(files ...string) {
	for _, file := range files {
		if !CODEC_FILE_PATTERN.MatchString(file) {
			panic(fmt.Sprintf("invalid codec filename '%v', must match: %v", file, CODEC_FILE_PATTERN))
		}
	}
}
