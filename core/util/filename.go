package util

import (
	"strings"
)

/*
Returns a file name that includes the given segment name, your own
custom name and extension. The format of the filename is:
<segmentName>(_<name>)(.<ext>).
*/
func SegmentFileName(name, suffix, ext string) string {
	if len(ext) == 0 && len(suffix) == 0 {
		return name
	}
	var buffer strings.Builder
	buffer.WriteString(name)
	if len(suffix) > 0 {
		buffer.WriteString("_")
		buffer.WriteString(suffix)
	}
	if len(ext) > 0 {
		buffer.WriteString(".")
		buffer.WriteString(ext)
	}
	return buffer.String()
}

// Returns the extension of the file name, or "" if it has none.
func FileExtension(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		return filename[idx+1:]
	}
	return ""
}

// Parses the segment name out of a file name, dropping any suffix and extension.
func ParseSegmentName(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		filename = filename[:idx]
	}
	if idx := strings.IndexByte(filename[min(1, len(filename)):], '_'); idx >= 0 {
		filename = filename[:idx+1]
	}
	return filename
}
