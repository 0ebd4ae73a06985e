package codec

import (
	"errors"
	"fmt"
)

// ErrCorruptIndex is the sentinel every corruption error wraps.
var ErrCorruptIndex = errors.New("corrupt index")

/*
CorruptIndexError is returned when an index file is found to be
inconsistent: checksum mismatches, impossible lengths or bit widths,
doc bases that do not line up. It is never retried.
*/
type CorruptIndexError struct {
	Resource string
	Msg      string
}

func NewCorruptIndexError(resource interface{}, format string, args ...interface{}) error {
	return &CorruptIndexError{
		Resource: fmt.Sprintf("%v", resource),
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("%v (resource=%v)", e.Msg, e.Resource)
}

func (e *CorruptIndexError) Unwrap() error {
	return ErrCorruptIndex
}

/*
Returned when the index format version of a file is older than what
this code can read.
*/
type IndexFormatTooOldError struct {
	Resource                       string
	Version, MinVersion, MaxVersion int32
}

func (e *IndexFormatTooOldError) Error() string {
	return fmt.Sprintf("Format version is not supported (resource=%v): %v (needs to be between %v and %v)",
		e.Resource, e.Version, e.MinVersion, e.MaxVersion)
}

func (e *IndexFormatTooOldError) Unwrap() error {
	return ErrCorruptIndex
}

/*
Returned when the index format version of a file is newer than what
this code can read.
*/
type IndexFormatTooNewError struct {
	Resource                       string
	Version, MinVersion, MaxVersion int32
}

func (e *IndexFormatTooNewError) Error() string {
	return fmt.Sprintf("Format version is not supported (resource=%v): %v (needs to be between %v and %v)",
		e.Resource, e.Version, e.MinVersion, e.MaxVersion)
}

func (e *IndexFormatTooNewError) Unwrap() error {
	return ErrCorruptIndex
}
