package util

import (
	"fmt"
	"io"
	"strings"
)

// CompoundError keeps every error raised while closing a batch of
// resources; the first one is reported first.
type CompoundError struct {
	errs []error
}

func (e *CompoundError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%v errors: %v", len(e.errs), strings.Join(msgs, "; "))
}

func (e *CompoundError) Unwrap() []error {
	return e.errs
}

/*
Closes all given io.Closers. Some of the Closers may be nil; they are
ignored. After everything is closed, returns the first error, or a
CompoundError when more than one close failed.
*/
func Close(objects ...io.Closer) error {
	var errs []error
	for _, object := range objects {
		if object == nil {
			continue
		}
		if err := object.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &CompoundError{errs}
	}
}

// Closes all given io.Closers, suppressing all errors.
func CloseWhileSuppressingError(objects ...io.Closer) {
	for _, object := range objects {
		if object != nil {
			object.Close() // ignore error
		}
	}
}

type FileDeleter interface {
	DeleteFile(name string) error
}

/*
Deletes all given files, suppressing all errors.

Note that the files should not be nil.
*/
func DeleteFilesIgnoringErrors(dir FileDeleter, files ...string) {
	for _, name := range files {
		dir.DeleteFile(name) // ignore error
	}
}
