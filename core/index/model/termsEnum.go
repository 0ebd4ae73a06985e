package model

import (
	"github.com/balzaczyy/golucene-compressing/core/util"
)

/*
Iterator to seek, or step through terms to obtain frequency
information, or for the current term.

Term enumerations are always ordered by unsigned byte order. Each term
in the enumeration is greater than the one before it.

The TermsEnum is unpositioned when you first obtain it and you must
first succesfully call Next() or SeekCeil().
*/
type TermsEnum interface {
	// Increments the iteration to the next term and returns it, or
	// nil when the end of the iterator is reached.
	Next() (term []byte, err error)
	/* Seeks to the specified term, if it exists, or to the next
	(ceiling) term. The target term may be before or after the current
	term. If this returns SEEK_STATUS_END, then the enum is
	unpositioned. */
	SeekCeil(text []byte) SeekStatus
	// Returns current term. Do not call this when enum is unpositioned.
	Term() []byte
	// Returns the number of documents containing the current term.
	DocFreq() int
	// Returns the total number of occurrences of this term.
	TotalTermFreq() int64
	/* Get DocsAndPositionEnum for the current term. Do not call this
	when the enum is unpositioned. */
	DocsAndPositions(liveDocs util.Bits, reuse DocsAndPositionsEnum) DocsAndPositionsEnum
}

type SeekStatus int

const (
	SEEK_STATUS_END       = SeekStatus(1)
	SEEK_STATUS_FOUND     = SeekStatus(2)
	SEEK_STATUS_NOT_FOUND = SeekStatus(3)
)

func (s SeekStatus) String() string {
	switch s {
	case SEEK_STATUS_END:
		return "END"
	case SEEK_STATUS_FOUND:
		return "FOUND"
	case SEEK_STATUS_NOT_FOUND:
		return "NOT_FOUND"
	}
	return "UNKNOWN"
}
