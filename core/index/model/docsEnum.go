package model

import (
	"math"
)

/* When returned by NextDoc(), Advance() and DocID() it means there are no more docs in the iterator. */
const NO_MORE_DOCS = math.MaxInt32

/*
Also iterates through positions. For term vectors there is at most
one document and its id is 0.
*/
type DocsAndPositionsEnum interface {
	// -1 if NextDoc() or Advance() were not called yet, NO_MORE_DOCS if
	// the iterator has exhausted, otherwise the current doc ID.
	DocID() int
	NextDoc() int
	Advance(target int) int
	// Returns term frequency in the current document.
	Freq() int
	// Returns the next position. Call at most Freq() times.
	NextPosition() int
	// Returns start offset for the current position, or -1 if offsets were not indexed.
	StartOffset() int
	// Returns end offset for the current position, or -1 if offsets were not indexed.
	EndOffset() int
	// Returns the payload at this position, or nil if no payload was indexed.
	Payload() []byte
}
