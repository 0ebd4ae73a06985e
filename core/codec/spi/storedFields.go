package spi

import (
	"io"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
)

/*
Expert: provides a low-level means of accessing the stored field
values in an index.

NeedsField() is called first for every field; the typed callback
follows only when it answers YES.
*/
type StoredFieldVisitor interface {
	BinaryField(fi *model.FieldInfo, value []byte) error
	StringField(fi *model.FieldInfo, value string) error
	IntField(fi *model.FieldInfo, value int32) error
	LongField(fi *model.FieldInfo, value int64) error
	FloatField(fi *model.FieldInfo, value float32) error
	DoubleField(fi *model.FieldInfo, value float64) error
	NeedsField(fi *model.FieldInfo) (StoredFieldVisitorStatus, error)
}

type StoredFieldVisitorStatus int

const (
	// YES: the field should be visited.
	STORED_FIELD_VISITOR_STATUS_YES = StoredFieldVisitorStatus(1)
	// NO: don't visit this field, but continue processing fields for this document.
	STORED_FIELD_VISITOR_STATUS_NO = StoredFieldVisitorStatus(2)
	// STOP: don't visit this field and stop processing any other fields for this document.
	STORED_FIELD_VISITOR_STATUS_STOP = StoredFieldVisitorStatus(3)
)

func (s StoredFieldVisitorStatus) String() string {
	switch s {
	case STORED_FIELD_VISITOR_STATUS_YES:
		return "YES"
	case STORED_FIELD_VISITOR_STATUS_NO:
		return "NO"
	case STORED_FIELD_VISITOR_STATUS_STOP:
		return "STOP"
	}
	return "UNKNOWN"
}

/*
Codec API for reading stored fields.

A reader may only be used by one goroutine; Clone() returns an
independent reader over the same files for concurrent use.
*/
type StoredFieldsReader interface {
	io.Closer
	// Visit the stored fields for document n
	VisitDocument(n int, visitor StoredFieldVisitor) error
	Clone() StoredFieldsReader
	// Checks consistency of this reader. Note that this may be costly
	// in terms of I/O, e.g. may involve computing a checksum value
	// against large data files.
	CheckIntegrity() error
}

/*
Codec API for writing stored fields:

1. For every document, StartDocument() is called, informing the Codec
how many fields will be written.
2. WriteField() is called for each field in the document.
3. After all documents have been writen, Finish() is called for
verification/sanity-checks.
4. Finally the writer is closed.
*/
type StoredFieldsWriter interface {
	io.Closer
	// Called before writing the stored fields of the document.
	// WriteField() will be called numStoredFields times. Note that
	// this is called even if the document has no stored fields.
	StartDocument(numStoredFields int) error
	// Called when a document and all its fields have been added.
	FinishDocument() error
	// Writes a single stored field.
	WriteField(info *model.FieldInfo, field model.IndexableField) error
	// Aborts writing entirely, implementation should remove any
	// partially-written files, etc.
	Abort()
	// Called before Close(), passing in the number of documents that
	// were written. Note that this is intentionally redundant
	// (equivalent to the number of calls to StartDocument()), but a
	// Codec should check that this is the case.
	Finish(fis model.FieldInfos, numDocs int) error
	// Merges in the stored fields from the readers in mergeState.
	// Returns the number of documents that were written.
	Merge(mergeState *MergeState) (int, error)
}
