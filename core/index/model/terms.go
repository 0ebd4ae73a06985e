package model

/* Flex API for access to fields and terms of one document's term vectors. */
type Fields interface {
	// Names of the fields, in the order they were written.
	Names() []string
	// Get the Terms for this field. This will return nil if the field
	// does not exist.
	Terms(field string) Terms
	// Returns the number of fields.
	Size() int
}

type Terms interface {
	Iterator(reuse TermsEnum) TermsEnum
	// Returns the number of terms for this field.
	Size() int64
	HasFreqs() bool
	HasOffsets() bool
	HasPositions() bool
	HasPayloads() bool
}
