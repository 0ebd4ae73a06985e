package model

/*
Represents a single stored field. A field carries exactly one of a
numeric, binary or string value; writers check them in that order.
*/
type IndexableField interface {
	// Field name
	Name() string
	// Non-nil if this field has a binary value
	BinaryValue() []byte
	// The string value; only consulted when there is no numeric or binary value
	StringValue() string
	// Non-nil if this field has a numeric value: int32, int64, float32 or float64
	NumericValue() interface{}
}
