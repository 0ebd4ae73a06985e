package document

import (
	"fmt"
	"strconv"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
)

/* A field whose value is stored so that it can be retrieved later. */
type StoredField struct {
	name string
	data interface{}
}

func newStoredField(name string, data interface{}) *StoredField {
	assert2(name != "", "name cannot be empty")
	return &StoredField{name, data}
}

func NewStoredFieldFromString(name, value string) *StoredField {
	return newStoredField(name, value)
}

func NewStoredFieldFromBytes(name string, value []byte) *StoredField {
	assert2(value != nil, "value cannot be nil")
	return newStoredField(name, value)
}

func NewStoredFieldFromInt(name string, value int32) *StoredField {
	return newStoredField(name, value)
}

func NewStoredFieldFromLong(name string, value int64) *StoredField {
	return newStoredField(name, value)
}

func NewStoredFieldFromFloat(name string, value float32) *StoredField {
	return newStoredField(name, value)
}

func NewStoredFieldFromDouble(name string, value float64) *StoredField {
	return newStoredField(name, value)
}

func (f *StoredField) Name() string {
	return f.name
}

func (f *StoredField) BinaryValue() []byte {
	if v, ok := f.data.([]byte); ok {
		return v
	}
	return nil
}

func (f *StoredField) StringValue() string {
	switch v := f.data.(type) {
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}

func (f *StoredField) NumericValue() interface{} {
	switch f.data.(type) {
	case int32, int64, float32, float64:
		return f.data
	}
	return nil
}

func (f *StoredField) String() string {
	return fmt.Sprintf("stored<%v:%v>", f.name, f.data)
}

var _ model.IndexableField = (*StoredField)(nil)

func assert2(ok bool, msg string) {
	if !ok {
		panic(msg)
	}
}
