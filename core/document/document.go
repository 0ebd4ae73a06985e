package document

import (
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
)

/*
Documents are the unit of storage. A Document is a set of fields. Each
field has a name and a value. Several fields may share a name.
*/
type Document struct {
	fields []model.IndexableField
}

/* Constructs a new document with no fields. */
func NewDocument() *Document {
	return &Document{make([]model.IndexableField, 0)}
}

func (doc *Document) Fields() []model.IndexableField {
	return doc.fields
}

/* Returns the number of fields in this document. */
func (doc *Document) Len() int {
	return len(doc.fields)
}

/* Adds a field to a document. Several fields may be added with the same name. */
func (doc *Document) Add(field model.IndexableField) {
	doc.fields = append(doc.fields, field)
}

/*
Returns the string value of the field with the given name if any
exist in this document, or "". If multiple fields exist with this
name, this method returns the first value added. Numeric fields
return the string form of their number.
*/
func (doc *Document) Get(name string) string {
	for _, field := range doc.fields {
		if field.Name() == name && field.BinaryValue() == nil {
			return field.StringValue()
		}
	}
	return ""
}

/* Returns the first field with the given name, or nil. */
func (doc *Document) GetField(name string) model.IndexableField {
	for _, field := range doc.fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

/*
A StoredFieldVisitor that creates a Document containing all stored
fields, or only specific requested fields.
*/
type DocumentStoredFieldVisitor struct {
	doc         *Document
	fieldsToAdd map[string]bool
}

/* Load all stored fields, or only the named ones when names are given. */
func NewDocumentStoredFieldVisitor(fieldsToAdd ...string) *DocumentStoredFieldVisitor {
	ans := &DocumentStoredFieldVisitor{doc: NewDocument()}
	if len(fieldsToAdd) > 0 {
		ans.fieldsToAdd = make(map[string]bool)
		for _, name := range fieldsToAdd {
			ans.fieldsToAdd[name] = true
		}
	}
	return ans
}

func (visitor *DocumentStoredFieldVisitor) BinaryField(fi *model.FieldInfo, value []byte) error {
	visitor.doc.Add(NewStoredFieldFromBytes(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) StringField(fi *model.FieldInfo, value string) error {
	visitor.doc.Add(NewStoredFieldFromString(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) IntField(fi *model.FieldInfo, value int32) error {
	visitor.doc.Add(NewStoredFieldFromInt(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) LongField(fi *model.FieldInfo, value int64) error {
	visitor.doc.Add(NewStoredFieldFromLong(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) FloatField(fi *model.FieldInfo, value float32) error {
	visitor.doc.Add(NewStoredFieldFromFloat(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) DoubleField(fi *model.FieldInfo, value float64) error {
	visitor.doc.Add(NewStoredFieldFromDouble(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) NeedsField(fi *model.FieldInfo) (spi.StoredFieldVisitorStatus, error) {
	if visitor.fieldsToAdd == nil || visitor.fieldsToAdd[fi.Name] {
		return spi.STORED_FIELD_VISITOR_STATUS_YES, nil
	}
	return spi.STORED_FIELD_VISITOR_STATUS_NO, nil
}

func (visitor *DocumentStoredFieldVisitor) Document() *Document {
	return visitor.doc
}

/* A visitor that ignores every value; embed it to override only some callbacks. */
type StoredFieldVisitorAdapter struct{}

func (va *StoredFieldVisitorAdapter) BinaryField(fi *model.FieldInfo, value []byte) error  { return nil }
func (va *StoredFieldVisitorAdapter) StringField(fi *model.FieldInfo, value string) error  { return nil }
func (va *StoredFieldVisitorAdapter) IntField(fi *model.FieldInfo, value int32) error      { return nil }
func (va *StoredFieldVisitorAdapter) LongField(fi *model.FieldInfo, value int64) error     { return nil }
func (va *StoredFieldVisitorAdapter) FloatField(fi *model.FieldInfo, value float32) error  { return nil }
func (va *StoredFieldVisitorAdapter) DoubleField(fi *model.FieldInfo, value float64) error { return nil }
