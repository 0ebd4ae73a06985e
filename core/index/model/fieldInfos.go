package model

import (
	"fmt"
	"sort"
	"sync"
)

// Collection of FieldInfo(s) (accessible by number of by name)
type FieldInfos struct {
	HasPayloads bool
	HasOffsets  bool
	HasVectors  bool

	byNumber map[int32]*FieldInfo
	byName   map[string]*FieldInfo
	Values   []*FieldInfo // sorted by ID
}

func NewFieldInfos(infos []*FieldInfo) FieldInfos {
	self := FieldInfos{byNumber: make(map[int32]*FieldInfo), byName: make(map[string]*FieldInfo)}

	numbers := make([]int32, 0, len(infos))
	for _, info := range infos {
		assert2(info.Number >= 0, "illegal field number: %v for field %v", info.Number, info.Name)
		if prev, ok := self.byNumber[info.Number]; ok {
			panic(fmt.Sprintf("duplicate field numbers: %v and %v have: %v", prev.Name, info.Name, info.Number))
		}
		self.byNumber[info.Number] = info
		numbers = append(numbers, info.Number)
		if prev, ok := self.byName[info.Name]; ok {
			panic(fmt.Sprintf("duplicate field names: %v and %v have: %v", prev.Number, info.Number, info.Name))
		}
		self.byName[info.Name] = info

		self.HasVectors = self.HasVectors || info.storeTermVector
		self.HasOffsets = self.HasOffsets || info.HasOffsets()
		self.HasPayloads = self.HasPayloads || info.storePayloads
	}

	sort.Sort(Int32Slice(numbers))
	self.Values = make([]*FieldInfo, len(numbers))
	for i, v := range numbers {
		self.Values[i] = self.byNumber[v]
	}
	return self
}

/* Returns the number of fields */
func (infos FieldInfos) Size() int {
	assert(len(infos.byNumber) == len(infos.byName))
	return len(infos.byNumber)
}

/* Return the FieldInfo object referenced by the field name */
func (infos FieldInfos) FieldInfoByName(fieldName string) *FieldInfo {
	return infos.byName[fieldName]
}

/* Return the FieldInfo object referenced by the fieldNumber. */
func (infos FieldInfos) FieldInfoByNumber(fieldNumber int) *FieldInfo {
	assert2(fieldNumber >= 0, "Illegal field number: %v", fieldNumber)
	return infos.byNumber[int32(fieldNumber)]
}

func (fis FieldInfos) String() string {
	return fmt.Sprintf("hasPayloads=%v hasOffsets=%v hasVectors=%v %v",
		fis.HasPayloads, fis.HasOffsets, fis.HasVectors, fis.Values)
}

/*
FieldNumbers hands out field numbers that stay stable for a given
name across every segment sharing the instance.
*/
type FieldNumbers struct {
	sync.Locker
	numberToName map[int]string
	nameToNumber map[string]int

	lowestUnassignedFieldNumber int
}

func NewFieldNumbers() *FieldNumbers {
	return &FieldNumbers{
		Locker:                      &sync.Mutex{},
		nameToNumber:                make(map[string]int),
		numberToName:                make(map[int]string),
		lowestUnassignedFieldNumber: -1,
	}
}

/*
Returns the global field number for the given field name. If the name
does not exist yet it tries to add it with the given preferred field
number assigned if possible otherwise the first unassigned field
number is used as the field number.
*/
func (fn *FieldNumbers) AddOrGet(name string, preferredNumber int) int {
	fn.Lock()
	defer fn.Unlock()

	number, ok := fn.nameToNumber[name]
	if !ok {
		_, taken := fn.numberToName[preferredNumber]
		if preferredNumber != -1 && !taken {
			number = preferredNumber
		} else {
			fn.lowestUnassignedFieldNumber++
			for {
				if _, taken = fn.numberToName[fn.lowestUnassignedFieldNumber]; !taken {
					break
				}
				fn.lowestUnassignedFieldNumber++
			}
			number = fn.lowestUnassignedFieldNumber
		}
		fn.numberToName[number] = name
		fn.nameToNumber[name] = number
	}
	return number
}

type FieldInfosBuilder struct {
	byName             map[string]*FieldInfo
	globalFieldNumbers *FieldNumbers
}

func NewFieldInfosBuilder(globalFieldNumbers *FieldNumbers) *FieldInfosBuilder {
	assert(globalFieldNumbers != nil)
	return &FieldInfosBuilder{
		byName:             make(map[string]*FieldInfo),
		globalFieldNumbers: globalFieldNumbers,
	}
}

/*
Returns the FieldInfo for the given name, creating it with a global
number when it was not seen yet. Vector and payload flags are sticky:
once set for a field they remain set.
*/
func (b *FieldInfosBuilder) AddOrUpdate(name string, storeTermVector, storePayloads bool,
	indexOptions IndexOptions) *FieldInfo {

	if fi, ok := b.byName[name]; ok {
		fi.storeTermVector = fi.storeTermVector || storeTermVector
		fi.storePayloads = fi.storePayloads || storePayloads
		if indexOptions > fi.indexOptions {
			fi.indexOptions = indexOptions
		}
		return fi
	}
	number := int32(b.globalFieldNumbers.AddOrGet(name, -1))
	fi := NewFieldInfo(name, number, storeTermVector, storePayloads, indexOptions, nil)
	b.byName[name] = fi
	return fi
}

/* Adds every field of infos, preserving their numbers when possible. */
func (b *FieldInfosBuilder) AddAll(infos FieldInfos) {
	for _, fi := range infos.Values {
		if _, ok := b.byName[fi.Name]; !ok {
			number := int32(b.globalFieldNumbers.AddOrGet(fi.Name, int(fi.Number)))
			b.byName[fi.Name] = NewFieldInfo(fi.Name, number, fi.storeTermVector,
				fi.storePayloads, fi.indexOptions, fi.attributes)
			continue
		}
		b.AddOrUpdate(fi.Name, fi.storeTermVector, fi.storePayloads, fi.indexOptions)
	}
}

func (b *FieldInfosBuilder) Finish() FieldInfos {
	infos := make([]*FieldInfo, 0, len(b.byName))
	for _, v := range b.byName {
		infos = append(infos, v)
	}
	return NewFieldInfos(infos)
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
