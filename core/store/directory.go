package store

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
)

const (
	IO_CONTEXT_TYPE_MERGE   = 1
	IO_CONTEXT_TYPE_READ    = 2
	IO_CONTEXT_TYPE_FLUSH   = 3
	IO_CONTEXT_TYPE_DEFAULT = 4
)

type IOContextType int

var (
	IO_CONTEXT_DEFAULT  = IOContext{context: IO_CONTEXT_TYPE_DEFAULT}
	IO_CONTEXT_READONCE = IOContext{context: IO_CONTEXT_TYPE_READ, readOnce: true}
	IO_CONTEXT_READ     = IOContext{context: IO_CONTEXT_TYPE_READ}
)

/*
IOContext holds additional details on the merge/search context. It is
passed to OpenInput() and CreateOutput() so directories can pick
buffer sizes.
*/
type IOContext struct {
	context   IOContextType
	MergeInfo *MergeInfo
	FlushInfo *FlushInfo
	readOnce  bool
}

func NewIOContextForFlush(flushInfo *FlushInfo) IOContext {
	assert(flushInfo != nil)
	return IOContext{context: IO_CONTEXT_TYPE_FLUSH, FlushInfo: flushInfo}
}

func NewIOContextForMerge(mergeInfo *MergeInfo) IOContext {
	assert2(mergeInfo != nil, "MergeInfo must not be nil if context is MERGE")
	return IOContext{context: IO_CONTEXT_TYPE_MERGE, MergeInfo: mergeInfo}
}

func (ctx IOContext) String() string {
	return fmt.Sprintf("IOContext [context=%v, mergeInfo=%v, flushInfo=%v, readOnce=%v]",
		ctx.context, ctx.MergeInfo, ctx.FlushInfo, ctx.readOnce)
}

type FlushInfo struct {
	NumDocs              int
	EstimatedSegmentSize int64
}

type MergeInfo struct {
	TotalDocCount       int
	EstimatedMergeBytes int64
	IsExternal          bool
	MergeMaxNumSegments int
}

const (
	BUFFER_SIZE       = 1024
	MERGE_BUFFER_SIZE = 4096
)

func bufferSize(context IOContext) int {
	if context.context == IO_CONTEXT_TYPE_MERGE {
		// merges read large sequential runs
		return MERGE_BUFFER_SIZE
	}
	return BUFFER_SIZE
}

var ErrAlreadyClosed = errors.New("this Directory is closed")

/*
A Directory is a flat list of files. Files may be written once, when
they are created. Once a file is created it may only be opened for
read, or deleted. Random access is permitted both when reading and
writing.
*/
type Directory interface {
	io.Closer
	// Returns an array of strings, one for each file in the directory.
	ListAll() (paths []string, err error)
	// Returns true iff a file with the given name exists.
	FileExists(name string) bool
	// Removes an existing file in the directory.
	DeleteFile(name string) error
	/*
		Returns the length of a file in the directory. This method follows
		the following contract:
		- Fails with an error wrapping os.ErrNotExist if the file does not
		exist.
		- Returns a value >= 0 if the file exists, which specifies its
		length.
	*/
	FileLength(name string) (n int64, err error)
	/*
		Creates a new, empty file in the directory with the given name.
		Returns a stream writing this file.
	*/
	CreateOutput(name string, context IOContext) (out IndexOutput, err error)
	/*
		Returns a stream reading an existing file. Fails with an error
		wrapping os.ErrNotExist if the file does not exist.
	*/
	OpenInput(name string, context IOContext) (in IndexInput, err error)
	// Returns a stream reading an existing file, computing checksum as it reads
	OpenChecksumInput(name string, context IOContext) (ChecksumIndexInput, error)
}

/* Base implementation for a concrete Directory. */
type DirectoryImpl struct {
	spi    Directory
	closed int32
}

func NewDirectoryImpl(spi Directory) *DirectoryImpl {
	return &DirectoryImpl{spi: spi}
}

func (d *DirectoryImpl) OpenChecksumInput(name string, context IOContext) (ChecksumIndexInput, error) {
	in, err := d.spi.OpenInput(name, context)
	if err != nil {
		return nil, err
	}
	return NewBufferedChecksumIndexInput(in), nil
}

func (d *DirectoryImpl) markClosed() {
	atomic.StoreInt32(&d.closed, 1)
}

func (d *DirectoryImpl) ensureOpen() {
	assert2(atomic.LoadInt32(&d.closed) == 0, "%v", ErrAlreadyClosed)
}

func (d *DirectoryImpl) String() string {
	return fmt.Sprintf("%T", d.spi)
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
