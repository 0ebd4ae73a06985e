package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

/*
A memory-resident Directory implementation.

Warning: This type is not intended to work with huge indexes.
Everything beyond several hundred megabytes will waste resources (GC
cycles), because it uses an internal buffer size of 1024 bytes,
producing millions of []byte(1024) slices. It is optimized for small
memory-resident indexes and tests.
*/
type RAMDirectory struct {
	*DirectoryImpl

	fileMap     map[string]*RAMFile // synchronized
	fileMapLock sync.RWMutex
}

func NewRAMDirectory() *RAMDirectory {
	ans := &RAMDirectory{fileMap: make(map[string]*RAMFile)}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	return ans
}

func (rd *RAMDirectory) ListAll() (names []string, err error) {
	rd.ensureOpen()
	rd.fileMapLock.RLock()
	defer rd.fileMapLock.RUnlock()
	names = make([]string, 0, len(rd.fileMap))
	for name := range rd.fileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Returns true iff the named file exists in this directory
func (rd *RAMDirectory) FileExists(name string) bool {
	rd.ensureOpen()
	rd.fileMapLock.RLock()
	defer rd.fileMapLock.RUnlock()
	_, ok := rd.fileMap[name]
	return ok
}

func (rd *RAMDirectory) file(name string) (*RAMFile, error) {
	rd.fileMapLock.RLock()
	defer rd.fileMapLock.RUnlock()
	if file, ok := rd.fileMap[name]; ok {
		return file, nil
	}
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

// Returns the length in bytes of a file in the directory.
func (rd *RAMDirectory) FileLength(name string) (length int64, err error) {
	rd.ensureOpen()
	file, err := rd.file(name)
	if err != nil {
		return 0, err
	}
	return file.Length(), nil
}

// Removes an existing file in the directory
func (rd *RAMDirectory) DeleteFile(name string) error {
	rd.ensureOpen()
	rd.fileMapLock.Lock()
	defer rd.fileMapLock.Unlock()
	if _, ok := rd.fileMap[name]; !ok {
		return &os.PathError{Op: "delete", Path: name, Err: os.ErrNotExist}
	}
	delete(rd.fileMap, name)
	return nil
}

// Creates a new, empty file in the directory with the given name.
// Returns a stream writing this file.
func (rd *RAMDirectory) CreateOutput(name string, context IOContext) (out IndexOutput, err error) {
	rd.ensureOpen()
	file := newRAMFile()
	rd.fileMapLock.Lock()
	defer rd.fileMapLock.Unlock()
	rd.fileMap[name] = file
	return newRAMOutputStream(name, file), nil
}

// Returns a stream reading an existing file.
func (rd *RAMDirectory) OpenInput(name string, context IOContext) (in IndexInput, err error) {
	rd.ensureOpen()
	file, err := rd.file(name)
	if err != nil {
		return nil, err
	}
	return newRAMInputStream(name, file), nil
}

// Closes the store to future operations, releasing associated memory.
func (rd *RAMDirectory) Close() error {
	rd.markClosed()
	rd.fileMapLock.Lock()
	defer rd.fileMapLock.Unlock()
	rd.fileMap = make(map[string]*RAMFile)
	return nil
}

func (rd *RAMDirectory) String() string {
	return fmt.Sprintf("RAMDirectory@%p", rd)
}

// Represents a file in RAM as a list of []byte buffers.
type RAMFile struct {
	sync.Mutex
	buffers [][]byte
	length  int64
}

func newRAMFile() *RAMFile {
	return &RAMFile{}
}

func (rf *RAMFile) Length() int64 {
	rf.Lock()
	defer rf.Unlock()
	return rf.length
}

func (rf *RAMFile) setLength(length int64) {
	rf.Lock()
	defer rf.Unlock()
	rf.length = length
}

func (rf *RAMFile) addBuffer(size int) []byte {
	buffer := make([]byte, size)
	rf.Lock()
	defer rf.Unlock()
	rf.buffers = append(rf.buffers, buffer)
	return buffer
}

func (rf *RAMFile) buffer(index int) []byte {
	rf.Lock()
	defer rf.Unlock()
	return rf.buffers[index]
}

func (rf *RAMFile) numBuffers() int {
	rf.Lock()
	defer rf.Unlock()
	return len(rf.buffers)
}

/* A memory-resident IndexOutput implementation. */
type RAMOutputStream struct {
	*IndexOutputImpl
	name string
	file *RAMFile

	currentBuffer      []byte
	currentBufferIndex int
	bufferPosition     int
	bufferStart        int64
	bufferLength       int

	crc    *BufferedChecksum
	closed bool
}

func newRAMOutputStream(name string, f *RAMFile) *RAMOutputStream {
	// make sure that we switch to the first needed buffer lazily
	ans := &RAMOutputStream{
		name:               name,
		file:               f,
		currentBufferIndex: -1,
		crc:                newBufferedCRC32(),
	}
	ans.IndexOutputImpl = newIndexOutput(ans)
	return ans
}

func (out *RAMOutputStream) WriteByte(b byte) error {
	if out.bufferPosition == out.bufferLength {
		out.currentBufferIndex++
		out.switchCurrentBuffer()
	}
	out.crc.WriteByte(b)
	out.currentBuffer[out.bufferPosition] = b
	out.bufferPosition++
	return nil
}

func (out *RAMOutputStream) WriteBytes(buf []byte) error {
	assert(buf != nil || len(buf) == 0)
	out.crc.Write(buf)
	for len(buf) > 0 {
		if out.bufferPosition == out.bufferLength {
			out.currentBufferIndex++
			out.switchCurrentBuffer()
		}
		n := copy(out.currentBuffer[out.bufferPosition:out.bufferLength], buf)
		buf = buf[n:]
		out.bufferPosition += n
	}
	return nil
}

func (out *RAMOutputStream) switchCurrentBuffer() {
	if out.currentBufferIndex == out.file.numBuffers() {
		out.currentBuffer = out.file.addBuffer(BUFFER_SIZE)
	} else {
		out.currentBuffer = out.file.buffer(out.currentBufferIndex)
	}
	out.bufferPosition = 0
	out.bufferStart = int64(BUFFER_SIZE) * int64(out.currentBufferIndex)
	out.bufferLength = len(out.currentBuffer)
}

func (out *RAMOutputStream) setFileLength() {
	if pointer := out.bufferStart + int64(out.bufferPosition); pointer > out.file.Length() {
		out.file.setLength(pointer)
	}
}

func (out *RAMOutputStream) Flush() error {
	out.setFileLength()
	return nil
}

func (out *RAMOutputStream) Close() error {
	if !out.closed {
		out.closed = true
		out.setFileLength()
	}
	return nil
}

func (out *RAMOutputStream) FilePointer() int64 {
	if out.currentBufferIndex < 0 {
		return 0
	}
	return out.bufferStart + int64(out.bufferPosition)
}

func (out *RAMOutputStream) Checksum() int64 {
	return int64(out.crc.Sum32())
}

func (out *RAMOutputStream) String() string {
	return fmt.Sprintf("RAMOutputStream(name=%v)", out.name)
}

/* A memory-resident IndexInput implementation. */
type RAMInputStream struct {
	*IndexInputImpl
	file   *RAMFile
	length int64

	currentBuffer      []byte
	currentBufferIndex int

	bufferPosition int
	bufferStart    int64
	bufferLength   int
}

func newRAMInputStream(name string, f *RAMFile) *RAMInputStream {
	ans := &RAMInputStream{
		file:               f,
		length:             f.Length(),
		currentBufferIndex: -1,
	}
	ans.IndexInputImpl = NewIndexInputImpl(fmt.Sprintf("RAMInputStream(name=%v)", name), ans)
	return ans
}

func (in *RAMInputStream) Close() error {
	return nil
}

func (in *RAMInputStream) Length() int64 {
	return in.length
}

func (in *RAMInputStream) ReadByte() (byte, error) {
	if in.bufferPosition >= in.bufferLength {
		in.currentBufferIndex++
		if err := in.switchCurrentBuffer(true); err != nil {
			return 0, err
		}
	}
	b := in.currentBuffer[in.bufferPosition]
	in.bufferPosition++
	return b, nil
}

func (in *RAMInputStream) ReadBytes(buf []byte) error {
	for len(buf) > 0 {
		if in.bufferPosition >= in.bufferLength {
			in.currentBufferIndex++
			if err := in.switchCurrentBuffer(true); err != nil {
				return err
			}
		}
		n := copy(buf, in.currentBuffer[in.bufferPosition:in.bufferLength])
		buf = buf[n:]
		in.bufferPosition += n
	}
	return nil
}

func (in *RAMInputStream) switchCurrentBuffer(enforceEOF bool) error {
	in.bufferStart = int64(BUFFER_SIZE) * int64(in.currentBufferIndex)
	if in.bufferStart > in.length || in.currentBufferIndex >= in.file.numBuffers() {
		// end of file reached, no more buffers left
		if enforceEOF {
			return io.EOF
		}
		// force EOF if a read takes place at this position
		in.currentBufferIndex--
		in.bufferPosition = 0
		in.bufferLength = 0
		return nil
	}
	in.currentBuffer = in.file.buffer(in.currentBufferIndex)
	in.bufferPosition = 0
	bufLength := in.length - in.bufferStart
	if bufLength > BUFFER_SIZE {
		bufLength = BUFFER_SIZE
	}
	in.bufferLength = int(bufLength)
	return nil
}

func (in *RAMInputStream) FilePointer() int64 {
	if in.currentBufferIndex < 0 {
		return 0
	}
	return in.bufferStart + int64(in.bufferPosition)
}

func (in *RAMInputStream) Seek(pos int64) error {
	if pos < 0 || pos > in.length {
		return errors.New(fmt.Sprintf("seek position %v out of bounds [0, %v]: %v", pos, in.length, in))
	}
	if in.currentBuffer == nil || pos < in.bufferStart || pos >= in.bufferStart+BUFFER_SIZE {
		in.currentBufferIndex = int(pos / BUFFER_SIZE)
		if err := in.switchCurrentBuffer(false); err != nil {
			return err
		}
	}
	in.bufferPosition = int(pos % BUFFER_SIZE)
	return nil
}

func (in *RAMInputStream) Clone() IndexInput {
	ans := &RAMInputStream{
		file:               in.file,
		length:             in.length,
		currentBuffer:      in.currentBuffer,
		currentBufferIndex: in.currentBufferIndex,
		bufferPosition:     in.bufferPosition,
		bufferStart:        in.bufferStart,
		bufferLength:       in.bufferLength,
	}
	ans.IndexInputImpl = NewIndexInputImpl(in.desc, ans)
	return ans
}
