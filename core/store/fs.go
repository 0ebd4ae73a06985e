package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("store")

/*
FSDirectory stores files in a file-system directory. Inputs read
through os.File.ReadAt, so clones of the same input share one file
handle without sharing a position.
*/
type FSDirectory struct {
	*DirectoryImpl
	path string
}

// Opens (and creates when missing) the directory at path.
func OpenFSDirectory(path string) (*FSDirectory, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		log.Debugf("Creating directory %v", path)
		if err = os.MkdirAll(path, 0755); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !fi.IsDir():
		return nil, errors.New(fmt.Sprintf("file '%v' exists but is not a directory", path))
	}
	ans := &FSDirectory{path: path}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	return ans, nil
}

func (d *FSDirectory) Path() string {
	return d.path
}

func (d *FSDirectory) ListAll() ([]string, error) {
	d.ensureOpen()
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *FSDirectory) FileExists(name string) bool {
	d.ensureOpen()
	_, err := os.Stat(filepath.Join(d.path, name))
	return err == nil
}

func (d *FSDirectory) FileLength(name string) (int64, error) {
	d.ensureOpen()
	fi, err := os.Stat(filepath.Join(d.path, name))
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *FSDirectory) DeleteFile(name string) error {
	d.ensureOpen()
	return os.Remove(filepath.Join(d.path, name))
}

func (d *FSDirectory) CreateOutput(name string, context IOContext) (IndexOutput, error) {
	d.ensureOpen()
	f, err := os.OpenFile(filepath.Join(d.path, name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return newOutputStreamIndexOutput(name, f, OUTPUT_BUFFER_SIZE), nil
}

func (d *FSDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	d.ensureOpen()
	path := filepath.Join(d.path, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return newSimpleFSIndexInput(fmt.Sprintf("SimpleFSIndexInput(path=\"%v\")", path),
		f, fi.Size(), context), nil
}

func (d *FSDirectory) Close() error {
	d.markClosed()
	return nil
}

func (d *FSDirectory) String() string {
	return fmt.Sprintf("FSDirectory@%v", d.path)
}

/* Reads bytes with os.File.ReadAt. */
type SimpleFSIndexInput struct {
	*BufferedIndexInput
	file    *os.File
	length  int64
	isClone bool
}

func newSimpleFSIndexInput(desc string, f *os.File, length int64, context IOContext) *SimpleFSIndexInput {
	ans := &SimpleFSIndexInput{file: f, length: length}
	ans.BufferedIndexInput = newBufferedIndexInput(ans, desc, context)
	return ans
}

func (in *SimpleFSIndexInput) readInternal(buf []byte, pos int64) error {
	_, err := in.file.ReadAt(buf, pos)
	return err
}

func (in *SimpleFSIndexInput) Length() int64 {
	return in.length
}

// Only the original input owns the file handle.
func (in *SimpleFSIndexInput) Close() error {
	if in.isClone {
		return nil
	}
	return in.file.Close()
}

func (in *SimpleFSIndexInput) Clone() IndexInput {
	ans := &SimpleFSIndexInput{file: in.file, length: in.length, isClone: true}
	ans.BufferedIndexInput = in.BufferedIndexInput.clone(ans)
	return ans
}
