package store

import (
	"errors"
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

/*
Extension of IndexInput, computing checksum as it goes.
Callers can retrieve the checksum via Checksum().
*/
type ChecksumIndexInput interface {
	IndexInput
	Checksum() int64
}

/*
Simple implementation of ChecksumIndexInput that wraps another input
and delegates calls.
*/
type BufferedChecksumIndexInput struct {
	*IndexInputImpl
	main   IndexInput
	digest *BufferedChecksum
}

func NewBufferedChecksumIndexInput(main IndexInput) *BufferedChecksumIndexInput {
	ans := &BufferedChecksumIndexInput{
		main:   main,
		digest: newBufferedCRC32(),
	}
	ans.IndexInputImpl = NewIndexInputImpl(fmt.Sprintf("BufferedChecksumIndexInput(%v)", main), ans)
	return ans
}

func (in *BufferedChecksumIndexInput) ReadByte() (b byte, err error) {
	if b, err = in.main.ReadByte(); err == nil {
		in.digest.WriteByte(b)
	}
	return
}

func (in *BufferedChecksumIndexInput) ReadBytes(p []byte) (err error) {
	if err = in.main.ReadBytes(p); err == nil {
		in.digest.Write(p)
	}
	return
}

func (in *BufferedChecksumIndexInput) Checksum() int64 {
	return int64(in.digest.Sum32())
}

func (in *BufferedChecksumIndexInput) Close() error {
	return in.main.Close()
}

func (in *BufferedChecksumIndexInput) FilePointer() int64 {
	return in.main.FilePointer()
}

/*
Seeking is only possible forward: the skipped bytes are read and fed
to the checksum.
*/
func (in *BufferedChecksumIndexInput) Seek(pos int64) error {
	skip := pos - in.FilePointer()
	if skip < 0 {
		return errors.New(fmt.Sprintf("%T cannot seek backwards", in))
	}
	return in.SkipBytes(skip)
}

func (in *BufferedChecksumIndexInput) Length() int64 {
	return in.main.Length()
}

func (in *BufferedChecksumIndexInput) Clone() IndexInput {
	panic("not supported")
}

var _ util.DataInput = (*BufferedChecksumIndexInput)(nil)

/*
Reads a clone of input from the start and validates its footer,
returning the checksum. It processes the entire file; to only extract
the recorded value, use codec.RetrieveChecksum.
*/
func ChecksumEntireFile(input IndexInput) (int64, error) {
	if input.Length() < codec.FOOTER_LENGTH {
		return 0, codec.NewCorruptIndexError(input,
			"file too short for a codec footer: length=%v", input.Length())
	}
	clone := input.Clone()
	if err := clone.Seek(0); err != nil {
		return 0, err
	}
	in := NewBufferedChecksumIndexInput(clone)
	if err := in.Seek(in.Length() - codec.FOOTER_LENGTH); err != nil {
		return 0, err
	}
	return codec.CheckFooter(in)
}

// Same as ChecksumEntireFile, on the named file of dir.
func ChecksumFile(dir Directory, name string) (int64, error) {
	in, err := dir.OpenInput(name, IO_CONTEXT_READONCE)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	return ChecksumEntireFile(in)
}
