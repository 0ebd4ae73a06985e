package codec

import (
	"bytes"
	"fmt"
)

/* Constant to identify the start of a codec header. */
const CODEC_MAGIC = 0x3fd76c17

/* Constant to identify the start of a codec footer. */
const FOOTER_MAGIC = ^CODEC_MAGIC

const FOOTER_LENGTH = 16

/* Length of the segment ID written by WriteSegmentHeader. */
const ID_LENGTH = 16

type DataOutput interface {
	WriteByte(b byte) error
	WriteBytes(buf []byte) error
	WriteInt(n int32) error
	WriteString(s string) error
}

/*
Writes a codec header, which records both a string to identify the
file and a version number. This header can be parsed and validated
with CheckHeader().

	CodecHeader --> Magic,CodecName,Version
	Magic --> uint32. This identifies the start of the header. It is
	always CODEC_MAGIC.
	CodecName --> string. This is a string to identify this file.
	Version --> uint32. Records the version of the file.

Note that the length of a codec header depends only upon the name of
the codec, so this length can be computed at any time with
HeaderLength().
*/
func WriteHeader(out DataOutput, codec string, version int) error {
	assert(out != nil)
	assert2(isSimpleASCII(codec, 128),
		"codec must be simple ASCII, less than 128 characters in length [got %v]", codec)
	err := out.WriteInt(CODEC_MAGIC)
	if err == nil {
		if err = out.WriteString(codec); err == nil {
			err = out.WriteInt(int32(version))
		}
	}
	return err
}

/*
Writes a codec header for a per-segment file: the plain codec header
followed by the segment's unique ID and a file suffix.

	SegmentHeader --> CodecHeader,SegmentID,SuffixLength,SuffixBytes
	SegmentID --> 16 bytes identifying the segment.
	SuffixLength --> byte, the length of SuffixBytes.
	SuffixBytes --> ASCII bytes of the suffix (may be empty).
*/
func WriteSegmentHeader(out DataOutput, codec string, version int, id []byte, suffix string) error {
	assert2(len(id) == ID_LENGTH, "Invalid id: %x", id)
	assert2(isSimpleASCII(suffix, 256),
		"suffix must be simple ASCII, less than 256 characters in length [got %v]", suffix)
	err := WriteHeader(out, codec, version)
	if err == nil {
		if err = out.WriteBytes(id); err == nil {
			if err = out.WriteByte(byte(len(suffix))); err == nil {
				err = out.WriteBytes([]byte(suffix))
			}
		}
	}
	return err
}

func isSimpleASCII(s string, limit int) bool {
	if len(s) >= limit {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

/* Computes the length of a codec header */
func HeaderLength(codec string) int {
	return 9 + len(codec)
}

/* Computes the length of a segment header */
func SegmentHeaderLength(codec, suffix string) int {
	return HeaderLength(codec) + ID_LENGTH + 1 + len(suffix)
}

type DataInput interface {
	ReadByte() (byte, error)
	ReadBytes(buf []byte) error
	ReadInt() (int32, error)
	ReadString() (string, error)
}

/*
Reads and validates a header previously written with WriteHeader().
Returns the actual version found, which is between minVersion and
maxVersion inclusive.
*/
func CheckHeader(in DataInput, codec string, minVersion, maxVersion int32) (v int32, err error) {
	// Safety to guard against reading a bogus string:
	actualHeader, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	if actualHeader != CODEC_MAGIC {
		return 0, NewCorruptIndexError(in,
			"codec header mismatch: actual header=%v vs expected header=%v",
			actualHeader, CODEC_MAGIC)
	}
	return CheckHeaderNoMagic(in, codec, minVersion, maxVersion)
}

/* Like CheckHeader() except this version assumes the magic has already been read. */
func CheckHeaderNoMagic(in DataInput, codec string, minVersion, maxVersion int32) (v int32, err error) {
	actualCodec, err := in.ReadString()
	if err != nil {
		return 0, err
	}
	if actualCodec != codec {
		return 0, NewCorruptIndexError(in,
			"codec mismatch: actual codec=%v vs expected codec=%v", actualCodec, codec)
	}

	actualVersion, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	if actualVersion < minVersion {
		return 0, &IndexFormatTooOldError{fmt.Sprintf("%v", in), actualVersion, minVersion, maxVersion}
	}
	if actualVersion > maxVersion {
		return 0, &IndexFormatTooNewError{fmt.Sprintf("%v", in), actualVersion, minVersion, maxVersion}
	}
	return actualVersion, nil
}

/*
Reads and validates a header previously written with
WriteSegmentHeader(), including the segment ID and suffix.
*/
func CheckSegmentHeader(in DataInput, codec string, minVersion, maxVersion int32,
	expectedID []byte, expectedSuffix string) (v int32, err error) {
	if v, err = CheckHeader(in, codec, minVersion, maxVersion); err != nil {
		return 0, err
	}
	id := make([]byte, ID_LENGTH)
	if err = in.ReadBytes(id); err != nil {
		return 0, err
	}
	if !bytes.Equal(id, expectedID) {
		return 0, NewCorruptIndexError(in, "file mismatch, expected segment id=%x, got=%x", expectedID, id)
	}
	suffixLength, err := in.ReadByte()
	if err != nil {
		return 0, err
	}
	suffix := make([]byte, suffixLength)
	if err = in.ReadBytes(suffix); err != nil {
		return 0, err
	}
	if string(suffix) != expectedSuffix {
		return 0, NewCorruptIndexError(in, "file mismatch, expected suffix=%v, got=%v", expectedSuffix, string(suffix))
	}
	return v, nil
}

type IndexOutput interface {
	WriteInt(n int32) error
	WriteLong(n int64) error
	Checksum() int64
}

/*
Writes a codec footer, which records both a checksum algorithm ID and
a checksum. This footer can be parsed and validated with CheckFooter().

	CodecFooter --> Magic,AlgorithmID,Checksum
	Magic --> uint32. This identifies the start of the footer. It is
	always FOOTER_MAGIC.
	AlgorithmID --> uint32. This indicates the checksum algorithm
	used. Currently this is always 0, for zlib-crc32.
	Checksum --> uint64. The actual checksum value for all previous
	bytes in the stream, including the bytes from Magic and AlgorithmID.
*/
func WriteFooter(out IndexOutput) (err error) {
	if err = out.WriteInt(FOOTER_MAGIC); err == nil {
		if err = out.WriteInt(0); err == nil {
			err = out.WriteLong(out.Checksum())
		}
	}
	return
}

type IndexInput interface {
	FilePointer() int64
	Seek(int64) error
	Length() int64
	ReadInt() (int32, error)
	ReadLong() (int64, error)
}

type ChecksumIndexInput interface {
	IndexInput
	Checksum() int64
}

/* Validates the codec footer previously written by WriteFooter(). */
func CheckFooter(in ChecksumIndexInput) (cs int64, err error) {
	if err = validateFooter(in); err != nil {
		return 0, err
	}
	cs = in.Checksum()
	cs2, err := in.ReadLong()
	if err != nil {
		return 0, err
	}
	if cs != cs2 {
		return 0, NewCorruptIndexError(in,
			"checksum failed (hardware problem?) : expected=%x actual=%x", cs2, cs)
	}
	if in.FilePointer() != in.Length() {
		return 0, NewCorruptIndexError(in,
			"did not read all bytes from file: read %v vs size %v", in.FilePointer(), in.Length())
	}
	return cs, nil
}

/* Returns (but does not validate) the checksum previously written by CheckFooter. */
func RetrieveChecksum(in IndexInput) (int64, error) {
	if in.Length() < FOOTER_LENGTH {
		return 0, NewCorruptIndexError(in, "misplaced codec footer (file truncated?): length=%v but footerLength==%v",
			in.Length(), FOOTER_LENGTH)
	}
	if err := in.Seek(in.Length() - FOOTER_LENGTH); err != nil {
		return 0, err
	}
	if err := validateFooter(in); err != nil {
		return 0, err
	}
	return in.ReadLong()
}

func validateFooter(in IndexInput) error {
	if remaining := in.Length() - in.FilePointer(); remaining != FOOTER_LENGTH {
		return NewCorruptIndexError(in,
			"misplaced codec footer (file truncated?): remaining=%v, expected=%v", remaining, FOOTER_LENGTH)
	}
	magic, err := in.ReadInt()
	if err != nil {
		return err
	}
	if magic != FOOTER_MAGIC {
		return NewCorruptIndexError(in,
			"codec footer mismatch: actual footer=%v vs expected footer=%v", magic, FOOTER_MAGIC)
	}

	algorithmId, err := in.ReadInt()
	if err != nil {
		return err
	}
	if algorithmId != 0 {
		return NewCorruptIndexError(in, "codec footer mismatch: unknown algorithmID: %v", algorithmId)
	}
	return nil
}

/* Checks that the stream is positioned at the end, and returns error if it is not. */
func CheckEOF(in IndexInput) error {
	if in.FilePointer() != in.Length() {
		return NewCorruptIndexError(in,
			"did not read all bytes from file: read %v vs size %v", in.FilePointer(), in.Length())
	}
	return nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
