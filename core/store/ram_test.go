package store

import (
	"hash/crc32"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/golucene-compressing/core/codec"
)

func directories(t *testing.T) map[string]Directory {
	fs, err := OpenFSDirectory(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })
	ram := NewRAMDirectory()
	t.Cleanup(func() { ram.Close() })
	return map[string]Directory{"ram": ram, "fs": fs}
}

func randomBytes(seed int64, n int) []byte {
	buf := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(buf)
	return buf
}

func writeFile(t *testing.T, dir Directory, name string, data []byte) {
	out, err := dir.CreateOutput(name, IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteBytes(data))
	tassert.Equal(t, int64(len(data)), out.FilePointer())
	tassert.Equal(t, int64(crc32.ChecksumIEEE(data)), out.Checksum())
	require.NoError(t, out.Close())
}

func TestIO(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			out, err := dir.CreateOutput("a.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			require.NoError(t, out.WriteString("hello world"))
			require.NoError(t, out.WriteVInt(1<<20))
			require.NoError(t, out.WriteVLong(1<<50))
			require.NoError(t, out.WriteInt(-42))
			require.NoError(t, out.WriteLong(1<<40))
			tail := randomBytes(1, 3*BUFFER_SIZE+17)
			require.NoError(t, out.WriteBytes(tail))
			length := out.FilePointer()
			require.NoError(t, out.Close())

			n, err := dir.FileLength("a.bin")
			require.NoError(t, err)
			tassert.Equal(t, length, n)
			names, err := dir.ListAll()
			require.NoError(t, err)
			tassert.Equal(t, []string{"a.bin"}, names)

			in, err := dir.OpenInput("a.bin", IO_CONTEXT_READ)
			require.NoError(t, err)
			defer in.Close()
			tassert.Equal(t, length, in.Length())
			s, err := in.ReadString()
			require.NoError(t, err)
			tassert.Equal(t, "hello world", s)
			vi, err := in.ReadVInt()
			require.NoError(t, err)
			tassert.Equal(t, int32(1<<20), vi)
			vl, err := in.ReadVLong()
			require.NoError(t, err)
			tassert.Equal(t, int64(1<<50), vl)
			i, err := in.ReadInt()
			require.NoError(t, err)
			tassert.Equal(t, int32(-42), i)
			l, err := in.ReadLong()
			require.NoError(t, err)
			tassert.Equal(t, int64(1<<40), l)
			got := make([]byte, len(tail))
			require.NoError(t, in.ReadBytes(got))
			tassert.Equal(t, tail, got)
			tassert.Equal(t, length, in.FilePointer())

			_, err = in.ReadByte()
			tassert.Error(t, err)
		})
	}
}

func TestSeekAndClone(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			data := randomBytes(2, 4*BUFFER_SIZE)
			writeFile(t, dir, "b.bin", data)

			in, err := dir.OpenInput("b.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			defer in.Close()

			for _, pos := range []int64{3 * BUFFER_SIZE, 5, BUFFER_SIZE - 1, 2*BUFFER_SIZE + 100} {
				require.NoError(t, in.Seek(pos))
				tassert.Equal(t, pos, in.FilePointer())
				b, err := in.ReadByte()
				require.NoError(t, err)
				tassert.Equal(t, data[pos], b, "pos=%v", pos)
			}

			clone := in.Clone()
			at := in.FilePointer()
			got := make([]byte, BUFFER_SIZE)
			require.NoError(t, clone.ReadBytes(got))
			tassert.Equal(t, data[at:at+BUFFER_SIZE], got)
			// the original keeps its own position
			tassert.Equal(t, at, in.FilePointer())
			require.NoError(t, in.ReadBytes(got[:10]))
			tassert.Equal(t, data[at:at+10], got[:10])

			require.NoError(t, in.Seek(in.Length()))
			_, err = in.ReadByte()
			tassert.ErrorIs(t, err, io.EOF)
			tassert.Error(t, in.Seek(in.Length()+1))
			tassert.Error(t, in.Seek(-1))
		})
	}
}

func TestChecksumInput(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			data := randomBytes(3, 2*BUFFER_SIZE+3)
			writeFile(t, dir, "c.bin", data)

			in, err := dir.OpenChecksumInput("c.bin", IO_CONTEXT_READONCE)
			require.NoError(t, err)
			defer in.Close()
			b, err := in.ReadByte()
			require.NoError(t, err)
			tassert.Equal(t, data[0], b)
			require.NoError(t, in.Seek(BUFFER_SIZE))
			rest := make([]byte, len(data)-BUFFER_SIZE)
			require.NoError(t, in.ReadBytes(rest))
			tassert.Equal(t, int64(crc32.ChecksumIEEE(data)), in.Checksum())

			tassert.Error(t, in.Seek(0), "checksum inputs only seek forward")
		})
	}
}

func TestMissingFile(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			tassert.False(t, dir.FileExists("missing"))
			_, err := dir.OpenInput("missing", IO_CONTEXT_DEFAULT)
			tassert.ErrorIs(t, err, os.ErrNotExist)
			_, err = dir.FileLength("missing")
			tassert.ErrorIs(t, err, os.ErrNotExist)
			tassert.ErrorIs(t, dir.DeleteFile("missing"), os.ErrNotExist)

			writeFile(t, dir, "d.bin", []byte{1})
			tassert.True(t, dir.FileExists("d.bin"))
			require.NoError(t, dir.DeleteFile("d.bin"))
			tassert.False(t, dir.FileExists("d.bin"))
		})
	}
}

func TestClosedDirectory(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, dir.Close())
			tassert.Panics(t, func() { dir.ListAll() })
			tassert.Panics(t, func() { dir.CreateOutput("e.bin", IO_CONTEXT_DEFAULT) })
		})
	}
}

func TestOpenFSDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "index")
	dir, err := OpenFSDirectory(path)
	require.NoError(t, err)
	tassert.Equal(t, path, dir.Path())
	fi, err := os.Stat(path)
	require.NoError(t, err)
	tassert.True(t, fi.IsDir())

	file := filepath.Join(path, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = OpenFSDirectory(file)
	tassert.Error(t, err)
}

func TestTrackingDirectoryWrapper(t *testing.T) {
	fs, err := OpenFSDirectory(t.TempDir())
	require.NoError(t, err)
	writeFile(t, fs, "existing", []byte{1})

	w := NewTrackingDirectoryWrapper(fs)
	for _, name := range []string{"b", "a", "c"} {
		out, err := w.CreateOutput(name, IO_CONTEXT_DEFAULT)
		require.NoError(t, err)
		require.NoError(t, out.Close())
	}
	_, err = w.CreateOutput(filepath.Join("no", "such", "dir"), IO_CONTEXT_DEFAULT)
	require.Error(t, err)
	require.NoError(t, w.DeleteFile("b"))

	tassert.Equal(t, []string{"a", "c"}, w.CreatedFiles())
	tassert.True(t, w.ContainsFile("a"))
	tassert.False(t, w.ContainsFile("b"))
	tassert.False(t, w.ContainsFile("existing"))
	tassert.True(t, w.FileExists("existing"))
}

func TestChecksumFile(t *testing.T) {
	for name, dir := range directories(t) {
		t.Run(name, func(t *testing.T) {
			out, err := dir.CreateOutput("f.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			require.NoError(t, out.WriteBytes(randomBytes(4, 3000)))
			require.NoError(t, codec.WriteFooter(out))
			require.NoError(t, out.Close())

			in, err := dir.OpenInput("f.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			defer in.Close()
			recorded, err := codec.RetrieveChecksum(in)
			require.NoError(t, err)
			checksum, err := ChecksumFile(dir, "f.bin")
			require.NoError(t, err)
			tassert.Equal(t, recorded, checksum)

			writeFile(t, dir, "short.bin", []byte{1, 2, 3})
			_, err = ChecksumFile(dir, "short.bin")
			tassert.ErrorIs(t, err, codec.ErrCorruptIndex)

			require.NoError(t, in.Seek(0))
			data := make([]byte, in.Length())
			require.NoError(t, in.ReadBytes(data))
			data[100] ^= 0xFF
			writeFile(t, dir, "g.bin", data)
			_, err = ChecksumFile(dir, "g.bin")
			tassert.ErrorIs(t, err, codec.ErrCorruptIndex)

			_, err = ChecksumFile(dir, "missing.bin")
			tassert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}
