package compressing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/golucene-compressing/core/store"
)

func clearEnv(t *testing.T) {
	t.Setenv(ENV_COMPRESSION_MODE, "")
	t.Setenv(ENV_CHUNK_SIZE, "")
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	tassert.Equal(t, DefaultConfig(), cfg)

	sf, err := cfg.StoredFieldsFormat()
	require.NoError(t, err)
	tassert.Equal(t, "CompressingStoredFieldsFormat(compressionMode=FAST, chunkSize=16384)", sf.String())
	tv, err := cfg.TermVectorsFormat()
	require.NoError(t, err)
	tassert.Equal(t, "CompressingTermVectorsFormat(compressionMode=FAST, chunkSize=4096)", tv.String())
}

const sampleConfig = `
format_name: MyStoredFields
segment_suffix: sfx
compression_mode: high_compression
chunk_size: 4096
term_vectors:
  format_name: MyTermVectors
  compression_mode: fast_decompression
metrics_namespace: test
`

func TestParseConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)
	tassert.Equal(t, "MyStoredFields", cfg.FormatName)
	tassert.Equal(t, "sfx", cfg.SegmentSuffix)
	tassert.Equal(t, 4096, cfg.ChunkSize)
	tassert.Equal(t, "MyTermVectors", cfg.TermVectors.FormatName)
	tassert.Equal(t, "fast_decompression", cfg.TermVectors.CompressionMode)
	// unset keys keep their defaults
	tassert.Equal(t, 1<<12, cfg.TermVectors.ChunkSize)
	tassert.Equal(t, "test", cfg.MetricsNamespace)

	sf, err := cfg.StoredFieldsFormat()
	require.NoError(t, err)
	tassert.Equal(t, COMPRESSION_MODE_HIGH_COMPRESSION, sf.compressionMode)
	tv, err := cfg.TermVectorsFormat()
	require.NoError(t, err)
	tassert.Equal(t, COMPRESSION_MODE_FAST_DECOMPRESSION, tv.compressionMode)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "compressing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	tassert.Equal(t, "MyStoredFields", cfg.FormatName)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	tassert.Error(t, err)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv(ENV_COMPRESSION_MODE, "HIGH_COMPRESSION")
	t.Setenv(ENV_CHUNK_SIZE, "2048")
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)
	tassert.Equal(t, "HIGH_COMPRESSION", cfg.CompressionMode)
	tassert.Equal(t, "HIGH_COMPRESSION", cfg.TermVectors.CompressionMode)
	tassert.Equal(t, 2048, cfg.ChunkSize)
	tassert.Equal(t, 2048, cfg.TermVectors.ChunkSize)

	t.Setenv(ENV_CHUNK_SIZE, "big")
	_, err = ParseConfig([]byte(sampleConfig))
	require.Error(t, err)
	tassert.Contains(t, err.Error(), ENV_CHUNK_SIZE)
}

func TestInvalidConfig(t *testing.T) {
	clearEnv(t)
	for name, data := range map[string]string{
		"unknown mode":      "compression_mode: zstd",
		"zero chunk size":   "chunk_size: 0",
		"tv chunk size":     "term_vectors:\n  chunk_size: -1",
		"empty format name": "format_name: ''",
		"not yaml":          "chunk_size: [",
	} {
		_, err := ParseConfig([]byte(data))
		tassert.Error(t, err, name)
	}

	_, err := ParseConfig([]byte("term_vectors:\n  compression_mode: nope"))
	require.Error(t, err)
	tassert.True(t, strings.HasPrefix(err.Error(), "term_vectors:"))
}

func TestConfigCodec(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseConfig([]byte("chunk_size: 512\nmetrics_namespace: test"))
	require.NoError(t, err)
	metrics := cfg.Metrics()
	cdc, err := cfg.Codec("Configured", metrics)
	require.NoError(t, err)
	tassert.Equal(t, "Configured", cdc.Name())
	tassert.Contains(t, cdc.String(), "chunkSize=512")
	tassert.Same(t, cdc.storedFields, cdc.StoredFieldsFormat())
	tassert.Same(t, metrics, cdc.storedFields.metrics)
	tassert.Same(t, metrics, cdc.termVectors.metrics)

	dir := store.NewRAMDirectory()
	docs := testDocs(40)
	si := writeStoredFields(t, dir, cdc.storedFields, "_0", testFields, docs)
	tassert.True(t, dir.FileExists("_0.fdt"))
	r := openStoredFields(t, dir, cdc.storedFields, si, testFields)
	tassert.Equal(t, 512, r.ChunkSize())
	assertSameDocs(t, docs, r)
}

func TestNewCompressingCodec(t *testing.T) {
	cdc := NewCompressingCodec("Dummy", "", COMPRESSION_MODE_FAST, 1<<10)
	tassert.Equal(t, "Dummy", cdc.Name())
	tassert.Equal(t, "DummyStoredFields", cdc.storedFields.formatName)
	tassert.Equal(t, "DummyTermVectors", cdc.termVectors.formatName)
	tassert.Panics(t, func() { NewCompressingCodec("Dummy", "", COMPRESSION_MODE_FAST, 0) })
}
