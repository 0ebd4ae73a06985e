package compressing

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding both formats of a Config.
const (
	ENV_COMPRESSION_MODE = "COMPRESSING_MODE"
	ENV_CHUNK_SIZE       = "COMPRESSING_CHUNK_SIZE"
)

// FormatConfig describes one compressing format.
type FormatConfig struct {
	FormatName      string `yaml:"format_name"`
	SegmentSuffix   string `yaml:"segment_suffix"`
	CompressionMode string `yaml:"compression_mode"`
	ChunkSize       int    `yaml:"chunk_size"`
}

func (c FormatConfig) mode() (CompressionMode, error) {
	return CompressionModeByName(c.CompressionMode)
}

func (c FormatConfig) validate() error {
	if c.FormatName == "" {
		return fmt.Errorf("format_name must not be empty")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be >= 1 (got %v)", c.ChunkSize)
	}
	_, err := c.mode()
	return err
}

/*
Config is the YAML description of the document storage of a codec:
the stored fields format inline at the top level, the term vectors
format under term_vectors.
*/
type Config struct {
	FormatConfig     `yaml:",inline"`
	TermVectors      FormatConfig `yaml:"term_vectors"`
	MetricsNamespace string       `yaml:"metrics_namespace"`
}

func DefaultConfig() *Config {
	return &Config{
		FormatConfig: FormatConfig{
			FormatName:      "Lucene41StoredFields",
			CompressionMode: COMPRESSION_MODE_FAST.String(),
			ChunkSize:       1 << 14,
		},
		TermVectors: FormatConfig{
			FormatName:      "Lucene42TermVectors",
			CompressionMode: COMPRESSION_MODE_FAST.String(),
			ChunkSize:       1 << 12,
		},
		MetricsNamespace: "golucene",
	}
}

// LoadConfig reads a YAML file (if path is not empty) over the
// defaults, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnvOverrides() error {
	if v := os.Getenv(ENV_COMPRESSION_MODE); v != "" {
		cfg.CompressionMode = v
		cfg.TermVectors.CompressionMode = v
	}
	if v := os.Getenv(ENV_CHUNK_SIZE); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%v: %w", ENV_CHUNK_SIZE, err)
		}
		cfg.ChunkSize = n
		cfg.TermVectors.ChunkSize = n
	}
	return nil
}

func (cfg *Config) validate() error {
	if err := cfg.FormatConfig.validate(); err != nil {
		return fmt.Errorf("stored fields: %w", err)
	}
	if err := cfg.TermVectors.validate(); err != nil {
		return fmt.Errorf("term_vectors: %w", err)
	}
	return nil
}

// Metrics returns fresh, unregistered collectors under the configured namespace.
func (cfg *Config) Metrics() *Metrics {
	return NewMetrics(cfg.MetricsNamespace)
}

func (cfg *Config) StoredFieldsFormat() (*CompressingStoredFieldsFormat, error) {
	mode, err := cfg.mode()
	if err != nil {
		return nil, err
	}
	if cfg.ChunkSize < 1 {
		return nil, fmt.Errorf("chunk_size must be >= 1 (got %v)", cfg.ChunkSize)
	}
	return NewCompressingStoredFieldsFormat(cfg.FormatName, cfg.SegmentSuffix, mode, cfg.ChunkSize), nil
}

func (cfg *Config) TermVectorsFormat() (*CompressingTermVectorsFormat, error) {
	tv := cfg.TermVectors
	mode, err := tv.mode()
	if err != nil {
		return nil, err
	}
	if tv.ChunkSize < 1 {
		return nil, fmt.Errorf("chunk_size must be >= 1 (got %v)", tv.ChunkSize)
	}
	return NewCompressingTermVectorsFormat(tv.FormatName, tv.SegmentSuffix, mode, tv.ChunkSize), nil
}

// Codec bundles both formats, reporting to m (the default collectors if nil).
func (cfg *Config) Codec(name string, m *Metrics) (*CompressingCodec, error) {
	sf, err := cfg.StoredFieldsFormat()
	if err != nil {
		return nil, err
	}
	tv, err := cfg.TermVectorsFormat()
	if err != nil {
		return nil, err
	}
	return newCompressingCodec(name, sf.WithMetrics(m), tv.WithMetrics(m)), nil
}
