package compressing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values of the "format" dimension.
const (
	FORMAT_STORED_FIELDS = "stored_fields"
	FORMAT_TERM_VECTORS  = "term_vectors"
)

// Label values of the "path" dimension of merge metrics.
const (
	MERGE_PATH_BULK       = "bulk"
	MERGE_PATH_DECOMPRESS = "decompress"
	MERGE_PATH_NAIVE      = "naive"
)

// Metrics holds the Prometheus collectors updated by the compressing formats.
type Metrics struct {
	ChunksFlushed     *prometheus.CounterVec
	UncompressedBytes *prometheus.CounterVec
	CompressedBytes   *prometheus.CounterVec
	MergedChunks      *prometheus.CounterVec
	MergedDocs        *prometheus.CounterVec
	DocumentsVisited  prometheus.Counter
	VectorsRead       prometheus.Counter
}

/*
NewMetrics creates unregistered collectors under the given namespace.
Call Register to expose them.
*/
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ChunksFlushed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_chunks_flushed_total",
				Help:      "Number of compressed chunks written, by format.",
			},
			[]string{"format"},
		),
		UncompressedBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_uncompressed_bytes_total",
				Help:      "Bytes handed to the compressor, by format.",
			},
			[]string{"format"},
		),
		CompressedBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_compressed_bytes_total",
				Help:      "Bytes written by the compressor, by format.",
			},
			[]string{"format"},
		),
		MergedChunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_merged_chunks_total",
				Help:      "Stored fields chunks consumed by merges, by path (bulk, decompress).",
			},
			[]string{"path"},
		),
		MergedDocs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_merged_docs_total",
				Help:      "Documents written by merges, by path (bulk, decompress, naive).",
			},
			[]string{"path"},
		),
		DocumentsVisited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_documents_visited_total",
				Help:      "Documents decoded by stored fields readers.",
			},
		),
		VectorsRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressing_vectors_read_total",
				Help:      "Documents whose term vectors were decoded.",
			},
		),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.ChunksFlushed,
		m.UncompressedBytes,
		m.CompressedBytes,
		m.MergedChunks,
		m.MergedDocs,
		m.DocumentsVisited,
		m.VectorsRead,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) chunkFlushed(format string, uncompressed int, compressed int64) {
	m.ChunksFlushed.WithLabelValues(format).Inc()
	m.UncompressedBytes.WithLabelValues(format).Add(float64(uncompressed))
	m.CompressedBytes.WithLabelValues(format).Add(float64(compressed))
}

// Collectors used by formats that were not given their own.
var defaultMetrics = NewMetrics("golucene")

func DefaultMetrics() *Metrics {
	return defaultMetrics
}
