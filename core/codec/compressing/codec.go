package compressing

import (
	"context"

	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"golang.org/x/sync/errgroup"
)

/*
A codec whose stored fields and term vectors are both compressed in
chunks. Mostly useful to exercise the formats with non-default
settings.
*/
type CompressingCodec struct {
	*spi.CodecImpl
	storedFields *CompressingStoredFieldsFormat
	termVectors  *CompressingTermVectorsFormat
}

func newCompressingCodec(name string, sf *CompressingStoredFieldsFormat,
	tv *CompressingTermVectorsFormat) *CompressingCodec {
	return &CompressingCodec{
		CodecImpl:    spi.NewCodec(name, sf, tv),
		storedFields: sf,
		termVectors:  tv,
	}
}

/*
Creates a codec whose formats share the given compression mode and
chunk size. Stored fields are named after the codec; term vectors
use the same name with a "Vectors" suffix.
*/
func NewCompressingCodec(name, segmentSuffix string, compressionMode CompressionMode, chunkSize int) *CompressingCodec {
	return newCompressingCodec(name,
		NewCompressingStoredFieldsFormat(name+"StoredFields", segmentSuffix, compressionMode, chunkSize),
		NewCompressingTermVectorsFormat(name+"TermVectors", segmentSuffix, compressionMode, chunkSize))
}

func (c *CompressingCodec) String() string {
	return c.Name() + "(storedFieldsFormat=" + c.storedFields.String() +
		", termVectorsFormat=" + c.termVectors.String() + ")"
}

type integrityChecker interface {
	CheckIntegrity() error
}

/*
Verifies the checksums of the stored fields and term vectors of a
segment concurrently. Either reader may be nil. Readers are cloned so
the callers' copies keep their positions.
*/
func CheckSegmentIntegrity(ctx context.Context, storedFields spi.StoredFieldsReader,
	termVectors spi.TermVectorsReader) error {

	g, ctx := errgroup.WithContext(ctx)
	check := func(c integrityChecker) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.CheckIntegrity()
		})
	}
	if storedFields != nil {
		check(storedFields.Clone())
	}
	if termVectors != nil {
		check(termVectors.Clone())
	}
	return g.Wait()
}
