package compressing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

type posting struct {
	pos, start, end int
	payload         []byte
}

type tvTerm struct {
	text     string
	freq     int
	postings []posting
}

type tvField struct {
	name                         string
	positions, offsets, payloads bool
	terms                        []tvTerm
}

func newVectorFieldInfos(names ...string) model.FieldInfos {
	infos := make([]*model.FieldInfo, len(names))
	for i, name := range names {
		infos[i] = model.NewFieldInfo(name, int32(i), true, true,
			model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS, nil)
	}
	return model.NewFieldInfos(infos)
}

var (
	vocabulary   = []string{"apple", "application", "apply", "apt", "banana", "band", "bandana", "can", "candle", "cane", "z", "zebra"}
	tvFieldNames = []string{"title", "body", "tags"}
	vectorFields = newVectorFieldInfos(tvFieldNames...)
)

func randomField(r *rand.Rand, name string) tvField {
	f := tvField{name: name, positions: r.Intn(2) == 0, offsets: r.Intn(2) == 0}
	f.payloads = f.positions && r.Intn(2) == 0

	var words []string
	for _, w := range vocabulary {
		if r.Intn(3) == 0 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		words = []string{vocabulary[r.Intn(len(vocabulary))]}
	}
	sort.Strings(words)

	pos, off := 0, 0
	for _, w := range words {
		term := tvTerm{text: w, freq: 1 + r.Intn(4)}
		if f.positions || f.offsets {
			for i := 0; i < term.freq; i++ {
				p := posting{pos: -1, start: -1, end: -1}
				if f.positions {
					pos += 1 + r.Intn(5)
					p.pos = pos
				}
				if f.offsets {
					off += r.Intn(10)
					p.start, p.end = off, off+len(w)
					off = p.end
				}
				if f.payloads && r.Intn(2) == 0 {
					p.payload = []byte(fmt.Sprintf("p%d", r.Intn(100)))
				}
				term.postings = append(term.postings, p)
			}
		}
		f.terms = append(f.terms, term)
	}
	return f
}

func randomVectors(r *rand.Rand, n int) [][]tvField {
	docs := make([][]tvField, n)
	for i := range docs {
		perm := r.Perm(len(tvFieldNames))[:r.Intn(len(tvFieldNames)+1)]
		for _, idx := range perm {
			docs[i] = append(docs[i], randomField(r, tvFieldNames[idx]))
		}
	}
	return docs
}

func writeVectors(t *testing.T, dir store.Directory, format *CompressingTermVectorsFormat,
	segment string, fis model.FieldInfos, docs [][]tvField) *model.SegmentInfo {

	si := model.NewSegmentInfo(dir, segment, len(docs))
	w, err := format.VectorsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	for _, doc := range docs {
		require.NoError(t, w.StartDocument(len(doc)))
		for _, f := range doc {
			require.NoError(t, w.StartField(fis.FieldInfoByName(f.name), len(f.terms), f.positions, f.offsets, f.payloads))
			for _, term := range f.terms {
				require.NoError(t, w.StartTerm([]byte(term.text), term.freq))
				for _, p := range term.postings {
					require.NoError(t, w.AddPosition(p.pos, p.start, p.end, p.payload))
				}
				require.NoError(t, w.FinishTerm())
			}
			require.NoError(t, w.FinishField())
		}
		require.NoError(t, w.FinishDocument())
	}
	require.NoError(t, w.Finish(fis, len(docs)))
	require.NoError(t, w.Close())
	return si
}

func openVectors(t *testing.T, dir store.Directory, format *CompressingTermVectorsFormat,
	si *model.SegmentInfo, fis model.FieldInfos) *CompressingTermVectorsReader {

	r, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r.(*CompressingTermVectorsReader)
}

func readVectors(t *testing.T, fields model.Fields) []tvField {
	if fields == nil {
		return nil
	}
	var res []tvField
	for _, name := range fields.Names() {
		terms := fields.Terms(name)
		require.NotNil(t, terms, name)
		f := tvField{
			name:      name,
			positions: terms.HasPositions(),
			offsets:   terms.HasOffsets(),
			payloads:  terms.HasPayloads(),
		}
		termsEnum := terms.Iterator(nil)
		for {
			term, err := termsEnum.Next()
			require.NoError(t, err)
			if term == nil {
				break
			}
			tt := tvTerm{text: string(term), freq: int(termsEnum.TotalTermFreq())}
			if dp := termsEnum.DocsAndPositions(nil, nil); dp != nil {
				require.Equal(t, 0, dp.NextDoc())
				require.Equal(t, tt.freq, dp.Freq())
				for i := 0; i < tt.freq; i++ {
					p := posting{pos: dp.NextPosition(), start: dp.StartOffset(), end: dp.EndOffset()}
					if payload := dp.Payload(); len(payload) > 0 {
						p.payload = append([]byte(nil), payload...)
					}
					tt.postings = append(tt.postings, p)
				}
				tassert.Equal(t, model.NO_MORE_DOCS, dp.NextDoc())
			}
			f.terms = append(f.terms, tt)
		}
		require.Equal(t, int(terms.Size()), len(f.terms))
		res = append(res, f)
	}
	tassert.Equal(t, fields.Size(), len(res))
	return res
}

func getVectors(t *testing.T, r spi.TermVectorsReader, doc int) []tvField {
	fields, err := r.Get(doc)
	require.NoError(t, err)
	return readVectors(t, fields)
}

func assertSameVectors(t *testing.T, expected [][]tvField, r spi.TermVectorsReader) {
	for i, doc := range expected {
		tassert.Equal(t, doc, getVectors(t, r, i), "doc %v", i)
	}
}

func TestTermVectorsRoundTrip(t *testing.T) {
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			dir := store.NewRAMDirectory()
			format := NewCompressingTermVectorsFormat("Test", "", mode, 1<<8).WithMetrics(NewMetrics("test"))
			docs := randomVectors(rand.New(rand.NewSource(7)), 300)
			si := writeVectors(t, dir, format, "_0", vectorFields, docs)
			r := openVectors(t, dir, format, si, vectorFields)
			tassert.Greater(t, r.NumChunks(), 1)
			assertSameVectors(t, docs, r)
			require.NoError(t, r.CheckIntegrity())
		})
	}
}

func TestTermVectorsFrontCoding(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	doc := []tvField{{name: "body"}}
	for _, text := range []string{"apple", "application", "apply", "banana"} {
		doc[0].terms = append(doc[0].terms, tvTerm{text: text, freq: 1})
	}
	si := writeVectors(t, dir, format, "_0", vectorFields, [][]tvField{doc})
	r := openVectors(t, dir, format, si, vectorFields)

	fields, err := r.Get(0)
	require.NoError(t, err)
	terms := fields.Terms("body").(*tvTerms)
	tassert.Equal(t, []int{0, 4, 4, 0}, terms.prefixLengths)
	tassert.Equal(t, []int{5, 7, 1, 6}, terms.suffixLengths)
	tassert.Equal(t, [][]tvField{doc}, [][]tvField{readVectors(t, fields)})
}

func TestTermVectorsMixedFlags(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	// same field, different options in each doc of the chunk
	var docs [][]tvField
	for i, opts := range [][3]bool{{true, false, false}, {false, true, false}, {true, true, true}, {false, false, false}} {
		f := tvField{name: "body", positions: opts[0], offsets: opts[1], payloads: opts[2]}
		term := tvTerm{text: "word", freq: 2}
		if f.positions || f.offsets {
			for j := 0; j < 2; j++ {
				p := posting{pos: -1, start: -1, end: -1}
				if f.positions {
					p.pos = 3*j + i
				}
				if f.offsets {
					p.start, p.end = 10*j, 10*j+4
				}
				if f.payloads {
					p.payload = []byte{byte(j + 1)}
				}
				term.postings = append(term.postings, p)
			}
		}
		f.terms = []tvTerm{term}
		docs = append(docs, []tvField{f})
	}
	si := writeVectors(t, dir, format, "_0", vectorFields, docs)
	r := openVectors(t, dir, format, si, vectorFields)
	tassert.Equal(t, 1, r.NumChunks())
	assertSameVectors(t, docs, r)
}

func TestTermVectorsPostings(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	doc := []tvField{
		{name: "title", positions: true, offsets: true, payloads: true, terms: []tvTerm{
			{text: "quick", freq: 2, postings: []posting{{1, 4, 9, []byte("adj")}, {7, 30, 35, nil}}},
		}},
		{name: "body", offsets: true, terms: []tvTerm{
			{text: "fox", freq: 1, postings: []posting{{-1, 16, 19, nil}}},
		}},
		{name: "tags", positions: true, terms: []tvTerm{
			{text: "animal", freq: 1, postings: []posting{{0, -1, -1, nil}}},
		}},
	}
	si := writeVectors(t, dir, format, "_0", vectorFields, [][]tvField{doc})
	r := openVectors(t, dir, format, si, vectorFields)

	fields, err := r.Get(0)
	require.NoError(t, err)
	tassert.Equal(t, []string{"title", "body", "tags"}, fields.Names())
	tassert.Nil(t, fields.Terms("missing"))

	termsEnum := fields.Terms("title").Iterator(nil)
	term, err := termsEnum.Next()
	require.NoError(t, err)
	tassert.Equal(t, "quick", string(term))
	tassert.Equal(t, 1, termsEnum.DocFreq())

	dp := termsEnum.DocsAndPositions(nil, nil)
	require.NotNil(t, dp)
	tassert.Equal(t, -1, dp.DocID())
	tassert.Equal(t, 0, dp.NextDoc())
	tassert.Equal(t, 2, dp.Freq())
	tassert.Equal(t, 1, dp.NextPosition())
	tassert.Equal(t, 4, dp.StartOffset())
	tassert.Equal(t, 9, dp.EndOffset())
	tassert.Equal(t, []byte("adj"), dp.Payload())
	tassert.Equal(t, 7, dp.NextPosition())
	tassert.Nil(t, dp.Payload())
	tassert.Panics(t, func() { dp.NextPosition() })

	// a deleted doc has no postings
	liveDocs := util.NewLiveDocs(1)
	liveDocs.Clear(0)
	dp = termsEnum.DocsAndPositions(liveDocs, dp)
	tassert.Equal(t, model.NO_MORE_DOCS, dp.NextDoc())

	tassert.Equal(t, doc, readVectors(t, fields))
}

func TestTermVectorsWithoutPostings(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	doc := []tvField{{name: "body", terms: []tvTerm{{text: "a", freq: 3}, {text: "b", freq: 1}}}}
	si := writeVectors(t, dir, format, "_0", vectorFields, [][]tvField{doc})
	r := openVectors(t, dir, format, si, vectorFields)

	fields, err := r.Get(0)
	require.NoError(t, err)
	termsEnum := fields.Terms("body").Iterator(nil)
	_, err = termsEnum.Next()
	require.NoError(t, err)
	tassert.Equal(t, int64(3), termsEnum.TotalTermFreq())
	tassert.Nil(t, termsEnum.DocsAndPositions(nil, nil))
}

func TestTermVectorsSeekCeil(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	doc := []tvField{{name: "body"}}
	for _, text := range []string{"band", "bandana", "can", "zebra"} {
		doc[0].terms = append(doc[0].terms, tvTerm{text: text, freq: 1})
	}
	si := writeVectors(t, dir, format, "_0", vectorFields, [][]tvField{doc})
	r := openVectors(t, dir, format, si, vectorFields)

	fields, err := r.Get(0)
	require.NoError(t, err)
	termsEnum := fields.Terms("body").Iterator(nil)
	tassert.Equal(t, model.SEEK_STATUS_FOUND, termsEnum.SeekCeil([]byte("can")))
	tassert.Equal(t, "can", string(termsEnum.Term()))
	tassert.Equal(t, model.SEEK_STATUS_NOT_FOUND, termsEnum.SeekCeil([]byte("bandit")))
	tassert.Equal(t, "can", string(termsEnum.Term()))
	tassert.Equal(t, model.SEEK_STATUS_FOUND, termsEnum.SeekCeil([]byte("band")))
	tassert.Equal(t, model.SEEK_STATUS_NOT_FOUND, termsEnum.SeekCeil([]byte("a")))
	tassert.Equal(t, "band", string(termsEnum.Term()))
	tassert.Equal(t, model.SEEK_STATUS_END, termsEnum.SeekCeil([]byte("zz")))
}

func TestTermVectorsDocWithoutVectors(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	docs := [][]tvField{nil, {randomField(rand.New(rand.NewSource(2)), "tags")}, nil}
	si := writeVectors(t, dir, format, "_0", vectorFields, docs)
	r := openVectors(t, dir, format, si, vectorFields)

	fields, err := r.Get(0)
	require.NoError(t, err)
	tassert.Nil(t, fields)
	assertSameVectors(t, docs, r)

	_, err = r.Get(3)
	require.Error(t, err)
	tassert.False(t, errors.Is(err, codec.ErrCorruptIndex))
}

func TestTermVectorsMetrics(t *testing.T) {
	dir := store.NewRAMDirectory()
	metrics := NewMetrics("test")
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<8).WithMetrics(metrics)
	docs := randomVectors(rand.New(rand.NewSource(3)), 200)
	si := writeVectors(t, dir, format, "_0", vectorFields, docs)
	r := openVectors(t, dir, format, si, vectorFields)

	tassert.Equal(t, float64(r.NumChunks()),
		testutil.ToFloat64(metrics.ChunksFlushed.WithLabelValues(FORMAT_TERM_VECTORS)))
	tassert.Equal(t, float64(0), testutil.ToFloat64(metrics.ChunksFlushed.WithLabelValues(FORMAT_STORED_FIELDS)))

	withVectors := 0
	for i, doc := range docs {
		if len(doc) > 0 {
			withVectors++
		}
		getVectors(t, r, i)
	}
	tassert.Equal(t, float64(withVectors), testutil.ToFloat64(metrics.VectorsRead))
}

func TestTermVectorsFinishMismatch(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<12)
	si := model.NewSegmentInfo(dir, "_0", 2)
	w, err := format.VectorsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.StartDocument(0))
	require.NoError(t, w.FinishDocument())
	tassert.Error(t, w.Finish(vectorFields, 2))
}

func TestTermVectorsMerge(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<8)
	r := rand.New(rand.NewSource(11))

	docsA := randomVectors(r, 80)
	siA := writeVectors(t, dir, format, "_a", vectorFields, docsA)
	readerA := openVectors(t, dir, format, siA, vectorFields)

	// other field numbers in the second segment
	fisB := newVectorFieldInfos("tags", "title", "body")
	docsB := randomVectors(r, 40)
	siB := writeVectors(t, dir, format, "_b", fisB, docsB)
	readerB := openVectors(t, dir, format, siB, fisB)

	liveDocs := util.NewLiveDocs(80)
	var expected [][]tvField
	for i, doc := range docsA {
		if i%3 == 0 {
			liveDocs.Clear(i)
		} else {
			expected = append(expected, doc)
		}
	}
	expected = append(expected, docsB...)
	// a segment without term vectors
	expected = append(expected, nil, nil)

	si := model.NewSegmentInfo(dir, "_m", -1)
	mergeState := spi.NewMergeState(si, []*spi.MergeReader{
		{MaxDoc: 80, LiveDocs: liveDocs, FieldInfos: vectorFields, TermVectorsReader: readerA},
		{MaxDoc: 40, FieldInfos: fisB, TermVectorsReader: readerB},
		{MaxDoc: 2, FieldInfos: vectorFields},
	})
	w, err := format.VectorsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	n, err := w.Merge(mergeState)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	tassert.Equal(t, len(expected), n)
	si.SetDocCount(n)

	merged := openVectors(t, dir, format, si, mergeState.FieldInfos)
	assertSameVectors(t, expected, merged)
}

func TestTermVectorsCheckIntegrity(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<8)
	si := writeVectors(t, dir, format, "_0", vectorFields, randomVectors(rand.New(rand.NewSource(5)), 50))
	rewriteFile(t, dir, "_0.tvd", func(data []byte) []byte {
		data[len(data)/2] ^= 0x11
		return data
	})
	r := openVectors(t, dir, format, si, vectorFields)
	err := r.CheckIntegrity()
	require.Error(t, err)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))
}

func TestTermVectorsTruncated(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<8)
	si := writeVectors(t, dir, format, "_0", vectorFields, randomVectors(rand.New(rand.NewSource(5)), 50))
	rewriteFile(t, dir, "_0.tvd", func(data []byte) []byte {
		return data[:len(data)-1]
	})
	_, err := format.VectorsReader(dir, si, vectorFields, store.IO_CONTEXT_READ)
	require.Error(t, err)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))
}

func TestTermVectorsManyChunks(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	docs := make([][]tvField, 2600)
	for i := range docs {
		docs[i] = []tvField{randomField(r, tvFieldNames[i%len(tvFieldNames)])}
	}
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			dir := store.NewRAMDirectory()
			format := NewCompressingTermVectorsFormat("Test", "", mode, 1)
			si := writeVectors(t, dir, format, "_0", vectorFields, docs)
			vr := openVectors(t, dir, format, si, vectorFields)
			tassert.Greater(t, vr.NumChunks(), BLOCK_SIZE)

			prev := int64(-1)
			for doc := range docs {
				p := vr.indexReader.startPointer(doc)
				require.GreaterOrEqual(t, p, prev, "doc %v", doc)
				prev = p
			}
			assertSameVectors(t, docs, vr)
			require.NoError(t, vr.CheckIntegrity())
		})
	}
}

func TestTermVectorsWrongFormatName(t *testing.T) {
	dir := store.NewRAMDirectory()
	format := NewCompressingTermVectorsFormat("Test", "", COMPRESSION_MODE_FAST, 1<<8)
	si := writeVectors(t, dir, format, "_0", vectorFields, randomVectors(rand.New(rand.NewSource(6)), 5))
	other := NewCompressingTermVectorsFormat("Other", "", COMPRESSION_MODE_FAST, 1<<8)

	var err error
	tassert.NotPanics(t, func() {
		_, err = other.VectorsReader(dir, si, vectorFields, store.IO_CONTEXT_READ)
	})
	require.Error(t, err)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))
}

func TestCheckSegmentIntegrity(t *testing.T) {
	dir := store.NewRAMDirectory()
	cdc := NewCompressingCodec("Test", "", COMPRESSION_MODE_FAST, 1<<9)
	si := writeStoredFields(t, dir, cdc.storedFields, "_0", testFields, testDocs(50))
	writeVectors(t, dir, cdc.termVectors, "_0", vectorFields, randomVectors(rand.New(rand.NewSource(9)), 50))

	storedFields := openStoredFields(t, dir, cdc.storedFields, si, testFields)
	termVectors := openVectors(t, dir, cdc.termVectors, si, vectorFields)
	require.NoError(t, CheckSegmentIntegrity(context.Background(), storedFields, termVectors))
	require.NoError(t, CheckSegmentIntegrity(context.Background(), nil, termVectors))
	require.NoError(t, CheckSegmentIntegrity(context.Background(), nil, nil))

	rewriteFile(t, dir, "_0.tvd", func(data []byte) []byte {
		data[len(data)/3] ^= 0x01
		return data
	})
	corrupted := openVectors(t, dir, cdc.termVectors, si, vectorFields)
	err := CheckSegmentIntegrity(context.Background(), storedFields, corrupted)
	require.Error(t, err)
	tassert.True(t, errors.Is(err, codec.ErrCorruptIndex))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tassert.ErrorIs(t, CheckSegmentIntegrity(ctx, storedFields, termVectors), context.Canceled)
}
