package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/op/go-logging"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/compressing"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

var log = logging.MustGetLogger("gl")

// Fields without a name given by -fields are shown by number.
const maxFieldNumber = 1 << 10

var checkedExtensions = map[string]bool{
	compressing.FIELDS_EXTENSION:        true,
	compressing.FIELDS_INDEX_EXTENSION:  true,
	compressing.VECTORS_EXTENSION:       true,
	compressing.VECTORS_INDEX_EXTENSION: true,
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] <command> [command flags]

Commands:
  check                         verify the checksums of every stored fields and term vectors file
  dump -segment NAME -doc N     print the stored fields of a document
  stats [-segment NAME]         print chunk statistics of one or all segments

Flags:
`, filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func setupLogging(verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(`%{time:15:04:05.000} %{module} %{level:.4s} %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.INFO, "")
	}
	logging.SetBackend(leveled)
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file (defaults and environment when empty)")
	dirPath := flag.String("dir", ".", "Index directory")
	verbose := flag.Bool("v", false, "Verbose logging")
	showMetrics := flag.Bool("metrics", false, "Print the codec counters when done")
	flag.Usage = usage
	flag.Parse()

	setupLogging(*verbose)
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := compressing.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("can't load configuration: %v", err)
	}
	metrics := cfg.Metrics()
	registry := prometheus.NewRegistry()
	if err = metrics.Register(registry); err != nil {
		log.Fatalf("can't register metrics: %v", err)
	}

	dir, err := store.OpenFSDirectory(*dirPath)
	if err != nil {
		log.Fatalf("can't open %v: %v", *dirPath, err)
	}
	defer dir.Close()

	cdc, err := cfg.Codec("Compressing", metrics)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.Debugf("Using %v on %v", cdc, dir.Path())

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "check":
		err = check(context.Background(), dir)
	case "dump":
		err = dump(dir, cfg, cdc, args)
	case "stats":
		err = stats(dir, cfg, cdc, args)
	default:
		usage()
		os.Exit(2)
	}
	if *showMetrics {
		if err := printMetrics(registry); err != nil {
			log.Errorf("can't gather metrics: %v", err)
		}
	}
	if err != nil {
		log.Errorf("%v: %v", cmd, err)
		os.Exit(1)
	}
}

/*
Verifies every stored fields and term vectors file concurrently.
Corrupt files are reported and counted; other errors abort the check.
*/
func check(ctx context.Context, dir *store.FSDirectory) error {
	names, err := dir.ListAll()
	if err != nil {
		return err
	}
	var corrupt int32
	checked := 0
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, name := range names {
		if !checkedExtensions[util.FileExtension(name)] {
			continue
		}
		checked++
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			checksum, err := store.ChecksumFile(dir, name)
			if errors.Is(err, codec.ErrCorruptIndex) {
				log.Warningf("%v: %v", name, err)
				atomic.AddInt32(&corrupt, 1)
				return nil
			} else if err != nil {
				return fmt.Errorf("%v: %w", name, err)
			}
			log.Debugf("%v: checksum %08x", name, checksum)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}
	if corrupt > 0 {
		return fmt.Errorf("%v of %v files are corrupt", corrupt, checked)
	}
	log.Infof("%v files checked, no corruption found", checked)
	return nil
}

// Field infos naming the given fields by number and the others "#<number>".
func fieldInfos(names string) model.FieldInfos {
	var given []string
	if names != "" {
		given = strings.Split(names, ",")
	}
	n := maxFieldNumber
	if len(given) > n {
		n = len(given)
	}
	infos := make([]*model.FieldInfo, n)
	for i := range infos {
		name := fmt.Sprintf("#%d", i)
		if i < len(given) {
			name = given[i]
		}
		infos[i] = model.NewFieldInfo(name, int32(i), false, false, model.INDEX_OPT_DOCS_ONLY, nil)
	}
	return model.NewFieldInfos(infos)
}

func openSegment(dir store.Directory, cfg *compressing.Config, segment string) (*model.SegmentInfo, error) {
	numDocs, err := compressing.SegmentDocCount(dir, segment, cfg.FormatName, cfg.SegmentSuffix)
	if err != nil {
		return nil, err
	}
	return model.NewSegmentInfo(dir, segment, numDocs), nil
}

func dump(dir store.Directory, cfg *compressing.Config, cdc *compressing.CompressingCodec, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	segment := fs.String("segment", "", "Segment name")
	docID := fs.Int("doc", 0, "Document number within the segment")
	fields := fs.String("fields", "", "Comma-separated field names, in field number order")
	fs.Parse(args)
	if *segment == "" {
		return errors.New("-segment is required")
	}

	si, err := openSegment(dir, cfg, *segment)
	if err != nil {
		return err
	}
	if *docID < 0 || *docID >= si.DocCount() {
		return fmt.Errorf("doc %v out of range, segment %v has %v documents", *docID, *segment, si.DocCount())
	}
	r, err := cdc.StoredFieldsFormat().FieldsReader(dir, si, fieldInfos(*fields), store.IO_CONTEXT_READ)
	if err != nil {
		return err
	}
	defer r.Close()

	visitor := document.NewDocumentStoredFieldVisitor()
	if err = r.VisitDocument(*docID, visitor); err != nil {
		return err
	}
	for _, f := range visitor.Document().Fields() {
		switch {
		case f.NumericValue() != nil:
			fmt.Printf("%v\t%T\t%v\n", f.Name(), f.NumericValue(), f.NumericValue())
		case f.BinaryValue() != nil:
			fmt.Printf("%v\tbinary\t%x\n", f.Name(), f.BinaryValue())
		default:
			fmt.Printf("%v\tstring\t%q\n", f.Name(), f.StringValue())
		}
	}
	return nil
}

// Names of the segments having a stored fields index.
func listSegments(dir store.Directory, cfg *compressing.Config) ([]string, error) {
	names, err := dir.ListAll()
	if err != nil {
		return nil, err
	}
	var segments []string
	for _, name := range names {
		segment := util.ParseSegmentName(name)
		if name == util.SegmentFileName(segment, cfg.SegmentSuffix, compressing.FIELDS_INDEX_EXTENSION) {
			segments = append(segments, segment)
		}
	}
	sort.Strings(segments)
	return segments, nil
}

func stats(dir store.Directory, cfg *compressing.Config, cdc *compressing.CompressingCodec, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	segment := fs.String("segment", "", "Segment name (all segments when empty)")
	fs.Parse(args)

	segments := []string{*segment}
	if *segment == "" {
		var err error
		if segments, err = listSegments(dir, cfg); err != nil {
			return err
		}
	}
	fis := fieldInfos("")
	for _, name := range segments {
		if err := segmentStats(dir, cfg, cdc, name, fis); err != nil {
			return fmt.Errorf("segment %v: %w", name, err)
		}
	}
	return nil
}

func segmentStats(dir store.Directory, cfg *compressing.Config, cdc *compressing.CompressingCodec,
	segment string, fis model.FieldInfos) error {

	si, err := openSegment(dir, cfg, segment)
	if err != nil {
		return err
	}
	r, err := cdc.StoredFieldsFormat().FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	if err != nil {
		return err
	}
	defer r.Close()
	sf := r.(*compressing.CompressingStoredFieldsReader)
	fmt.Printf("%v\tdocs=%v\tstored fields: mode=%v chunkSize=%v chunks=%v\n",
		segment, si.DocCount(), sf.CompressionMode(), sf.ChunkSize(), sf.NumChunks())

	tv := cfg.TermVectors
	if !dir.FileExists(util.SegmentFileName(segment, tv.SegmentSuffix, compressing.VECTORS_INDEX_EXTENSION)) {
		return nil
	}
	vr, err := cdc.TermVectorsFormat().VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	if err != nil {
		return err
	}
	defer vr.Close()
	v := vr.(*compressing.CompressingTermVectorsReader)
	fmt.Printf("%v\tdocs=%v\tterm vectors: mode=%v chunkSize=%v chunks=%v\n",
		segment, si.DocCount(), v.CompressionMode(), v.ChunkSize(), v.NumChunks())
	return nil
}

func printMetrics(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			fmt.Printf("%v{%v} %v\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
