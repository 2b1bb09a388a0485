// Command statemap ingests a statemap JSON stream and writes an SVG
// visualization, or (with -n) plain-text entity/rectangle/tag counts; -n -v
// prints a dump of every ingested rectangle instead.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/katalvlaran/statemap/ingest"
	"github.com/katalvlaran/statemap/model"
	"github.com/katalvlaran/statemap/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "statemap: %s\n", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	begin       model.NanoTime
	end         model.NanoTime
	maxRect     int
	sortBy      string
	noTags      bool
	stripHeight int
	stripWidth  int
	legendWidth int
	tagWidth    int
	background  string
	dryRun      bool
	verbose     bool
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) error {
	fs := flag.NewFlagSet("statemap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var beginStr, endStr, durationStr string
	opts := cliOptions{}

	fs.StringVarP(&beginStr, "begin", "b", "", "clip the timeline at or after this time (e.g. 500ms, 2s, 100us)")
	fs.StringVarP(&endStr, "end", "e", "", "clip the timeline before this time")
	fs.StringVarP(&durationStr, "duration", "d", "", "duration of the timeline; combines with at most one of -b/-e")
	fs.IntVarP(&opts.maxRect, "coalesce", "c", model.DefaultMaxRect, "maximum rectangles kept per run before coalescing")
	fs.StringVarP(&opts.sortBy, "sortby", "s", "", "sort entities by natural name (default) or a declared state name")
	fs.BoolVarP(&opts.noTags, "ignore-tags", "i", false, "drop tag information during ingest")
	fs.IntVarP(&opts.stripHeight, "state-height", "h", render.DefaultStripHeight, "pixel height of one entity's strip")
	fs.IntVar(&opts.stripWidth, "strip-width", render.DefaultStripWidth, "pixel width of the timeline area")
	fs.IntVar(&opts.legendWidth, "legend-width", render.DefaultLegendWidth, "pixel width of the state legend")
	fs.IntVar(&opts.tagWidth, "tag-width", render.DefaultTagWidth, "pixel width reserved for the tag box")
	fs.StringVar(&opts.background, "background", render.DefaultBackground, "strip background CSS color")
	fs.BoolVarP(&opts.dryRun, "dry-run", "n", false, "ingest only, print entity/rectangle/tag counts instead of SVG (with -v: a rectangle dump)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	begin, end, err := resolveClip(fs, beginStr, endStr, durationStr)
	if err != nil {
		return err
	}
	opts.begin, opts.end = begin, end

	log := zerolog.Nop()
	if opts.verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}

	cfgOpts := []model.ConfigOption{
		model.WithMaxRect(opts.maxRect),
		model.WithBegin(opts.begin),
		model.WithEnd(opts.end),
	}
	if opts.noTags {
		cfgOpts = append(cfgOpts, model.WithNoTags())
	}
	cfg := model.NewConfig(cfgOpts...)

	var in io.Reader = stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	doc, err := ingest.Ingest(in, cfg, log)
	if err != nil {
		return fmt.Errorf("ingesting: %w", err)
	}

	if opts.dryRun {
		if opts.verbose {
			return doc.Dump(stdout)
		}

		return dumpCounts(stdout, doc)
	}

	renderOpts := render.NewOptions(
		render.WithStripHeight(opts.stripHeight),
		render.WithStripWidth(opts.stripWidth),
		render.WithBackground(opts.background),
		render.WithSortBy(opts.sortBy),
	)
	renderOpts.LegendWidth = opts.legendWidth
	renderOpts.TagWidth = opts.tagWidth

	if err := render.Render(stdout, doc, renderOpts); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	return nil
}

// resolveClip reconciles -begin/-end/-duration exactly as the original CLI
// does: duration combines with at most one of begin or end to derive the
// other bound, and specifying all three (or begin/end with end before
// begin) is fatal.
func resolveClip(fs *flag.FlagSet, beginStr, endStr, durationStr string) (begin, end model.NanoTime, err error) {
	hasBegin := fs.Changed("begin")
	hasEnd := fs.Changed("end")
	hasDuration := fs.Changed("duration")

	if hasDuration {
		duration, err := parseDuration(durationStr)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing -duration: %w", err)
		}

		switch {
		case hasBegin && hasEnd:
			return 0, 0, fmt.Errorf("cannot specify all of begin, end, and duration")
		case hasBegin:
			begin, err = parseDuration(beginStr)
			if err != nil {
				return 0, 0, fmt.Errorf("parsing -begin: %w", err)
			}
			end = begin + duration
		case hasEnd:
			end, err = parseDuration(endStr)
			if err != nil {
				return 0, 0, fmt.Errorf("parsing -end: %w", err)
			}
			if duration > end {
				return 0, 0, fmt.Errorf("duration cannot exceed end offset")
			}
			begin = end - duration
		default:
			end = duration
		}

		return begin, end, nil
	}

	if hasEnd {
		end, err = parseDuration(endStr)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing -end: %w", err)
		}
	}
	if hasBegin {
		begin, err = parseDuration(beginStr)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing -begin: %w", err)
		}
		if end < begin {
			return 0, 0, fmt.Errorf("begin offset must be less than end offset")
		}
	}

	return begin, end, nil
}

// dumpCounts reports how many entities, rectangles and tags were ingested
// without rendering, for -n alone (-n -v additionally dumps every
// rectangle via Document.Dump).
func dumpCounts(w io.Writer, doc *ingest.Document) error {
	nrects := 0
	for _, e := range doc.Entities {
		nrects += len(e.Rects)
	}

	_, err := fmt.Fprintf(w, "entities: %d\nrectangles: %d\ntags: %d\n",
		len(doc.Entities), nrects, len(doc.Tags))

	return err
}

// parseDuration accepts a bare nanosecond integer or a number with one of
// the suffixes ns/us/ms/s/sec, mirroring the original CLI's time flags.
func parseDuration(s string) (model.NanoTime, error) {
	suffixes := []struct {
		suffix string
		scale  uint64
	}{
		{"ns", 1},
		{"us", 1_000},
		{"ms", 1_000_000},
		{"sec", 1_000_000_000},
		{"s", 1_000_000_000},
	}

	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			numPart := strings.TrimSuffix(s, sfx.suffix)
			v, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", s, err)
			}

			return model.NanoTime(uint64(v * float64(sfx.scale))), nil
		}
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	return model.NanoTime(v), nil
}
