package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/citegraph/citegraph/internal/config"
	"github.com/citegraph/citegraph/internal/dot"
	"github.com/citegraph/citegraph/internal/graph"
	"github.com/citegraph/citegraph/internal/manifest"
	"github.com/citegraph/citegraph/internal/match"
	"github.com/citegraph/citegraph/internal/textcache"
	"github.com/spf13/cobra"
)

var (
	graphOutput     string
	graphFont       string
	graphExtractor  string
	graphWorkers    int
	graphSkipFailed bool
	manifestPath    string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&graphOutput, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&graphFont, "font", "", "Node font name (default: DejaVuSans)")
	flags.StringVar(&graphExtractor, "extractor", "", "Text extractor: pdftotext or builtin")
	flags.IntVar(&graphWorkers, "workers", 1, "Number of documents scanned concurrently")
	flags.BoolVar(&graphSkipFailed, "skip-failed", false, "Skip papers whose text extraction fails instead of aborting")
	flags.StringVar(&manifestPath, "manifest", "", "Record extractions in this SQLite manifest")
}

// validateArgs checks the positional arguments before any work is done.
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return newUsageError("")
	}
	_, err := inputFromArgs(args)
	return err
}

// inputFromArgs turns BIBTEX-FILE PDF-DIRECTORY [TEX-DOCUMENT] into an Input.
func inputFromArgs(args []string) (graph.Input, error) {
	in := graph.Input{BibPath: args[0], DocDir: args[1]}
	if len(args) == 3 {
		in.TexPath = args[2]
	}

	info, err := os.Stat(in.DocDir)
	if err != nil {
		return in, newUsageError("The PDF directory '%s' doesn't exist.", in.DocDir)
	}
	if !info.IsDir() {
		return in, newUsageError("'%s' is not a directory.", in.DocDir)
	}
	if in.TexPath != "" {
		if _, err := os.Stat(in.TexPath); err != nil {
			return in, newUsageError("The TeX file '%s' does not exist.", in.TexPath)
		}
	}
	return in, nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in, err := inputFromArgs(args)
	if err != nil {
		return err
	}

	cache, closeCache, err := newTextCache(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	m := match.New(cache,
		match.WithWorkers(cfg.Workers),
		match.WithSkipFailed(cfg.SkipFailedExtractions()),
		match.WithLogger(logger),
	)
	hues := graph.Hues{Earliest: cfg.EarliestHue, Latest: cfg.LatestHue}

	g, err := graph.Build(cmd.Context(), in, m, hues, logger)
	if err != nil {
		return err
	}

	// The graph is complete before anything is written, so a failed run
	// leaves no partial output.
	return writeGraph(cmd.OutOrStdout(), graphOutput, g, dot.Options{Font: cfg.Font})
}

// newTextCache builds the text cache for cfg, attaching the manifest if one
// is configured. The returned func releases the manifest.
func newTextCache(cfg *config.Config, logger *slog.Logger) (*textcache.Cache, func(), error) {
	ext, err := textcache.NewExtractor(cfg.Extractor, cfg.PDFToTextPath)
	if err != nil {
		return nil, nil, &configError{err: err}
	}

	opts := []textcache.Option{textcache.WithLogger(logger)}
	closeFn := func() {}
	if cfg.ManifestPath != "" {
		db, err := manifest.Open(cfg.ManifestPath)
		if err != nil {
			return nil, nil, &configError{err: fmt.Errorf("opening manifest: %w", err)}
		}
		opts = append(opts, textcache.WithRecorder(db))
		closeFn = func() { db.Close() }
	}
	return textcache.New(ext, opts...), closeFn, nil
}

// writeGraph writes g to path, or to stdout when path is empty.
func writeGraph(stdout io.Writer, path string, g *dot.Graph, opts dot.Options) (err error) {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		w = f
	}
	if err := dot.Write(w, g, opts); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	return nil
}
