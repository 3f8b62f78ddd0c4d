// Package main provides the citegraph CLI entry point.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/citegraph/citegraph/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(reportError(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "citegraph BIBTEX-FILE PDF-DIRECTORY [TEX-DOCUMENT]",
	Short: "Infer a citation graph from titles found in paper text",
	Long: `citegraph builds a (most likely incomplete) citation graph from a BibTeX
file and a directory of PDFs named after the BibTeX keys, e.g. the entry
@article{Hanesch1989, ...} is expected at PDF-DIRECTORY/Hanesch1989.pdf.

Each PDF is converted to text once (cached as <key>.txt next to the PDF and
refreshed when the PDF changes). Whenever a paper's title appears in the text
of another paper, an edge is drawn from the citing paper to the cited one.

If TEX-DOCUMENT is given, the graph starts from every key it cites;
otherwise every entry in the BibTeX file is a starting point.

The graph is written in Graphviz dot format to standard output, with nodes
colored by publication year; diagnostics go to standard error.

Examples:
  citegraph references.bib papers/ thesis.tex > citations.dot
  neato -Tpng -o citations.png < citations.dot`,
	Args:          validateArgs,
	RunE:          runGraph,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/citegraph/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Diagnostic level: debug, info, warn, error")
	rootCmd.Version = Version
}

// loadConfig resolves settings: defaults, config file, .env and environment,
// then any flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &configError{err: err}
	}

	config.LoadEnv()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, &configError{err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("font") {
		cfg.Font = graphFont
	}
	if flags.Changed("extractor") {
		cfg.Extractor = graphExtractor
	}
	if flags.Changed("workers") {
		cfg.Workers = graphWorkers
	}
	if flags.Changed("skip-failed") {
		cfg.OnExtractError = config.OnExtractErrorFail
		if graphSkipFailed {
			cfg.OnExtractError = config.OnExtractErrorSkip
		}
	}
	if flags.Changed("manifest") {
		cfg.ManifestPath = config.ExpandPath(manifestPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the --log-level threshold.
func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return nil, newUsageError("invalid --log-level %q", logLevel)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

