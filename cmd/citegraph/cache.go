package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/citegraph/citegraph/internal/manifest"
	"github.com/spf13/cobra"
)

var cacheHuman bool

func init() {
	cacheListCmd.Flags().StringVar(&manifestPath, "manifest", "", "SQLite manifest to read (default: manifest_path from config)")
	cacheListCmd.Flags().BoolVar(&cacheHuman, "human", false, "Use a human-readable table instead of JSON")
	cacheCmd.AddCommand(cacheListCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the text extraction manifest",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded text extractions",
	Long: `List the text extractions recorded in the SQLite manifest.

Extractions are only recorded when a manifest is configured, either with
--manifest on a graph run, manifest_path in the config file, or the
CITEGRAPH_MANIFEST environment variable.

Examples:
  citegraph refs.bib papers/ --manifest ~/.cache/citegraph.db > g.dot
  citegraph cache list --manifest ~/.cache/citegraph.db --human`,
	Args: cobra.NoArgs,
	RunE: runCacheList,
}

func runCacheList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ManifestPath == "" {
		return &configError{err: fmt.Errorf("no manifest configured (use --manifest or manifest_path)")}
	}
	if _, err := os.Stat(cfg.ManifestPath); err != nil {
		return &configError{err: fmt.Errorf("manifest not found: %s", cfg.ManifestPath)}
	}

	db, err := manifest.Open(cfg.ManifestPath)
	if err != nil {
		return &configError{err: fmt.Errorf("opening manifest: %w", err)}
	}
	defer db.Close()

	records, err := db.List(cmd.Context())
	if err != nil {
		return err
	}

	if !cacheHuman {
		if records == nil {
			records = []manifest.Record{}
		}
		return outputJSON(cmd.OutOrStdout(), records)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tEXTRACTOR\tBYTES\tDURATION\tEXTRACTED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			r.Key, r.Extractor, r.Bytes,
			time.Duration(r.DurationMS)*time.Millisecond,
			r.ExtractedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
