package main

import (
	"fmt"

	"github.com/citegraph/citegraph/internal/graph"
	"github.com/citegraph/citegraph/internal/texcite"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys TEX-DOCUMENT",
	Short: "Print the citation keys a TeX document cites",
	Long: `Print, one per line and sorted, the keys cited by \cite-style commands in
a TeX document. These are the starting keys a graph run would use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := texcite.ScanFile(args[0])
		if err != nil {
			return &graph.InputError{Path: args[0], Err: err}
		}
		out := cmd.OutOrStdout()
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil
	},
}
