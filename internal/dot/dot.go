package dot

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Options controls layout hints in the preamble.
type Options struct {
	Font string
}

// Write emits g as a directed graph: a preamble of layout hints, one filled
// node per paper, then the edges, in the order given.
func Write(w io.Writer, g *Graph, opts Options) error {
	font := opts.Font
	if font == "" {
		font = DefaultFont
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph citations {\n")
	fmt.Fprintf(bw, "    overlap=scale\n")
	fmt.Fprintf(bw, "    splines=true\n")
	fmt.Fprintf(bw, "    sep=0.1\n")
	fmt.Fprintf(bw, "    node [fontname=%s]\n\n", quote(font))

	for _, n := range g.Nodes {
		fmt.Fprintf(bw, "    %s [style=filled fillcolor=\"%f, %f, %f\"]\n",
			quote(n.ID), n.Fill.H, n.Fill.S, n.Fill.V)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(bw, "    %s -> %s\n", quote(e.From), quote(e.To))
	}

	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

// quote renders s as a DOT double-quoted ID.
func quote(s string) string {
	return `"` + idEscaper.Replace(s) + `"`
}

var idEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
