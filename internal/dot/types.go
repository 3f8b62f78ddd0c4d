// Package dot writes citation graphs in Graphviz's DOT language.
package dot

import "github.com/citegraph/citegraph/internal/color"

// DefaultFont is the node font used when none is configured.
const DefaultFont = "DejaVuSans"

// Graph contains everything needed to render the citation graph.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Node is a paper drawn filled with its year color.
type Node struct {
	ID   string
	Fill color.HSV
}

// Edge points from the citing paper to the cited one.
type Edge struct {
	From string
	To   string
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}
