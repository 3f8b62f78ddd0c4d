// Package graph runs the whole inference: bibliography to registry, seeds,
// title matching, year colors and finally the renderable graph.
package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/citegraph/citegraph/internal/bibtex"
	"github.com/citegraph/citegraph/internal/color"
	"github.com/citegraph/citegraph/internal/dot"
	"github.com/citegraph/citegraph/internal/match"
	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/seed"
	"github.com/citegraph/citegraph/internal/texcite"
)

// Input names the files a run reads.
type Input struct {
	BibPath string // BibTeX database
	DocDir  string // directory of <key>.pdf documents
	TexPath string // optional LaTeX document whose citations are the seeds
}

// Hues sets the gradient endpoints.
type Hues struct {
	Earliest float64
	Latest   float64
}

// InputError reports an unreadable or malformed input file.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Build infers the citation graph described by in.
func Build(ctx context.Context, in Input, m *match.Matcher, hues Hues, logger *slog.Logger) (*dot.Graph, error) {
	entries, err := bibtex.ReadFile(in.BibPath)
	if err != nil {
		return nil, &InputError{Path: in.BibPath, Err: err}
	}
	reg := paper.Populate(entries, in.DocDir, logger)

	seeds, err := resolveSeeds(in.TexPath, reg, logger)
	if err != nil {
		return nil, err
	}

	res, err := m.Match(ctx, seeds.Keys, reg)
	if err != nil {
		return nil, err
	}
	logger.Info("matching done", "edges", len(res.Edges), "nodes", len(res.Connected))

	mapper := color.NewMapper(seeds.Years, hues.Earliest, hues.Latest)
	return assemble(res, reg, mapper, logger), nil
}

func resolveSeeds(texPath string, reg *paper.Registry, logger *slog.Logger) (seed.Set, error) {
	if texPath == "" {
		return seed.FromRegistry(reg, logger), nil
	}
	keys, err := texcite.ScanFile(texPath)
	if err != nil {
		return seed.Set{}, &InputError{Path: texPath, Err: err}
	}
	return seed.Resolve(keys, reg, logger), nil
}

// assemble colors every connected paper and copies the edges.
func assemble(res *match.Result, reg *paper.Registry, mapper *color.Mapper, logger *slog.Logger) *dot.Graph {
	g := &dot.Graph{}
	for _, k := range res.Connected {
		p, ok := reg.Get(k)
		if !ok {
			logger.Warn("no information for connected key", "key", k)
			continue
		}
		fill, dated := mapper.ForPaper(p)
		if !dated {
			logger.Warn("no numeric year, drawing grey", "key", k, "year", p.Year)
		}
		g.Nodes = append(g.Nodes, dot.Node{ID: k, Fill: fill})
	}
	for _, e := range res.Edges {
		g.Edges = append(g.Edges, dot.Edge{From: e.Citing, To: e.Cited})
	}
	return g
}
