// Package match infers citation edges by finding paper titles inside the
// text of other papers.
package match

import (
	"context"
	"log/slog"
	"regexp"
	"sort"

	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/textcache"
	"golang.org/x/sync/errgroup"
)

// Edge records that Citing's document contains Cited's title.
type Edge struct {
	Citing string `json:"citing"`
	Cited  string `json:"cited"`
}

// TextSource supplies document text; *textcache.Cache implements it.
type TextSource interface {
	Get(ctx context.Context, p *paper.Paper) textcache.Result
}

// Result is the outcome of a matching run.
type Result struct {
	// Edges is sorted by citing key, then cited key.
	Edges []Edge
	// Connected holds every key that is an endpoint of an edge, sorted.
	Connected []string
}

// Matcher tests every seed title against every document.
type Matcher struct {
	texts      TextSource
	workers    int
	skipFailed bool
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWorkers sets how many documents are scanned concurrently.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithSkipFailed makes extraction failures skip the document instead of
// aborting the run.
func WithSkipFailed(skip bool) Option {
	return func(m *Matcher) { m.skipFailed = skip }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// New creates a Matcher reading document text from texts.
func New(texts TextSource, opts ...Option) *Matcher {
	m := &Matcher{texts: texts, workers: 1, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type seedPattern struct {
	key string
	re  *regexp.Regexp
}

// Match finds, for each seed in reg, every other registered paper with a
// document whose text contains the seed's title, yielding an edge from that
// paper to the seed. Seeds absent from reg are ignored.
func (m *Matcher) Match(ctx context.Context, seeds []string, reg *paper.Registry) (*Result, error) {
	patterns := m.seedPatterns(seeds, reg)
	if len(patterns) == 0 {
		return &Result{}, nil
	}

	candidates := reg.WithDocument()
	found := make([][]Edge, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, cand := range candidates {
		g.Go(func() error {
			edges, err := m.scan(gctx, cand, patterns)
			found[i] = edges
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return collect(found), nil
}

func (m *Matcher) seedPatterns(seeds []string, reg *paper.Registry) []seedPattern {
	patterns := make([]seedPattern, 0, len(seeds))
	for _, k := range seeds {
		p, ok := reg.Get(k)
		if !ok {
			continue
		}
		re, ok := TitlePattern(p.Title)
		if !ok {
			m.logger.Warn("title has no words, not matching", "key", k)
			continue
		}
		m.logger.Debug("starting with key", "key", k, "pattern", re.String())
		patterns = append(patterns, seedPattern{key: k, re: re})
	}
	return patterns
}

// scan tests all patterns against one candidate's text.
func (m *Matcher) scan(ctx context.Context, cand *paper.Paper, patterns []seedPattern) ([]Edge, error) {
	res := m.texts.Get(ctx, cand)
	switch res.Status {
	case textcache.Absent:
		m.logger.Warn("document disappeared", "key", cand.Key)
		return nil, nil
	case textcache.Failed:
		if !m.skipFailed {
			return nil, res.Err
		}
		m.logger.Warn("skipping document", "key", cand.Key, "error", res.Err)
		return nil, nil
	}

	var edges []Edge
	for _, sp := range patterns {
		if sp.key == cand.Key {
			continue
		}
		if sp.re.MatchString(res.Text) {
			edges = append(edges, Edge{Citing: cand.Key, Cited: sp.key})
		}
	}
	return edges, nil
}

func collect(found [][]Edge) *Result {
	r := &Result{}
	connected := make(map[string]bool)
	for _, edges := range found {
		for _, e := range edges {
			r.Edges = append(r.Edges, e)
			connected[e.Citing] = true
			connected[e.Cited] = true
		}
	}

	sort.Slice(r.Edges, func(i, j int) bool {
		if r.Edges[i].Citing != r.Edges[j].Citing {
			return r.Edges[i].Citing < r.Edges[j].Citing
		}
		return r.Edges[i].Cited < r.Edges[j].Cited
	})

	r.Connected = make([]string, 0, len(connected))
	for k := range connected {
		r.Connected = append(r.Connected, k)
	}
	sort.Strings(r.Connected)
	return r
}
