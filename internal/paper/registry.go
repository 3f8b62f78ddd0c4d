package paper

import (
	"log/slog"
	"os"
	"sort"

	"github.com/citegraph/citegraph/internal/bibtex"
)

// Registry holds every paper with a known title and year, keyed by citation
// key, and remembers which of them had a document on disk when registered.
type Registry struct {
	papers       map[string]*Paper
	withDocument map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		papers:       make(map[string]*Paper),
		withDocument: make(map[string]bool),
	}
}

// Add registers p. A later paper with the same key replaces the earlier one.
func (r *Registry) Add(p *Paper, hasDocument bool) {
	r.papers[p.Key] = p
	if hasDocument {
		r.withDocument[p.Key] = true
	} else {
		delete(r.withDocument, p.Key)
	}
}

// Get looks up a paper by citation key.
func (r *Registry) Get(key string) (*Paper, bool) {
	p, ok := r.papers[key]
	return p, ok
}

// Len returns the number of registered papers.
func (r *Registry) Len() int {
	return len(r.papers)
}

// HasDocument reports whether key was registered with a document.
func (r *Registry) HasDocument(key string) bool {
	return r.withDocument[key]
}

// Keys returns all registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.papers))
	for k := range r.papers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithDocument returns the papers that have a document, sorted by key.
func (r *Registry) WithDocument() []*Paper {
	papers := make([]*Paper, 0, len(r.withDocument))
	for k := range r.withDocument {
		papers = append(papers, r.papers[k])
	}
	sort.Slice(papers, func(i, j int) bool { return papers[i].Key < papers[j].Key })
	return papers
}

// Populate builds a registry from bibliography entries. Entries lacking a
// title or a year are left out. Document existence is checked once, here;
// a document appearing later is not noticed.
func Populate(entries []bibtex.Entry, docDir string, logger *slog.Logger) *Registry {
	reg := NewRegistry()
	for _, e := range entries {
		logger.Debug("bibliography entry", "key", e.Key)

		title, hasTitle := e.Field("title")
		year, hasYear := e.Field("year")
		if !hasTitle || !hasYear {
			logger.Debug("skipping entry without title or year", "key", e.Key)
			continue
		}

		p := New(e.Key, bibtex.StripBraces(title), year, docDir)
		hasDoc := isRegularFile(p.DocumentPath())
		if !hasDoc {
			logger.Warn("no PDF file", "key", p.Key, "path", p.DocumentPath())
		}
		reg.Add(p, hasDoc)
	}
	return reg
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
