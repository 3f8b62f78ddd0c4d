// Package seed resolves the citation keys a graph is grown from.
package seed

import (
	"log/slog"
	"sort"

	"github.com/citegraph/citegraph/internal/paper"
)

// YearRange is the span of publication years across the seed papers.
// Valid is false when no seed paper has a numeric year.
type YearRange struct {
	Earliest int
	Latest   int
	Valid    bool
}

// Include widens the range to contain year.
func (r YearRange) Include(year int) YearRange {
	if !r.Valid {
		return YearRange{Earliest: year, Latest: year, Valid: true}
	}
	if year < r.Earliest {
		r.Earliest = year
	}
	if year > r.Latest {
		r.Latest = year
	}
	return r
}

// Set is a resolved seed set.
type Set struct {
	// Keys holds every seed key, sorted, including dangling ones.
	Keys []string
	// Dangling lists seed keys with no registry entry.
	Dangling []string
	// Years spans the seeds that are in the registry.
	Years YearRange
}

// Resolve builds the seed set from explicitly cited keys. Keys missing from
// the registry are kept as dangling seeds and do not affect the year range.
func Resolve(keys []string, reg *paper.Registry, logger *slog.Logger) Set {
	uniq := make(map[string]bool, len(keys))
	for _, k := range keys {
		uniq[k] = true
	}

	var s Set
	s.Keys = make([]string, 0, len(uniq))
	for k := range uniq {
		s.Keys = append(s.Keys, k)
	}
	sort.Strings(s.Keys)

	logger.Info("start keys", "count", len(s.Keys))
	for _, k := range s.Keys {
		logger.Info("start key", "key", k)
		p, ok := reg.Get(k)
		if !ok {
			logger.Warn("no information for start key", "key", k)
			s.Dangling = append(s.Dangling, k)
			continue
		}
		year, ok := p.YearAsInt()
		if !ok {
			logger.Warn("start key has no numeric year", "key", k, "year", p.Year)
			continue
		}
		s.Years = s.Years.Include(year)
	}

	if s.Years.Valid {
		logger.Info("year range", "earliest", s.Years.Earliest, "latest", s.Years.Latest)
	} else {
		logger.Info("year range is empty")
	}
	return s
}

// FromRegistry makes every registered paper a seed.
func FromRegistry(reg *paper.Registry, logger *slog.Logger) Set {
	return Resolve(reg.Keys(), reg, logger)
}
