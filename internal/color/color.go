// Package color maps publication years onto a hue gradient.
package color

import (
	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/seed"
)

// Default hues: magenta for the earliest year, red for the latest.
const (
	DefaultEarliestHue = 0.83
	DefaultLatestHue   = 0.0
)

// HSV is a color in Graphviz's hue/saturation/value convention, each in [0,1].
type HSV struct {
	H, S, V float64
}

// Undated is used for papers whose year has no leading digits.
var Undated = HSV{H: 0, S: 0, V: 0.75}

// Mapper interpolates hue linearly across a year range.
type Mapper struct {
	years       seed.YearRange
	earliestHue float64
	latestHue   float64
}

// NewMapper creates a mapper over years.
func NewMapper(years seed.YearRange, earliestHue, latestHue float64) *Mapper {
	return &Mapper{years: years, earliestHue: earliestHue, latestHue: latestHue}
}

// ForYear returns the color of year. Years outside the range are clamped to
// its ends. A range of a single year, or no range at all, maps every year to
// the earliest hue.
func (m *Mapper) ForYear(year int) HSV {
	return HSV{H: m.hue(year), S: 1, V: 1}
}

// ForPaper returns the color of p, or Undated when p has no numeric year.
func (m *Mapper) ForPaper(p *paper.Paper) (c HSV, dated bool) {
	year, ok := p.YearAsInt()
	if !ok {
		return Undated, false
	}
	return m.ForYear(year), true
}

func (m *Mapper) hue(year int) float64 {
	span := m.years.Latest - m.years.Earliest
	if !m.years.Valid || span <= 0 {
		return m.earliestHue
	}
	ratio := float64(year-m.years.Earliest) / float64(span)
	switch {
	case ratio < 0:
		ratio = 0
	case ratio > 1:
		ratio = 1
	}
	return ratio*(m.latestHue-m.earliestHue) + m.earliestHue
}
