// Package paper defines the bibliographic records a citation graph is built from.
package paper

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Document and cached-text extensions, relative to the document directory.
const (
	DocumentExt = ".pdf"
	TextExt     = ".txt"
)

// Paper is a bibliography entry with a title and a year.
// Identity is the citation key alone.
type Paper struct {
	Key   string
	Title string
	Year  string

	docDir string
}

// New creates a paper whose documents live in docDir.
func New(key, title, year, docDir string) *Paper {
	return &Paper{Key: key, Title: title, Year: year, docDir: docDir}
}

// YearAsInt returns the leading run of digits in Year.
// ok is false when Year does not start with a digit or the digits do not
// fit in an int.
func (p *Paper) YearAsInt() (year int, ok bool) {
	n := 0
	for n < len(p.Year) && p.Year[n] >= '0' && p.Year[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(p.Year[:n])
	if err != nil {
		return 0, false
	}
	return year, true
}

// DocumentPath is where the paper's PDF is expected: <dir>/<key>.pdf.
func (p *Paper) DocumentPath() string {
	return filepath.Join(p.docDir, p.Key+DocumentExt)
}

// TextPath is where the extracted plain text is cached: <dir>/<key>.txt.
func (p *Paper) TextPath() string {
	return filepath.Join(p.docDir, p.Key+TextExt)
}

func (p *Paper) String() string {
	return fmt.Sprintf("%s [%s] '%s'", p.Key, p.Year, p.Title)
}
