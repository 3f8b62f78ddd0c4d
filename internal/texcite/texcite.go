// Package texcite finds the citation keys a LaTeX document refers to.
package texcite

import (
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// citePattern matches \cite and its natbib/biblatex variants (\citep,
// \citet*, \parencite, \nocite, ...) with up to two optional [..]
// arguments, capturing the comma-separated key list.
var citePattern = regexp.MustCompile(`\\[a-zA-Z]*cite[a-zA-Z]*\*?\s*(?:\[[^\]]*\]\s*){0,2}\{([^}]*)\}`)

// Keys returns the distinct citation keys cited in src, sorted.
// Text after an unescaped % on a line is ignored.
func Keys(src string) []string {
	seen := make(map[string]bool)
	for _, m := range citePattern.FindAllStringSubmatch(stripComments(src), -1) {
		for _, k := range strings.Split(m[1], ",") {
			k = strings.TrimSpace(k)
			if k != "" && k != "*" {
				seen[k] = true
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scan reads a LaTeX document from r and returns its citation keys.
func Scan(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Keys(string(data)), nil
}

// ScanFile returns the citation keys of the LaTeX document at path.
func ScanFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Scan(f)
}

func stripComments(src string) string {
	if !strings.Contains(src, "%") {
		return src
	}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			if line[j] == '%' && (j == 0 || line[j-1] != '\\') {
				lines[i] = line[:j]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
