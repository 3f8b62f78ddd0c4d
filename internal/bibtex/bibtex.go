// Package bibtex reads BibTeX databases in strict mode on top of
// github.com/nickng/bibtex. Entries come back with field values fully
// expanded (@string abbreviations and # concatenation resolved). Any parse
// error aborts the read.
package bibtex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	nbib "github.com/nickng/bibtex"
)

// Entry is one bibliographic record.
type Entry struct {
	Type   string            // entry type, lowercased (article, book, ...)
	Key    string            // citation key
	Fields map[string]string // field name (lowercased) -> expanded value
}

// Field returns the expanded value of a field and whether it is present.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.Fields[strings.ToLower(name)]
	return v, ok
}

// SyntaxError reports malformed input.
type SyntaxError struct {
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	return "bibtex: " + e.Msg
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// ErrUndefinedMacro is wrapped by errors for unknown @string abbreviations.
var ErrUndefinedMacro = errors.New("undefined string macro")

// ReadAll returns every entry in r, in file order.
func ReadAll(r io.Reader) ([]Entry, error) {
	db, err := nbib.Parse(r)
	if err != nil {
		return nil, &SyntaxError{Msg: err.Error(), Err: err}
	}
	entries := make([]Entry, 0, len(db.Entries))
	for _, be := range db.Entries {
		e := Entry{
			Type:   strings.ToLower(be.Type),
			Key:    strings.TrimSpace(be.CiteName),
			Fields: make(map[string]string, len(be.Fields)),
		}
		if e.Key == "" {
			return nil, &SyntaxError{Msg: fmt.Sprintf("missing citation key in @%s", e.Type)}
		}
		for name, value := range be.Fields {
			s, err := expand(value)
			if err != nil {
				return nil, &SyntaxError{
					Msg: fmt.Sprintf("entry %q field %q: %v", e.Key, name, err),
					Err: err,
				}
			}
			e.Fields[strings.ToLower(name)] = s
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadFile returns every entry in the database at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}

// expand flattens a parsed value, refusing abbreviations that were never
// defined with @string.
func expand(s nbib.BibString) (string, error) {
	switch v := s.(type) {
	case nil:
		return "", nil
	case *nbib.BibVar:
		if v.Value == nil {
			return "", fmt.Errorf("%w: %s", ErrUndefinedMacro, v.Key)
		}
		return expand(v.Value)
	case *nbib.BibComposite:
		var b strings.Builder
		for _, part := range *v {
			p, err := expand(part)
			if err != nil {
				return "", err
			}
			b.WriteString(p)
		}
		return b.String(), nil
	default:
		return s.String(), nil
	}
}

// StripBraces removes unescaped grouping braces, so that "{DNA} repair"
// becomes "DNA repair".
func StripBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '{' || c == '}') && (i == 0 || s[i-1] != '\\') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
