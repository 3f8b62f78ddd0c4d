package match

import (
	"regexp"
	"strings"
)

// whitespaceRun matches the gap between two title words in extracted text:
// line breaks, page breaks, runs of spaces and non-breaking spaces.
const whitespaceRun = `[\s\p{Zs}]+`

// TitlePattern builds a case-insensitive pattern for title. Each whitespace
// run in the title matches one or more whitespace characters in the text;
// every other character matches literally. ok is false for titles with no
// words, which must never match.
func TitlePattern(title string) (re *regexp.Regexp, ok bool) {
	words := strings.Fields(title)
	if len(words) == 0 {
		return nil, false
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?im)` + strings.Join(words, whitespaceRun)), true
}
