package search

import (
	"fmt"
	"regexp"
	"strings"
)

// matchHighlighter wraps every occurrence of a search term in markdown
// emphasis.
type matchHighlighter struct {
	termRegexp *regexp.Regexp
}

func newMatchHighlighter(searchTerms string) *matchHighlighter {
	var quoted []string
	for _, term := range strings.Fields(strings.Trim(searchTerms, `"`)) {
		quoted = append(quoted, regexp.QuoteMeta(term))
	}

	if len(quoted) == 0 {
		return &matchHighlighter{}
	}

	return &matchHighlighter{
		termRegexp: regexp.MustCompile(fmt.Sprintf(`(?i)\b(%s)\b`, strings.Join(quoted, "|"))),
	}
}

// Highlight returns text with the matched terms emphasised.
func (h *matchHighlighter) Highlight(text string) string {
	if h.termRegexp == nil {
		return text
	}

	return h.termRegexp.ReplaceAllString(text, "**$1**")
}
