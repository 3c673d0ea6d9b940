package crawler

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Static and compile-time check to ensure StrictExtractor implements
// ContentExtractor interface.
var _ ContentExtractor = (*StrictExtractor)(nil)

var (
	titleRegex         = regexp.MustCompile(`(?is)<title.*?>(.*?)</title>`)
	repeatedSpaceRegex = regexp.MustCompile(`\s+`)
)

// StrictExtractor strips every html tag from a page and keeps the remaining
// text on a single line. It performs no boilerplate removal.
type StrictExtractor struct {
	policyPool sync.Pool
}

// NewStrictExtractor returns a StrictExtractor.
func NewStrictExtractor() *StrictExtractor {
	return &StrictExtractor{
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// Extract returns the page title and its text content stripped of all HTML
// tags and unnecessary white spaces.
func (e *StrictExtractor) Extract(body []byte, _ *url.URL) (*Content, error) {
	policy := e.policyPool.Get().(*bluemonday.Policy)
	defer e.policyPool.Put(policy)

	content := new(Content)

	// Note: len(titleMatch) always returns 2 or nil even when no submatch
	// match is found. this is because an empty string is always returned as a
	// place-holder.
	if titleMatch := titleRegex.FindSubmatch(body); len(titleMatch) == 2 {
		content.Title = normalizeSpace(policy.SanitizeBytes(titleMatch[1]))
	}

	content.Text = normalizeSpace(policy.SanitizeReader(bytes.NewReader(body)).Bytes())

	return content, nil
}

func normalizeSpace(b []byte) string {
	clean := repeatedSpaceRegex.ReplaceAllString(string(b), " ")

	return strings.TrimSpace(html.UnescapeString(clean))
}
