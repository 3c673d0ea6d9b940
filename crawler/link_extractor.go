package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcludePaths lists path fragments of documentation build artifacts
// that never hold readable pages.
var DefaultExcludePaths = []string{"/_sources/", "/_static/"}

// LinkExtractor scans the body of a retrieved html document and extracts the
// same-origin links embedded in it.
type LinkExtractor struct {
	excludePaths []string
	htmlOnly     bool
}

// NewLinkExtractor returns a LinkExtractor that drops links whose path
// contains any of excludePaths. When htmlOnly is set, only links whose path
// ends in ".html" or "/" are retained.
func NewLinkExtractor(excludePaths []string, htmlOnly bool) *LinkExtractor {
	return &LinkExtractor{
		excludePaths: append([]string(nil), excludePaths...),
		htmlOnly:     htmlOnly,
	}
}

// Extract parses body and returns the canonical form of every link that
// shares origin with pageURL, in document order and without duplicates.
// Links carrying rel="nofollow" are returned separately. A <base href>
// element, when present, is used to resolve relative links.
func (e *LinkExtractor) Extract(body []byte, pageURL *url.URL) (links, noFollow []*url.URL, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	relativeTo := pageURL
	if href, exists := doc.Find("base[href]").First().Attr("href"); exists {
		if baseURL := resolveToAbsoluteURL(pageURL, strings.TrimSpace(href)); baseURL != nil {
			relativeTo = baseURL
		}
	}

	srcOrigin := origin(Canonicalize(pageURL))
	seen := make(map[string]struct{})

	doc.Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")

		parsedURL := resolveToAbsoluteURL(relativeTo, strings.TrimSpace(href))
		if parsedURL == nil {
			return
		}

		canonical := Canonicalize(parsedURL)
		if !e.shouldRetainURL(srcOrigin, canonical) {
			return
		}

		key := canonical.String()
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}

		if isNoFollow(sel) {
			noFollow = append(noFollow, canonical)
		} else {
			links = append(links, canonical)
		}
	})

	return links, noFollow, nil
}

func (e *LinkExtractor) shouldRetainURL(srcOrigin string, u *url.URL) bool {
	// Skip links with non HTTP(S) schemes.
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	// Same-origin crawl only.
	if origin(u) != srcOrigin {
		return false
	}

	// Skip links that point to files that don't contain html content.
	if exclusionRegex.MatchString(u.Path) {
		return false
	}

	for _, fragment := range e.excludePaths {
		if fragment != "" && strings.Contains(u.Path, fragment) {
			return false
		}
	}

	if e.htmlOnly {
		return strings.HasSuffix(u.Path, ".html") || strings.HasSuffix(u.Path, "/")
	}

	return true
}

func isNoFollow(sel *goquery.Selection) bool {
	rel, _ := sel.Attr("rel")
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == "nofollow" {
			return true
		}
	}

	return false
}

// resolveToAbsoluteURL expands target into an absolute URL using the following
// rules:
//   - targets starting with '//' are treated as absolute URLs that inherit
//     the protocol / scheme from relativeTo.
//   - all other targets are assumed to be relative to relativeTo.
//
// If the target URL cannot be parsed, a nil URL will be returned.
func resolveToAbsoluteURL(relativeTo *url.URL, target string) *url.URL {
	targetLength := len(target)
	// Check if the target is an empty string.
	if targetLength == 0 {
		return nil
	}

	// Check for network path references. ["//example.com"]
	if targetLength >= 2 && target[0] == '/' && target[1] == '/' {
		target = relativeTo.Scheme + ":" + target
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return nil
	}

	return relativeTo.ResolveReference(parsedURL)
}
