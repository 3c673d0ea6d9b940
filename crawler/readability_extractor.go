package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Static and compile-time check to ensure ReadabilityExtractor implements
// ContentExtractor interface.
var _ ContentExtractor = (*ReadabilityExtractor)(nil)

var (
	blockElements     = "p, div, section, article, li, dt, dd, pre, blockquote, tr, h1, h2, h3, h4, h5, h6, br, hr, table, ul, ol, dl"
	inlineSpaceRegex  = regexp.MustCompile(`[ \t\f\r\v]+`)
	blankLinesRegex   = regexp.MustCompile(`\n{3,}`)
	boilerplateFilter = "script, style, noscript, nav, header, footer, aside, form, [role=navigation], [aria-hidden=true]"
)

// ReadabilityExtractor detects the main content of a documentation page and
// renders it as plain text, keeping paragraphs and list items on their own
// lines.
type ReadabilityExtractor struct {
	// Pages with less text than MinTextLength are reported as having no
	// content.
	MinTextLength int
}

// NewReadabilityExtractor returns a ReadabilityExtractor.
func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{}
}

// Extract runs readability on body. When readability cannot find an article,
// the text of the document body without navigation chrome is used instead.
func (e *ReadabilityExtractor) Extract(body []byte, pageURL *url.URL) (*Content, error) {
	var (
		title, articleHTML string
	)

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		title, articleHTML = article.Title, article.Content
	}

	var text string
	if strings.TrimSpace(articleHTML) != "" {
		if text, err = blockText(articleHTML, ""); err != nil {
			return nil, fmt.Errorf("readability extractor: %w", err)
		}
	}

	if text == "" {
		if text, err = blockText(string(body), boilerplateFilter); err != nil {
			return nil, fmt.Errorf("readability extractor: %w", err)
		}
	}

	if title == "" {
		if doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(body)); docErr == nil {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}

	if len(text) < e.MinTextLength {
		return nil, nil
	}

	return &Content{Title: strings.Join(strings.Fields(title), " "), Text: text}, nil
}

// blockText renders the text of an html fragment, placing block level
// elements on separate lines. Elements matched by drop are removed first.
func blockText(fragment, drop string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	root := doc.Selection
	if body := doc.Find("body"); body.Length() > 0 {
		root = body
	}

	root.Find("script, style, noscript, template").Remove()
	if drop != "" {
		root.Find(drop).Remove()
	}

	root.Find(blockElements).Each(func(_ int, sel *goquery.Selection) {
		sel.BeforeHtml("\n")
		sel.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(root.Text(), "\n") {
		lines = append(lines, strings.TrimSpace(inlineSpaceRegex.ReplaceAllString(line, " ")))
	}

	text := blankLinesRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(text), nil
}
