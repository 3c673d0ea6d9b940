// Package search runs queries against the text index of crawled pages and
// produces paginated results with highlighted summaries.
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/mycok/uCrawl/textindexer/index"
)

const (
	// DefaultResultsPerPage is used when Config.ResultsPerPage is unset.
	DefaultResultsPerPage = 10

	// DefaultMaxSummaryLength is used when Config.MaxSummaryLength is unset.
	DefaultMaxSummaryLength = 256
)

// ErrEmptyQuery is returned when the search terms are blank.
var ErrEmptyQuery = errors.New("search: empty query")

// Searcher should be implemented by objects that can query the text index.
type Searcher interface {
	Search(q index.Query) (index.Iterator, error)
}

// Config defines the behaviour of an Engine.
type Config struct {
	// An API for querying indexed pages.
	Index Searcher

	// Number of results returned per page.
	ResultsPerPage int

	// Maximum length of a result summary in characters.
	MaxSummaryLength int
}

func (cfg *Config) validate() error {
	var err error

	if cfg.Index == nil {
		err = multierror.Append(err, fmt.Errorf("text index not provided"))
	}

	if cfg.ResultsPerPage < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for results per page, must be >= 0"))
	} else if cfg.ResultsPerPage == 0 {
		cfg.ResultsPerPage = DefaultResultsPerPage
	}

	if cfg.MaxSummaryLength < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for max summary length, must be >= 0"))
	} else if cfg.MaxSummaryLength == 0 {
		cfg.MaxSummaryLength = DefaultMaxSummaryLength
	}

	return err
}

// Result is a single matched page.
type Result struct {
	// 1-based position of the result in the full result set.
	Rank int

	PageID    uuid.UUID
	URL       string
	Title     string
	CrawledAt time.Time

	// Sentences of the page that contain the search terms, with the
	// terms emphasised.
	Summary string
}

// Page is one page of search results.
type Page struct {
	Terms   string
	Results []Result

	// 1-based rank range of Results. Both are zero when Results is empty.
	From, To int

	// Approximate number of matching pages.
	Total uint64
}

// HasNext reports whether more results follow this page.
func (p *Page) HasNext() bool {
	return uint64(p.To) < p.Total
}

// Engine executes search queries.
type Engine struct {
	cfg Config
}

// New returns an Engine configured with cfg.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("search: config validation failed: %w", err)
	}

	return &Engine{cfg: cfg}, nil
}

// Search returns the results for terms starting at offset. Terms enclosed in
// double quotes are matched as a phrase.
func (e *Engine) Search(terms string, offset uint64) (*Page, error) {
	terms = strings.TrimSpace(terms)

	query := index.Query{
		Type:       index.QueryTypeMatch,
		Expression: terms,
		Offset:     offset,
	}

	if len(terms) > 1 && strings.HasPrefix(terms, `"`) && strings.HasSuffix(terms, `"`) {
		query.Type = index.QueryTypePhrase
		query.Expression = strings.Trim(terms, `"`)
	}

	if strings.TrimSpace(query.Expression) == "" {
		return nil, ErrEmptyQuery
	}

	docsIt, err := e.cfg.Index.Search(query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = docsIt.Close() }()

	summarizer := newMatchSummarizer(query.Expression, e.cfg.MaxSummaryLength)
	highlighter := newMatchHighlighter(query.Expression)

	page := &Page{
		Terms:   terms,
		Results: make([]Result, 0, e.cfg.ResultsPerPage),
	}

	for len(page.Results) < e.cfg.ResultsPerPage && docsIt.Next() {
		doc := docsIt.Document()
		page.Results = append(page.Results, Result{
			Rank:      int(offset) + len(page.Results) + 1,
			PageID:    doc.PageID,
			URL:       doc.URL,
			Title:     doc.Title,
			CrawledAt: doc.CrawledAt,
			Summary:   highlighter.Highlight(summarizer.Summary(doc.Content)),
		})
	}

	if err = docsIt.Error(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	page.Total = docsIt.TotalCount()
	if len(page.Results) > 0 {
		page.From = int(offset) + 1
		page.To = int(offset) + len(page.Results)
	}

	return page, nil
}
