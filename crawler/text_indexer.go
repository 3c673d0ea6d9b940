package crawler

import (
	"context"

	"github.com/mycok/uCrawl/textindexer/index"
)

// Static and compile-time check to ensure textIndexer implements
// Sink interface.
var _ Sink = (*textIndexer)(nil)

type textIndexer struct {
	indexer MiniIndexer
}

// NewTextIndexerSink returns a Sink that indexes the text of every stored
// page.
func NewTextIndexerSink(indexer MiniIndexer) Sink {
	return &textIndexer{indexer}
}

// Consume inserts / updates the index entry of a page. Pages without content
// are not indexed.
func (s *textIndexer) Consume(_ context.Context, page *PageRecord) error {
	if page.Path == "" {
		return nil
	}

	doc := &index.Document{
		PageID:    page.ID,
		URL:       page.URL,
		Title:     page.Title,
		Content:   page.Text,
		CrawledAt: page.CrawledAt,
	}

	return s.indexer.Index(doc)
}
