package crawler

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mycok/uCrawl/fetcher"
	"github.com/mycok/uCrawl/linkgraph/graph"
	"github.com/mycok/uCrawl/pagestore"
	"github.com/mycok/uCrawl/textindexer/index"
)

//go:generate mockgen -package mocks -destination mocks/mock.go github.com/mycok/uCrawl/crawler URLGetter,PrivateNetworkDetector,ContentExtractor,PageStore,Sink,MiniGraph,MiniIndexer

// URLGetter fetches a URL on behalf of a user agent.
type URLGetter interface {
	Fetch(ctx context.Context, rawURL, userAgent string) (*fetcher.Result, error)
}

// PrivateNetworkDetector reports whether a host resolves to a private
// network address.
type PrivateNetworkDetector interface {
	IsNetworkPrivate(address string) (bool, error)
}

// Content is the readable part of a page.
type Content struct {
	Title string
	Text  string
}

// ContentExtractor turns a raw html page into readable text. A nil Content or one with empty Text signals that
// the page has no extractable content.
type ContentExtractor interface {
	Extract(body []byte, pageURL *url.URL) (*Content, error)
}

// PageStore persists extracted page content and returns the location it
// was written to.
type PageStore interface {
	Store(ctx context.Context, rec *pagestore.Record) (string, error)
}

// Sink observes every page the crawler stores. Sink errors are logged and never stop a crawl.
type Sink interface {
	Consume(ctx context.Context, page *PageRecord) error
}

// MiniGraph is the write side of graph.Graph used by the graph sink.
type MiniGraph interface {
	UpsertLink(link *graph.Link) error
	UpsertEdge(edge *graph.Edge) error
	RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error
}

// MiniIndexer is the write side of index.Indexer used by the index sink.
type MiniIndexer interface {
	Index(doc *index.Document) error
}
