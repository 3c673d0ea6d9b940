// Package index describes the full-text index of crawled pages and the
// queries it answers.
package index

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by FindByID for page ids with no document.
	ErrNotFound = errors.New("not found")

	// ErrMissingPageID is returned when indexing a document whose PageID
	// is the nil uuid.
	ErrMissingPageID = errors.New("document has no page id")
)

// Indexer is implemented by the full-text index stores.
type Indexer interface {
	// Index stores doc, replacing any document with the same PageID.
	Index(doc *Document) error

	// FindByID returns the document stored for pageID or ErrNotFound.
	FindByID(pageID uuid.UUID) (*Document, error)

	// Search runs q. Results are ordered by relevance and ties are broken
	// by url.
	Search(q Query) (Iterator, error)
}

// Iterator walks the results of a search.
type Iterator interface {
	// Next advances to the next result. It returns false once the results
	// are exhausted or an error occurred.
	Next() bool

	// Error returns the error that stopped the iteration, if any.
	Error() error

	// Close releases the iterator.
	Close() error

	// Document returns the result the last successful Next moved to.
	Document() *Document

	// TotalCount returns the number of matches, which some stores only
	// estimate.
	TotalCount() uint64
}

// QueryType selects how a Query expression is matched.
type QueryType uint8

const (
	// QueryTypeMatch matches documents containing any of the terms.
	QueryTypeMatch QueryType = iota

	// QueryTypePhrase matches documents containing the terms in order.
	QueryTypePhrase
)

// Query is a search request.
type Query struct {
	Type       QueryType
	Expression string

	// Number of leading results to skip.
	Offset uint64
}
