// Package graph describes the link graph built during a crawl. Every page
// the crawler visits becomes a Link and every followed same-origin link
// found on it becomes an Edge.
package graph

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by FindLink for unknown ids.
	ErrNotFound = errors.New("not found")

	// ErrUnknownEdgeLinks is returned by UpsertEdge when either endpoint
	// is not a stored link.
	ErrUnknownEdgeLinks = errors.New("edge references an unknown link")
)

// Graph is implemented by link graph stores.
type Graph interface {
	// UpsertLink stores link keyed by its URL and sets link.ID. The stored
	// RetrievedAt is the later of the stored and the given value.
	UpsertLink(link *Link) error

	// FindLink returns the link with the given id or ErrNotFound.
	FindLink(id uuid.UUID) (*Link, error)

	// Links iterates the links retrieved before retrievedBefore. Links that
	// were never retrieved always qualify.
	Links(retrievedBefore time.Time) (LinkIterator, error)

	// UpsertEdge stores edge keyed by its endpoints and sets edge.ID and
	// edge.UpdatedAt. Both endpoints must exist.
	UpsertEdge(edge *Edge) error

	// RemoveStaleEdges drops the edges leaving fromID that were last
	// updated before updatedBefore.
	RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error

	// Edges iterates the edges leaving src.
	Edges(src uuid.UUID) (EdgeIterator, error)
}

// LinkIterator walks a set of links.
type LinkIterator interface {
	Iterator

	// Link returns the link the last successful Next moved to.
	Link() *Link
}

// EdgeIterator walks a set of edges.
type EdgeIterator interface {
	Iterator

	// Edge returns the edge the last successful Next moved to.
	Edge() *Edge
}

// Iterator holds the methods shared by LinkIterator and EdgeIterator.
type Iterator interface {
	// Next advances the iterator. It returns false once the set is
	// exhausted or an error occurred.
	Next() bool

	// Error returns the error that stopped the iteration, if any.
	Error() error

	// Close releases the iterator.
	Close() error
}

// Link is a canonical page URL known to the graph.
type Link struct {
	ID          uuid.UUID
	URL         string
	RetrievedAt time.Time // zero until the page has been crawled
}

// Edge records that the page Src links to the page Dest.
type Edge struct {
	ID        uuid.UUID
	Src       uuid.UUID
	Dest      uuid.UUID
	UpdatedAt time.Time
}
