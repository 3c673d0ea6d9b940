package cdb

import (
	"database/sql"
	"fmt"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// Static and compile-time checks to ensure the iterators implement the
// graph iterator interfaces.
var (
	_ graph.LinkIterator = (*linkIterator)(nil)
	_ graph.EdgeIterator = (*edgeIterator)(nil)
)

// rowIterator decodes one item per result row with scan. Scanning stops at
// the first error, which is then reported by Error.
type rowIterator[T any] struct {
	name    string
	rows    *sql.Rows
	scan    func(*sql.Rows) (*T, error)
	current *T
	lastErr error
}

// Next loads the next row and reports whether it was decoded.
func (it *rowIterator[T]) Next() bool {
	if it.lastErr != nil || !it.rows.Next() {
		return false
	}

	it.current, it.lastErr = it.scan(it.rows)

	return it.lastErr == nil
}

// Error returns the first scan or row error.
func (it *rowIterator[T]) Error() error {
	if it.lastErr != nil {
		return it.lastErr
	}

	return it.rows.Err()
}

// Close releases the result set.
func (it *rowIterator[T]) Close() error {
	if err := it.rows.Close(); err != nil {
		return fmt.Errorf("%s iterator: %w", it.name, err)
	}

	return nil
}

type linkIterator struct {
	rowIterator[graph.Link]
}

func newLinkIterator(rows *sql.Rows) *linkIterator {
	return &linkIterator{rowIterator[graph.Link]{name: "link", rows: rows, scan: scanLink}}
}

// Link returns the current link.
func (i *linkIterator) Link() *graph.Link {
	return i.current
}

type edgeIterator struct {
	rowIterator[graph.Edge]
}

func newEdgeIterator(rows *sql.Rows) *edgeIterator {
	return &edgeIterator{rowIterator[graph.Edge]{name: "edge", rows: rows, scan: scanEdge}}
}

// Edge returns the current edge.
func (i *edgeIterator) Edge() *graph.Edge {
	return i.current
}

// Timestamps come back in the session time zone and are normalised to UTC.
func scanLink(rows *sql.Rows) (*graph.Link, error) {
	l := new(graph.Link)
	if err := rows.Scan(&l.ID, &l.URL, &l.RetrievedAt); err != nil {
		return nil, err
	}
	l.RetrievedAt = l.RetrievedAt.UTC()

	return l, nil
}

func scanEdge(rows *sql.Rows) (*graph.Edge, error) {
	e := new(graph.Edge)
	if err := rows.Scan(&e.ID, &e.Src, &e.Dest, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.UpdatedAt = e.UpdatedAt.UTC()

	return e, nil
}
