package memory

import (
	"sync"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// Static and compile-time checks to ensure the iterators implement the
// graph iterator interfaces.
var (
	_ graph.LinkIterator = (*linkIterator)(nil)
	_ graph.EdgeIterator = (*edgeIterator)(nil)
)

// snapshotIterator walks the items that matched a query when the iterator
// was created. Upserts modify items in place, so every item is copied under
// the graph read lock before it is handed out.
type snapshotIterator[T any] struct {
	mu    *sync.RWMutex
	items []*T
	pos   int
}

// Next advances the iterator and reports whether an item is available.
func (it *snapshotIterator[T]) Next() bool {
	if it.pos >= len(it.items) {
		return false
	}

	it.pos++

	return true
}

// Error always returns nil.
func (it *snapshotIterator[T]) Error() error {
	return nil
}

// Close drops the snapshot.
func (it *snapshotIterator[T]) Close() error {
	it.items, it.pos = nil, 0

	return nil
}

func (it *snapshotIterator[T]) current() *T {
	it.mu.RLock()
	defer it.mu.RUnlock()

	item := *it.items[it.pos-1]

	return &item
}

type linkIterator struct {
	snapshotIterator[graph.Link]
}

func newLinkIterator(mu *sync.RWMutex, links []*graph.Link) *linkIterator {
	return &linkIterator{snapshotIterator[graph.Link]{mu: mu, items: links}}
}

// Link returns a copy of the current link.
func (i *linkIterator) Link() *graph.Link {
	return i.current()
}

type edgeIterator struct {
	snapshotIterator[graph.Edge]
}

func newEdgeIterator(mu *sync.RWMutex, edges []*graph.Edge) *edgeIterator {
	return &edgeIterator{snapshotIterator[graph.Edge]{mu: mu, items: edges}}
}

// Edge returns a copy of the current edge.
func (i *edgeIterator) Edge() *graph.Edge {
	return i.current()
}
