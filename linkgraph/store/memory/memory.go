package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// Static and compile-time check to ensure InMemoryGraph implements
// Graph interface.
var _ graph.Graph = (*InMemoryGraph)(nil)

// edgeKey identifies an edge by its endpoints. A graph holds at most one
// edge per pair.
type edgeKey struct {
	src, dest uuid.UUID
}

// InMemoryGraph keeps links and edges in maps guarded by a single
// read/write lock. It is safe for concurrent use.
type InMemoryGraph struct {
	mu sync.RWMutex

	links map[uuid.UUID]*graph.Link
	byURL map[string]*graph.Link

	edges map[edgeKey]*graph.Edge
	// Outgoing edge keys per source link in insertion order.
	outgoing map[uuid.UUID][]edgeKey
}

// NewInMemoryGraph creates an empty in-memory link graph.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{
		links:    make(map[uuid.UUID]*graph.Link),
		byURL:    make(map[string]*graph.Link),
		edges:    make(map[edgeKey]*graph.Edge),
		outgoing: make(map[uuid.UUID][]edgeKey),
	}
}

// UpsertLink inserts link or, when its URL is already known, merges it into
// the stored link. The stored RetrievedAt never moves backwards. On return
// link.ID holds the stored id.
func (s *InMemoryGraph) UpsertLink(link *graph.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.byURL[link.URL]; ok {
		link.ID = stored.ID
		if link.RetrievedAt.After(stored.RetrievedAt) {
			stored.RetrievedAt = link.RetrievedAt
		}

		return nil
	}

	link.ID = uuid.New()

	stored := *link
	s.links[stored.ID] = &stored
	s.byURL[stored.URL] = &stored

	return nil
}

// FindLink returns a copy of the link with the given id.
func (s *InMemoryGraph) FindLink(id uuid.UUID) (*graph.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("find link: %w", graph.ErrNotFound)
	}

	link := *stored

	return &link, nil
}

// Links returns an iterator over the links retrieved before
// retrievedBefore. Links that were never retrieved are always included.
func (s *InMemoryGraph) Links(retrievedBefore time.Time) (graph.LinkIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*graph.Link
	for _, link := range s.links {
		if link.RetrievedAt.Before(retrievedBefore) {
			matched = append(matched, link)
		}
	}

	return newLinkIterator(&s.mu, matched), nil
}

// UpsertEdge inserts edge or refreshes the UpdatedAt time of the existing
// edge between the same links. On return edge holds the stored values.
// Both endpoints must already exist.
func (s *InMemoryGraph) UpsertEdge(edge *graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.links[edge.Src] == nil || s.links[edge.Dest] == nil {
		return fmt.Errorf("upsert edge: %w", graph.ErrUnknownEdgeLinks)
	}

	key := edgeKey{src: edge.Src, dest: edge.Dest}
	if stored, ok := s.edges[key]; ok {
		stored.UpdatedAt = time.Now()
		*edge = *stored

		return nil
	}

	edge.ID = uuid.New()
	edge.UpdatedAt = time.Now()

	stored := *edge
	s.edges[key] = &stored
	s.outgoing[key.src] = append(s.outgoing[key.src], key)

	return nil
}

// RemoveStaleEdges drops the edges leaving fromID whose UpdatedAt is before
// updatedBefore.
func (s *InMemoryGraph) RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.outgoing[fromID][:0]
	for _, key := range s.outgoing[fromID] {
		if s.edges[key].UpdatedAt.Before(updatedBefore) {
			delete(s.edges, key)

			continue
		}

		kept = append(kept, key)
	}

	if len(kept) == 0 {
		delete(s.outgoing, fromID)
	} else {
		s.outgoing[fromID] = kept
	}

	return nil
}

// Edges returns an iterator over the edges leaving src.
func (s *InMemoryGraph) Edges(src uuid.UUID) (graph.EdgeIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.outgoing[src]
	list := make([]*graph.Edge, 0, len(keys))
	for _, key := range keys {
		list = append(list, s.edges[key])
	}

	return newEdgeIterator(&s.mu, list), nil
}
