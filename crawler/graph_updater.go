package crawler

import (
	"context"
	"time"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// Static and compile-time check to ensure graphUpdater implements
// Sink interface.
var _ Sink = (*graphUpdater)(nil)

type graphUpdater struct {
	graph MiniGraph
	now   func() time.Time
}

// NewGraphUpdaterSink returns a Sink that records every page and the links
// discovered on it in a link graph.
func NewGraphUpdaterSink(graph MiniGraph) Sink {
	return &graphUpdater{graph: graph, now: time.Now}
}

// Consume upserts the page link with its retrieval time, upserts the
// discovered links and no-follow links, creates edges from the page to the
// discovered links and removes stale edges originating from the page.
func (s *graphUpdater) Consume(_ context.Context, page *PageRecord) error {
	srcLink := &graph.Link{
		URL:         page.URL,
		RetrievedAt: page.CrawledAt,
	}

	if err := s.graph.UpsertLink(srcLink); err != nil {
		return err
	}

	// Upsert the discovered no-follow links without creating an edge that links
	// them with the source link.
	for _, url := range page.NoFollowLinks {
		if err := s.graph.UpsertLink(&graph.Link{URL: url}); err != nil {
			return err
		}
	}

	// Upsert discovered links and create edges for them. Keep track of
	// the current time so we can drop stale edges that have not been
	// updated after this loop.
	updatedBefore := s.now()
	for _, url := range page.Links {
		link := &graph.Link{URL: url}

		if err := s.graph.UpsertLink(link); err != nil {
			return err
		}

		if err := s.graph.UpsertEdge(&graph.Edge{
			Src:  srcLink.ID,
			Dest: link.ID,
		}); err != nil {
			return err
		}
	}

	return s.graph.RemoveStaleEdges(srcLink.ID, updatedBefore)
}
