package graphtest

import (
	"errors"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// TestEdgeUpsert checks that an edge is unique per link pair and that
// both of its links must exist.
func (s *BaseSuite) TestEdgeUpsert(c *check.C) {
	ids := s.upsertPages(c, 2)

	first := &graph.Edge{Src: ids[0], Dest: ids[1]}
	c.Assert(s.g.UpsertEdge(first), check.IsNil)
	c.Assert(first.ID, check.Not(check.Equals), uuid.Nil)
	c.Assert(first.UpdatedAt.IsZero(), check.Equals, false)

	again := &graph.Edge{Src: ids[0], Dest: ids[1]}
	c.Assert(s.g.UpsertEdge(again), check.IsNil)
	c.Assert(again.ID, check.Equals, first.ID, check.Commentf("same link pair got a new edge"))
	c.Assert(again.UpdatedAt.Before(first.UpdatedAt), check.Equals, false)

	err := s.g.UpsertEdge(&graph.Edge{Src: ids[0], Dest: uuid.New()})
	c.Assert(errors.Is(err, graph.ErrUnknownEdgeLinks), check.Equals, true)
}

func (s *BaseSuite) TestConcurrentEdgeIterators(c *check.C) {
	const numEdges = 100

	ids := s.upsertPages(c, numEdges+1)
	for _, dest := range ids[1:] {
		c.Assert(s.g.UpsertEdge(&graph.Edge{Src: ids[0], Dest: dest}), check.IsNil)
	}

	concurrently(c, 10, func(worker int) {
		comment := check.Commentf("iterator %d", worker)

		edges := s.edgeIDs(c, ids[0])
		c.Assert(edges, check.HasLen, numEdges, comment)
		assertNoDuplicates(c, edges, comment)
	})
}

// TestEdgesBySource checks that Edges only returns the edges leaving the
// requested link.
func (s *BaseSuite) TestEdgesBySource(c *check.C) {
	ids := s.upsertPages(c, 4)

	var fromFirst []uuid.UUID
	for _, dest := range ids[1:] {
		e := &graph.Edge{Src: ids[0], Dest: dest}
		c.Assert(s.g.UpsertEdge(e), check.IsNil)

		fromFirst = append(fromFirst, e.ID)
	}

	back := &graph.Edge{Src: ids[1], Dest: ids[0]}
	c.Assert(s.g.UpsertEdge(back), check.IsNil)

	assertSameIDs(c, s.edgeIDs(c, ids[0]), fromFirst)
	assertSameIDs(c, s.edgeIDs(c, ids[1]), []uuid.UUID{back.ID})
	c.Assert(s.edgeIDs(c, ids[3]), check.HasLen, 0)
}

// TestRemoveStaleEdges checks that only edges older than the cut-off are
// dropped.
func (s *BaseSuite) TestRemoveStaleEdges(c *check.C) {
	const numEdges = 50

	ids := s.upsertPages(c, 2*numEdges+1)
	src, oldDests, newDests := ids[0], ids[1:numEdges+1], ids[numEdges+1:]

	var lastOld time.Time
	for _, dest := range oldDests {
		e := &graph.Edge{Src: src, Dest: dest}
		c.Assert(s.g.UpsertEdge(e), check.IsNil)

		lastOld = e.UpdatedAt
	}

	cutoff := lastOld.Add(time.Millisecond)
	time.Sleep(250 * time.Millisecond)

	var kept []uuid.UUID
	for _, dest := range newDests {
		e := &graph.Edge{Src: src, Dest: dest}
		c.Assert(s.g.UpsertEdge(e), check.IsNil)

		kept = append(kept, e.ID)
	}

	c.Assert(s.g.RemoveStaleEdges(src, cutoff), check.IsNil)
	assertSameIDs(c, s.edgeIDs(c, src), kept)
}
