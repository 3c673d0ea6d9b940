package graphtest

import (
	"errors"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// TestLinkUpsert checks that links are keyed by URL and that RetrievedAt
// only ever moves forward.
func (s *BaseSuite) TestLinkUpsert(c *check.C) {
	discovered := &graph.Link{
		URL:         "https://docs.example.com/",
		RetrievedAt: time.Now().Add(-10 * time.Hour),
	}
	c.Assert(s.g.UpsertLink(discovered), check.IsNil)
	c.Assert(discovered.ID, check.Not(check.Equals), uuid.Nil)

	crawledAt := time.Now().Truncate(time.Second).UTC()
	crawled := &graph.Link{URL: discovered.URL, RetrievedAt: crawledAt}
	c.Assert(s.g.UpsertLink(crawled), check.IsNil)
	c.Assert(crawled.ID, check.Equals, discovered.ID, check.Commentf("same URL got a new id"))

	stored, err := s.g.FindLink(discovered.ID)
	c.Assert(err, check.IsNil)
	c.Assert(stored.RetrievedAt, check.Equals, crawledAt)

	stale := &graph.Link{URL: discovered.URL, RetrievedAt: crawledAt.Add(-time.Hour)}
	c.Assert(s.g.UpsertLink(stale), check.IsNil)
	c.Assert(stale.ID, check.Equals, discovered.ID)

	stored, err = s.g.FindLink(discovered.ID)
	c.Assert(err, check.IsNil)
	c.Assert(stored.RetrievedAt, check.Equals, crawledAt, check.Commentf("older upsert moved RetrievedAt back"))
}

func (s *BaseSuite) TestFindLink(c *check.C) {
	link := &graph.Link{
		URL:         "https://docs.example.com/guide/",
		RetrievedAt: time.Now().Truncate(time.Second).UTC(),
	}
	c.Assert(s.g.UpsertLink(link), check.IsNil)

	got, err := s.g.FindLink(link.ID)
	c.Assert(err, check.IsNil)
	c.Assert(got, check.DeepEquals, link)

	_, err = s.g.FindLink(uuid.New())
	c.Assert(errors.Is(err, graph.ErrNotFound), check.Equals, true)
}

func (s *BaseSuite) TestConcurrentLinkIterators(c *check.C) {
	const numLinks = 100

	s.upsertPages(c, numLinks)

	concurrently(c, 10, func(worker int) {
		comment := check.Commentf("iterator %d", worker)

		ids := s.linkIDs(c, time.Now())
		c.Assert(ids, check.HasLen, numLinks, comment)
		assertNoDuplicates(c, ids, comment)
	})
}

// TestLinkIteratorTimeFilter checks that Links only returns the links
// retrieved before the cut-off.
func (s *BaseSuite) TestLinkIteratorTimeFilter(c *check.C) {
	var (
		ids     []uuid.UUID
		cutoffs []time.Time
	)

	for i := 0; i < 3; i++ {
		l := &graph.Link{URL: pageURL(i), RetrievedAt: time.Now()}
		c.Assert(s.g.UpsertLink(l), check.IsNil)

		ids = append(ids, l.ID)
		cutoffs = append(cutoffs, time.Now())
	}

	for i, cutoff := range cutoffs {
		assertSameIDs(c, s.linkIDs(c, cutoff), ids[:i+1], check.Commentf("cut-off after link %d", i))
	}
}

// TestLinksNeverRetrieved checks that discovered but never crawled links
// pass every cut-off.
func (s *BaseSuite) TestLinksNeverRetrieved(c *check.C) {
	crawled := &graph.Link{
		URL:         "https://docs.example.com/",
		RetrievedAt: time.Now().Add(-time.Minute),
	}
	c.Assert(s.g.UpsertLink(crawled), check.IsNil)

	discovered := &graph.Link{URL: "https://docs.example.com/guide/"}
	c.Assert(s.g.UpsertLink(discovered), check.IsNil)

	assertSameIDs(c, s.linkIDs(c, time.Now()), []uuid.UUID{crawled.ID, discovered.ID})
	assertSameIDs(c, s.linkIDs(c, time.Now().Add(-time.Hour)), []uuid.UUID{discovered.ID})
}
