// Package graphtest holds the tests shared by every graph.Graph
// implementation. A store test suite embeds BaseSuite and calls SetGraph
// from its SetUpTest method.
package graphtest

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// BaseSuite runs the shared tests against the graph passed to SetGraph.
type BaseSuite struct {
	g graph.Graph
}

// SetGraph sets the graph under test.
func (s *BaseSuite) SetGraph(g graph.Graph) {
	s.g = g
}

// upsertPages inserts n never-crawled links and returns their ids in
// insertion order.
func (s *BaseSuite) upsertPages(c *check.C, n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		l := &graph.Link{URL: pageURL(i)}
		c.Assert(s.g.UpsertLink(l), check.IsNil)

		ids[i] = l.ID
	}

	return ids
}

func (s *BaseSuite) linkIDs(c *check.C, retrievedBefore time.Time) []uuid.UUID {
	it, err := s.g.Links(retrievedBefore)
	c.Assert(err, check.IsNil)

	var ids []uuid.UUID
	for it.Next() {
		ids = append(ids, it.Link().ID)
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return ids
}

func (s *BaseSuite) edgeIDs(c *check.C, src uuid.UUID) []uuid.UUID {
	it, err := s.g.Edges(src)
	c.Assert(err, check.IsNil)

	var ids []uuid.UUID
	for it.Next() {
		ids = append(ids, it.Edge().ID)
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return ids
}

func pageURL(i int) string {
	return fmt.Sprintf("https://docs.example.com/page-%03d.html", i)
}

// assertSameIDs compares got and want ignoring order.
func assertSameIDs(c *check.C, got, want []uuid.UUID, comment ...interface{}) {
	byString := func(ids []uuid.UUID) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = id.String()
		}
		sort.Strings(out)

		return out
	}

	args := append([]interface{}{byString(want)}, comment...)
	c.Assert(byString(got), check.DeepEquals, args...)
}

// assertNoDuplicates fails when ids holds the same id twice.
func assertNoDuplicates(c *check.C, ids []uuid.UUID, comment check.CommentInterface) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		_, dup := seen[id]
		c.Assert(dup, check.Equals, false, comment)

		seen[id] = struct{}{}
	}
}

// concurrently runs fn on n goroutines and fails the test if they do not
// all return within ten seconds.
func concurrently(c *check.C, n int, fn func(worker int)) {
	var wg sync.WaitGroup

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(worker int) {
			defer wg.Done()
			fn(worker)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		c.Fatal("timed out waiting for concurrent iterators")
	}
}
