// Package indextest holds the tests shared by every index.Indexer
// implementation. A store test suite embeds BaseSuite and calls SetIndex
// before the tests run.
package indextest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/textindexer/index"
)

const defaultContent = "Read the installation guide before you configure the widget"

// BaseSuite runs the shared tests against the indexer passed to SetIndex.
type BaseSuite struct {
	idx index.Indexer
}

// SetIndex sets the indexer under test.
func (s *BaseSuite) SetIndex(idx index.Indexer) {
	s.idx = idx
}

// TestIndexReplacesDocument checks that indexing a known page id replaces
// the stored document, including its searchable text.
func (s *BaseSuite) TestIndexReplacesDocument(c *check.C) {
	pageURL := "https://docs.example.com/"
	first := &index.Document{
		PageID:    pageID(pageURL),
		URL:       pageURL,
		Title:     "Welcome",
		Content:   "Start with the quickstart tutorial",
		CrawledAt: crawlTime().Add(-12 * time.Hour),
	}
	s.mustIndex(c, first)

	second := &index.Document{
		PageID:    first.PageID,
		URL:       pageURL,
		Title:     "Welcome back",
		Content:   "The changelog lists every release",
		CrawledAt: crawlTime(),
	}
	s.mustIndex(c, second)

	got, err := s.idx.FindByID(first.PageID)
	c.Assert(err, check.IsNil)
	c.Assert(got, check.DeepEquals, second)

	c.Assert(s.search(c, index.QueryTypeMatch, "quickstart", 0), check.HasLen, 0,
		check.Commentf("replaced content is still searchable"))
	c.Assert(s.search(c, index.QueryTypeMatch, "changelog", 0), check.DeepEquals, []uuid.UUID{second.PageID})
}

func (s *BaseSuite) TestIndexRequiresPageID(c *check.C) {
	err := s.idx.Index(&index.Document{URL: "https://docs.example.com/"})
	c.Assert(errors.Is(err, index.ErrMissingPageID), check.Equals, true, check.Commentf("got %v", err))
}

func (s *BaseSuite) TestFindByID(c *check.C) {
	doc := &index.Document{
		PageID:    uuid.New(),
		URL:       "https://docs.example.com/guide/",
		Title:     "Guide",
		Content:   defaultContent,
		CrawledAt: crawlTime(),
	}
	s.mustIndex(c, doc)

	got, err := s.idx.FindByID(doc.PageID)
	c.Assert(err, check.IsNil)
	c.Assert(got, check.DeepEquals, doc)

	_, err = s.idx.FindByID(uuid.New())
	c.Assert(errors.Is(err, index.ErrNotFound), check.Equals, true)
}

// TestPhraseSearch checks that phrase queries need the words in order.
func (s *BaseSuite) TestPhraseSearch(c *check.C) {
	want := s.indexPages(c, 50, func(i int, doc *index.Document) bool {
		switch {
		case i%5 == 0:
			doc.Content = "Configure the widget renderer"

			return true
		case i%7 == 0:
			doc.Content = "The renderer of the configured widget"
		}

		return false
	})

	c.Assert(s.search(c, index.QueryTypePhrase, "widget renderer", 0), check.DeepEquals, want)
}

// TestMatchSearch checks match queries and that results sharing a score
// come back in url order.
func (s *BaseSuite) TestMatchSearch(c *check.C) {
	want := s.indexPages(c, 50, func(i int, doc *index.Document) bool {
		if i%5 == 0 {
			doc.Content = "Troubleshooting the widget renderer"

			return true
		}

		return false
	})

	it, err := s.idx.Search(index.Query{Type: index.QueryTypeMatch, Expression: "troubleshooting"})
	c.Assert(err, check.IsNil)
	c.Assert(it.TotalCount(), check.Equals, uint64(len(want)))
	c.Assert(collectIDs(c, it), check.DeepEquals, want)
}

func (s *BaseSuite) TestMatchSearchWithOffset(c *check.C) {
	all := s.indexPages(c, 50, func(int, *index.Document) bool { return true })

	c.Assert(s.search(c, index.QueryTypeMatch, "installation", 20), check.DeepEquals, all[20:])
	c.Assert(s.search(c, index.QueryTypeMatch, "installation", 200), check.HasLen, 0)
}

func (s *BaseSuite) mustIndex(c *check.C, doc *index.Document) {
	c.Assert(s.idx.Index(doc), check.IsNil, check.Commentf("indexing %s", doc.URL))
}

func (s *BaseSuite) search(c *check.C, typ index.QueryType, expr string, offset uint64) []uuid.UUID {
	it, err := s.idx.Search(index.Query{Type: typ, Expression: expr, Offset: offset})
	c.Assert(err, check.IsNil, check.Commentf("searching %q", expr))

	return collectIDs(c, it)
}

// indexPages indexes n pages that all share defaultContent unless pick
// changes it. It returns the ids of the pages pick returned true for,
// sorted by url.
func (s *BaseSuite) indexPages(c *check.C, n int, pick func(int, *index.Document) bool) []uuid.UUID {
	var picked []*index.Document

	// Reverse url order keeps insertion order from passing for url order.
	for i := n - 1; i >= 0; i-- {
		pageURL := fmt.Sprintf("https://docs.example.com/page-%03d.html", i)
		doc := &index.Document{
			PageID:    pageID(pageURL),
			URL:       pageURL,
			Title:     fmt.Sprintf("Page %03d", i),
			Content:   defaultContent,
			CrawledAt: crawlTime(),
		}

		if pick(i, doc) {
			picked = append(picked, doc)
		}

		s.mustIndex(c, doc)
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].URL < picked[j].URL })

	ids := make([]uuid.UUID, len(picked))
	for i, doc := range picked {
		ids[i] = doc.PageID
	}

	return ids
}

func pageID(pageURL string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL))
}

// crawlTime returns the current time at a precision every backend can
// round-trip.
func crawlTime() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func collectIDs(c *check.C, it index.Iterator) []uuid.UUID {
	var ids []uuid.UUID
	for it.Next() {
		ids = append(ids, it.Document().PageID)
	}

	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	return ids
}
