package crawler_test

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/crawler"
	mock_crawler "github.com/mycok/uCrawl/crawler/mocks"
	"github.com/mycok/uCrawl/textindexer/index"
)

var _ = check.Suite(new(textIndexTestSuite))

type textIndexTestSuite struct {
	indexer *mock_crawler.MockMiniIndexer
}

func (s *textIndexTestSuite) TestSuccessfulTextIndex(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	s.indexer = mock_crawler.NewMockMiniIndexer(ctrl)

	page := &crawler.PageRecord{
		ID:        crawler.PageID("https://docs.example.com/"),
		URL:       "https://docs.example.com/",
		Title:     "test title",
		Text:      "Lorem ipsum rolor",
		Path:      "docs/index.txt",
		CrawledAt: time.Now(),
	}

	s.indexer.EXPECT().Index(docMatcher{
		pageID:    page.ID,
		url:       page.URL,
		title:     page.Title,
		content:   page.Text,
		crawledAt: page.CrawledAt,
	}).Return(nil)

	err := crawler.NewTextIndexerSink(s.indexer).Consume(context.TODO(), page)
	c.Assert(err, check.IsNil)
}

func (s *textIndexTestSuite) TestPageWithoutContentIsNotIndexed(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	s.indexer = mock_crawler.NewMockMiniIndexer(ctrl)

	page := &crawler.PageRecord{
		ID:  crawler.PageID("https://docs.example.com/empty"),
		URL: "https://docs.example.com/empty",
	}

	err := crawler.NewTextIndexerSink(s.indexer).Consume(context.TODO(), page)
	c.Assert(err, check.IsNil)
}

// docMatcher matches an *index.Document field by field.
type docMatcher struct {
	pageID    uuid.UUID
	url       string
	title     string
	content   string
	crawledAt time.Time
}

func (m docMatcher) Matches(x interface{}) bool {
	doc := x.(*index.Document)

	return m.pageID == doc.PageID &&
		m.url == doc.URL &&
		m.title == doc.Title &&
		m.content == doc.Content &&
		doc.CrawledAt.Equal(m.crawledAt)
}

func (m docMatcher) String() string {
	return fmt.Sprintf("has PageID=%q, URL=%q, Title=%q, Content=%q and CrawledAt %v", m.pageID, m.url, m.title, m.content, m.crawledAt)
}
