package crawler_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/golang/mock/gomock"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/crawler"
	mock_crawler "github.com/mycok/uCrawl/crawler/mocks"
	"github.com/mycok/uCrawl/fetcher"
)

var _ = check.Suite(new(linkFetcherTestSuite))

type linkFetcherTestSuite struct {
	urlGetter *mock_crawler.MockURLGetter
}

func (s *linkFetcherTestSuite) TestLinkFetcherWithExcludedURL(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	s.urlGetter = mock_crawler.NewMockURLGetter(ctrl)

	for _, link := range []string{
		"http://example.com/foo/bar.png",
		"http://example.com/static/theme.CSS",
		"http://example.com/downloads/manual.pdf",
	} {
		_, err := crawler.FetchLink(context.TODO(), s.urlGetter, "TestBot", mustParseURL(c, link))
		c.Assert(errors.Is(err, crawler.ErrExcludedURL), check.Equals, true)
	}
}

func (s *linkFetcherTestSuite) TestLinkFetcherWithHTMLContent(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	s.urlGetter = mock_crawler.NewMockURLGetter(ctrl)

	s.urlGetter.EXPECT().Fetch(gomock.Any(), "http://example.com/index.html", "TestBot").Return(
		&fetcher.Result{
			StatusCode: http.StatusOK,
			FinalURL:   "http://example.com/index.html",
			Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
			Body:       []byte("<html><body>hello</body></html>"),
		},
		nil,
	)

	res, err := crawler.FetchLink(context.TODO(), s.urlGetter, "TestBot", mustParseURL(c, "http://example.com/index.html"))
	c.Assert(err, check.IsNil)
	c.Assert(string(res.Body), check.Equals, "<html><body>hello</body></html>")
}

func (s *linkFetcherTestSuite) TestLinkFetcherWithNonHTMLContent(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	s.urlGetter = mock_crawler.NewMockURLGetter(ctrl)

	s.urlGetter.EXPECT().Fetch(gomock.Any(), "http://example.com/data", "TestBot").Return(
		&fetcher.Result{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       []byte(`{"k":"v"}`),
		},
		nil,
	)

	_, err := crawler.FetchLink(context.TODO(), s.urlGetter, "TestBot", mustParseURL(c, "http://example.com/data"))
	c.Assert(errors.Is(err, fetcher.ErrNotHTML), check.Equals, true)
}

func (s *linkFetcherTestSuite) TestLinkFetcherWithFetchError(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	s.urlGetter = mock_crawler.NewMockURLGetter(ctrl)

	s.urlGetter.EXPECT().Fetch(gomock.Any(), "http://example.com/missing", "TestBot").Return(
		nil,
		&fetcher.StatusError{URL: "http://example.com/missing", StatusCode: http.StatusNotFound},
	)

	_, err := crawler.FetchLink(context.TODO(), s.urlGetter, "TestBot", mustParseURL(c, "http://example.com/missing"))

	var statusErr *fetcher.StatusError
	c.Assert(errors.As(err, &statusErr), check.Equals, true)
	c.Assert(statusErr.StatusCode, check.Equals, http.StatusNotFound)
}

func mustParseURL(c *check.C, link string) *url.URL {
	u, err := url.Parse(link)
	c.Assert(err, check.IsNil)

	return u
}
