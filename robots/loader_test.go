package robots_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"

	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/fetcher"
	"github.com/mycok/uCrawl/robots"
)

var _ = check.Suite(new(loaderTestSuite))

type loaderTestSuite struct{}

func (s *loaderTestSuite) TestLoadParsesRobotsFile(c *check.C) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Check(r.URL.Path, check.Equals, "/robots.txt")
		gotUA = r.UserAgent()
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	}))
	defer srv.Close()

	rs, found, err := s.load(c, srv, "/docs/index.html")
	c.Assert(err, check.IsNil)
	c.Assert(found, check.Equals, true)
	c.Assert(gotUA, check.Equals, "DocCrawler/1.0")
	c.Assert(rs.ForAgent("DocCrawler/1.0").Allowed(srv.URL+"/private/a"), check.Equals, false)
}

func (s *loaderTestSuite) TestLoadMissingFileAllowsAll(c *check.C) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	rs, found, err := s.load(c, srv, "/")
	c.Assert(err, check.IsNil)
	c.Assert(found, check.Equals, false)
	c.Assert(rs.ForAgent("DocCrawler/1.0").Allowed(srv.URL+"/anything"), check.Equals, true)
}

func (s *loaderTestSuite) TestLoadServerErrorAllowsAll(c *check.C) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rs, found, err := s.load(c, srv, "/")
	c.Assert(err, check.IsNil)
	c.Assert(found, check.Equals, false)
	c.Assert(rs.Groups, check.HasLen, 0)
}

func (s *loaderTestSuite) TestLoadFollowsSameOriginRedirect(c *check.C) {
	mux := http.NewServeMux()
	mux.Handle("/robots.txt", http.RedirectHandler("/meta/robots.txt", http.StatusMovedPermanently))
	mux.HandleFunc("/meta/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rs, found, err := s.load(c, srv, "/")
	c.Assert(err, check.IsNil)
	c.Assert(found, check.Equals, true)
	c.Assert(rs.ForAgent("DocCrawler/1.0").Allowed(srv.URL+"/private/a"), check.Equals, false)
}

func (s *loaderTestSuite) TestLoadIgnoresOffOriginRedirect(c *check.C) {
	var otherHits int
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		otherHits++
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	}))
	defer other.Close()

	srv := httptest.NewServer(http.RedirectHandler(other.URL+"/robots.txt", http.StatusFound))
	defer srv.Close()

	rs, found, err := s.load(c, srv, "/")
	c.Assert(err, check.IsNil)
	c.Assert(found, check.Equals, false)
	c.Assert(rs.Groups, check.HasLen, 0)
	c.Assert(otherHits, check.Equals, 0)
}

func (s *loaderTestSuite) TestLoadStopsOnRedirectLoop(c *check.C) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Redirect(w, r, "/robots.txt", http.StatusFound)
	}))
	defer srv.Close()

	_, found, err := s.load(c, srv, "/")
	c.Assert(err, check.IsNil)
	c.Assert(found, check.Equals, false)
	c.Assert(hits, check.Equals, 6)
}

func (s *loaderTestSuite) TestLoadCancelledContext(c *check.C) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u, err := url.Parse(srv.URL)
	c.Assert(err, check.IsNil)

	_, _, err = robots.Load(ctx, fetcher.NewHTTPFetcher(fetcher.Config{}), u, "DocCrawler/1.0")
	c.Assert(err, check.Equals, context.Canceled)
}

func (s *loaderTestSuite) TestLocation(c *check.C) {
	u, err := url.Parse("https://example.com:8443/docs/a.html?x=1#frag")
	c.Assert(err, check.IsNil)
	c.Assert(robots.Location(u), check.Equals, "https://example.com:8443/robots.txt")
}

func (s *loaderTestSuite) load(
	c *check.C, srv *httptest.Server, path string,
) (*robots.RuleSet, bool, error) {

	u, err := url.Parse(srv.URL + path)
	c.Assert(err, check.IsNil)

	f := fetcher.NewHTTPFetcher(fetcher.Config{Client: srv.Client()})

	return robots.Load(context.TODO(), f, u, "DocCrawler/1.0")
}
