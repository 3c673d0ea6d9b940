package crawler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/juju/clock/testclock"
	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/crawler"
	mock_crawler "github.com/mycok/uCrawl/crawler/mocks"
	"github.com/mycok/uCrawl/fetcher"
	"github.com/mycok/uCrawl/pagestore"
)

var _ = check.Suite(new(crawlerTestSuite))

type crawlerTestSuite struct {
	dir   string
	store *pagestore.Store
}

func (s *crawlerTestSuite) SetUpTest(c *check.C) {
	var err error

	s.dir = c.MkDir()
	s.store, err = pagestore.New(pagestore.Config{Dir: s.dir})
	c.Assert(err, check.IsNil)
}

func (s *crawlerTestSuite) TestConfigValidation(c *check.C) {
	_, err := crawler.New(crawler.Config{})
	c.Assert(err, check.ErrorMatches, "(?ms).*fetcher not provided.*")
	c.Assert(err, check.ErrorMatches, "(?ms).*content extractor not provided.*")
	c.Assert(err, check.ErrorMatches, "(?ms).*page store not provided.*")

	_, err = crawler.New(crawler.Config{
		Fetcher:   fetcher.NewHTTPFetcher(fetcher.Config{}),
		Extractor: crawler.NewStrictExtractor(),
		Store:     s.store,
		MaxPages:  -1,
	})
	c.Assert(err, check.ErrorMatches, "(?ms).*invalid value for max pages.*")
}

func (s *crawlerTestSuite) TestSinglePageBudget(c *check.C) {
	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome to the docs", "/a"),
		"/a": page("A", "Page A", ""),
	})
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{MaxPages: 1}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.State, check.Equals, crawler.StateComplete)
	c.Assert(sum.Stored, check.Equals, 1)
	c.Assert(sum.Remaining, check.Equals, 1)
	c.Assert(site.Hits("/a"), check.Equals, 0)

	c.Assert(sum.Pages, check.HasLen, 1)
	data, err := os.ReadFile(sum.Pages[0].Path)
	c.Assert(err, check.IsNil)
	c.Assert(strings.HasPrefix(string(data), "---\nsource: "+site.URL+"/\n"), check.Equals, true)
	c.Assert(strings.Contains(string(data), "Welcome to the docs"), check.Equals, true)
}

func (s *crawlerTestSuite) TestRobotsDisallowsEntireSite(c *check.C) {
	site := newTestSite(map[string]string{
		"/": page("Home", "Welcome", "/a"),
	})
	site.robots = "User-agent: *\nDisallow: /\n"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.State, check.Equals, crawler.StateComplete)
	c.Assert(sum.Stored, check.Equals, 0)
	c.Assert(sum.Attempted, check.Equals, 0)
	c.Assert(sum.RobotsFound, check.Equals, true)
	c.Assert(site.Hits("/robots.txt"), check.Equals, 1)
	c.Assert(site.TotalHits(), check.Equals, 1)
}

func (s *crawlerTestSuite) TestDisallowedLinksAreNeverFetched(c *check.C) {
	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/a", "/b"),
		"/a": page("A", "Allowed page", ""),
		"/b": page("B", "Disallowed page", ""),
	})
	site.robots = "User-agent: *\nDisallow: /b\n"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.State, check.Equals, crawler.StateComplete)
	c.Assert(sum.Stored, check.Equals, 2)
	c.Assert(sum.SkippedByPolicy, check.Equals, 1)
	c.Assert(site.Hits("/a"), check.Equals, 1)
	c.Assert(site.Hits("/b"), check.Equals, 0)
}

func (s *crawlerTestSuite) TestPageBudgetLeavesFrontierUnvisited(c *check.C) {
	pages := make(map[string]string)
	var links []string
	for i := 1; i < 10; i++ {
		links = append(links, fmt.Sprintf("/p%d", i))
	}

	pages["/"] = page("Home", "Welcome", links...)
	for _, link := range links {
		pages[link] = page(link, "Content of "+link, "/")
	}

	site := newTestSite(pages)
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{MaxPages: 3}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.State, check.Equals, crawler.StateComplete)
	c.Assert(sum.Stored, check.Equals, 3)
	c.Assert(sum.Attempted, check.Equals, 3)
	c.Assert(sum.Remaining, check.Equals, 7)

	// Pages are visited in breadth-first order.
	c.Assert(site.Hits("/p1"), check.Equals, 1)
	c.Assert(site.Hits("/p2"), check.Equals, 1)
	c.Assert(site.Hits("/p3"), check.Equals, 0)

	entries, err := os.ReadDir(s.dir)
	c.Assert(err, check.IsNil)
	c.Assert(entries, check.HasLen, 3)
}

func (s *crawlerTestSuite) TestPagesAreVisitedOnce(c *check.C) {
	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/a", "/b", "/a#section", "/"),
		"/a": page("A", "Page A", "/b", "/"),
		"/b": page("B", "Page B", "/a", "/index-redirect"),
	})
	site.redirects["/index-redirect"] = "/"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL)
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 3)
	c.Assert(sum.Redirected, check.Equals, 1)
	c.Assert(site.Hits("/"), check.Equals, 1)
	c.Assert(site.Hits("/index-redirect"), check.Equals, 1)
	c.Assert(site.Hits("/a"), check.Equals, 1)
	c.Assert(site.Hits("/b"), check.Equals, 1)
}

func (s *crawlerTestSuite) TestRedirectTargetIsStoredOnce(c *check.C) {
	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/old", "/a"),
		"/a": page("A", "Page A", ""),
	})
	site.redirects["/old"] = "/a"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 2)
	c.Assert(sum.Attempted, check.Equals, 3)
	c.Assert(sum.Redirected, check.Equals, 1)
	c.Assert(site.Hits("/a"), check.Equals, 1)
	c.Assert(sum.Pages[1].URL, check.Equals, site.URL+"/a")
}

func (s *crawlerTestSuite) TestRedirectIntoDisallowedPathIsNeverFetched(c *check.C) {
	site := newTestSite(map[string]string{
		"/":               page("Home", "Welcome", "/old"),
		"/private/secret": page("Secret", "Do not crawl", ""),
	})
	site.robots = "User-agent: *\nDisallow: /private\n"
	site.redirects["/old"] = "/private/secret"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 1)
	c.Assert(sum.Redirected, check.Equals, 1)
	c.Assert(sum.SkippedByPolicy, check.Equals, 1)
	c.Assert(site.Hits("/old"), check.Equals, 1)
	c.Assert(site.Hits("/private/secret"), check.Equals, 0)

	_, err = os.Stat(filepath.Join(s.dir, "private"))
	c.Assert(os.IsNotExist(err), check.Equals, true)
}

func (s *crawlerTestSuite) TestOffOriginRedirectIsNeverFollowed(c *check.C) {
	other := newTestSite(map[string]string{
		"/x": page("X", "Elsewhere", ""),
	})
	defer other.Close()

	site := newTestSite(map[string]string{
		"/": page("Home", "Welcome", "/out"),
	})
	site.redirects["/out"] = other.URL + "/x"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 1)
	c.Assert(sum.Failed, check.Equals, 1)
	c.Assert(errors.Is(sum.Pages[1].Err, crawler.ErrOffOriginRedirect), check.Equals, true)
	c.Assert(other.TotalHits(), check.Equals, 0)
}

func (s *crawlerTestSuite) TestSeedRedirect(c *check.C) {
	site := newTestSite(map[string]string{
		"/docs/": page("Docs", "Welcome to the docs", ""),
	})
	site.redirects["/"] = "/docs/"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 1)
	c.Assert(sum.Pages, check.HasLen, 1)
	c.Assert(sum.Pages[0].URL, check.Equals, site.URL+"/docs/")

	other := newTestSite(nil)
	defer other.Close()

	moved := newTestSite(nil)
	moved.redirects["/"] = other.URL + "/"
	defer moved.Close()

	sum, err = s.crawl(c, crawler.Config{}, moved.URL+"/")
	c.Assert(errors.Is(err, crawler.ErrSeedUnreachable), check.Equals, true)
	c.Assert(errors.Is(err, crawler.ErrOffOriginRedirect), check.Equals, true)
	c.Assert(sum.State, check.Equals, crawler.StateAborted)
	c.Assert(other.TotalHits(), check.Equals, 0)
}

func (s *crawlerTestSuite) TestOtherOriginsAreNeverFetched(c *check.C) {
	other := newTestSite(map[string]string{
		"/x": page("X", "Elsewhere", ""),
	})
	defer other.Close()

	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", other.URL+"/x", "/a"),
		"/a": page("A", "Page A", "//other-domain.example/x"),
	})
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 2)
	c.Assert(other.TotalHits(), check.Equals, 0)
}

func (s *crawlerTestSuite) TestFailedPagesDoNotAbortTheCrawl(c *check.C) {
	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/missing", "/a", "/logo.png"),
		"/a": page("A", "Page A", ""),
	})
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.State, check.Equals, crawler.StateComplete)
	c.Assert(sum.Stored, check.Equals, 2)
	c.Assert(sum.Failed, check.Equals, 1)
	c.Assert(site.Hits("/logo.png"), check.Equals, 0)

	var statusErr *fetcher.StatusError
	c.Assert(errors.As(sum.Pages[1].Err, &statusErr), check.Equals, true)
	c.Assert(statusErr.StatusCode, check.Equals, http.StatusNotFound)
}

func (s *crawlerTestSuite) TestMalformedSeed(c *check.C) {
	for _, seed := range []string{"", "example.com/docs", "ftp://example.com/", "http://", "http://[::1"} {
		c.Logf("seed %q", seed)

		sum, err := s.crawl(c, crawler.Config{}, seed)
		c.Assert(errors.Is(err, crawler.ErrMalformedSeed), check.Equals, true)
		c.Assert(sum.State, check.Equals, crawler.StateAborted)
	}
}

func (s *crawlerTestSuite) TestUnreachableSeed(c *check.C) {
	site := newTestSite(map[string]string{})
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/docs/")
	c.Assert(errors.Is(err, crawler.ErrSeedUnreachable), check.Equals, true)
	c.Assert(sum.State, check.Equals, crawler.StateAborted)
	c.Assert(sum.Attempted, check.Equals, 1)
	c.Assert(sum.Stored, check.Equals, 0)
}

func (s *crawlerTestSuite) TestSeedDisallowed(c *check.C) {
	site := newTestSite(map[string]string{
		"/docs/": page("Docs", "Welcome", ""),
	})
	site.robots = "User-agent: *\nDisallow: /docs/\n"
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{}, site.URL+"/docs/")
	c.Assert(errors.Is(err, crawler.ErrSeedDisallowed), check.Equals, true)
	c.Assert(sum.State, check.Equals, crawler.StateAborted)
	c.Assert(site.Hits("/docs/"), check.Equals, 0)
}

func (s *crawlerTestSuite) TestPrivateSeed(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	detector := mock_crawler.NewMockPrivateNetworkDetector(ctrl)
	detector.EXPECT().IsNetworkPrivate("127.0.0.1").Return(true, nil)

	site := newTestSite(map[string]string{"/": page("Home", "Welcome", "")})
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{PrivateNetworkDetector: detector}, site.URL+"/")
	c.Assert(errors.Is(err, crawler.ErrPrivateSeed), check.Equals, true)
	c.Assert(sum.State, check.Equals, crawler.StateAborted)
	c.Assert(site.TotalHits(), check.Equals, 0)
}

func (s *crawlerTestSuite) TestCancellationCompletesInFlightPage(c *check.C) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/a", "/b"),
		"/a": page("A", "Page A", ""),
		"/b": page("B", "Page B", ""),
	})
	site.onHit = func(path string) {
		if path == "/a" {
			cancel()
		}
	}
	defer site.Close()

	cr := s.newCrawler(c, crawler.Config{})
	sum, err := cr.Crawl(ctx, site.URL+"/")
	c.Assert(errors.Is(err, context.Canceled), check.Equals, true)
	c.Assert(sum.State, check.Equals, crawler.StateAborted)
	c.Assert(sum.Stored, check.Equals, 2)
	c.Assert(sum.Remaining, check.Equals, 1)
	c.Assert(site.Hits("/b"), check.Equals, 0)
}

func (s *crawlerTestSuite) TestCrawlDelayIsHonoured(c *check.C) {
	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/a", "/b"),
		"/a": page("A", "Page A", ""),
		"/b": page("B", "Page B", ""),
	})
	site.robots = "User-agent: *\nCrawl-delay: 5\n"
	defer site.Close()

	clk := testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		mu      sync.Mutex
		started = make(map[string]time.Time)
	)
	site.onHit = func(path string) {
		mu.Lock()
		started[path] = clk.Now()
		mu.Unlock()
	}

	resCh := crawlInBackground(s.newCrawler(c, crawler.Config{Clock: clk}), site.URL+"/")

	// The seed waits for the delay after the robots.txt request, and so
	// does each of the two pages it links to.
	for i := 0; i < 3; i++ {
		c.Assert(clk.WaitAdvance(5*time.Second, 10*time.Second, 1), check.IsNil)
	}

	res := awaitCrawl(c, resCh)
	c.Assert(res.err, check.IsNil)
	c.Assert(res.sum.Stored, check.Equals, 3)
	c.Assert(res.sum.CrawlDelay, check.Equals, 5*time.Second)
	c.Assert(res.sum.Elapsed(), check.Equals, 15*time.Second)
	c.Assert(site.Hits("/robots.txt"), check.Equals, 1)

	mu.Lock()
	defer mu.Unlock()

	c.Assert(started["/"].Sub(started["/robots.txt"]), check.Equals, 5*time.Second)
	c.Assert(started["/a"].Sub(started["/"]), check.Equals, 5*time.Second)
	c.Assert(started["/b"].Sub(started["/a"]), check.Equals, 5*time.Second)
}

func (s *crawlerTestSuite) TestRedirectTargetIsThrottled(c *check.C) {
	site := newTestSite(map[string]string{
		"/new": page("New", "Moved here", ""),
	})
	site.robots = "User-agent: *\nCrawl-delay: 2\n"
	site.redirects["/"] = "/new"
	defer site.Close()

	clk := testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	resCh := crawlInBackground(s.newCrawler(c, crawler.Config{Clock: clk}), site.URL+"/")

	// robots.txt, then the seed, then its redirect target.
	for i := 0; i < 2; i++ {
		c.Assert(clk.WaitAdvance(2*time.Second, 10*time.Second, 1), check.IsNil)
	}

	res := awaitCrawl(c, resCh)
	c.Assert(res.err, check.IsNil)
	c.Assert(res.sum.Stored, check.Equals, 1)
	c.Assert(res.sum.Elapsed(), check.Equals, 4*time.Second)
}

func (s *crawlerTestSuite) TestFallbackDelayAppliesOnlyWithRobotsFile(c *check.C) {
	pages := map[string]string{
		"/":  page("Home", "Welcome", "/a"),
		"/a": page("A", "Page A", ""),
	}

	// Without robots.txt nothing waits, so the frozen clock never blocks.
	site := newTestSite(pages)
	defer site.Close()

	clk := testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sum, err := s.crawl(c, crawler.Config{Clock: clk, CrawlDelay: time.Hour}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.RobotsFound, check.Equals, false)
	c.Assert(sum.CrawlDelay, check.Equals, time.Duration(0))
	c.Assert(sum.Stored, check.Equals, 2)

	// A robots.txt without Crawl-delay picks up the fallback, so the seed
	// request waits an hour after the robots.txt request.
	site = newTestSite(map[string]string{"/": page("Home", "Welcome", "")})
	site.robots = "User-agent: *\nDisallow: /private/\n"
	defer site.Close()

	resCh := crawlInBackground(s.newCrawler(c, crawler.Config{Clock: clk, CrawlDelay: time.Hour}), site.URL+"/")
	c.Assert(clk.WaitAdvance(time.Hour, 10*time.Second, 1), check.IsNil)

	res := awaitCrawl(c, resCh)
	c.Assert(res.err, check.IsNil)
	c.Assert(res.sum.RobotsFound, check.Equals, true)
	c.Assert(res.sum.CrawlDelay, check.Equals, time.Hour)
	c.Assert(res.sum.Stored, check.Equals, 1)
	c.Assert(res.sum.Elapsed(), check.Equals, time.Hour)
}

func (s *crawlerTestSuite) TestStoreFailuresAreRecorded(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	store := mock_crawler.NewMockPageStore(ctrl)
	store.EXPECT().Store(gomock.Any(), gomock.Any()).Return("", errors.New("disk full")).Times(2)

	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/a"),
		"/a": page("A", "Page A", ""),
	})
	defer site.Close()

	sum, err := s.crawl(c, crawler.Config{Store: store}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.State, check.Equals, crawler.StateComplete)
	c.Assert(sum.Stored, check.Equals, 0)
	c.Assert(sum.Failed, check.Equals, 2)
	c.Assert(site.Hits("/a"), check.Equals, 1)
}

func (s *crawlerTestSuite) TestSinksReceiveEveryPage(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	site := newTestSite(map[string]string{
		"/":  page("Home", "Welcome", "/a"),
		"/a": page("A", "", ""),
	})
	defer site.Close()

	var consumed []*crawler.PageRecord
	sink := mock_crawler.NewMockSink(ctrl)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *crawler.PageRecord) error {
			consumed = append(consumed, p)

			return errors.New("sink failure")
		},
	).Times(2)

	sum, err := s.crawl(c, crawler.Config{Sinks: []crawler.Sink{sink}}, site.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(sum.Stored, check.Equals, 1)
	c.Assert(sum.Empty, check.Equals, 1)

	c.Assert(consumed, check.HasLen, 2)
	c.Assert(consumed[0].URL, check.Equals, site.URL+"/")
	c.Assert(consumed[0].ID, check.Equals, crawler.PageID(site.URL+"/"))
	c.Assert(consumed[0].Links, check.DeepEquals, []string{site.URL + "/a"})
	c.Assert(consumed[0].Path, check.Not(check.Equals), "")
	c.Assert(consumed[1].Path, check.Equals, "")
}

func (s *crawlerTestSuite) newCrawler(c *check.C, cfg crawler.Config) *crawler.Crawler {
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetcher.NewHTTPFetcher(fetcher.Config{Timeout: 5 * time.Second})
	}

	if cfg.Extractor == nil {
		cfg.Extractor = crawler.NewStrictExtractor()
	}

	if cfg.Store == nil {
		cfg.Store = s.store
	}

	cr, err := crawler.New(cfg)
	c.Assert(err, check.IsNil)

	return cr
}

func (s *crawlerTestSuite) crawl(c *check.C, cfg crawler.Config, seed string) (*crawler.Summary, error) {
	sum, err := s.newCrawler(c, cfg).Crawl(context.TODO(), seed)
	c.Assert(sum, check.NotNil)

	return sum, err
}

type crawlResult struct {
	sum *crawler.Summary
	err error
}

func crawlInBackground(cr *crawler.Crawler, seed string) <-chan crawlResult {
	resCh := make(chan crawlResult, 1)
	go func() {
		sum, err := cr.Crawl(context.TODO(), seed)
		resCh <- crawlResult{sum, err}
	}()

	return resCh
}

func awaitCrawl(c *check.C, resCh <-chan crawlResult) crawlResult {
	select {
	case res := <-resCh:
		return res
	case <-time.After(10 * time.Second):
		c.Fatal("timed out waiting for crawl to complete")
	}

	return crawlResult{}
}

// page renders a minimal html document. Empty links are ignored.
func page(title, text string, links ...string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body>", title)
	if text != "" {
		fmt.Fprintf(&b, "<p>%s</p>", text)
	}

	for _, link := range links {
		if link != "" {
			fmt.Fprintf(&b, `<a href="%s"></a>`, link)
		}
	}

	b.WriteString("</body></html>")

	return b.String()
}

// testSite serves a fixed set of pages and counts the requests it receives.
type testSite struct {
	*httptest.Server

	robots    string
	pages     map[string]string
	redirects map[string]string
	onHit     func(path string)

	mu   sync.Mutex
	hits map[string]int
}

func newTestSite(pages map[string]string) *testSite {
	site := &testSite{
		pages:     pages,
		redirects: make(map[string]string),
		hits:      make(map[string]int),
	}
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))

	return site
}

func (s *testSite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	onHit := s.onHit
	s.mu.Unlock()

	if onHit != nil {
		onHit(r.URL.Path)
	}

	if r.URL.Path == "/robots.txt" {
		if s.robots == "" {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(s.robots))

		return
	}

	if target, exists := s.redirects[r.URL.Path]; exists {
		http.Redirect(w, r, target, http.StatusMovedPermanently)

		return
	}

	body, exists := s.pages[r.URL.Path]
	if !exists {
		http.NotFound(w, r)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *testSite) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[path]
}

func (s *testSite) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, n := range s.hits {
		total += n
	}

	return total
}
