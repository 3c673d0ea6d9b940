package crawler_test

import (
	"net/url"

	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/crawler"
)

// Initialize and register pointer instances of test suites to be
// executed by check testing package.
var (
	_ = check.Suite(new(linkExtractionTestSuite))
	_ = check.Suite(new(resolveURLTestSuite))
)

type resolveURLTestSuite struct{}

func (s *resolveURLTestSuite) TestResolveLinkReferenceURL(c *check.C) {
	assertOnResolvedURL(
		c,
		"https://www.example.com/users",
		"//www.myshop.com/users",
		"https://www.myshop.com/users",
	)

	assertOnResolvedURL(
		c,
		"http://www.example.com/users",
		"//www.myshop.com/users",
		"http://www.myshop.com/users",
	)
}

func (s *resolveURLTestSuite) TestResolveAbsoluteURL(c *check.C) {
	assertOnResolvedURL(
		c,
		"https://www.example.com/users",
		"https://www.myshop.com/users",
		"https://www.myshop.com/users",
	)
}

func (s *resolveURLTestSuite) TestResolveRelativeURL(c *check.C) {
	assertOnResolvedURL(
		c,
		"http://example.com/foo/",
		"bar/baz",
		"http://example.com/foo/bar/baz",
	)

	assertOnResolvedURL(
		c,
		"http://example.com/foo/",
		"/bar/baz",
		"http://example.com/bar/baz",
	)

	assertOnResolvedURL(
		c,
		"http://example.com/foo/secret/",
		"./bar/baz",
		"http://example.com/foo/secret/bar/baz",
	)

	assertOnResolvedURL(
		c,
		// Lack of a trailing slash means we should treat "secret" as a
		// file and the path is relative to its parent path.
		"http://example.com/foo/secret",
		"./bar/baz",
		"http://example.com/foo/bar/baz",
	)

	assertOnResolvedURL(
		c,
		"http://example.com/docs/guide/intro.html",
		"../api/index.html",
		"http://example.com/docs/api/index.html",
	)
}

func (s *resolveURLTestSuite) TestResolveEmptyOrMalformedURL(c *check.C) {
	base, err := url.Parse("http://example.com/")
	c.Assert(err, check.IsNil)

	c.Assert(crawler.ResolveToAbsoluteURL(base, ""), check.IsNil)
	c.Assert(crawler.ResolveToAbsoluteURL(base, "http://[::1"), check.IsNil)
}

func assertOnResolvedURL(c *check.C, base, target, expected string) {
	relativeTo, err := url.Parse(base)
	c.Assert(err, check.IsNil)

	resolved := crawler.ResolveToAbsoluteURL(relativeTo, target)
	c.Assert(resolved, check.NotNil)
	c.Assert(resolved.String(), check.Equals, expected)
}

type linkExtractionTestSuite struct{}

func (s *linkExtractionTestSuite) TestSameOriginLinksInDocumentOrder(c *check.C) {
	content := `
<html>
<body>
  <a href="/b.html">b</a>
  <a href="a.html">a</a>
  <a href="https://example.com/c/">c</a>
  <a href="https://other-domain.example/x">other domain</a>
  <a href="http://example.com/insecure">other scheme</a>
  <a href="https://example.com:8443/port">other port</a>
  <a href="mailto:docs@example.com">mail</a>
  <a href="javascript:void(0)">js</a>
  <a href="ftp://example.com/file">ftp</a>
</body>
</html>`

	links, noFollow := s.extract(c, crawler.NewLinkExtractor(nil, false), "https://example.com/docs/index.html", content)
	c.Assert(links, check.DeepEquals, []string{
		"https://example.com/b.html",
		"https://example.com/docs/a.html",
		"https://example.com/c/",
	})
	c.Assert(noFollow, check.HasLen, 0)
}

func (s *linkExtractionTestSuite) TestFragmentsAreStrippedAndDeduplicated(c *check.C) {
	content := `
<a href="guide.html#install">install</a>
<a href="guide.html#usage">usage</a>
<a href="#top">top</a>
<a href="HTTPS://EXAMPLE.COM:443/guide.html">upper</a>`

	links, _ := s.extract(c, crawler.NewLinkExtractor(nil, false), "https://example.com/", content)
	c.Assert(links, check.DeepEquals, []string{
		"https://example.com/guide.html",
		"https://example.com/",
	})
}

func (s *linkExtractionTestSuite) TestBaseHrefIsHonoured(c *check.C) {
	content := `
<html>
<head><base href="https://example.com/v2/"></head>
<body>
  <a href="./relative">relative to base</a>
  <a href="/absolute/path">absolute</a>
</body>
</html>`

	links, _ := s.extract(c, crawler.NewLinkExtractor(nil, false), "https://example.com/v1/page.html", content)
	c.Assert(links, check.DeepEquals, []string{
		"https://example.com/v2/relative",
		"https://example.com/absolute/path",
	})
}

func (s *linkExtractionTestSuite) TestNoFollowLinksAreReportedSeparately(c *check.C) {
	content := `
<a href="/followed">followed</a>
<a href="/ignored" rel="external NoFollow">ignored</a>`

	links, noFollow := s.extract(c, crawler.NewLinkExtractor(nil, false), "https://example.com/", content)
	c.Assert(links, check.DeepEquals, []string{"https://example.com/followed"})
	c.Assert(noFollow, check.DeepEquals, []string{"https://example.com/ignored"})
}

func (s *linkExtractionTestSuite) TestExcludedResourcesAndPaths(c *check.C) {
	content := `
<a href="/images/cart.png">image</a>
<a href="/_static/style.css">style</a>
<a href="/_sources/index.rst.txt">source</a>
<a href="/downloads/manual.pdf">pdf</a>
<a href="/guide/">guide</a>`

	links, _ := s.extract(c, crawler.NewLinkExtractor(crawler.DefaultExcludePaths, false), "https://example.com/", content)
	c.Assert(links, check.DeepEquals, []string{"https://example.com/guide/"})
}

func (s *linkExtractionTestSuite) TestHTMLOnly(c *check.C) {
	content := `
<a href="/guide/">dir</a>
<a href="/guide/intro.html">page</a>
<a href="/guide/intro">extensionless</a>
<a href="/api?v=2">query</a>`

	links, _ := s.extract(c, crawler.NewLinkExtractor(nil, true), "https://example.com/", content)
	c.Assert(links, check.DeepEquals, []string{
		"https://example.com/guide/",
		"https://example.com/guide/intro.html",
	})
}

func (s *linkExtractionTestSuite) TestMalformedHrefsAreDropped(c *check.C) {
	content := `
<a href="http://[::1">broken</a>
<a href="">empty</a>
<a>no href</a>
<a href="  /spaced  ">spaced</a>`

	links, _ := s.extract(c, crawler.NewLinkExtractor(nil, false), "https://example.com/page", content)
	c.Assert(links, check.DeepEquals, []string{
		"https://example.com/spaced",
	})
}

func (s *linkExtractionTestSuite) extract(
	c *check.C, e *crawler.LinkExtractor, pageURL, content string,
) ([]string, []string) {

	u, err := url.Parse(pageURL)
	c.Assert(err, check.IsNil)

	links, noFollow, err := e.Extract([]byte(content), u)
	c.Assert(err, check.IsNil)

	return toStrings(links), toStrings(noFollow)
}

func toStrings(urls []*url.URL) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, u.String())
	}

	return out
}
