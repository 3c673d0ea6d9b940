package crawler_test

import (
	"strings"

	check "gopkg.in/check.v1"

	"github.com/mycok/uCrawl/crawler"
)

var (
	_ = check.Suite(new(strictExtractorTestSuite))
	_ = check.Suite(new(readabilityExtractorTestSuite))
)

type strictExtractorTestSuite struct{}

func (s *strictExtractorTestSuite) TestContentExtractor(c *check.C) {
	content := `<div>Some<span> content</span> rock &amp; roll</div>
<buttton>Search</button>
`
	assertExtractedContent(c, crawler.NewStrictExtractor(), content, "", `Some content rock & roll Search`)
}

func (s *strictExtractorTestSuite) TestContentWithTitleExtractor(c *check.C) {
	content := `<html>
<head>
<title>Test title</title>
</head>
<body>
<div>Some<span> content</span></div>
</body>
</html>
`
	assertExtractedContent(c, crawler.NewStrictExtractor(), content, "Test title", `Some content`)
}

func (s *strictExtractorTestSuite) TestContentWithMultilineTitleExtractor(c *check.C) {
	content := `<html>
<head>
<TITLE lang="en">
  Getting
  started
</TITLE>
</head>
<body></body>
</html>
`
	ext := crawler.NewStrictExtractor()

	got, err := ext.Extract([]byte(content), nil)
	c.Assert(err, check.IsNil)
	c.Assert(got.Title, check.Equals, "Getting started")
}

type readabilityExtractorTestSuite struct{}

func (s *readabilityExtractorTestSuite) TestArticleContentIsExtracted(c *check.C) {
	content := `<!DOCTYPE html>
<html>
<head><title>Install guide</title></head>
<body>
<nav><a href="/">Home</a> <a href="/api/">API reference</a></nav>
<article>
<h1>Installing the toolkit</h1>
<p>Download the latest release archive from the project page and unpack it
into a directory of your choice. The archive contains the command line tool,
the shared libraries and a set of example configuration files.</p>
<p>Add the bin directory to your PATH so the tool can be found by your shell.
Run the version command afterwards to verify that the installation worked
and that the expected release is being picked up.</p>
<p>Configuration is read from a file in your home directory. The first run
creates a default file that documents every option together with its default
value, so you can adjust the settings later without consulting this guide.</p>
<ul><li>Linux and macOS are supported.</li><li>Windows support is experimental.</li></ul>
</article>
<footer>Copyright footer text</footer>
</body>
</html>`

	got, err := crawler.NewReadabilityExtractor().Extract([]byte(content), mustParseURL(c, "https://example.com/install.html"))
	c.Assert(err, check.IsNil)
	c.Assert(got, check.NotNil)
	c.Assert(got.Title, check.Not(check.Equals), "")
	c.Assert(strings.Contains(got.Text, "Download the latest release archive"), check.Equals, true)
	c.Assert(strings.Contains(got.Text, "Windows support is experimental."), check.Equals, true)
	c.Assert(strings.Contains(got.Text, "Copyright footer text"), check.Equals, false)

	// Paragraphs are kept on separate lines.
	c.Assert(strings.Contains(got.Text, "\n"), check.Equals, true)
}

func (s *readabilityExtractorTestSuite) TestFallbackToDocumentBody(c *check.C) {
	content := `<html>
<head><title> Tiny   page </title><style>body { color: red; }</style></head>
<body>
<nav>Navigation links</nav>
<p>Short note.</p>
<script>console.log("ignored")</script>
</body>
</html>`

	got, err := crawler.NewReadabilityExtractor().Extract([]byte(content), mustParseURL(c, "https://example.com/tiny.html"))
	c.Assert(err, check.IsNil)
	c.Assert(got, check.NotNil)
	c.Assert(strings.Contains(got.Text, "Short note."), check.Equals, true)
	c.Assert(strings.Contains(got.Text, "console.log"), check.Equals, false)
	c.Assert(strings.Contains(got.Text, "color: red"), check.Equals, false)
}

func (s *readabilityExtractorTestSuite) TestPageWithoutText(c *check.C) {
	content := `<html><head><title>Empty</title></head><body><script>var x = 1;</script></body></html>`

	ext := crawler.NewReadabilityExtractor()
	ext.MinTextLength = 1

	got, err := ext.Extract([]byte(content), mustParseURL(c, "https://example.com/empty.html"))
	c.Assert(err, check.IsNil)
	c.Assert(got, check.IsNil)
}

func assertExtractedContent(c *check.C, ext crawler.ContentExtractor, content, expTitle, expText string) {
	got, err := ext.Extract([]byte(content), nil)
	c.Assert(err, check.IsNil)
	c.Assert(got.Title, check.Equals, expTitle)
	c.Assert(got.Text, check.Equals, expText)
}
