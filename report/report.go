// Package report renders crawl summaries and search results as markdown
// documents.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/flowchart"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mycok/uCrawl/crawler"
	"github.com/mycok/uCrawl/linkgraph/graph"
	"github.com/mycok/uCrawl/search"
)

const (
	timeLayout = "2006-01-02 15:04:05 MST"

	// Link maps of larger crawls are rendered as lists only.
	maxFlowchartPages = 30
)

// Links are listed regardless of their retrieval time.
var endOfTime = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// LinkSource should be implemented by link graphs that can be walked to
// render the link map of a crawl.
type LinkSource interface {
	Links(retrievedBefore time.Time) (graph.LinkIterator, error)
	Edges(src uuid.UUID) (graph.EdgeIterator, error)
}

// MarkdownWriter outputs reports in markdown format.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: w}
}

// WriteSummary renders the crawl summary. If links is not nil, the report
// includes the link map recorded during the crawl.
func (w *MarkdownWriter) WriteSummary(sum *crawler.Summary, links LinkSource) (int, error) {
	md := markdown.NewMarkdown(w.output)

	writeOverview(md, sum)
	writeCounters(md, sum)
	writeStoredPages(md, sum)
	writeFailures(md, sum)

	if links != nil {
		if err := writeLinkMap(md, links); err != nil {
			return 0, fmt.Errorf("report: link map: %w", err)
		}
	}

	return len(md.String()), md.Build()
}

// WriteSearch renders one page of search results.
func (w *MarkdownWriter) WriteSearch(page *search.Page) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1f("Results for %q", page.Terms)
	md.PlainText("")

	if len(page.Results) == 0 {
		md.PlainText("No pages matched the query.")

		return len(md.String()), md.Build()
	}

	md.PlainTextf("Showing results %d-%d of %d.", page.From, page.To, page.Total)
	md.PlainText("")

	for _, res := range page.Results {
		title := res.Title
		if title == "" {
			title = res.URL
		}

		md.H2f("%d. %s", res.Rank, title)
		md.PlainText("")
		md.PlainText(res.URL)
		md.PlainText("")

		if res.Summary != "" {
			md.PlainText(res.Summary)
			md.PlainText("")
		}
	}

	return len(md.String()), md.Build()
}

func writeOverview(md *markdown.Markdown, sum *crawler.Summary) {
	md.H1("Crawl Report")
	md.PlainText("")

	robots := "not found"
	if sum.RobotsFound {
		robots = "found"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + sum.Seed + "`"},
			{"State", sum.State.String()},
			{"Started", formatTime(sum.StartedAt)},
			{"Finished", formatTime(sum.FinishedAt)},
			{"Elapsed", sum.Elapsed().Round(time.Millisecond).String()},
			{"robots.txt", robots},
			{"Crawl Delay", sum.CrawlDelay.String()},
		},
	})
	md.PlainText("")

	switch {
	case sum.State == crawler.StateAborted && sum.Err != nil:
		md.Warningf("Crawl aborted: %v", sum.Err)
	case sum.State == crawler.StateAborted:
		md.Warning("Crawl aborted.")
	case sum.Remaining > 0:
		md.Notef("Page budget reached with %d url(s) left in the frontier.", sum.Remaining)
	default:
		md.Tip("Every reachable page was visited.")
	}
	md.PlainText("")
}

func writeCounters(md *markdown.Markdown, sum *crawler.Summary) {
	md.H2("Counters")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Stored", strconv.Itoa(sum.Stored)},
			{"Attempted", strconv.Itoa(sum.Attempted)},
			{"Skipped by robots.txt", strconv.Itoa(sum.SkippedByPolicy)},
			{"Redirected", strconv.Itoa(sum.Redirected)},
			{"Failed", strconv.Itoa(sum.Failed)},
			{"Without content", strconv.Itoa(sum.Empty)},
			{"Left in frontier", strconv.Itoa(sum.Remaining)},
		},
	})
	md.PlainText("")

	if sum.Attempted == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if sum.Stored > 0 {
		chart.LabelAndIntValue("Stored", uint64(sum.Stored))
	}
	if sum.Redirected > 0 {
		chart.LabelAndIntValue("Redirected", uint64(sum.Redirected))
	}
	if sum.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(sum.Failed))
	}
	if sum.Empty > 0 {
		chart.LabelAndIntValue("Without content", uint64(sum.Empty))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeStoredPages(md *markdown.Markdown, sum *crawler.Summary) {
	md.H2("Stored Pages")
	md.PlainText("")

	var rows [][]string
	for _, page := range sum.Pages {
		if page.Err == nil && page.Path != "" {
			rows = append(rows, []string{page.URL, "`" + page.Path + "`"})
		}
	}

	if len(rows) == 0 {
		md.PlainText("No pages were stored.")
		md.PlainText("")

		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "File"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeFailures(md *markdown.Markdown, sum *crawler.Summary) {
	var rows [][]string
	for _, page := range sum.Pages {
		if page.Err != nil {
			rows = append(rows, []string{page.URL, escapeCell(page.Err.Error())})
		}
	}

	if len(rows) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeLinkMap(md *markdown.Markdown, links LinkSource) error {
	linkIt, err := links.Links(endOfTime)
	if err != nil {
		return err
	}
	defer func() { _ = linkIt.Close() }()

	urls := make(map[uuid.UUID]string)
	var crawled []*graph.Link
	for linkIt.Next() {
		link := linkIt.Link()
		urls[link.ID] = link.URL

		if !link.RetrievedAt.IsZero() {
			crawled = append(crawled, link)
		}
	}

	if err = linkIt.Error(); err != nil {
		return err
	}

	sort.Slice(crawled, func(i, j int) bool {
		return crawled[i].URL < crawled[j].URL
	})

	md.H2("Link Map")
	md.PlainText("")

	if len(crawled) == 0 {
		md.PlainText("The link graph is empty.")
		md.PlainText("")

		return nil
	}

	chart := flowchart.NewFlowchart(io.Discard, flowchart.WithOrientalLeftToRight())
	nodes := make(map[string]string)
	nodeFor := func(u string) string {
		if name, ok := nodes[u]; ok {
			return name
		}

		name := "p" + strconv.Itoa(len(nodes))
		nodes[u] = name
		chart.NodeWithText(name, strings.ReplaceAll(u, `"`, "'"))

		return name
	}

	for _, src := range crawled {
		targets, err := edgeTargets(links, src.ID, urls)
		if err != nil {
			return err
		}

		md.PlainTextf("**%s** (%d link(s))", src.URL, len(targets))
		md.PlainText("")

		if len(targets) > 0 {
			md.BulletList(targets...)
			md.PlainText("")
		}

		from := nodeFor(src.URL)
		for _, dst := range targets {
			chart.LinkWithArrowHead(from, nodeFor(dst))
		}
	}

	if len(crawled) <= maxFlowchartPages {
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	return nil
}

func edgeTargets(links LinkSource, src uuid.UUID, urls map[uuid.UUID]string) ([]string, error) {
	edgeIt, err := links.Edges(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = edgeIt.Close() }()

	var targets []string
	for edgeIt.Next() {
		if dst, ok := urls[edgeIt.Edge().Dest]; ok {
			targets = append(targets, dst)
		}
	}

	if err = edgeIt.Error(); err != nil {
		return nil, err
	}

	sort.Strings(targets)

	return targets, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(timeLayout)
}

// escapeCell keeps pipes in error messages from splitting table cells.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
