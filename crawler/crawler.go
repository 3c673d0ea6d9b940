/*
	crawler package implements a polite, single-origin documentation crawler.
	A crawl session proceeds through the following steps:
		1. Validate the seed url and load the robots.txt file of its origin.
		2. Pop the next url from a breadth-first frontier and check it against
		   the robots.txt rules for the configured user agent.
		3. Wait for the crawl delay to elapse, then retrieve the page.
		4. Extract the readable text of the page and persist it.
		5. Extract same-origin links from the page and enqueue the ones that
		   were never seen before.
		6. Hand the processed page to the configured sinks, ie. the text
		   indexer and the link graph updater.
	Only one request is in flight at any time.
*/

package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uCrawl/fetcher"
	"github.com/mycok/uCrawl/pagestore"
	"github.com/mycok/uCrawl/robots"
)

// Crawler crawls a single documentation site.
type Crawler struct {
	cfg           Config
	linkFetcher   *linkFetcher
	linkExtractor *LinkExtractor
}

// New configures and returns a pointer to a fully configured crawler type.
func New(cfg Config) (*Crawler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("crawler: config validation failed: %w", err)
	}

	return &Crawler{
		cfg:           cfg,
		linkFetcher:   newLinkFetcher(cfg.Fetcher, cfg.UserAgent),
		linkExtractor: NewLinkExtractor(cfg.ExcludePaths, cfg.HTMLOnly),
	}, nil
}

// Crawl crawls the site of seed and blocks until the session terminates.
// The returned summary is never nil. A non-nil error is returned only when
// the session is aborted: the seed is malformed, disallowed, or unreachable,
// or ctx is cancelled. Pages stored before an abort remain in place.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*Summary, error) {
	startedAt := c.cfg.Clock.Now()

	seedURL, err := parseSeed(seed)
	if err != nil {
		sum := &Summary{Seed: seed, StartedAt: startedAt}

		return c.finish(sum, StateAborted, fmt.Errorf("%w: %q: %v", ErrMalformedSeed, seed, err))
	}

	sess := newSession(seedURL, startedAt)
	logger := c.cfg.Logger.WithField("seed", sess.seed)

	policy, delay, err := c.init(ctx, sess, seedURL)
	if err != nil {
		return c.finish(sess.summary, StateAborted, err)
	}

	if policy == nil {
		return c.finish(sess.summary, StateComplete, nil)
	}

	sess.summary.State = StateRunning
	logger.WithFields(logrus.Fields{
		"crawl_delay": delay.String(),
		"page_limit":  c.cfg.pageLimit(),
	}).Info("starting crawl")

	err = c.run(ctx, sess, policy, delay)
	sess.summary.Remaining = sess.frontier.len()
	if err != nil {
		return c.finish(sess.summary, StateAborted, err)
	}

	return c.finish(sess.summary, StateComplete, nil)
}

// init validates the seed against the network detector and robots.txt and
// seeds the frontier. A nil policy and nil error signal that robots.txt
// blocks the entire site.
func (c *Crawler) init(
	ctx context.Context, sess *Session, seedURL *url.URL,
) (*robots.Policy, time.Duration, error) {

	if c.cfg.PrivateNetworkDetector != nil {
		isPrivate, err := c.cfg.PrivateNetworkDetector.IsNetworkPrivate(seedURL.Hostname())
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrSeedUnreachable, err)
		}

		if isPrivate {
			return nil, 0, fmt.Errorf("%w: %q", ErrPrivateSeed, seedURL.Hostname())
		}
	}

	// The robots.txt request counts as a fetch, so the first page request
	// waits for the crawl delay like every other.
	getter := &stampedGetter{URLGetter: c.cfg.Fetcher, clock: c.cfg.Clock, sess: sess}
	rs, found, err := robots.Load(ctx, getter, seedURL, c.cfg.UserAgent)
	if err != nil {
		return nil, 0, err
	}

	policy := rs.ForAgent(c.cfg.UserAgent)
	// A missing robots.txt means no delay at all. The configured fallback only
	// applies to files that set no delay of their own.
	delay, hasDelay := policy.CrawlDelay()
	if !hasDelay && found {
		delay = c.cfg.CrawlDelay
	}

	sess.summary.RobotsFound = found
	sess.summary.CrawlDelay = delay

	c.cfg.Logger.WithFields(logrus.Fields{
		"robots_url":   robots.Location(seedURL),
		"robots_found": found,
		"agent":        policy.Agent(),
	}).Debug("loaded robots.txt")

	if !policy.AllowedURL(seedURL) {
		sess.summary.SkippedByPolicy++

		if policy.BlocksAll() {
			c.cfg.Logger.WithField("seed", sess.seed).Warn("robots.txt disallows the entire site")

			return nil, 0, nil
		}

		return nil, 0, fmt.Errorf("%w: %q", ErrSeedDisallowed, sess.seed)
	}

	sess.enqueue(seedURL)

	return policy, delay, nil
}

// run processes the frontier until it is exhausted, the page limit is
// reached or ctx is cancelled.
func (c *Crawler) run(
	ctx context.Context, sess *Session, policy *robots.Policy, delay time.Duration,
) error {

	limit := c.cfg.pageLimit()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if sess.frontier.len() == 0 {
			return nil
		}

		if sess.summary.Stored >= limit {
			if c.cfg.MaxPages == 0 {
				c.cfg.Logger.WithField("safety_ceiling", limit).Warn("safety ceiling reached, stopping crawl")
			}

			return nil
		}

		u := sess.frontier.pop()
		key := u.String()
		if sess.markVisited(key) {
			continue
		}

		if !policy.AllowedURL(u) {
			sess.summary.SkippedByPolicy++
			c.cfg.Logger.WithField("url", key).Debug("skipping url disallowed by robots.txt")

			continue
		}

		if err := c.throttle(ctx, sess, delay); err != nil {
			return err
		}

		// An in-flight page is completed even if ctx gets cancelled
		// meanwhile; cancellation is observed at the top of the loop.
		if err := c.visit(context.WithoutCancel(ctx), sess, policy, u); err != nil {
			return err
		}
	}
}

// throttle blocks until delay has elapsed since the start of the previous
// fetch.
func (c *Crawler) throttle(ctx context.Context, sess *Session, delay time.Duration) error {
	if delay <= 0 || sess.lastFetch.IsZero() {
		return nil
	}

	wait := sess.lastFetch.Add(delay).Sub(c.cfg.Clock.Now())
	if wait <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.cfg.Clock.After(wait):
		return nil
	}
}

// visit fetches, extracts, stores and discovers the links of a single page.
// Only a failure to fetch the seed is returned as an error; every other
// failure is recorded in the session summary.
func (c *Crawler) visit(ctx context.Context, sess *Session, policy *robots.Policy, u *url.URL) error {
	key := u.String()
	logger := c.cfg.Logger.WithField("url", key)

	sess.lastFetch = c.cfg.Clock.Now()
	sess.summary.Attempted++

	res, err := c.linkFetcher.fetch(ctx, u)

	var redirectErr *fetcher.RedirectError
	if errors.As(err, &redirectErr) {
		return c.followRedirect(sess, u, redirectErr)
	}

	if err == nil {
		u, err = c.resolveFinalURL(sess, policy, u, res)
	}

	switch {
	case errors.Is(err, errAlreadyVisited):
		logger.WithField("final_url", res.FinalURL).Debug("redirect target already visited")

		return nil
	case errors.Is(err, errDisallowedRedirect):
		sess.summary.SkippedByPolicy++
		logger.WithField("final_url", res.FinalURL).Debug("redirect target disallowed by robots.txt")

		return nil
	}

	if err != nil {
		if key == sess.seed {
			return fmt.Errorf("%w: %v", ErrSeedUnreachable, err)
		}

		c.recordFailure(sess, key, err)
		logger.WithError(err).Warn("failed to fetch page")

		return nil
	}

	page := &PageRecord{
		ID:        PageID(u.String()),
		URL:       u.String(),
		CrawledAt: sess.lastFetch,
	}
	result := PageResult{URL: page.URL}

	content, err := c.cfg.Extractor.Extract(res.Body, u)
	if err != nil {
		logger.WithError(err).Warn("failed to extract page content")
	}

	if content == nil || strings.TrimSpace(content.Text) == "" {
		sess.summary.Empty++
		logger.Debug("page has no extractable content")
	} else {
		page.Title, page.Text = content.Title, content.Text

		path, storeErr := c.cfg.Store.Store(ctx, &pagestore.Record{
			URL:       u,
			Title:     page.Title,
			Text:      page.Text,
			CrawledAt: page.CrawledAt,
		})
		if storeErr != nil {
			sess.summary.Failed++
			result.Err = storeErr
			logger.WithError(storeErr).Error("failed to store page")
		} else {
			sess.summary.Stored++
			page.Path, result.Path = path, path
			logger.WithField("path", path).Info("stored page")
		}
	}

	sess.summary.Pages = append(sess.summary.Pages, result)

	c.discoverLinks(sess, page, res.Body, u)

	for _, sink := range c.cfg.Sinks {
		if err := sink.Consume(ctx, page); err != nil {
			logger.WithError(err).Warn("sink failed to consume page")
		}
	}

	return nil
}

// followRedirect enqueues the target of a redirect response like any other
// discovered link, so that it is checked against robots.txt and throttled
// before it is requested. Targets on a different origin are never requested.
func (c *Crawler) followRedirect(sess *Session, from *url.URL, redirect *fetcher.RedirectError) error {
	key := from.String()

	target, err := url.Parse(redirect.Location)
	if err == nil {
		target = Canonicalize(target)
		if origin(target) != sess.origin {
			err = fmt.Errorf("%q -> %q: %w", key, target.String(), ErrOffOriginRedirect)
		}
	}

	if err != nil {
		if key == sess.seed {
			return fmt.Errorf("%w: %w", ErrSeedUnreachable, err)
		}

		c.recordFailure(sess, key, err)
		c.cfg.Logger.WithField("url", key).WithError(err).Warn("refusing to follow redirect")

		return nil
	}

	sess.summary.Redirected++
	enqueued := sess.enqueue(target)

	c.cfg.Logger.WithFields(logrus.Fields{
		"url":      key,
		"location": target.String(),
		"status":   redirect.StatusCode,
		"enqueued": enqueued,
	}).Debug("page redirected")

	return nil
}

// resolveFinalURL returns the canonical url of the fetched page when the
// configured fetcher followed redirects on its own. Such a target is marked
// as visited. errAlreadyVisited is returned when the target was visited
// before and errDisallowedRedirect when robots.txt disallows it.
func (c *Crawler) resolveFinalURL(
	sess *Session, policy *robots.Policy, requested *url.URL, res *fetcher.Result,
) (*url.URL, error) {

	if res.FinalURL == "" {
		return requested, nil
	}

	final, err := url.Parse(res.FinalURL)
	if err != nil {
		return requested, nil
	}

	final = Canonicalize(final)
	if final.String() == requested.String() {
		return requested, nil
	}

	if origin(final) != sess.origin {
		return nil, fmt.Errorf("%q -> %q: %w", requested.String(), final.String(), ErrOffOriginRedirect)
	}

	if sess.markVisited(final.String()) {
		return nil, errAlreadyVisited
	}

	if !policy.AllowedURL(final) {
		return nil, errDisallowedRedirect
	}

	return final, nil
}

// discoverLinks enqueues the links found in body that were never seen
// before.
func (c *Crawler) discoverLinks(sess *Session, page *PageRecord, body []byte, u *url.URL) {
	links, noFollow, err := c.linkExtractor.Extract(body, u)
	if err != nil {
		c.cfg.Logger.WithField("url", page.URL).WithError(err).Warn("failed to extract links")

		return
	}

	var enqueued int
	for _, group := range [][]*url.URL{links, noFollow} {
		for _, link := range group {
			if sess.enqueue(link) {
				enqueued++
			}
		}
	}

	page.Links = urlStrings(links)
	page.NoFollowLinks = urlStrings(noFollow)

	c.cfg.Logger.WithFields(logrus.Fields{
		"url":        page.URL,
		"discovered": len(links) + len(noFollow),
		"enqueued":   enqueued,
	}).Debug("discovered links")
}

func (c *Crawler) recordFailure(sess *Session, key string, err error) {
	sess.summary.Failed++
	sess.summary.Pages = append(sess.summary.Pages, PageResult{URL: key, Err: err})
}

// finish moves the session into a terminal state and returns its summary.
func (c *Crawler) finish(sum *Summary, state State, err error) (*Summary, error) {
	sum.State = state
	sum.Err = err
	sum.FinishedAt = c.cfg.Clock.Now()

	logger := c.cfg.Logger.WithFields(logrus.Fields{
		"seed":              sum.Seed,
		"state":             sum.State.String(),
		"stored":            sum.Stored,
		"attempted":         sum.Attempted,
		"skipped_by_policy": sum.SkippedByPolicy,
		"failed":            sum.Failed,
		"empty":             sum.Empty,
		"remaining":         sum.Remaining,
		"elapsed_time":      sum.Elapsed().String(),
	})

	if state == StateAborted {
		if errors.Is(err, context.Canceled) {
			logger.Warn("crawl cancelled")
		} else {
			logger.WithError(err).Error("crawl aborted")
		}

		return sum, err
	}

	logger.Info("crawl complete")

	return sum, nil
}

// stampedGetter records the start of every request it performs as the
// session's latest fetch.
type stampedGetter struct {
	URLGetter
	clock clock.Clock
	sess  *Session
}

func (g *stampedGetter) Fetch(ctx context.Context, rawURL, userAgent string) (*fetcher.Result, error) {
	g.sess.lastFetch = g.clock.Now()

	return g.URLGetter.Fetch(ctx, rawURL, userAgent)
}

func urlStrings(urls []*url.URL) []string {
	if len(urls) == 0 {
		return nil
	}

	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = u.String()
	}

	return out
}
