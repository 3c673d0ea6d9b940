package crawler

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultUserAgent identifies the crawler when no user agent is
	// configured.
	DefaultUserAgent = "DocCrawler/1.0"

	// DefaultSafetyCeiling bounds the number of stored pages when no page
	// budget is configured.
	DefaultSafetyCeiling = 100000
)

// Config defines configurations for the crawler.
type Config struct {
	// An API for retrieving robots.txt files and pages.
	Fetcher URLGetter

	// An API for turning raw pages into text.
	Extractor ContentExtractor

	// An API for persisting extracted text.
	Store PageStore

	// Optional observers of every processed page.
	Sinks []Sink

	// An API for detecting private network addresses. If specified, seeds
	// that resolve to a private network are rejected.
	PrivateNetworkDetector PrivateNetworkDetector

	// User agent sent with every request and used to select robots.txt
	// rules. Defaults to DefaultUserAgent.
	UserAgent string

	// Maximum number of pages to store. Zero means no explicit limit, in
	// which case SafetyCeiling applies.
	MaxPages int

	// Hard limit on stored pages when MaxPages is unset. Defaults to
	// DefaultSafetyCeiling.
	SafetyCeiling int

	// Delay between consecutive fetches when robots.txt exists but does not
	// specify one. Zero disables the fallback delay.
	CrawlDelay time.Duration

	// Links whose path contains any of these fragments are not followed.
	// If not specified, DefaultExcludePaths is used.
	ExcludePaths []string

	// Only follow links whose path ends in ".html" or "/".
	HTMLOnly bool

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.Fetcher == nil {
		err = multierror.Append(err, fmt.Errorf("fetcher not provided"))
	}

	if config.Extractor == nil {
		err = multierror.Append(err, fmt.Errorf("content extractor not provided"))
	}

	if config.Store == nil {
		err = multierror.Append(err, fmt.Errorf("page store not provided"))
	}

	for i, sink := range config.Sinks {
		if sink == nil {
			err = multierror.Append(err, fmt.Errorf("sink %d is nil", i))
		}
	}

	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	if config.MaxPages < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for max pages, must be >= 0"))
	}

	if config.SafetyCeiling < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for safety ceiling, must be >= 0"))
	} else if config.SafetyCeiling == 0 {
		config.SafetyCeiling = DefaultSafetyCeiling
	}

	if config.CrawlDelay < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for crawl delay, must be >= 0"))
	}

	if config.ExcludePaths == nil {
		config.ExcludePaths = DefaultExcludePaths
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// pageLimit returns the number of pages after which the crawl completes.
func (config *Config) pageLimit() int {
	if config.MaxPages > 0 {
		return config.MaxPages
	}

	return config.SafetyCeiling
}
