package crawler

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/mycok/uCrawl/fetcher"
)

// Locate links that point to web pages that don't serve html content.
var exclusionRegex = regexp.MustCompile(`(?i)\.(?:jpg|jpeg|png|gif|svg|webp|ico|css|js|pdf|zip|gz|tgz|woff2?|ttf|eot|mp4|mp3)$`)

// linkFetcher retrieves the html content of a single link on behalf of the
// crawler's user agent.
type linkFetcher struct {
	urlGetter URLGetter
	userAgent string
}

func newLinkFetcher(urlGetter URLGetter, userAgent string) *linkFetcher {
	return &linkFetcher{
		urlGetter: urlGetter,
		userAgent: userAgent,
	}
}

// fetch performs an HTTP GET request for u. Links to non html resources are
// rejected before any request is made and responses that do not carry html
// are reported as errors.
func (f *linkFetcher) fetch(ctx context.Context, u *url.URL) (*fetcher.Result, error) {
	if exclusionRegex.MatchString(u.Path) {
		return nil, fmt.Errorf("%q: %w", u.String(), ErrExcludedURL)
	}

	res, err := f.urlGetter.Fetch(ctx, u.String(), f.userAgent)
	if err != nil {
		return nil, err
	}

	if !res.IsHTML() {
		return nil, fmt.Errorf("%q: content type %q: %w", u.String(), res.ContentType(), fetcher.ErrNotHTML)
	}

	return res, nil
}
