package crawler

import (
	"context"
	"net/url"

	"github.com/mycok/uCrawl/fetcher"
)

// ResolveToAbsoluteURL exposes resolveToAbsoluteURL to the external tests.
var ResolveToAbsoluteURL = resolveToAbsoluteURL

// FetchLink runs the link fetcher used by the crawler against u.
func FetchLink(
	ctx context.Context, getter URLGetter, userAgent string, u *url.URL,
) (*fetcher.Result, error) {

	return newLinkFetcher(getter, userAgent).fetch(ctx, u)
}
