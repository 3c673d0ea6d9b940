package robots

import (
	"context"
	"errors"
	"net/url"

	"github.com/mycok/uCrawl/fetcher"
)

// Number of redirects followed when retrieving robots.txt.
const maxRedirects = 5

// Getter should be implemented by objects that can retrieve a resource on
// behalf of a user agent.
type Getter interface {
	Fetch(ctx context.Context, rawURL, userAgent string) (*fetcher.Result, error)
}

// Location returns the robots.txt url for the origin of u.
func Location(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()
}

// Load retrieves and parses the robots.txt file for the origin of u. Up to
// maxRedirects redirects are followed as long as they stay on that origin. A
// missing or unreachable file is not an error: Load then returns an allow-all
// RuleSet and found is false. The only error returned is the context's.
func Load(
	ctx context.Context, getter Getter, u *url.URL, userAgent string,
) (rs *RuleSet, found bool, err error) {

	target := Location(u)
	for hop := 0; ; hop++ {
		res, fetchErr := getter.Fetch(ctx, target, userAgent)
		if fetchErr == nil {
			return ParseBytes(res.Body), true, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}

		var redirectErr *fetcher.RedirectError
		if hop == maxRedirects || !errors.As(fetchErr, &redirectErr) || !sameOrigin(u, redirectErr.Location) {
			return AllowAll(), false, nil
		}

		target = redirectErr.Location
	}
}

func sameOrigin(u *url.URL, rawURL string) bool {
	other, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return other.Scheme == u.Scheme && other.Host == u.Host
}
