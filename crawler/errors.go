package crawler

import "errors"

var (
	// ErrMalformedSeed is returned when the seed url cannot be parsed or is
	// not an absolute http(s) url.
	ErrMalformedSeed = errors.New("malformed seed url")

	// ErrSeedDisallowed is returned when robots.txt disallows the seed url
	// without blocking the entire site.
	ErrSeedDisallowed = errors.New("seed url disallowed by robots.txt")

	// ErrSeedUnreachable is returned when the seed url cannot be fetched.
	ErrSeedUnreachable = errors.New("seed url unreachable")

	// ErrPrivateSeed is returned when the seed host resolves to a private
	// network address.
	ErrPrivateSeed = errors.New("seed url resolves to a private network")

	// ErrExcludedURL is returned for urls that point to resources that do
	// not serve html content.
	ErrExcludedURL = errors.New("url points to a non html resource")

	// ErrOffOriginRedirect is returned when a page redirects to a different
	// origin than the seed's.
	ErrOffOriginRedirect = errors.New("redirected to a different origin")
)

var (
	errMissingScheme      = errors.New("missing url scheme")
	errUnsupportedScheme  = errors.New("unsupported url scheme")
	errMissingHost        = errors.New("missing url host")
	errAlreadyVisited     = errors.New("url already visited")
	errDisallowedRedirect = errors.New("redirect target disallowed by robots.txt")
)
