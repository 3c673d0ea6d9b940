package crawler

import (
	"net"
	"net/url"
	"strings"
)

// Canonicalize returns the form of u used for de-duplication: the fragment
// and user info are removed, scheme and host are lower-cased, the default
// port is dropped and an empty path becomes "/". Canonicalize is idempotent
// and does not modify u.
func Canonicalize(u *url.URL) *url.URL {
	c := *u
	c.Fragment, c.RawFragment = "", ""
	c.User = nil
	c.ForceQuery = false
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)

	if host, port, err := net.SplitHostPort(c.Host); err == nil {
		if (c.Scheme == "http" && port == "80") || (c.Scheme == "https" && port == "443") {
			c.Host = host
			if strings.Contains(host, ":") {
				c.Host = "[" + host + "]"
			}
		}
	}

	if c.Path == "" && c.RawPath == "" {
		c.Path = "/"
	}

	return &c
}

// origin returns the scheme and host of a canonical url.
func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// parseSeed validates and canonicalizes the seed url.
func parseSeed(seed string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(seed))
	if err != nil {
		return nil, err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		if u.Scheme == "" {
			return nil, errMissingScheme
		}

		return nil, errUnsupportedScheme
	}

	if u.Host == "" {
		return nil, errMissingHost
	}

	return Canonicalize(u), nil
}
