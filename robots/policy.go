package robots

import (
	"net/url"
	"strings"
	"time"
)

// Policy is the view of a RuleSet for a single user agent. A Policy is
// immutable and safe for concurrent use.
type Policy struct {
	agent    string
	rules    []Rule
	delay    time.Duration
	hasDelay bool
}

// ForAgent selects the rules that apply to userAgent. Groups naming the
// agent's product token exactly are preferred; the '*' group is used
// otherwise. A RuleSet without a matching group yields an allow-all policy.
func (rs *RuleSet) ForAgent(userAgent string) *Policy {
	token := productToken(userAgent)
	p := &Policy{agent: token}

	if rs == nil {
		return p
	}

	if token != "" && p.merge(rs.Groups, token) {
		return p
	}

	p.merge(rs.Groups, "*")

	return p
}

// merge appends the rules of every group naming agent and reports whether
// at least one such group exists.
func (p *Policy) merge(groups []Group, agent string) bool {
	var found bool

	for _, g := range groups {
		if !containsAgent(g.Agents, agent) {
			continue
		}
		found = true

		p.rules = append(p.rules, g.Rules...)
		if g.HasDelay && !p.hasDelay {
			p.delay, p.hasDelay = g.CrawlDelay, true
		}
	}

	return found
}

func containsAgent(agents []string, agent string) bool {
	for _, a := range agents {
		if a == agent {
			return true
		}
	}

	return false
}

// productToken returns the lower-cased name part of a user agent string, ie.
// "doccrawler" for "DocCrawler/1.0 (+https://example.com)".
func productToken(userAgent string) string {
	token := strings.TrimSpace(userAgent)
	if idx := strings.IndexAny(token, "/ "); idx >= 0 {
		token = token[:idx]
	}

	return strings.ToLower(token)
}

// Agent returns the product token the policy was selected for.
func (p *Policy) Agent() string {
	return p.agent
}

// Allowed reports whether rawURL may be fetched. URLs that cannot be parsed
// are never allowed.
func (p *Policy) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return p.AllowedURL(u)
}

// AllowedURL reports whether u may be fetched. The rule with the longest
// matching path wins; when an Allow and a Disallow rule of equal length both
// match, the Disallow rule wins.
func (p *Policy) AllowedURL(u *url.URL) bool {
	return p.allowedPath(requestPath(u))
}

func (p *Policy) allowedPath(path string) bool {
	if path == "/robots.txt" {
		return true
	}

	var (
		matched bool
		best    int
		allowed = true
	)

	for _, rule := range p.rules {
		if !rule.matches(path) {
			continue
		}

		length := len(rule.Path)
		switch {
		case !matched || length > best:
			matched, best, allowed = true, length, rule.Allow
		case length == best && !rule.Allow:
			allowed = false
		}
	}

	return allowed
}

// BlocksAll reports whether the policy disallows the whole site, ie. the
// root path is disallowed and no Allow rule could re-open any part of it.
func (p *Policy) BlocksAll() bool {
	if p.allowedPath("/") {
		return false
	}

	for _, rule := range p.rules {
		if rule.Allow {
			return false
		}
	}

	return true
}

// CrawlDelay returns the delay requested by robots.txt and whether one was
// specified at all.
func (p *Policy) CrawlDelay() (time.Duration, bool) {
	return p.delay, p.hasDelay
}

// requestPath returns the escaped path and query of u as matched against
// robots.txt rules.
func requestPath(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return escapePath(path)
}
