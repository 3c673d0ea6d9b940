// Package robots parses robots.txt files and evaluates their rules for a
// single user agent.
package robots

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultCrawlDelay is the delay applied between requests when a robots.txt
// file does not specify one.
const DefaultCrawlDelay = time.Second

// Rule is a single Allow or Disallow directive.
type Rule struct {
	// Path prefix the rule applies to, in percent-encoded form. It may
	// contain the '*' wildcard and a trailing '$' anchor.
	Path string

	// Allow is true for Allow directives and false for Disallow directives.
	Allow bool

	pattern *regexp.Regexp
}

// matches reports whether the rule applies to the escaped request path.
func (r Rule) matches(path string) bool {
	if r.pattern != nil {
		return r.pattern.MatchString(path)
	}

	return strings.HasPrefix(path, r.Path)
}

// Group holds the directives that apply to one or more user agents.
type Group struct {
	Agents     []string
	Rules      []Rule
	CrawlDelay time.Duration
	HasDelay   bool
}

// RuleSet is the parsed content of a robots.txt file.
type RuleSet struct {
	Groups []Group
}

// AllowAll returns a RuleSet without any groups. Every path is allowed.
func AllowAll() *RuleSet {
	return &RuleSet{}
}

// ParseBytes parses the robots.txt content held in b.
func ParseBytes(b []byte) *RuleSet {
	rs, _ := Parse(bytes.NewReader(b))

	return rs
}

// Parse reads robots.txt content from r. Lines that cannot be understood are
// ignored. The only error returned is a read error from r, in which case the
// groups parsed so far are returned along with it.
func Parse(r io.Reader) (*RuleSet, error) {
	var (
		rs      = new(RuleSet)
		current *Group
		// Consecutive User-agent lines share a group. A member directive
		// closes the agent list so the next User-agent starts a new group.
		collectingAgents bool
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 512*1024)

	for scanner.Scan() {
		key, value, ok := splitDirective(scanner.Text())
		if !ok {
			continue
		}

		switch key {
		case "user-agent":
			if current == nil || !collectingAgents {
				// current always points at the last group, so growing
				// the slice never leaves it dangling.
				rs.Groups = append(rs.Groups, Group{})
				current = &rs.Groups[len(rs.Groups)-1]
			}

			if value != "" {
				current.Agents = append(current.Agents, strings.ToLower(value))
			}
			collectingAgents = true

		case "allow", "disallow":
			if current == nil {
				continue
			}
			collectingAgents = false

			// An empty Disallow allows everything and an empty Allow is
			// meaningless; neither produces a rule.
			if value == "" {
				continue
			}

			current.Rules = append(current.Rules, newRule(value, key == "allow"))

		case "crawl-delay":
			if current == nil {
				continue
			}
			collectingAgents = false

			if d, ok := parseDelay(value); ok {
				current.CrawlDelay, current.HasDelay = d, true
			}

		case "request-rate":
			if current == nil {
				continue
			}
			collectingAgents = false

			// An explicit Crawl-delay takes precedence over a request rate.
			if current.HasDelay {
				continue
			}

			if d, ok := parseRequestRate(value); ok {
				current.CrawlDelay, current.HasDelay = d, true
			}
		}
	}

	return rs, scanner.Err()
}

// splitDirective splits a robots.txt line into a lower-cased directive name
// and its trimmed value.
func splitDirective(line string) (string, string, bool) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}

	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}

	key := strings.ToLower(strings.TrimSpace(line[:idx]))
	if key == "" {
		return "", "", false
	}

	return key, strings.TrimSpace(line[idx+1:]), true
}

func newRule(path string, allow bool) Rule {
	path = escapePath(path)
	rule := Rule{Path: path, Allow: allow}

	if strings.ContainsAny(path, "*$") {
		expr := regexp.QuoteMeta(path)
		expr = strings.ReplaceAll(expr, `\*`, ".*")
		if strings.HasSuffix(expr, `\$`) {
			expr = strings.TrimSuffix(expr, `\$`) + "$"
		}

		rule.pattern = regexp.MustCompile("^" + expr)
	}

	return rule
}

// escapePath percent-encodes the bytes of path that url.EscapedPath would
// encode: non-ASCII and control bytes, spaces and stray '%' signs. Existing
// escapes are upper-cased.
func escapePath(path string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch {
		case ch == '%' && i+2 < len(path) && isHex(path[i+1]) && isHex(path[i+2]):
			b.WriteByte('%')
			b.WriteString(strings.ToUpper(path[i+1 : i+3]))
			i += 2
		case ch == '%' || ch <= ' ' || ch >= 0x7f:
			b.WriteByte('%')
			b.WriteByte(hex[ch>>4])
			b.WriteByte(hex[ch&0x0f])
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}

func isHex(ch byte) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func parseDelay(value string) (time.Duration, bool) {
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}

// parseRequestRate converts a "requests/period" value such as "1/5" or
// "3/1m" into the delay between two consecutive requests.
func parseRequestRate(value string) (time.Duration, bool) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return 0, false
	}

	period := strings.ToLower(strings.TrimSpace(parts[1]))
	unit := time.Second

	switch {
	case strings.HasSuffix(period, "s"):
		period = strings.TrimSuffix(period, "s")
	case strings.HasSuffix(period, "m"):
		period, unit = strings.TrimSuffix(period, "m"), time.Minute
	case strings.HasSuffix(period, "h"):
		period, unit = strings.TrimSuffix(period, "h"), time.Hour
	}

	n, err := strconv.Atoi(period)
	if err != nil || n <= 0 {
		return 0, false
	}

	return time.Duration(n) * unit / time.Duration(requests), true
}
