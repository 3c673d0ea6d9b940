package pagestore

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	indexName     = "index"
	fileExtension = ".txt"
	maxSegmentLen = 128
)

var (
	unsafeCharsRegex = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	htmlExtRegex     = regexp.MustCompile(`(?i)\.html?$`)
)

// DerivePath maps u to a relative, slash separated file path. The mapping
// only depends on the path and query of u:
//
//	https://example.com/                 -> index.txt
//	https://example.com/guide/           -> guide/index.txt
//	https://example.com/guide/intro.html -> guide/intro.txt
//	https://example.com/api?v=2          -> api_q_v_2.txt
func DerivePath(u *url.URL) string {
	p := u.Path
	segments := make([]string, 0, strings.Count(p, "/")+1)

	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}

		segments = append(segments, sanitize(seg))
	}

	if len(segments) == 0 || strings.HasSuffix(p, "/") {
		segments = append(segments, indexName)
	}

	last := htmlExtRegex.ReplaceAllString(segments[len(segments)-1], "")
	if last == "" {
		last = indexName
	}

	if u.RawQuery != "" {
		last += "_q_" + sanitize(u.RawQuery)
	}

	segments[len(segments)-1] = last + fileExtension

	return path.Join(segments...)
}

// sanitize replaces runs of characters that are unsafe in file names with a
// single underscore.
func sanitize(s string) string {
	s = unsafeCharsRegex.ReplaceAllString(s, "_")

	switch s {
	case ".", "..":
		return "_"
	}

	if len(s) > maxSegmentLen {
		s = s[:maxSegmentLen]
	}

	return s
}

// withSuffix inserts a suffix derived from canonicalURL before the file
// extension of rel.
func withSuffix(rel, canonicalURL string) string {
	return strings.TrimSuffix(rel, fileExtension) + "_" + urlSuffix(canonicalURL) + fileExtension
}

// urlSuffix returns the first 8 hex digits of the uuid of canonicalURL.
func urlSuffix(canonicalURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonicalURL)).String()[:8]
}
