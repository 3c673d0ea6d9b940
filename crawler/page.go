package crawler

import (
	"time"

	"github.com/google/uuid"
)

// PageRecord describes one processed page. It is handed to every configured
// Sink and discarded afterwards.
type PageRecord struct {
	// ID derived from the canonical page url.
	ID uuid.UUID

	// Canonical url of the page after redirects.
	URL string

	// Title and Text as returned by the content extractor.
	Title string
	Text  string

	// Path of the stored file. Empty when the page had no content.
	Path string

	// Time the page was retrieved.
	CrawledAt time.Time

	// Same-origin links discovered on the page.
	Links []string

	// Same-origin links discovered on the page that carry rel="nofollow".
	NoFollowLinks []string
}

// PageID returns the identifier used for the page at canonicalURL in the
// text index.
func PageID(canonicalURL string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(canonicalURL))
}
