package index

import (
	"time"

	"github.com/google/uuid"
)

// Document defines a crawled page whose text content has been indexed.
type Document struct {
	// ID of the page, derived from its canonical url.
	PageID uuid.UUID

	// URL the document content was retrieved from.
	URL string

	// Title of the document (if available).
	Title string

	// Extracted text of the document.
	Content string

	// Time the page was retrieved by the crawler.
	CrawledAt time.Time
}
