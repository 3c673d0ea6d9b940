package crawler

import (
	"fmt"
	"time"
)

// State of a crawl session.
type State uint8

const (
	// StateInit is the state of a session that is loading robots.txt and
	// validating the seed url.
	StateInit State = iota

	// StateRunning is the state of a session that is processing its frontier.
	StateRunning

	// StateComplete is the terminal state of a session that ran out of links
	// or reached its page budget.
	StateComplete

	// StateAborted is the terminal state of a session stopped by an
	// unrecoverable error or by cancellation.
	StateAborted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRunning:
		return "RUNNING"
	case StateComplete:
		return "COMPLETE"
	case StateAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// PageResult records the outcome of one fetch attempt.
type PageResult struct {
	// Canonical url that was fetched.
	URL string

	// Path of the stored file, if the page was stored.
	Path string

	// Err holds the reason the page was not stored, if any.
	Err error
}

// Summary describes the outcome of a crawl session.
type Summary struct {
	State State
	Seed  string

	// Number of pages written to the page store.
	Stored int

	// Number of page fetches attempted, successful or not.
	Attempted int

	// Number of urls skipped because robots.txt disallows them.
	SkippedByPolicy int

	// Number of fetches answered with a same-origin redirect. The targets
	// are enqueued like discovered links.
	Redirected int

	// Number of pages that could not be fetched or stored.
	Failed int

	// Number of pages fetched without extractable content.
	Empty int

	// Number of urls left in the frontier when the crawl terminated.
	Remaining int

	// Whether a robots.txt file was found for the seed origin.
	RobotsFound bool

	// Delay applied between two consecutive fetches.
	CrawlDelay time.Duration

	StartedAt  time.Time
	FinishedAt time.Time

	// Outcome of every fetch attempt in crawl order.
	Pages []PageResult

	// Err is set for aborted sessions.
	Err error
}

// Elapsed returns the duration of the crawl.
func (s *Summary) Elapsed() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// String implements fmt.Stringer.
func (s *Summary) String() string {
	str := fmt.Sprintf(
		"%s: stored %d of %d attempted pages (%d skipped by robots.txt, %d redirected, %d failed, %d without content, %d left in frontier)",
		s.State, s.Stored, s.Attempted, s.SkippedByPolicy, s.Redirected, s.Failed, s.Empty, s.Remaining,
	)

	if s.Err != nil {
		str += ": " + s.Err.Error()
	}

	return str
}
