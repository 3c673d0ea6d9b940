package crawler

import (
	"net/url"
	"time"
)

// Session holds the state of a single crawl. It is created by Crawl and owned
// by the goroutine running it.
type Session struct {
	origin   string
	seed     string
	frontier frontier

	// Canonical urls that were enqueued at some point. Membership is checked
	// and recorded in the same step as the enqueue.
	seen map[string]struct{}

	// Canonical urls that were popped from the frontier or reached through
	// a redirect.
	visited map[string]struct{}

	lastFetch time.Time
	summary   *Summary
}

func newSession(seed *url.URL, startedAt time.Time) *Session {
	return &Session{
		origin:  origin(seed),
		seed:    seed.String(),
		seen:    make(map[string]struct{}),
		visited: make(map[string]struct{}),
		summary: &Summary{
			State:     StateInit,
			Seed:      seed.String(),
			StartedAt: startedAt,
		},
	}
}

// enqueue appends u to the frontier unless it was seen before and reports
// whether it was added.
func (s *Session) enqueue(u *url.URL) bool {
	key := u.String()
	if _, exists := s.seen[key]; exists {
		return false
	}

	s.seen[key] = struct{}{}
	s.frontier.push(u)

	return true
}

// markVisited records key as visited and reports whether it was visited
// before.
func (s *Session) markVisited(key string) bool {
	_, exists := s.visited[key]
	s.visited[key] = struct{}{}
	s.seen[key] = struct{}{}

	return exists
}

// frontier is a FIFO queue of urls awaiting a visit.
type frontier struct {
	items []*url.URL
	head  int
}

func (f *frontier) push(u *url.URL) {
	f.items = append(f.items, u)
}

func (f *frontier) pop() *url.URL {
	u := f.items[f.head]
	f.items[f.head] = nil
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 1024 && f.head*2 > len(f.items) {
		f.items = append([]*url.URL(nil), f.items[f.head:]...)
		f.head = 0
	}

	return u
}

func (f *frontier) len() int {
	return len(f.items) - f.head
}
