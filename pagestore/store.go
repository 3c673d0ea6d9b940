// Package pagestore persists extracted page text as plain text files, one
// per crawled page, prefixed with a provenance header.
package pagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultDir is the output directory used when none is configured.
	DefaultDir = "docs"

	// DefaultCombinedFile is the file name used in combined mode.
	DefaultCombinedFile = "crawled_content.md"
)

// Record holds the data persisted for a single page.
type Record struct {
	// Canonical URL of the page.
	URL *url.URL

	// Title of the page, if any.
	Title string

	// Extracted text content.
	Text string

	// Time at which the page was retrieved.
	CrawledAt time.Time
}

// Config defines the behaviour of a Store.
type Config struct {
	// Directory that receives the stored pages. Defaults to DefaultDir.
	Dir string

	// Combined appends every page to a single file instead of writing one
	// file per page.
	Combined bool

	// Name of the file used in combined mode. Defaults to
	// DefaultCombinedFile.
	CombinedFile string

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error

	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}

	if cfg.CombinedFile == "" {
		cfg.CombinedFile = DefaultCombinedFile
	}

	if filepath.Base(cfg.CombinedFile) != cfg.CombinedFile {
		err = multierror.Append(err, fmt.Errorf("combined file name %q must not contain a directory", cfg.CombinedFile))
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// Store writes page records below a root directory. Distinct URLs that map
// to the same derived path are disambiguated with a suffix derived from the
// URL; the same URL always maps to the same path. A Store is safe for
// concurrent use.
type Store struct {
	cfg Config

	mu       sync.Mutex
	owners   map[string]string // relative path -> canonical url
	assigned map[string]string // canonical url -> relative path
}

// New creates the output directory and returns a Store writing into it.
func New(cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("page store: config validation failed: %w", err)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("page store: create output directory: %w", err)
	}

	return &Store{
		cfg:      cfg,
		owners:   make(map[string]string),
		assigned: make(map[string]string),
	}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.cfg.Dir
}

// Store persists rec and returns the path of the file it was written to.
func (s *Store) Store(ctx context.Context, rec *Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if rec == nil || rec.URL == nil {
		return "", errors.New("page store: record has no url")
	}

	header, err := NewHeader(rec.URL.String(), rec.Title, rec.CrawledAt).encode()
	if err != nil {
		return "", fmt.Errorf("page store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Combined {
		return s.appendCombined(header, rec.Text)
	}

	rel := s.resolvePath(rec.URL)
	target := filepath.Join(s.cfg.Dir, filepath.FromSlash(rel))

	if err := writeFileAtomic(target, header, rec.Text); err != nil {
		return "", fmt.Errorf("page store: %w", err)
	}

	return target, nil
}

// resolvePath returns the relative path assigned to u, assigning one if u
// has not been stored before. Must be called with s.mu held.
func (s *Store) resolvePath(u *url.URL) string {
	key := u.String()
	if rel, exists := s.assigned[key]; exists {
		return rel
	}

	rel := s.avoidFileDirConflicts(DerivePath(u), key)
	if owner := s.ownerOf(rel); owner != "" && owner != key {
		s.cfg.Logger.WithFields(logrus.Fields{
			"url":   key,
			"owner": owner,
			"path":  rel,
		}).Warn("derived file path collision, appending url suffix")

		rel = withSuffix(rel, key)
	}

	s.owners[rel] = key
	s.assigned[key] = rel

	return rel
}

// avoidFileDirConflicts renames the parts of rel that clash with what is
// already on disk: a parent directory that exists as a file gets the url
// suffix appended, and so does rel itself when it exists as a directory.
func (s *Store) avoidFileDirConflicts(rel, key string) string {
	segments := strings.Split(rel, "/")
	for i := 0; i < len(segments)-1; i++ {
		info, err := os.Stat(filepath.Join(s.cfg.Dir, filepath.Join(segments[:i+1]...)))
		if err != nil {
			break
		}

		if !info.IsDir() {
			segments[i] += "_" + urlSuffix(key)
			s.logConflict(key, rel, "parent directory exists as a file")

			break
		}
	}

	rel = strings.Join(segments, "/")
	if info, err := os.Stat(filepath.Join(s.cfg.Dir, filepath.FromSlash(rel))); err == nil && info.IsDir() {
		s.logConflict(key, rel, "file path exists as a directory")
		rel = withSuffix(rel, key)
	}

	return rel
}

func (s *Store) logConflict(key, rel, reason string) {
	s.cfg.Logger.WithFields(logrus.Fields{
		"url":  key,
		"path": rel,
	}).Warn(reason + ", appending url suffix")
}

// ownerOf returns the url that owns rel, consulting files left behind by
// previous runs when rel has not been assigned during this one.
func (s *Store) ownerOf(rel string) string {
	if owner, exists := s.owners[rel]; exists {
		return owner
	}

	f, err := os.Open(filepath.Join(s.cfg.Dir, filepath.FromSlash(rel)))
	if err != nil {
		return ""
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return ""
	}

	return h.Source
}

func (s *Store) appendCombined(header []byte, text string) (string, error) {
	target := filepath.Join(s.cfg.Dir, s.cfg.CombinedFile)

	f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("page store: %w", err)
	}

	_, err = f.Write(body(header, text))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("page store: %w", err)
	}

	return target, nil
}

// writeFileAtomic writes the page to a temporary file next to target and
// renames it into place so readers never observe a partial page.
func writeFileAtomic(target string, header []byte, text string) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".page-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(body(header, text)); err != nil {
		_ = tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), target)
}

func body(header []byte, text string) []byte {
	out := make([]byte, 0, len(header)+len(text)+1)
	out = append(out, header...)
	out = append(out, text...)

	return append(out, '\n')
}
