package fetcher

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds a single request, including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the number of bytes read from a response body.
	DefaultMaxBodyBytes = 5 * 1024 * 1024
)

// HTTPClient should be implemented by objects that can execute http requests.
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result holds a successfully retrieved resource.
type Result struct {
	// StatusCode of the final response.
	StatusCode int

	// FinalURL is the url the final response was served from. It differs
	// from the requested url only when a custom client follows redirects.
	FinalURL string

	// Header of the final response.
	Header http.Header

	// Body decoded from its content encoding and transcoded to UTF-8.
	Body []byte
}

// ContentType returns the media type of the result without parameters.
func (r *Result) ContentType() string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	}

	return mediaType
}

// IsHTML reports whether the result carries an html document. A response
// without a content type is treated as html.
func (r *Result) IsHTML() bool {
	if r.Header.Get("Content-Type") == "" {
		return true
	}

	return strings.Contains(r.ContentType(), "html")
}

// Config defines the behaviour of an HTTPFetcher.
type Config struct {
	// Client used to execute requests. If not specified, an http.Client
	// with the configured Timeout is used. An *http.Client is copied and
	// made to stop at the first redirect.
	Client HTTPClient

	// Timeout for a single request.
	Timeout time.Duration

	// Maximum number of body bytes to read.
	MaxBodyBytes int64
}

// HTTPFetcher retrieves web resources over http(s).
type HTTPFetcher struct {
	client       HTTPClient
	maxBodyBytes int64
}

// NewHTTPFetcher returns an HTTPFetcher configured with cfg.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	switch client := cfg.Client.(type) {
	case nil:
		cfg.Client = &http.Client{Timeout: cfg.Timeout, CheckRedirect: stopAtFirstHop}
	case *http.Client:
		noFollow := *client
		noFollow.CheckRedirect = stopAtFirstHop
		cfg.Client = &noFollow
	}

	return &HTTPFetcher{
		client:       cfg.Client,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch performs an http GET request for rawURL identifying itself with
// userAgent. Redirects are not followed: a 3xx response with a Location
// header is returned as a *RedirectError so that the caller can vet the
// target before requesting it. Any other response with a non 2xx status code
// is returned as a *StatusError.
func (f *HTTPFetcher) Fetch(
	ctx context.Context, rawURL, userAgent string,
) (*Result, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) && resp.Header.Get("Location") != "" {
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)

		location, err := req.URL.Parse(resp.Header.Get("Location"))
		if err != nil {
			return nil, fmt.Errorf("fetch: %q: invalid redirect location: %w", rawURL, err)
		}

		return nil, &RedirectError{URL: rawURL, Location: location.String(), StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)

		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch: %q: %w", rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		StatusCode: resp.StatusCode,
		FinalURL:   finalURL,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}

func stopAtFirstHop(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}

	return false
}

func (f *HTTPFetcher) readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()

		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	// Transcode legacy charsets to UTF-8 so that downstream parsers see
	// a single encoding. An unknown charset leaves the body untouched.
	if utf8Reader, err := charset.NewReader(reader, resp.Header.Get("Content-Type")); err == nil {
		reader = utf8Reader
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > f.maxBodyBytes {
		return nil, ErrBodyTooLarge
	}

	return body, nil
}
