package pagestore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const headerDelimiter = "---"

// ErrNoHeader is returned when a stored page does not start with a
// provenance header.
var ErrNoHeader = errors.New("provenance header not found")

// Header is the provenance block written in front of every stored page. The
// field order is part of the file format.
type Header struct {
	Source    string `yaml:"source"`
	CrawledAt string `yaml:"crawled_at"`
	Title     string `yaml:"title,omitempty"`
}

// NewHeader returns the header for a page retrieved from source at crawledAt.
func NewHeader(source, title string, crawledAt time.Time) Header {
	return Header{
		Source:    source,
		CrawledAt: crawledAt.UTC().Format(time.RFC3339),
		Title:     title,
	}
}

// Time parses the CrawledAt field.
func (h Header) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, h.CrawledAt)
}

// encode renders the header as a YAML front matter block followed by a blank
// line.
func (h Header) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(headerDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	buf.WriteString(headerDelimiter + "\n\n")

	return buf.Bytes(), nil
}

// ReadHeader parses the provenance header at the start of r.
func ReadHeader(r io.Reader) (Header, error) {
	var (
		h       Header
		block   strings.Builder
		scanner = bufio.NewScanner(r)
	)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != headerDelimiter {
		return h, ErrNoHeader
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == headerDelimiter {
			if err := yaml.Unmarshal([]byte(block.String()), &h); err != nil {
				return h, fmt.Errorf("decode header: %w", err)
			}

			return h, nil
		}

		block.WriteString(line)
		block.WriteByte('\n')
	}

	if err := scanner.Err(); err != nil {
		return h, err
	}

	return h, ErrNoHeader
}
