// Package config loads the optional ucrawl configuration file. Values read
// from the file act as defaults for the command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mycok/uCrawl/crawler"
	"github.com/mycok/uCrawl/fetcher"
	"github.com/mycok/uCrawl/pagestore"
	"github.com/mycok/uCrawl/robots"
)

const (
	// AppName names the configuration directory below the XDG config home.
	AppName = "ucrawl"

	// DefaultConfigFile is the name of the configuration file.
	DefaultConfigFile = "config.yaml"
)

// Supported content extractors.
const (
	ExtractorReadability = "readability"
	ExtractorStrict      = "strict"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Duration is a time.Duration that is written to YAML as a duration
// string, e.g. "1500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	d.Duration = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// File mirrors the layout of the configuration file.
type File struct {
	UserAgent     string   `yaml:"user_agent"`
	MaxPages      int      `yaml:"max_pages"`
	SafetyCeiling int      `yaml:"safety_ceiling"`
	CrawlDelay    Duration `yaml:"crawl_delay"`

	OutputDir    string `yaml:"output_dir"`
	Combined     bool   `yaml:"combined"`
	CombinedFile string `yaml:"combined_file"`

	Extractor    string   `yaml:"extractor"`
	ExcludePaths []string `yaml:"exclude_paths"`
	HTMLOnly     bool     `yaml:"html_only"`

	Timeout      Duration `yaml:"timeout"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`

	// Reject seeds that resolve to a private network address.
	DenyPrivateNetworks bool `yaml:"deny_private_networks"`

	IndexURI   string `yaml:"index_uri"`
	GraphURI   string `yaml:"graph_uri"`
	ReportPath string `yaml:"report_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() *File {
	return &File{
		UserAgent:     crawler.DefaultUserAgent,
		SafetyCeiling: crawler.DefaultSafetyCeiling,
		CrawlDelay:    Duration{robots.DefaultCrawlDelay},
		OutputDir:     pagestore.DefaultDir,
		CombinedFile:  pagestore.DefaultCombinedFile,
		Extractor:     ExtractorReadability,
		ExcludePaths:  append([]string(nil), crawler.DefaultExcludePaths...),
		Timeout:       Duration{fetcher.DefaultTimeout},
		MaxBodyBytes:  fetcher.DefaultMaxBodyBytes,
		LogLevel:      logrus.InfoLevel.String(),
		LogFormat:     LogFormatText,
	}
}

// DefaultPath returns the location of the configuration file below the XDG
// config home, e.g. ~/.config/ucrawl/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultConfigFile)
}

// Load reads the configuration file at path on top of Default. Unknown keys
// are rejected. If the file does not exist, ErrConfigNotFound is returned.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}

		return nil, err
	}
	defer func() { _ = f.Close() }()

	cfg := Default()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid setting of the configuration.
func (cfg *File) Validate() error {
	var err error

	if cfg.UserAgent == "" {
		err = multierror.Append(err, errors.New("user agent must not be empty"))
	}

	if cfg.MaxPages < 0 {
		err = multierror.Append(err, errors.New("invalid max pages: must be >= 0"))
	}

	if cfg.SafetyCeiling < 0 {
		err = multierror.Append(err, errors.New("invalid safety ceiling: must be >= 0"))
	}

	if cfg.CrawlDelay.Duration < 0 {
		err = multierror.Append(err, errors.New("invalid crawl delay: must be >= 0"))
	}

	if cfg.OutputDir == "" {
		err = multierror.Append(err, errors.New("output directory must not be empty"))
	}

	if cfg.Timeout.Duration < 0 {
		err = multierror.Append(err, errors.New("invalid timeout: must be >= 0"))
	}

	if cfg.MaxBodyBytes < 0 {
		err = multierror.Append(err, errors.New("invalid max body bytes: must be >= 0"))
	}

	switch cfg.Extractor {
	case ExtractorReadability, ExtractorStrict:
	default:
		err = multierror.Append(err, fmt.Errorf("unknown extractor %q", cfg.Extractor))
	}

	switch cfg.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		err = multierror.Append(err, fmt.Errorf("unknown log format %q", cfg.LogFormat))
	}

	if _, levelErr := logrus.ParseLevel(cfg.LogLevel); levelErr != nil {
		err = multierror.Append(err, levelErr)
	}

	return err
}
