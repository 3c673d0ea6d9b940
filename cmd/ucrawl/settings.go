package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mycok/uCrawl/config"
)

// loadConfig reads the configuration file and applies the flags that were
// set on the command line or through the environment on top of it.
func loadConfig(appCtx *cli.Context) (*config.File, error) {
	path, explicit := config.DefaultPath(), false
	if ctx, ok := lookupFlag(appCtx, "config"); ok {
		path, explicit = ctx.String("config"), true
	}

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		cfg = config.Default()
	case err != nil:
		return nil, fmt.Errorf("%w: %s", err, path)
	}

	applyFlags(appCtx, cfg)

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// lookupFlag returns the innermost context of the command lineage on which
// the named flag was set.
func lookupFlag(appCtx *cli.Context, name string) (*cli.Context, bool) {
	for _, ctx := range appCtx.Lineage() {
		if ctx.IsSet(name) {
			return ctx, true
		}
	}

	return nil, false
}

func applyFlags(appCtx *cli.Context, cfg *config.File) {
	for name, dst := range map[string]*string{
		"index-uri":     &cfg.IndexURI,
		"log-level":     &cfg.LogLevel,
		"log-format":    &cfg.LogFormat,
		"output-dir":    &cfg.OutputDir,
		"combined-file": &cfg.CombinedFile,
		"user-agent":    &cfg.UserAgent,
		"extractor":     &cfg.Extractor,
		"graph-uri":     &cfg.GraphURI,
		"report":        &cfg.ReportPath,
	} {
		if ctx, ok := lookupFlag(appCtx, name); ok {
			*dst = ctx.String(name)
		}
	}

	for name, dst := range map[string]*bool{
		"combined":              &cfg.Combined,
		"html-only":             &cfg.HTMLOnly,
		"deny-private-networks": &cfg.DenyPrivateNetworks,
	} {
		if ctx, ok := lookupFlag(appCtx, name); ok {
			*dst = ctx.Bool(name)
		}
	}

	if ctx, ok := lookupFlag(appCtx, "max-pages"); ok {
		cfg.MaxPages = ctx.Int("max-pages")
	}
	if ctx, ok := lookupFlag(appCtx, "safety-ceiling"); ok {
		cfg.SafetyCeiling = ctx.Int("safety-ceiling")
	}
	if ctx, ok := lookupFlag(appCtx, "crawl-delay"); ok {
		cfg.CrawlDelay = config.Duration{Duration: ctx.Duration("crawl-delay")}
	}
	if ctx, ok := lookupFlag(appCtx, "timeout"); ok {
		cfg.Timeout = config.Duration{Duration: ctx.Duration("timeout")}
	}
	if ctx, ok := lookupFlag(appCtx, "max-body-bytes"); ok {
		cfg.MaxBodyBytes = ctx.Int64("max-body-bytes")
	}
	if ctx, ok := lookupFlag(appCtx, "exclude-path"); ok {
		cfg.ExcludePaths = ctx.StringSlice("exclude-path")
	}
}

// configureLogger applies the validated log settings to the root logger.
func configureLogger(rootLogger *logrus.Logger, cfg *config.File) {
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		rootLogger.SetLevel(level)
	}

	if cfg.LogFormat == config.LogFormatJSON {
		rootLogger.SetFormatter(new(logrus.JSONFormatter))
	} else {
		rootLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
