package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mycok/uCrawl/config"
	"github.com/mycok/uCrawl/crawler"
	"github.com/mycok/uCrawl/crawler/privnet"
	"github.com/mycok/uCrawl/fetcher"
	"github.com/mycok/uCrawl/pagestore"
	"github.com/mycok/uCrawl/report"
)

func runCrawl(appCtx *cli.Context, rootLogger *logrus.Logger, logger *logrus.Entry) error {
	if appCtx.NArg() != 1 {
		_ = cli.ShowAppHelp(appCtx)

		return fmt.Errorf("expected exactly one seed url, got %d arguments", appCtx.NArg())
	}

	cfg, err := loadConfig(appCtx)
	if err != nil {
		return err
	}
	configureLogger(rootLogger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := pagestore.New(pagestore.Config{
		Dir:          cfg.OutputDir,
		Combined:     cfg.Combined,
		CombinedFile: cfg.CombinedFile,
		Logger:       logger.WithField("component", "page-store"),
	})
	if err != nil {
		return err
	}

	crawlerCfg := crawler.Config{
		Fetcher: fetcher.NewHTTPFetcher(fetcher.Config{
			Timeout:      cfg.Timeout.Duration,
			MaxBodyBytes: cfg.MaxBodyBytes,
		}),
		Extractor:     newExtractor(cfg.Extractor),
		Store:         store,
		UserAgent:     cfg.UserAgent,
		MaxPages:      cfg.MaxPages,
		SafetyCeiling: cfg.SafetyCeiling,
		CrawlDelay:    cfg.CrawlDelay.Duration,
		ExcludePaths:  cfg.ExcludePaths,
		HTMLOnly:      cfg.HTMLOnly,
		Logger:        logger.WithField("component", "crawler"),
	}

	if cfg.DenyPrivateNetworks {
		detector, err := privnet.NewDetector()
		if err != nil {
			return err
		}
		crawlerCfg.PrivateNetworkDetector = detector
	}

	if cfg.IndexURI != "" {
		textIndex, err := getTextIndex(cfg.IndexURI, logger)
		if err != nil {
			return err
		}
		defer closeStore(textIndex, logger)

		crawlerCfg.Sinks = append(crawlerCfg.Sinks, crawler.NewTextIndexerSink(textIndex))
	}

	var linkGraph GraphAPI
	if cfg.GraphURI != "" {
		if linkGraph, err = getLinkGraph(cfg.GraphURI, logger); err != nil {
			return err
		}
		defer closeStore(linkGraph, logger)

		crawlerCfg.Sinks = append(crawlerCfg.Sinks, crawler.NewGraphUpdaterSink(linkGraph))
	}

	c, err := crawler.New(crawlerCfg)
	if err != nil {
		return err
	}

	sum, crawlErr := c.Crawl(ctx, appCtx.Args().First())

	if cfg.ReportPath != "" {
		if err := writeReport(cfg.ReportPath, sum, linkGraph); err != nil {
			logger.WithField("err", err).Error("failed to write crawl report")
		}
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl aborted: %w", crawlErr)
	}

	return nil
}

func newExtractor(name string) crawler.ContentExtractor {
	if name == config.ExtractorStrict {
		return crawler.NewStrictExtractor()
	}

	return crawler.NewReadabilityExtractor()
}

func writeReport(path string, sum *crawler.Summary, links report.LinkSource) (err error) {
	var out io.Writer = os.Stdout

	if path != "-" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()

		out = f
	}

	_, err = report.NewMarkdownWriter(out).WriteSummary(sum, links)

	return err
}
