package main

import (
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mycok/uCrawl/report"
	"github.com/mycok/uCrawl/search"
)

func runSearch(appCtx *cli.Context, rootLogger *logrus.Logger, logger *logrus.Entry) error {
	terms := strings.Join(appCtx.Args().Slice(), " ")
	if strings.TrimSpace(terms) == "" {
		_ = cli.ShowSubcommandHelp(appCtx)

		return errors.New("no search terms given")
	}

	cfg, err := loadConfig(appCtx)
	if err != nil {
		return err
	}
	configureLogger(rootLogger, cfg)

	textIndex, err := getTextIndex(cfg.IndexURI, logger)
	if err != nil {
		return err
	}
	defer closeStore(textIndex, logger)

	engine, err := search.New(search.Config{
		Index:            textIndex,
		ResultsPerPage:   appCtx.Int("limit"),
		MaxSummaryLength: appCtx.Int("summary-length"),
	})
	if err != nil {
		return err
	}

	page, err := engine.Search(terms, appCtx.Uint64("offset"))
	if err != nil {
		return err
	}

	_, err = report.NewMarkdownWriter(os.Stdout).WriteSearch(page)

	return err
}
