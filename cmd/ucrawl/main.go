package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mycok/uCrawl/config"
)

var (
	appName = "ucrawl"
	appSHA  = "latest-app-git-sha" // Populated by the compiler at the linking stage.
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSHA,
		"host": host,
	})

	if err := newApp(rootLogger, logger).Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")
		_ = os.Stderr.Sync()

		os.Exit(1)
	}
}

func newApp(rootLogger *logrus.Logger, logger *logrus.Entry) *cli.App {
	defaults := config.Default()

	app := cli.NewApp()
	app.Name = appName
	app.Version = appSHA
	app.Usage = "crawl a documentation site and store the text of its pages"
	app.ArgsUsage = "<seed-url>"
	app.Flags = append(commonFlags(defaults), crawlFlags(defaults)...)
	app.Action = func(appCtx *cli.Context) error {
		return runCrawl(appCtx, rootLogger, logger)
	}
	app.Commands = []*cli.Command{
		{
			Name:      "search",
			Usage:     "search the pages indexed by a previous crawl",
			ArgsUsage: "<terms...>",
			Flags:     append(commonFlags(defaults), searchFlags()...),
			Action: func(appCtx *cli.Context) error {
				return runSearch(appCtx, rootLogger, logger)
			},
		},
	}

	return app
}

func commonFlags(defaults *config.File) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"UCRAWL_CONFIG"},
			Usage:   "Path to a YAML configuration file [defaults to " + config.DefaultPath() + " if present]",
		},
		&cli.StringFlag{
			Name:    "index-uri",
			EnvVars: []string{"UCRAWL_INDEX_URI"},
			Usage: "URI of a text index that receives every stored page." +
				" [supported URI's: in-memory://, bleve:///path/to/index, es://node1:9200,...,nodeN:9200, mongodb://host:27017/db]",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   defaults.LogLevel,
			EnvVars: []string{"UCRAWL_LOG_LEVEL"},
			Usage:   "Minimum level of logged events",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   defaults.LogFormat,
			EnvVars: []string{"UCRAWL_LOG_FORMAT"},
			Usage:   "Format of log output. Supported values are 'text' and 'json'",
		},
	}
}

func crawlFlags(defaults *config.File) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "max-pages",
			Value:   defaults.MaxPages,
			EnvVars: []string{"UCRAWL_MAX_PAGES"},
			Usage:   "Maximum number of pages to store. 0 means no limit besides the safety ceiling",
		},
		&cli.IntFlag{
			Name:    "safety-ceiling",
			Value:   defaults.SafetyCeiling,
			EnvVars: []string{"UCRAWL_SAFETY_CEILING"},
			Usage:   "Maximum number of pages to store when --max-pages is not set",
		},
		&cli.DurationFlag{
			Name:    "crawl-delay",
			Value:   defaults.CrawlDelay.Duration,
			EnvVars: []string{"UCRAWL_CRAWL_DELAY"},
			Usage:   "Delay between two requests when robots.txt exists but sets no Crawl-delay",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Value:   defaults.OutputDir,
			EnvVars: []string{"UCRAWL_OUTPUT_DIR"},
			Usage:   "Directory that receives the extracted page text",
		},
		&cli.BoolFlag{
			Name:    "combined",
			EnvVars: []string{"UCRAWL_COMBINED"},
			Usage:   "Append every page to a single file instead of writing one file per page",
		},
		&cli.StringFlag{
			Name:    "combined-file",
			Value:   defaults.CombinedFile,
			EnvVars: []string{"UCRAWL_COMBINED_FILE"},
			Usage:   "Name of the file written in combined mode",
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Value:   defaults.UserAgent,
			EnvVars: []string{"UCRAWL_USER_AGENT"},
			Usage:   "User agent sent with every request and matched against robots.txt",
		},
		&cli.StringFlag{
			Name:    "extractor",
			Value:   defaults.Extractor,
			EnvVars: []string{"UCRAWL_EXTRACTOR"},
			Usage:   "Content extractor to use. Supported values are 'readability' and 'strict'",
		},
		&cli.StringSliceFlag{
			Name:    "exclude-path",
			EnvVars: []string{"UCRAWL_EXCLUDE_PATHS"},
			Usage:   "Do not follow links whose path contains this fragment (repeatable)",
		},
		&cli.BoolFlag{
			Name:    "html-only",
			EnvVars: []string{"UCRAWL_HTML_ONLY"},
			Usage:   "Only follow links whose path ends in .html or /",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   defaults.Timeout.Duration,
			EnvVars: []string{"UCRAWL_TIMEOUT"},
			Usage:   "Timeout of a single request",
		},
		&cli.Int64Flag{
			Name:    "max-body-bytes",
			Value:   defaults.MaxBodyBytes,
			EnvVars: []string{"UCRAWL_MAX_BODY_BYTES"},
			Usage:   "Maximum size of a response body",
		},
		&cli.BoolFlag{
			Name:    "deny-private-networks",
			EnvVars: []string{"UCRAWL_DENY_PRIVATE_NETWORKS"},
			Usage:   "Refuse to crawl seeds that resolve to a private network address",
		},
		&cli.StringFlag{
			Name:    "graph-uri",
			EnvVars: []string{"UCRAWL_GRAPH_URI"},
			Usage: "URI of a link graph that records the links between crawled pages." +
				" [supported URI's: in-memory://, postgresql://user@host:26257/linkgraph?sslmode=disable]",
		},
		&cli.StringFlag{
			Name:    "report",
			EnvVars: []string{"UCRAWL_REPORT"},
			Usage:   "Write a markdown crawl report to this file. Use '-' for stdout",
		},
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:  "offset",
			Usage: "Number of results to skip",
		},
		&cli.IntFlag{
			Name:  "limit",
			Value: 10,
			Usage: "Number of results to print",
		},
		&cli.IntFlag{
			Name:  "summary-length",
			Value: 256,
			Usage: "Maximum length of a result summary in characters",
		},
	}
}
