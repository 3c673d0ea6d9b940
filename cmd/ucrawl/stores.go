package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uCrawl/linkgraph/graph"
	"github.com/mycok/uCrawl/linkgraph/store/cdb"
	memgraph "github.com/mycok/uCrawl/linkgraph/store/memory"
	"github.com/mycok/uCrawl/textindexer/index"
	"github.com/mycok/uCrawl/textindexer/store/es"
	memindex "github.com/mycok/uCrawl/textindexer/store/memory"
	"github.com/mycok/uCrawl/textindexer/store/mongodb"
)

// IndexAPI defines the text index methods used by the crawl and search
// commands.
type IndexAPI interface {
	Index(doc *index.Document) error
	Search(q index.Query) (index.Iterator, error)
}

// GraphAPI defines the link graph methods used by the crawl command.
type GraphAPI interface {
	UpsertLink(link *graph.Link) error
	UpsertEdge(edge *graph.Edge) error
	RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error
	Links(retrievedBefore time.Time) (graph.LinkIterator, error)
	Edges(src uuid.UUID) (graph.EdgeIterator, error)
}

func getTextIndex(textIndexURI string, logger *logrus.Entry) (IndexAPI, error) {
	if textIndexURI == "" {
		return nil, fmt.Errorf("text index URI must be specified with --index-uri")
	}

	u, err := url.Parse(textIndexURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text index URI: %w", err)
	}

	switch u.Scheme {
	case "in-memory":
		logger.Info("using in-memory index store")

		return memindex.NewInMemoryBleveIndexer()
	case "bleve":
		if u.Path == "" {
			return nil, fmt.Errorf("bleve index URI must contain a path: %q", textIndexURI)
		}
		logger.WithField("path", u.Path).Info("using on-disk bleve index store")

		return memindex.NewBleveIndexer(u.Path)
	case "es":
		nodes := strings.Split(u.Host, ",")
		for i := 0; i < len(nodes); i++ {
			nodes[i] = "http://" + nodes[i]
		}
		logger.Info("using ES index store")

		return es.NewEsIndexer(nodes, true)
	case "mongodb", "mongodb+srv":
		database := strings.Trim(u.Path, "/")
		if database == "" {
			database = mongodb.DefaultDatabase
		}
		logger.WithField("database", database).Info("using MongoDB index store")

		return mongodb.NewMongoIndexer(textIndexURI, database)
	default:
		return nil, fmt.Errorf("unsupported text index URI scheme: %q", u.Scheme)
	}
}

func getLinkGraph(linkGraphURI string, logger *logrus.Entry) (GraphAPI, error) {
	if linkGraphURI == "" {
		return nil, fmt.Errorf("link graph URI must be specified with --graph-uri")
	}

	u, err := url.Parse(linkGraphURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link graph URI: %w", err)
	}

	switch u.Scheme {
	case "in-memory":
		logger.Info("using in-memory link graph store")

		return memgraph.NewInMemoryGraph(), nil
	case "postgresql":
		logger.Info("using SQL link graph store")

		return cdb.NewSQLGraph(linkGraphURI)
	default:
		return nil, fmt.Errorf("unsupported link graph URI scheme: %q", u.Scheme)
	}
}

// closeStore releases store if it holds resources.
func closeStore(store interface{}, logger *logrus.Entry) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.WithField("err", err).Warn("failed to close store")
		}
	}
}
