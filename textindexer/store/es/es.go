package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/mycok/uCrawl/textindexer/index"
)

// Static and compile-time check to ensure ElasticsearchIndex implements Indexer.
var _ index.Indexer = (*ElasticsearchIndex)(nil)

const (
	indexName = "ucrawl-pages"

	// Number of hits requested per search round trip.
	batchSize = 10

	// Upper bound for a single request to the cluster.
	requestTimeout = 10 * time.Second
)

const esMappings = `{
  "mappings": {
    "properties": {
      "PageID":    {"type": "keyword"},
      "URL":       {"type": "keyword"},
      "Title":     {"type": "text"},
      "Content":   {"type": "text"},
      "CrawledAt": {"type": "date"}
    }
  }
}`

// esDoc is the stored form of an index.Document.
type esDoc struct {
	PageID    string    `json:"PageID"`
	URL       string    `json:"URL"`
	Title     string    `json:"Title"`
	Content   string    `json:"Content"`
	CrawledAt time.Time `json:"CrawledAt"`
}

type esSearchReq struct {
	Query          map[string]interface{}   `json:"query"`
	Sort           []map[string]interface{} `json:"sort,omitempty"`
	TrackTotalHits bool                     `json:"track_total_hits,omitempty"`
	From           uint64                   `json:"from"`
	Size           int                      `json:"size"`
}

type esSearchRes struct {
	Hits struct {
		Total struct {
			Count uint64 `json:"value"`
		} `json:"total"`
		HitList []struct {
			DocSource esDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type esUpsertReq struct {
	Doc         esDoc `json:"doc"`
	DocAsUpsert bool  `json:"doc_as_upsert"`
}

type esError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e esError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

// ElasticsearchIndex is an Indexer backed by an elasticsearch cluster.
type ElasticsearchIndex struct {
	client  *elasticsearch.Client
	refresh string
}

// NewEsIndexer connects to the cluster at esNodes and creates the page index
// if it is missing. With syncUpdates set, every write waits for the index
// to refresh so the document is searchable once Index returns.
func NewEsIndexer(esNodes []string, syncUpdates bool) (*ElasticsearchIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: esNodes})
	if err != nil {
		return nil, err
	}

	if err = initIndex(client); err != nil {
		return nil, err
	}

	refresh := "false"
	if syncUpdates {
		refresh = "true"
	}

	return &ElasticsearchIndex{client: client, refresh: refresh}, nil
}

// Index inserts doc or replaces the stored document with the same page id.
func (s *ElasticsearchIndex) Index(doc *index.Document) error {
	if doc.PageID == uuid.Nil {
		return fmt.Errorf("index: %w", index.ErrMissingPageID)
	}

	body, err := encodeJSON(esUpsertReq{Doc: makeEsDoc(doc), DocAsUpsert: true})
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	res, err := s.client.Update(
		indexName, doc.PageID.String(), body,
		s.client.Update.WithContext(ctx),
		s.client.Update.WithRefresh(s.refresh),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	if err = unmarshalResponse(res, nil); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	return nil
}

// FindByID looks up a document by its page ID.
func (s *ElasticsearchIndex) FindByID(pageID uuid.UUID) (*index.Document, error) {
	res, err := performSearch(s.client, esSearchReq{
		Query: map[string]interface{}{
			"term": map[string]interface{}{"PageID": pageID.String()},
		},
		Size: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	if len(res.Hits.HitList) == 0 {
		return nil, fmt.Errorf("find by ID: %w", index.ErrNotFound)
	}

	doc, err := esDocToDoc(&res.Hits.HitList[0].DocSource)
	if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	return doc, nil
}

// Search runs a multi_match query over titles and contents. Phrase queries
// require the terms to appear in order.
func (s *ElasticsearchIndex) Search(q index.Query) (index.Iterator, error) {
	matchType := "best_fields"
	if q.Type == index.QueryTypePhrase {
		matchType = "phrase"
	}

	req := esSearchReq{
		Query: map[string]interface{}{
			"multi_match": map[string]interface{}{
				"type":   matchType,
				"query":  q.Expression,
				"fields": []string{"Title", "Content"},
			},
		},
		Sort: []map[string]interface{}{
			{"_score": "desc"},
			{"URL": "asc"},
		},
		TrackTotalHits: true,
		Size:           batchSize,
	}

	it, err := index.NewBatchIterator(q.Offset, s.searchBatches(req))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return it, nil
}

// searchBatches runs req once per batch with From moved to the offset the
// iterator asks for.
func (s *ElasticsearchIndex) searchBatches(req esSearchReq) index.BatchFunc {
	return func(offset uint64) ([]*index.Document, uint64, error) {
		req.From = offset

		res, err := performSearch(s.client, req)
		if err != nil {
			return nil, 0, err
		}

		docs := make([]*index.Document, 0, len(res.Hits.HitList))
		for i := range res.Hits.HitList {
			doc, err := esDocToDoc(&res.Hits.HitList[i].DocSource)
			if err != nil {
				return nil, 0, err
			}

			docs = append(docs, doc)
		}

		return docs, res.Hits.Total.Count, nil
	}
}

func performSearch(client *elasticsearch.Client, req esSearchReq) (*esSearchRes, error) {
	body, err := encodeJSON(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(indexName),
		client.Search.WithBody(body),
	)
	if err != nil {
		return nil, err
	}

	var out esSearchRes
	if err = unmarshalResponse(res, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// initIndex creates the page index. An index that already exists is left
// untouched.
func initIndex(client *elasticsearch.Client) error {
	res, err := client.Indices.Create(
		indexName,
		client.Indices.Create.WithBody(strings.NewReader(esMappings)),
	)
	if err != nil {
		return fmt.Errorf("create ES index: %w", err)
	}

	err = unmarshalResponse(res, nil)
	if esErr, ok := err.(esError); ok && esErr.Type == "resource_already_exists_exception" {
		return nil
	}

	if err != nil {
		return fmt.Errorf("create ES index: %w", err)
	}

	return nil
}

// unmarshalResponse decodes the body of a successful response into into,
// which may be nil, and turns error responses into an esError.
func unmarshalResponse(res *esapi.Response, into interface{}) error {
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		var errRes struct {
			Error esError `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return fmt.Errorf("decode %s error response: %w", res.Status(), err)
		}

		return errRes.Error
	}

	if into == nil {
		_, err := io.Copy(io.Discard, res.Body)

		return err
	}

	return json.NewDecoder(res.Body).Decode(into)
}

func encodeJSON(v interface{}) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}

	return &buf, nil
}

func esDocToDoc(doc *esDoc) (*index.Document, error) {
	pageID, err := uuid.Parse(doc.PageID)
	if err != nil {
		return nil, err
	}

	return &index.Document{
		PageID:    pageID,
		URL:       doc.URL,
		Title:     doc.Title,
		Content:   doc.Content,
		CrawledAt: doc.CrawledAt.UTC(),
	}, nil
}

func makeEsDoc(doc *index.Document) esDoc {
	return esDoc{
		PageID:    doc.PageID.String(),
		URL:       doc.URL,
		Title:     doc.Title,
		Content:   doc.Content,
		CrawledAt: doc.CrawledAt.UTC(),
	}
}
