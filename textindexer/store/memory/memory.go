package memory

import (
	"errors"
	"fmt"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search"
	"github.com/blevesearch/bleve/search/query"
	"github.com/google/uuid"

	"github.com/mycok/uCrawl/textindexer/index"
)

// Size of each page of results that is cached locally by the iterator.
const batchSize = 10

// Fields loaded for every search hit.
var docFields = []string{"URL", "Title", "Content", "CrawledAt"}

// Static and compile-time check to ensure BleveIndex implements Indexer.
var _ index.Indexer = (*BleveIndex)(nil)

type bleveDoc struct {
	URL       string
	Title     string
	Content   string
	CrawledAt string
}

// BleveIndex is an Indexer implementation that uses a bleve instance
// to index / catalogue and search documents. The index lives either in
// memory or in a directory on disk.
type BleveIndex struct {
	idx bleve.Index
}

// NewInMemoryBleveIndexer instantiates and returns a text indexer that
// uses an in-memory bleve instance to index documents.
func NewInMemoryBleveIndexer() (*BleveIndex, error) {
	idx, err := bleve.NewMemOnly(newIndexMapping())
	if err != nil {
		return nil, err
	}

	return &BleveIndex{idx: idx}, nil
}

// NewBleveIndexer opens the bleve index stored at path, creating it if it
// does not exist yet.
func NewBleveIndexer(path string) (*BleveIndex, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, newIndexMapping())
	}

	if err != nil {
		return nil, fmt.Errorf("open bleve index %q: %w", path, err)
	}

	return &BleveIndex{idx: idx}, nil
}

// Close releases / frees any previously allocated resources.
func (s *BleveIndex) Close() error {
	return s.idx.Close()
}

// Index adds a new document or updates an existing index entry
// in case of an existing document.
func (s *BleveIndex) Index(doc *index.Document) error {
	if doc.PageID == uuid.Nil {
		return fmt.Errorf("index: %w", index.ErrMissingPageID)
	}

	if err := s.idx.Index(doc.PageID.String(), makeBleveDoc(doc)); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	return nil
}

// FindByID looks up a document by its page ID.
func (s *BleveIndex) FindByID(pageID uuid.UUID) (*index.Document, error) {
	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{pageID.String()}))
	req.Fields = docFields

	sr, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	if len(sr.Hits) == 0 {
		return nil, fmt.Errorf("find by ID: %w", index.ErrNotFound)
	}

	doc, err := docFromHit(sr.Hits[0])
	if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	return doc, nil
}

// Search performs a look up based on query and returns a result
// iterator if successful or an error otherwise.
func (s *BleveIndex) Search(q index.Query) (index.Iterator, error) {
	var bleveQuery query.Query

	switch q.Type {
	case index.QueryTypePhrase:
		bleveQuery = bleve.NewMatchPhraseQuery(q.Expression)
	default:
		bleveQuery = bleve.NewMatchQuery(q.Expression)
	}

	searchReq := bleve.NewSearchRequest(bleveQuery)
	searchReq.SortBy([]string{"-_score", "URL"})
	searchReq.Fields = docFields
	searchReq.Size = batchSize

	it, err := index.NewBatchIterator(q.Offset, s.searchBatches(searchReq))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return it, nil
}

// newIndexMapping indexes the title and content for full-text search. The
// url is kept as a single term so results can be sorted by it.
func newIndexMapping() mapping.IndexMapping {
	urlField := bleve.NewTextFieldMapping()
	urlField.Analyzer = keyword.Name
	urlField.IncludeInAll = false

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false
	storedOnly.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("URL", urlField)
	docMapping.AddFieldMappingsAt("Title", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Content", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("CrawledAt", storedOnly)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

func makeBleveDoc(doc *index.Document) bleveDoc {
	bDoc := bleveDoc{
		URL:     doc.URL,
		Title:   doc.Title,
		Content: doc.Content,
	}

	if !doc.CrawledAt.IsZero() {
		bDoc.CrawledAt = doc.CrawledAt.UTC().Format(time.RFC3339Nano)
	}

	return bDoc
}

func docFromHit(hit *search.DocumentMatch) (*index.Document, error) {
	pageID, err := uuid.Parse(hit.ID)
	if err != nil {
		return nil, err
	}

	doc := &index.Document{
		PageID:  pageID,
		URL:     fieldString(hit.Fields, "URL"),
		Title:   fieldString(hit.Fields, "Title"),
		Content: fieldString(hit.Fields, "Content"),
	}

	if ts := fieldString(hit.Fields, "CrawledAt"); ts != "" {
		if doc.CrawledAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func fieldString(fields map[string]interface{}, name string) string {
	value, _ := fields[name].(string)

	return value
}
