package memory

import (
	"github.com/blevesearch/bleve"

	"github.com/mycok/uCrawl/textindexer/index"
)

// searchBatches re-runs req with a moving From for every batch requested
// by the iterator.
func (s *BleveIndex) searchBatches(req *bleve.SearchRequest) index.BatchFunc {
	return func(offset uint64) ([]*index.Document, uint64, error) {
		req.From = int(offset)

		sr, err := s.idx.Search(req)
		if err != nil {
			return nil, 0, err
		}

		docs := make([]*index.Document, 0, len(sr.Hits))
		for _, hit := range sr.Hits {
			doc, err := docFromHit(hit)
			if err != nil {
				return nil, 0, err
			}

			docs = append(docs, doc)
		}

		return docs, sr.Total, nil
	}
}
