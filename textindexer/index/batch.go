package index

// BatchFunc fetches the batch of matching documents that starts at offset
// together with the total number of matches. An empty batch ends the
// iteration.
type BatchFunc func(offset uint64) (docs []*Document, total uint64, err error)

// Static and compile-time check to ensure BatchIterator implements Iterator.
var _ Iterator = (*BatchIterator)(nil)

// BatchIterator walks a result set one batch at a time. Stores supply the
// BatchFunc that runs their query.
type BatchIterator struct {
	fetch BatchFunc
	batch []*Document
	pos   int

	// Absolute offset of the next document to hand out.
	offset uint64
	total  uint64

	doc     *Document
	lastErr error
}

// NewBatchIterator loads the batch at offset and returns an iterator over
// it and all the batches after it.
func NewBatchIterator(offset uint64, fetch BatchFunc) (*BatchIterator, error) {
	it := &BatchIterator{fetch: fetch, offset: offset}
	if err := it.load(); err != nil {
		return nil, err
	}

	return it, nil
}

func (it *BatchIterator) load() error {
	docs, total, err := it.fetch(it.offset)
	if err != nil {
		return err
	}

	it.batch, it.pos, it.total = docs, 0, total

	return nil
}

// Next loads the next item, returns false when no more items
// are available or when an error occurs.
func (it *BatchIterator) Next() bool {
	if it.fetch == nil || it.lastErr != nil || it.offset >= it.total {
		return false
	}

	if it.pos >= len(it.batch) {
		if it.lastErr = it.load(); it.lastErr != nil || len(it.batch) == 0 {
			return false
		}
	}

	it.doc = it.batch[it.pos]
	it.pos++
	it.offset++

	return true
}

// Document returns the current document from the result set.
func (it *BatchIterator) Document() *Document {
	return it.doc
}

// TotalCount returns the approximated total number of search results.
func (it *BatchIterator) TotalCount() uint64 {
	return it.total
}

// Error returns the last error encountered by the iterator.
func (it *BatchIterator) Error() error {
	return it.lastErr
}

// Close drops the current batch. Next returns false afterwards.
func (it *BatchIterator) Close() error {
	it.fetch = nil
	it.batch = nil

	return nil
}
