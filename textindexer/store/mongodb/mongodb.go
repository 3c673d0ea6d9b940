package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mycok/uCrawl/textindexer/index"
)

// Static and compile-time check to ensure MongoIndex implements Indexer.
var _ index.Indexer = (*MongoIndex)(nil)

const (
	// Size of each page of results that is cached locally by the iterator.
	batchSize = 10

	// DefaultDatabase is used when the connection uri names no database.
	DefaultDatabase = "ucrawl"

	collectionName = "pages"
	opTimeout      = 10 * time.Second
)

type mongoDoc struct {
	PageID    string    `bson:"_id"`
	URL       string    `bson:"url"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	CrawledAt time.Time `bson:"crawled_at"`
}

// MongoIndex is an Indexer implementation that keeps crawled pages in a
// MongoDB collection and searches them through a text index.
type MongoIndex struct {
	client *mongo.Client
	pages  *mongo.Collection
}

// NewMongoIndexer connects to the MongoDB deployment at uri and prepares the
// pages collection of database.
func NewMongoIndexer(uri, database string) (*MongoIndex, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)

		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	if database == "" {
		database = DefaultDatabase
	}

	s := &MongoIndex{
		client: client,
		pages:  client.Database(database).Collection(collectionName),
	}

	if err = s.createIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)

		return nil, err
	}

	return s, nil
}

// Close disconnects from the deployment.
func (s *MongoIndex) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.client.Disconnect(ctx)
}

// Index adds a new document or updates an existing index entry
// in case of an existing document.
func (s *MongoIndex) Index(doc *index.Document) error {
	if doc.PageID == uuid.Nil {
		return fmt.Errorf("index: %w", index.ErrMissingPageID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	mDoc := makeMongoDoc(doc)
	_, err := s.pages.ReplaceOne(
		ctx, bson.M{"_id": mDoc.PageID}, mDoc, options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	return nil
}

// FindByID looks up a document by its page ID.
func (s *MongoIndex) FindByID(pageID uuid.UUID) (*index.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var mDoc mongoDoc
	err := s.pages.FindOne(ctx, bson.M{"_id": pageID.String()}).Decode(&mDoc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find by ID: %w", index.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	doc, err := mongoDocToDoc(&mDoc)
	if err != nil {
		return nil, fmt.Errorf("find by ID: %w", err)
	}

	return doc, nil
}

// Search performs a look up based on query and returns a result
// iterator if successful or an error otherwise.
func (s *MongoIndex) Search(q index.Query) (index.Iterator, error) {
	expression := q.Expression
	if q.Type == index.QueryTypePhrase {
		expression = fmt.Sprintf("%q", q.Expression)
	}

	filter := bson.M{"$text": bson.M{"$search": expression}}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	total, err := s.pages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	it, err := index.NewBatchIterator(q.Offset, s.findBatches(filter, uint64(total)))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return it, nil
}

// findBatches pages through the documents matching filter ordered by text
// score, ties broken by url. The total is counted once up front.
func (s *MongoIndex) findBatches(filter bson.M, total uint64) index.BatchFunc {
	return func(offset uint64) ([]*index.Document, uint64, error) {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		textScore := bson.M{"$meta": "textScore"}
		opts := options.Find().
			SetProjection(bson.M{"score": textScore}).
			SetSort(bson.D{{Key: "score", Value: textScore}, {Key: "url", Value: 1}}).
			SetSkip(int64(offset)).
			SetLimit(batchSize)

		cursor, err := s.pages.Find(ctx, filter, opts)
		if err != nil {
			return nil, 0, err
		}

		var batch []mongoDoc
		if err = cursor.All(ctx, &batch); err != nil {
			return nil, 0, err
		}

		docs := make([]*index.Document, 0, len(batch))
		for i := range batch {
			doc, err := mongoDocToDoc(&batch[i])
			if err != nil {
				return nil, 0, err
			}

			docs = append(docs, doc)
		}

		return docs, total, nil
	}
}

func (s *MongoIndex) createIndexes(ctx context.Context) error {
	_, err := s.pages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}},
		},
	})
	if err != nil {
		return fmt.Errorf("create mongodb indexes: %w", err)
	}

	return nil
}

func mongoDocToDoc(mDoc *mongoDoc) (*index.Document, error) {
	pageID, err := uuid.Parse(mDoc.PageID)
	if err != nil {
		return nil, err
	}

	return &index.Document{
		PageID:    pageID,
		URL:       mDoc.URL,
		Title:     mDoc.Title,
		Content:   mDoc.Content,
		CrawledAt: mDoc.CrawledAt.UTC(),
	}, nil
}

func makeMongoDoc(doc *index.Document) mongoDoc {
	return mongoDoc{
		PageID:    doc.PageID.String(),
		URL:       doc.URL,
		Title:     doc.Title,
		Content:   doc.Content,
		CrawledAt: doc.CrawledAt.UTC(),
	}
}
