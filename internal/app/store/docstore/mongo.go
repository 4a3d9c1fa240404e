package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DocumentID is the _id of the single care document in its collection.
const DocumentID = "carehub"

// MongoStore keeps the document as a single MongoDB document. It exists so
// the file backend can be swapped without touching handler code; it is still
// whole-document read/write.
type MongoStore struct {
	c   *mongo.Collection
	log *zap.Logger
	mu  sync.Mutex
}

// record is the stored shape: the document nested under "doc" so the _id
// and bookkeeping fields stay out of the domain type.
type record struct {
	ID        string          `bson:"_id"`
	Doc       models.Document `bson:"doc"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// NewMongoStore returns a MongoStore using the named collection.
func NewMongoStore(db *mongo.Database, collection string, logger *zap.Logger) *MongoStore {
	return &MongoStore{c: db.Collection(collection), log: logger}
}

// Load fetches the document.
func (s *MongoStore) Load(ctx context.Context) (*models.Document, error) {
	return s.load(ctx)
}

// Save replaces the document.
func (s *MongoStore) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// Update runs fn under the writer lock.
func (s *MongoStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return runUpdate(ctx, s, fn)
}

// Ping pings the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) load(ctx context.Context) (*models.Document, error) {
	raw, err := s.c.FindOne(ctx, bson.M{"_id": DocumentID}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}

	var rec record
	if err := bson.Unmarshal(raw, &rec); err != nil {
		s.log.Warn("stored document undecodable; starting from empty document",
			zap.String("collection", s.c.Name()),
			zap.Error(err))
		return models.NewDocument(), nil
	}
	rec.Doc.Normalize()
	return &rec.Doc, nil
}

func (s *MongoStore) save(ctx context.Context, doc *models.Document) error {
	doc.Normalize()
	rec := record{ID: DocumentID, Doc: *doc, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": DocumentID}, rec, opts); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
