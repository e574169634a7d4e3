// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"time"

	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection owned by the documents module.
const CollectionName = "documents"

// Store gives the registry read access to published documents.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a document. The registry never writes documents itself;
// this exists for seeding and tests.
func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	d.ID = primitive.NewObjectID()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Document{}, err
	}
	return d, nil
}

// GetByIDs loads multiple documents by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{
		"title":    1,
		"filename": 1,
		"url":      1,
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Summaries returns the display fields of the given documents keyed by ID.
// IDs that no longer resolve are absent from the map.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.DocumentSummary, error) {
	docs, err := s.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]models.DocumentSummary, len(docs))
	for _, d := range docs {
		out[d.ID] = d.Summary()
	}
	return out, nil
}
