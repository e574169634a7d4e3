// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding registry members.
const CollectionName = "members"

var (
	ErrNotFound                = errors.New("member not found")
	ErrDuplicateINN            = errors.New("a member with this INN already exists")
	ErrDuplicateRegistryNumber = errors.New("a member with this registry number already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts m with a fresh ID, timestamps and folded search fields.
// A unique-index violation is reported as ErrDuplicateINN or
// ErrDuplicateRegistryNumber.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.FullNameCI = text.Fold(m.FullName)
	m.RegionCI = text.Fold(m.Region)
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Member{}, mapWriteErr(err)
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) GetByINN(ctx context.Context, inn string) (models.Member, error) {
	return s.findOne(ctx, bson.M{"inn": inn})
}

func (s *Store) GetByRegistryNumber(ctx context.Context, number string) (models.Member, error) {
	return s.findOne(ctx, bson.M{"registry_number": number})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// ExistsByINN reports whether another member already uses inn.
// When excludeID is non-nil that member is ignored (update of self).
func (s *Store) ExistsByINN(ctx context.Context, inn string, excludeID *primitive.ObjectID) (bool, error) {
	return s.exists(ctx, "inn", inn, excludeID)
}

// ExistsByRegistryNumber reports whether another member already uses number.
func (s *Store) ExistsByRegistryNumber(ctx context.Context, number string, excludeID *primitive.ObjectID) (bool, error) {
	return s.exists(ctx, "registry_number", number, excludeID)
}

func (s *Store) exists(ctx context.Context, field, value string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{field: value}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update applies set and removes unset from the member, returning the updated
// document. Folded shadow fields follow full_name and region.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (models.Member, error) {
	doc := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range set {
		doc[k] = v
	}
	if name, ok := set["full_name"].(string); ok {
		doc["full_name_ci"] = text.Fold(name)
	}
	if region, ok := set["region"].(string); ok {
		doc["region_ci"] = text.Fold(region)
	}

	update := bson.M{"$set": doc}
	if len(unset) > 0 {
		rm := bson.M{}
		for _, k := range unset {
			rm[k] = ""
			if k == "region" {
				rm["region_ci"] = ""
			}
		}
		update["$unset"] = rm
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Member
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, mapWriteErr(err)
	}
	return m, nil
}

// Delete removes a member by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns members matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination, sorting, projection).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllSorted returns the whole collection ordered by full name.
func (s *Store) ListAllSorted(ctx context.Context) ([]models.Member, error) {
	return s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "full_name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}))
}

// Count returns the number of members matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// CountByStatus returns the number of members with the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// RegionCount is one row of the per-region breakdown.
type RegionCount struct {
	Region string `bson:"_id" json:"region"`
	Count  int64  `bson:"count" json:"count"`
}

// TopRegions returns the n regions with the most members, largest first.
// Members without a region are not counted.
func (s *Store) TopRegions(ctx context.Context, n int64) ([]RegionCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"region": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$region", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: n}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []RegionCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// mapWriteErr converts unique-index violations into the store's duplicate
// sentinels. The index name in the server message identifies the field.
func mapWriteErr(err error) error {
	if !wafflemongo.IsDup(err) {
		return err
	}
	if strings.Contains(err.Error(), "registry_number") {
		return ErrDuplicateRegistryNumber
	}
	return ErrDuplicateINN
}
