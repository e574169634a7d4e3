// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/sroam/sroregistry/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the registry collections (if missing) and attaches
// JSON-Schema validators. Servers without collMod/validator support (some
// DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("members", membersSchema())
	ensure("documents", documentsSchema())
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func statusEnum() bson.A {
	out := make(bson.A, 0, len(models.MemberStatuses))
	for _, s := range models.MemberStatuses {
		out = append(out, s)
	}
	return out
}

var (
	nonBlank     = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	optString    = bson.M{"bsonType": bson.A{"string", "null"}}
	optDate      = bson.M{"bsonType": bson.A{"date", "null"}}
	optNonNegNum = bson.M{"bsonType": bson.A{"double", "int", "long", "decimal", "null"}, "minimum": 0}
)

func membersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "inn", "registry_number", "status", "join_date"},
			"properties": bson.M{
				"full_name":       nonBlank,
				"full_name_ci":    bson.M{"bsonType": "string"},
				"inn":             bson.M{"bsonType": "string", "pattern": "^[0-9]{12}$"},
				"registry_number": nonBlank,
				"snils":           bson.M{"bsonType": bson.A{"string", "null"}, "pattern": "^[0-9]{11}$"},
				"status":          bson.M{"enum": statusEnum()},
				"join_date":       bson.M{"bsonType": "date"},
				"exclude_date":    optDate,
				"exclude_reason":  optString,
				"email":           optString,
				"phone":           optString,
				"region":          optString,
				"region_ci":       optString,
				"insurance": bson.M{
					"bsonType": bson.A{"object", "null"},
					"properties": bson.M{
						"amount":     optNonNegNum,
						"start_date": optDate,
						"end_date":   optDate,
					},
				},
				"compensation_fund_contribution":  optNonNegNum,
				"compensation_fund_contributions": bson.M{"bsonType": bson.A{"array", "null"}},
				"inspections":                     bson.M{"bsonType": bson.A{"array", "null"}},
				"disciplinary_measures":           bson.M{"bsonType": bson.A{"array", "null"}},
				"other_sro_participation":         bson.M{"bsonType": bson.A{"array", "null"}},
				"documents": bson.M{
					"bsonType": bson.A{"array", "null"},
					"items":    bson.M{"bsonType": "objectId"},
				},
				"created_by": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"updated_by": bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func documentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title"},
			"properties": bson.M{
				"title":    nonBlank,
				"filename": optString,
				"url":      optString,
			},
		},
	}
}
