// internal/app/features/registry/query.go
package registry

import (
	"context"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sroam/sroregistry/internal/app/system/inputval"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery is the parsed form of GET /registry query parameters.
type ListQuery struct {
	Search    string
	Region    string
	Status    string
	SortBy    string // Member JSON field name
	SortOrder string // asc | desc
	Page      int
	Limit     int
}

// ListResult is one page of members.
type ListResult struct {
	Data       []MemberView
	Pagination jsonresp.Pagination
}

// sortFields maps Member JSON field names to the stored field used for sorting.
var sortFields = buildSortFields()

func buildSortFields() map[string]string {
	out := map[string]string{}
	t := reflect.TypeOf(models.Member{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		jsonName, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		bsonName, _, _ := strings.Cut(f.Tag.Get("bson"), ",")
		if jsonName == "" || jsonName == "-" || bsonName == "" || bsonName == "-" {
			continue
		}
		out[jsonName] = bsonName
	}
	out["fullName"] = "full_name_ci"
	out["region"] = "region_ci"
	return out
}

// ParseListQuery reads and validates list parameters. Page and limit are
// clamped rather than rejected.
func ParseListQuery(v url.Values) (ListQuery, error) {
	q := ListQuery{
		Search:    strings.TrimSpace(v.Get("search")),
		Region:    strings.TrimSpace(v.Get("region")),
		Status:    strings.TrimSpace(v.Get("status")),
		SortBy:    strings.TrimSpace(v.Get("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(v.Get("sortOrder"))),
		Page:      1,
		Limit:     DefaultLimit,
	}
	if q.SortBy == "" {
		q.SortBy = "fullName"
	}
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}

	res := &inputval.Result{}
	if s := strings.TrimSpace(v.Get("page")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			res.Add("page", "Page must be a whole number.")
		} else {
			q.Page = max(n, 1)
		}
	}
	if s := strings.TrimSpace(v.Get("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			res.Add("limit", "Limit must be a whole number.")
		} else {
			q.Limit = min(max(n, 1), MaxLimit)
		}
	}
	if q.Status != "" && !models.IsMemberStatus(q.Status) {
		res.Add("status", "Status must be one of: "+strings.Join(models.MemberStatuses, ", ")+".")
	}
	if _, ok := sortFields[q.SortBy]; !ok {
		res.Add("sortBy", "Unknown sort field: "+q.SortBy+".")
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		res.Add("sortOrder", "Sort order must be asc or desc.")
	}
	if res.HasErrors() {
		return ListQuery{}, newValidationError(res)
	}
	return q, nil
}

// filter builds the Mongo filter for q.
func (q ListQuery) filter() bson.M {
	f := bson.M{}
	if q.Search != "" {
		folded := regexp.QuoteMeta(text.Fold(q.Search))
		raw := caseless(q.Search)
		f["$or"] = bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": folded, "$options": "i"}},
			bson.M{"inn": bson.M{"$regex": raw, "$options": "i"}},
			bson.M{"registry_number": bson.M{"$regex": raw, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": raw, "$options": "i"}},
			bson.M{"phone": bson.M{"$regex": raw, "$options": "i"}},
		}
	}
	if q.Region != "" {
		f["region_ci"] = bson.M{"$regex": regexp.QuoteMeta(text.Fold(q.Region)), "$options": "i"}
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	return f
}

// caseless escapes term for a regex and spells out both cases of every
// letter, so Cyrillic matches do not depend on the server's Unicode folding.
func caseless(term string) string {
	var b strings.Builder
	for _, r := range term {
		lo, up := unicode.ToLower(r), unicode.ToUpper(r)
		if lo == up {
			b.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		b.WriteByte('[')
		b.WriteRune(lo)
		b.WriteRune(up)
		b.WriteByte(']')
	}
	return b.String()
}

// sort returns the sort document with an _id tie-break in the same direction.
func (q ListQuery) sort() bson.D {
	dir := 1
	if q.SortOrder == "desc" {
		dir = -1
	}
	return bson.D{{Key: sortFields[q.SortBy], Value: dir}, {Key: "_id", Value: dir}}
}

// skip returns the number of documents before q's page. ok is false when
// the page lies beyond any representable offset, which is always empty.
func (q ListQuery) skip() (n int64, ok bool) {
	page, limit := int64(q.Page)-1, int64(q.Limit)
	if page <= 0 || limit <= 0 {
		return 0, true
	}
	if page > math.MaxInt64/limit {
		return 0, false
	}
	return page * limit, true
}

// List returns one page of members matching q.
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQuery(time.Since(start)) }()

	filter := q.filter()
	skip, inRange := q.skip()
	opts := options.Find().
		SetSort(q.sort()).
		SetSkip(skip).
		SetLimit(int64(q.Limit))

	var (
		members []models.Member
		total   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	if inRange {
		g.Go(func() error {
			var err error
			members, err = s.members.Find(gctx, filter, opts)
			return err
		})
	}
	g.Go(func() error {
		var err error
		total, err = s.members.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return ListResult{}, err
	}

	views, err := s.expand(ctx, members)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Data: views,
		Pagination: jsonresp.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: pageCount(total, q.Limit),
		},
	}, nil
}

func pageCount(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
