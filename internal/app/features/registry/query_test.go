package registry

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseListQuery_Defaults(t *testing.T) {
	q, err := ParseListQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, ListQuery{SortBy: "fullName", SortOrder: "asc", Page: 1, Limit: DefaultLimit}, q)
}

func TestParseListQuery_Clamps(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"zero page", "0", "10", 1, 10},
		{"negative page", "-3", "10", 1, 10},
		{"zero limit", "2", "0", 2, 1},
		{"huge limit", "1", "500", 1, MaxLimit},
		{"max limit", "1", "100", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseListQuery(url.Values{"page": {tt.page}, "limit": {tt.limit}})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestParseListQuery_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		vals  url.Values
		field string
	}{
		{"bad status", url.Values{"status": {"retired"}}, "status"},
		{"bad order", url.Values{"sortOrder": {"sideways"}}, "sortOrder"},
		{"unknown sort field", url.Values{"sortBy": {"password"}}, "sortBy"},
		{"shadow field not sortable", url.Values{"sortBy": {"fullNameCI"}}, "sortBy"},
		{"non-numeric page", url.Values{"page": {"abc"}}, "page"},
		{"non-numeric limit", url.Values{"limit": {"ten"}}, "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListQuery(tt.vals)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestParseListQuery_SortOrderCaseInsensitive(t *testing.T) {
	q, err := ParseListQuery(url.Values{"sortOrder": {"DESC"}, "sortBy": {"joinDate"}})
	require.NoError(t, err)
	assert.Equal(t, "desc", q.SortOrder)
	assert.Equal(t, bson.D{{Key: "join_date", Value: -1}, {Key: "_id", Value: -1}}, q.sort())
}

func TestSortFields(t *testing.T) {
	assert.Equal(t, "full_name_ci", sortFields["fullName"])
	assert.Equal(t, "region_ci", sortFields["region"])
	assert.Equal(t, "registry_number", sortFields["registryNumber"])
	assert.Equal(t, "created_at", sortFields["createdAt"])
	assert.Equal(t, "_id", sortFields["id"])
	_, ok := sortFields["-"]
	assert.False(t, ok)
}

func TestListQuery_Filter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ListQuery{}.filter())
	})

	t.Run("search is escaped and folded", func(t *testing.T) {
		f := ListQuery{Search: "Иванов (А.)"}.filter()
		or, ok := f["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 5)
		name := or[0].(bson.M)["full_name_ci"].(bson.M)
		assert.Equal(t, `иванов \(а\.\)`, name["$regex"])
		assert.Equal(t, "i", name["$options"])
		inn := or[1].(bson.M)["inn"].(bson.M)
		assert.Equal(t, `[иИ][вВ][аА][нН][оО][вВ] \([аА]\.\)`, inn["$regex"])
	})

	t.Run("region and status are ANDed", func(t *testing.T) {
		f := ListQuery{Region: "Москва", Status: "active"}.filter()
		assert.Equal(t, "active", f["status"])
		assert.Equal(t, bson.M{"$regex": "москва", "$options": "i"}, f["region_ci"])
		_, hasOr := f["$or"]
		assert.False(t, hasOr)
	})
}

func TestCaseless(t *testing.T) {
	assert.Equal(t, `[аА][уУ]-1`, caseless("ау-1"))
	assert.Equal(t, `\+7 \(495\)`, caseless("+7 (495)"))
	assert.Equal(t, `[mM]@[eE]\.[rR][uU]`, caseless("M@e.ru"))
	assert.Empty(t, caseless(""))
}

func TestListQuery_Skip(t *testing.T) {
	tests := []struct {
		name   string
		q      ListQuery
		want   int64
		wantOK bool
	}{
		{"first page", ListQuery{Page: 1, Limit: 10}, 0, true},
		{"third page", ListQuery{Page: 3, Limit: 25}, 50, true},
		{"largest int page", ListQuery{Page: math.MaxInt64, Limit: 10}, 0, false},
		{"just in range", ListQuery{Page: math.MaxInt64/MaxLimit + 1, Limit: MaxLimit}, (math.MaxInt64 / MaxLimit) * MaxLimit, true},
		{"just beyond", ListQuery{Page: math.MaxInt64/MaxLimit + 2, Limit: MaxLimit}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.q.skip()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
		})
	}
}

func TestParseListQuery_HugePageAccepted(t *testing.T) {
	q, err := ParseListQuery(url.Values{"page": {"9223372036854775807"}, "limit": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt64, q.Page)
	_, ok := q.skip()
	assert.False(t, ok)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, int64(0), pageCount(0, 10))
	assert.Equal(t, int64(1), pageCount(1, 10))
	assert.Equal(t, int64(1), pageCount(10, 10))
	assert.Equal(t, int64(3), pageCount(21, 10))
}
