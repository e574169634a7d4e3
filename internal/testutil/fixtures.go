package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	documentstore "github.com/sroam/sroregistry/internal/app/store/documents"
	memberstore "github.com/sroam/sroregistry/internal/app/store/members"
	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts an active member with the required fields filled in.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, inn, registryNumber string) models.Member {
	f.t.Helper()
	join := time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)
	return f.CreateMemberWith(ctx, models.Member{
		FullName:       fullName,
		INN:            inn,
		RegistryNumber: registryNumber,
		Phone:          "+7 (495) 123-45-67",
		Email:          registryNumber + "@example.ru",
		Status:         models.MemberStatusActive,
		JoinDate:       &join,
	})
}

// CreateMemberWith inserts m through the member store so folded fields and
// timestamps are set the way production writes them.
func (f *Fixtures) CreateMemberWith(ctx context.Context, m models.Member) models.Member {
	f.t.Helper()
	created, err := memberstore.New(f.db).Create(ctx, m)
	if err != nil {
		f.t.Fatalf("CreateMember(%q) failed: %v", m.FullName, err)
	}
	return created
}

// CreateDocument inserts a published document.
func (f *Fixtures) CreateDocument(ctx context.Context, title string) models.Document {
	f.t.Helper()
	d, err := documentstore.New(f.db).Create(ctx, models.Document{
		Title:    title,
		Filename: title + ".pdf",
		URL:      "/uploads/documents/" + title + ".pdf",
	})
	if err != nil {
		f.t.Fatalf("CreateDocument(%q) failed: %v", title, err)
	}
	return d
}
