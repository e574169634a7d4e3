package registry_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sroam/sroregistry/internal/app/features/registry"
	"github.com/sroam/sroregistry/internal/app/system/auth"
	"github.com/sroam/sroregistry/internal/app/system/csvutil"
	"github.com/sroam/sroregistry/internal/app/system/indexes"
	"github.com/sroam/sroregistry/internal/app/system/metrics"
	"github.com/sroam/sroregistry/internal/app/system/ratelimit"
	"github.com/sroam/sroregistry/internal/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	h := registry.NewHandler(db, nil, metrics.New(prometheus.NewRegistry()), "registry", zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/registry", registry.Routes(h))
	return r, testutil.NewFixtures(t, db)
}

// gateOnlyRouter serves routes whose handlers must never be reached.
func gateOnlyRouter() http.Handler {
	h := &registry.Handler{Svc: registry.NewService(nil, nil, nil, zap.NewNop()), Log: zap.NewNop()}
	r := chi.NewRouter()
	r.Mount("/registry", registry.Routes(h))
	return r
}

func serve(h http.Handler, req *http.Request, actor *auth.Actor) *testutil.ResponseRecorder {
	if actor != nil {
		req = auth.WithActor(req, actor)
	}
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"fullName": "Иванов Иван Иванович",
	"inn": "770123456789",
	"registryNumber": "101",
	"phone": "+7 (495) 123-45-67",
	"email": "ivanov@example.ru",
	"region": "Москва",
	"joinDate": "2020-03-15",
	"insurance": {"insuranceCompany": "СОГАЗ", "amount": 10000000}
}`

func TestRoutes_Gates(t *testing.T) {
	router := gateOnlyRouter()

	tests := []struct {
		name   string
		method string
		path   string
		actor  *auth.Actor
		want   int
	}{
		{"create anonymous", "POST", "/registry", nil, http.StatusUnauthorized},
		{"create viewer", "POST", "/registry", testutil.ViewerActor(), http.StatusForbidden},
		{"update anonymous", "PATCH", "/registry/0123456789abcdef01234567", nil, http.StatusUnauthorized},
		{"update viewer", "PATCH", "/registry/0123456789abcdef01234567", testutil.ViewerActor(), http.StatusForbidden},
		{"delete editor", "DELETE", "/registry/0123456789abcdef01234567", testutil.EditorActor(), http.StatusForbidden},
		{"delete anonymous", "DELETE", "/registry/0123456789abcdef01234567", nil, http.StatusUnauthorized},
		{"export excel anonymous", "GET", "/registry/export/excel", nil, http.StatusUnauthorized},
		{"export csv anonymous", "GET", "/registry/export/csv", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(tt.method, tt.path, nil), tt.actor)
			rec.AssertStatus(t, tt.want)
			env := rec.Envelope(t, nil)
			if env.Success {
				t.Error("expected success=false")
			}
		})
	}
}

func TestRoutes_BadInputBeforeStore(t *testing.T) {
	router := gateOnlyRouter()

	rec := serve(router, httptest.NewRequest("GET", "/registry?status=retired", nil), nil)
	rec.AssertStatus(t, http.StatusBadRequest)
	env := rec.Envelope(t, nil)
	if len(env.Errors) != 1 || env.Errors[0].Field != "status" {
		t.Errorf("errors: got %+v", env.Errors)
	}

	rec = serve(router, httptest.NewRequest("GET", "/registry/not-an-id", nil), nil)
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, testutil.NewJSONRequest("POST", "/registry", `{"fullName":`), testutil.AdminActor())
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, testutil.NewJSONRequest("POST", "/registry", `{"inn":"12"}`), testutil.AdminActor())
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"inn"`)

	rec = serve(router, testutil.NewJSONRequest("PATCH", "/registry/xyz", `{}`), testutil.AdminActor())
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandler_CreateViewUpdateDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	admin := testutil.AdminActor()

	rec := serve(router, testutil.NewJSONRequest("POST", "/registry", createBody), admin)
	rec.AssertStatus(t, http.StatusCreated)
	var created registry.MemberView
	env := rec.Envelope(t, &created)
	if !env.Success || created.ID.IsZero() {
		t.Fatalf("unexpected create response: %s", rec.Body.String())
	}
	if created.CreatedBy == nil || created.CreatedBy.Hex() != admin.ID {
		t.Errorf("createdBy: got %v, want %s", created.CreatedBy, admin.ID)
	}
	id := created.ID.Hex()

	// Duplicate INN
	rec = serve(router, testutil.NewJSONRequest("POST", "/registry", strings.Replace(createBody, `"101"`, `"102"`, 1)), admin)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, `"field":"inn"`)

	// Public reads
	for _, path := range []string{"/registry/" + id, "/registry/inn/770123456789", "/registry/number/101"} {
		rec = serve(router, httptest.NewRequest("GET", path, nil), nil)
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, "Иванов Иван Иванович")
	}
	rec = serve(router, httptest.NewRequest("GET", "/registry/inn/000000000000", nil), nil)
	rec.AssertStatus(t, http.StatusNotFound)

	// Editor may update
	editor := testutil.EditorActor()
	rec = serve(router, testutil.NewJSONRequest("PATCH", "/registry/"+id, `{"status":"suspended","city":"Химки"}`), editor)
	rec.AssertStatus(t, http.StatusOK)
	var updated registry.MemberView
	rec.Envelope(t, &updated)
	if updated.Status != "suspended" || updated.City != "Химки" || updated.FullName != "Иванов Иван Иванович" {
		t.Errorf("unexpected update result: %+v", updated.Member)
	}
	if updated.UpdatedBy == nil || updated.UpdatedBy.Hex() != editor.ID {
		t.Errorf("updatedBy: got %v, want %s", updated.UpdatedBy, editor.ID)
	}

	rec = serve(router, testutil.NewJSONRequest("PATCH", "/registry/"+id, `{"inn":"1"}`), editor)
	rec.AssertStatus(t, http.StatusBadRequest)

	// Admin deletes
	rec = serve(router, httptest.NewRequest("DELETE", "/registry/"+id, nil), admin)
	rec.AssertStatus(t, http.StatusOK)
	rec = serve(router, httptest.NewRequest("GET", "/registry/"+id, nil), nil)
	rec.AssertStatus(t, http.StatusNotFound)
	rec = serve(router, httptest.NewRequest("DELETE", "/registry/"+id, nil), admin)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandler_List(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "Алексеев", "770000000001", "1")
	fixtures.CreateMember(ctx, "Борисов", "770000000002", "2")
	fixtures.CreateMember(ctx, "Воронов", "770000000003", "3")

	rec := serve(router, httptest.NewRequest("GET", "/registry?limit=2&page=2", nil), nil)
	rec.AssertStatus(t, http.StatusOK)
	var page []registry.MemberView
	env := rec.Envelope(t, &page)
	if env.Pagination == nil || env.Pagination.Total != 3 || env.Pagination.Pages != 2 || env.Pagination.Page != 2 {
		t.Fatalf("pagination: got %+v", env.Pagination)
	}
	if len(page) != 1 || page[0].FullName != "Воронов" {
		t.Errorf("page 2: got %v", names(page))
	}

	rec = serve(router, httptest.NewRequest("GET", "/registry?search=xyz", nil), nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"data":[]`)
}

func TestHandler_Statistics(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "Алексеев", "770000000001", "1")

	rec := serve(router, httptest.NewRequest("GET", "/registry/statistics", nil), nil)
	rec.AssertStatus(t, http.StatusOK)
	var st registry.Statistics
	rec.Envelope(t, &st)
	if st.Total != 1 || st.ByStatus.Active != 1 {
		t.Errorf("statistics: got %+v", st)
	}
}

func TestHandler_ExportCSV(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, `Борисов "Б"`, "770000000002", "2")
	fixtures.CreateMember(ctx, "Алексеев", "770000000001", "1")

	rec := serve(router, httptest.NewRequest("GET", "/registry/export/csv", nil), testutil.ViewerActor())
	rec.AssertStatus(t, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="registry_`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Errorf("Content-Disposition: got %q", cd)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, csvutil.BOM) {
		t.Fatal("expected UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(body, csvutil.BOM), "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"ФИО","ИНН","СНИЛС"`) {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"Алексеев","770000000001"`) {
		t.Errorf("row order: got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], `"Борисов ""Б""",`) {
		t.Errorf("quote escaping: got %q", lines[2])
	}
	if !strings.Contains(lines[1], `"Действующий"`) {
		t.Errorf("status label missing: %q", lines[1])
	}
}

func TestHandler_ExportExcel(t *testing.T) {
	router, fixtures := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "Алексеев", "770000000001", "1")

	rec := serve(router, httptest.NewRequest("GET", "/registry/export/excel", nil), testutil.AdminActor())
	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != registry.ContentTypeXLSX {
		t.Errorf("Content-Type: got %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(registry.SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if len(rows[0]) != 46 || rows[0][0] != "ФИО" {
		t.Errorf("header: got %d columns, first %q", len(rows[0]), rows[0][0])
	}
	if rows[1][0] != "Алексеев" || rows[1][1] != "770000000001" || rows[1][12] != "15.03.2020" {
		t.Errorf("row: got %v", rows[1][:13])
	}
}

func TestHandler_ExportRateLimitedPerActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	limiter := ratelimit.New(1, time.Minute)
	t.Cleanup(limiter.Close)

	h := registry.NewHandler(db, nil, metrics.New(prometheus.NewRegistry()), "registry", zap.NewNop())
	h.ExportLimiter = limiter
	router := chi.NewRouter()
	router.Mount("/registry", registry.Routes(h))

	viewer := testutil.ViewerActor()
	rec := serve(router, httptest.NewRequest("GET", "/registry/export/csv", nil), viewer)
	rec.AssertStatus(t, http.StatusOK)

	rec = serve(router, httptest.NewRequest("GET", "/registry/export/excel", nil), viewer)
	rec.AssertStatus(t, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// A different actor has its own allowance.
	rec = serve(router, httptest.NewRequest("GET", "/registry/export/csv", nil), testutil.AdminActor())
	rec.AssertStatus(t, http.StatusOK)
}

func TestServeView_InvalidIDDirect(t *testing.T) {
	h := &registry.Handler{Svc: registry.NewService(nil, nil, nil, zap.NewNop()), Log: zap.NewNop()}

	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/registry/xyz", nil), "id", "xyz")
	rec := testutil.NewRecorder()
	h.ServeView(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Invalid member id.")
}
