package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sroam/sroregistry/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-long-enough"

func newResolver(t *testing.T) (*auth.Resolver, *auth.TokenVerifier) {
	t.Helper()
	tokens := auth.NewTokenVerifier(testSecret, "sro-auth")
	store := auth.NewCookieStore("test-session-key-must-be-32-chars-long", "", false, zap.NewNop())
	return auth.NewResolver(tokens, store, "test-session", zap.NewNop()), tokens
}

// captureActor returns a handler recording the actor seen by downstream code.
func captureActor(got **auth.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, ok := auth.CurrentActor(r); ok {
			*got = a
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedIn_NoActor_Returns401(t *testing.T) {
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/registry/export/csv", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithActor_PassesThrough(t *testing.T) {
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/registry/export/csv", nil)
	req = auth.WithActor(req, &auth.Actor{ID: primitive.NewObjectID().Hex(), Role: "admin"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestLoadActor_BearerToken(t *testing.T) {
	rv, tokens := newResolver(t)
	id := primitive.NewObjectID().Hex()
	token, err := tokens.Issue(auth.Actor{ID: id, Name: "Admin", Role: "admin", Permissions: []string{"registry:create"}}, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var got *auth.Actor
	req := httptest.NewRequest("GET", "/registry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	rv.LoadActor(captureActor(&got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got == nil {
		t.Fatal("expected actor in context")
	}
	if got.ID != id || got.Role != "admin" || got.Name != "Admin" {
		t.Errorf("unexpected actor: %+v", got)
	}
	if len(got.Permissions) != 1 || got.Permissions[0] != "registry:create" {
		t.Errorf("permissions: got %v", got.Permissions)
	}
}

func TestLoadActor_InvalidToken_Returns401(t *testing.T) {
	rv, _ := newResolver(t)
	other := auth.NewTokenVerifier("some-other-secret-entirely-different", "sro-auth")
	token, err := other.Issue(auth.Actor{ID: primitive.NewObjectID().Hex(), Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var got *auth.Actor
	req := httptest.NewRequest("GET", "/registry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	rv.LoadActor(captureActor(&got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if got != nil {
		t.Error("expected no actor for forged token")
	}
}

func TestLoadActor_UnsupportedScheme_Returns401(t *testing.T) {
	rv, _ := newResolver(t)

	req := httptest.NewRequest("GET", "/registry", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	rv.LoadActor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLoadActor_Anonymous_Continues(t *testing.T) {
	rv, _ := newResolver(t)

	var got *auth.Actor
	req := httptest.NewRequest("GET", "/registry", nil)
	rec := httptest.NewRecorder()
	rv.LoadActor(captureActor(&got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got != nil {
		t.Error("expected no actor for anonymous request")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	tokens := auth.NewTokenVerifier(testSecret, "")
	token, err := tokens.Issue(auth.Actor{ID: primitive.NewObjectID().Hex(), Role: "admin"}, -time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := tokens.Verify(token); err != auth.ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLoadActor_SessionCookie(t *testing.T) {
	store := auth.NewCookieStore("test-session-key-must-be-32-chars-long", "", false, zap.NewNop())
	rv := auth.NewResolver(nil, store, "test-session", zap.NewNop())
	id := primitive.NewObjectID().Hex()

	// Issue the cookie the way the admin panel login would.
	loginReq := httptest.NewRequest("POST", "/login", nil)
	loginRec := httptest.NewRecorder()
	if err := auth.SaveSession(loginRec, loginReq, store, "test-session", auth.Actor{
		ID:          id,
		Name:        "Editor",
		Role:        "editor",
		Permissions: []string{"registry:delete"},
	}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	var got *auth.Actor
	req := httptest.NewRequest("GET", "/registry", nil)
	for _, c := range loginRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	rv.LoadActor(captureActor(&got)).ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected actor from session cookie")
	}
	if got.ID != id || got.Role != "editor" {
		t.Errorf("unexpected actor: %+v", got)
	}
	if len(got.Permissions) != 1 || got.Permissions[0] != "registry:delete" {
		t.Errorf("permissions: got %v", got.Permissions)
	}
}
