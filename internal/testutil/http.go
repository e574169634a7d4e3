package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sroam/sroregistry/internal/app/system/auth"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminActor returns an actor with the admin role.
func AdminActor() *auth.Actor {
	return &auth.Actor{ID: primitive.NewObjectID().Hex(), Name: "Test Admin", Role: "admin"}
}

// EditorActor returns an actor with the editor role.
func EditorActor() *auth.Actor {
	return &auth.Actor{ID: primitive.NewObjectID().Hex(), Name: "Test Editor", Role: "editor"}
}

// ViewerActor returns a signed-in actor without registry permissions.
func ViewerActor() *auth.Actor {
	return &auth.Actor{ID: primitive.NewObjectID().Hex(), Name: "Test Viewer", Role: "viewer"}
}

// NewJSONRequest creates a request with body as its JSON payload.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Envelope decodes the response body as a JSON envelope. Data is decoded
// into data when non-nil.
func (r *ResponseRecorder) Envelope(t *testing.T, data any) jsonresp.Envelope {
	t.Helper()
	var raw struct {
		jsonresp.Envelope
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, r.Body.String())
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return raw.Envelope
}
