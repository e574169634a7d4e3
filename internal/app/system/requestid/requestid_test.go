package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMiddleware_GeneratesID(t *testing.T) {
	var seen string
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/registry", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(Header))
}

func TestMiddleware_KeepsValidIncomingID(t *testing.T) {
	in := uuid.NewString()
	var seen string
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		assert.NotNil(t, Logger(r.Context(), nil))
	}))

	req := httptest.NewRequest("GET", "/registry", nil)
	req.Header.Set(Header, in)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, in, seen)
}

func TestMiddleware_ReplacesGarbageID(t *testing.T) {
	var seen string
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/registry", nil)
	req.Header.Set(Header, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "<script>", seen)
}

func TestLogger_FallsBack(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, Logger(httptest.NewRequest("GET", "/", nil).Context(), base))
}
