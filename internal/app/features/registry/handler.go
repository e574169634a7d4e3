// internal/app/features/registry/handler.go
package registry

import (
	"errors"
	"net/http"

	documentstore "github.com/sroam/sroregistry/internal/app/store/documents"
	memberstore "github.com/sroam/sroregistry/internal/app/store/members"
	"github.com/sroam/sroregistry/internal/app/system/auditlog"
	"github.com/sroam/sroregistry/internal/app/system/inputval"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"github.com/sroam/sroregistry/internal/app/system/metrics"
	"github.com/sroam/sroregistry/internal/app/system/ratelimit"
	"github.com/sroam/sroregistry/internal/app/system/requestid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the registry.
// It holds the service, audit logger and logger provided by WAFFLE DBDeps / Startup.
type Handler struct {
	Svc      *Service
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	// ExportPrefix is the base name of downloaded export files.
	ExportPrefix string

	// ExportLimiter throttles downloads per actor. Nil disables it.
	ExportLimiter *ratelimit.Limiter
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, m *metrics.Metrics, exportPrefix string, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:          NewService(memberstore.New(db), documentstore.New(db), m, logger),
		Log:          logger,
		AuditLog:     audit,
		ExportPrefix: exportPrefix,
	}
}

// writeError maps service errors to the JSON error envelope.
// Unexpected errors are logged and reported without driver detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *ValidationError
	var conflict *ConflictError
	switch {
	case errors.As(err, &verr):
		jsonresp.ValidationFailed(w, "Validation failed.", verr.Fields)
	case errors.As(err, &conflict):
		jsonresp.Write(w, http.StatusConflict, jsonresp.Envelope{
			Message: conflict.Message,
			Errors:  []inputval.FieldError{{Field: conflict.Field, Message: conflict.Message}},
		})
	case errors.Is(err, ErrInvalidID):
		jsonresp.Error(w, http.StatusBadRequest, "Invalid member id.")
	case errors.Is(err, ErrNotFound):
		jsonresp.Error(w, http.StatusNotFound, "Member not found.")
	default:
		requestid.Logger(r.Context(), h.Log).Error("registry "+op+" failed",
			zap.Error(err), zap.String("path", r.URL.Path))
		jsonresp.Error(w, http.StatusInternalServerError, "Internal server error.")
	}
}
