// internal/app/features/registry/download.go
package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sroam/sroregistry/internal/app/system/authz"
	"github.com/sroam/sroregistry/internal/app/system/requestid"
	"github.com/sroam/sroregistry/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeExportExcel handles GET /registry/export/excel.
func (h *Handler) ServeExportExcel(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, FormatExcel, h.Svc.ExportExcel)
}

// ServeExportCSV handles GET /registry/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, FormatCSV, h.Svc.ExportCSV)
}

func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, format string, render func(context.Context, string) (Export, error)) {
	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	exp, err := render(ctx, h.ExportPrefix)
	if err != nil {
		h.writeError(w, r, "export "+format, err)
		return
	}

	var actor *primitive.ObjectID
	if id, ok := authz.ActorID(r); ok {
		actor = &id
	}
	requestid.Logger(r.Context(), h.Log).Info("registry exported", zap.String("format", format), zap.Int("rows", exp.Rows))
	h.AuditLog.RegistryExported(ctx, r, actor, format, exp.Rows)

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(exp.Filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(exp.Data); err != nil {
		h.Log.Warn("export write failed", zap.Error(err), zap.String("format", format))
	}
}
