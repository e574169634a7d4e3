// internal/app/features/registry/list.go
package registry

import (
	"net/http"

	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"github.com/sroam/sroregistry/internal/app/system/timeouts"
)

// ServeList handles GET /registry.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, "list", err)
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	res, err := h.Svc.List(ctx, q)
	if err != nil {
		h.writeError(w, r, "list", err)
		return
	}
	jsonresp.Page(w, res.Data, res.Pagination)
}

// ServeStatistics handles GET /registry/statistics.
func (h *Handler) ServeStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	st, err := h.Svc.Statistics(ctx)
	if err != nil {
		h.writeError(w, r, "statistics", err)
		return
	}
	jsonresp.OK(w, st, "")
}
