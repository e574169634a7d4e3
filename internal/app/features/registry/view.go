// internal/app/features/registry/view.go
package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"github.com/sroam/sroregistry/internal/app/system/timeouts"
)

// ServeView handles GET /registry/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	m, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "view", err)
		return
	}
	jsonresp.OK(w, m, "")
}

// ServeByINN handles GET /registry/inn/{inn}.
func (h *Handler) ServeByINN(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	m, err := h.Svc.GetByINN(ctx, chi.URLParam(r, "inn"))
	if err != nil {
		h.writeError(w, r, "view by inn", err)
		return
	}
	jsonresp.OK(w, m, "")
}

// ServeByRegistryNumber handles GET /registry/number/{registryNumber}.
func (h *Handler) ServeByRegistryNumber(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	m, err := h.Svc.GetByRegistryNumber(ctx, chi.URLParam(r, "registryNumber"))
	if err != nil {
		h.writeError(w, r, "view by registry number", err)
		return
	}
	jsonresp.OK(w, m, "")
}
