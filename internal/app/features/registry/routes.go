// internal/app/features/registry/routes.go
package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sroam/sroregistry/internal/app/system/auth"
	"github.com/sroam/sroregistry/internal/app/system/authz"
	"github.com/sroam/sroregistry/internal/app/system/ratelimit"
)

// Routes mounts all registry routes under the path where the caller mounts it.
// Typically: r.Mount("/registry", registry.Routes(handler))
//
// Expects auth.Resolver.LoadActor to run upstream.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public reads
	r.Get("/", h.ServeList)
	r.Get("/statistics", h.ServeStatistics)
	r.Get("/inn/{inn}", h.ServeByINN)
	r.Get("/number/{registryNumber}", h.ServeByRegistryNumber)

	// Exports
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(ratelimit.Middleware(h.ExportLimiter, exportKey))
		pr.Get("/export/excel", h.ServeExportExcel)
		pr.Get("/export/csv", h.ServeExportCSV)
	})

	// Mutations
	r.With(authz.RequirePermission(authz.PermRegistryCreate)).Post("/", h.HandleCreate)
	r.With(authz.RequirePermission(authz.PermRegistryUpdate)).Patch("/{id}", h.HandleUpdate)
	r.With(authz.RequirePermission(authz.PermRegistryDelete)).Delete("/{id}", h.HandleDelete)

	r.Get("/{id}", h.ServeView)

	return r
}

// exportKey counts exports per actor, falling back to the client address.
func exportKey(r *http.Request) string {
	if a, ok := auth.CurrentActor(r); ok && a.ID != "" {
		return "actor:" + a.ID
	}
	return "ip:" + ratelimit.ClientIP(r)
}
