// internal/app/features/registry/delete.go
package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sroam/sroregistry/internal/app/system/authz"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"github.com/sroam/sroregistry/internal/app/system/requestid"
	"github.com/sroam/sroregistry/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /registry/{id}. Referenced documents are kept.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.ActorID(r)
	if !ok {
		jsonresp.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	id, err := h.Svc.Delete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "delete", err)
		return
	}

	requestid.Logger(r.Context(), h.Log).Info("member deleted",
		zap.String("member_id", id.Hex()),
		zap.String("actor_id", actorID.Hex()))
	h.AuditLog.MemberDeleted(ctx, r, actorID, id)

	jsonresp.OK(w, nil, "Member deleted.")
}
