// internal/app/features/registry/update.go
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

// HandleUpdate handles PATCH /registry/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.ActorID(r)
	if !ok {
		jsonresp.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in UpdateMemberInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		jsonresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	m, fields, err := h.Svc.Update(ctx, chi.URLParam(r, "id"), in, actorID)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}

	requestid.Logger(r.Context(), h.Log).Info("member updated",
		zap.String("member_id", m.ID.Hex()),
		zap.String("actor_id", actorID.Hex()),
		zap.Strings("fields", fields))
	h.AuditLog.MemberUpdated(ctx, r, actorID, m.ID, fields)

	jsonresp.OK(w, m, "Member updated.")
}
