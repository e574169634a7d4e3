// internal/app/features/registry/create.go
package registry

import (
	"net/http"

	"github.com/sroam/sroregistry/internal/app/system/authz"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"github.com/sroam/sroregistry/internal/app/system/requestid"
	"github.com/sroam/sroregistry/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /registry.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authz.ActorID(r)
	if !ok {
		jsonresp.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in CreateMemberInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		jsonresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	m, err := h.Svc.Create(ctx, in, actorID)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}

	requestid.Logger(r.Context(), h.Log).Info("member created",
		zap.String("member_id", m.ID.Hex()),
		zap.String("actor_id", actorID.Hex()))
	h.AuditLog.MemberCreated(ctx, r, actorID, m.ID, m.INN, m.RegistryNumber)

	jsonresp.Created(w, m, "Member created.")
}
