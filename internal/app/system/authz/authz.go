// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/sroam/sroregistry/internal/app/system/auth"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission names granted by the auth service.
const (
	PermRegistryCreate = "registry:create"
	PermRegistryUpdate = "registry:update"
	PermRegistryDelete = "registry:delete"
	PermRegistryExport = "registry:export"
)

// roleDefaults lists the permissions each role carries without explicit grants.
var roleDefaults = map[string][]string{
	"admin":  {PermRegistryCreate, PermRegistryUpdate, PermRegistryDelete, PermRegistryExport},
	"editor": {PermRegistryCreate, PermRegistryUpdate, PermRegistryExport},
}

// ActorCtx returns the actor's role (lowercased), name, ObjectID, and a found flag.
// A missing actor or a malformed ID yields "visitor", "", NilObjectID, false, so
// ok=true always means a usable ObjectID.
func ActorCtx(r *http.Request) (role string, name string, actorID primitive.ObjectID, ok bool) {
	a, ok := auth.CurrentActor(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	actorID, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		// Fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(a.Role), a.Name, actorID, true
}

// ActorID returns the current actor's ObjectID.
func ActorID(r *http.Request) (primitive.ObjectID, bool) {
	_, _, id, ok := ActorCtx(r)
	return id, ok
}

// Can reports whether a holds perm, either explicitly or through its role.
func Can(a *auth.Actor, perm string) bool {
	if a == nil {
		return false
	}
	for _, p := range a.Permissions {
		if strings.EqualFold(strings.TrimSpace(p), perm) {
			return true
		}
	}
	for _, p := range roleDefaults[strings.ToLower(a.Role)] {
		if p == perm {
			return true
		}
	}
	return false
}

// CanRequest is Can applied to the request's actor.
func CanRequest(r *http.Request, perm string) bool {
	a, ok := auth.CurrentActor(r)
	return ok && Can(a, perm)
}

// RequirePermission rejects requests without an actor (401) or whose actor
// lacks perm (403).
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := auth.CurrentActor(r)
			if !ok {
				jsonresp.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !Can(a, perm) {
				jsonresp.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
