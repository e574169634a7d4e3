package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/sroam/sroregistry/internal/app/system/jsonresp"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "sroregistry-session"

	isAuthKey      = "is_authenticated"
	actorIDKey     = "user_id"
	actorNameKey   = "user_name"
	actorRoleKey   = "user_role"
	actorPermsKey  = "user_permissions" // comma-separated
	bearerPrefix   = "Bearer "
	permsSeparator = ","
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-Actor helper                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Actor is the authenticated caller as reported by the auth collaborator.
// The registry trusts these values without re-validating credentials.
type Actor struct {
	ID          string   // hex ObjectID of the user
	Name        string
	Role        string
	Permissions []string // explicit grants in addition to the role defaults
}

type ctxKey string

const currentActorKey ctxKey = "currentActor"

// CurrentActor returns the actor & "found?" flag.
func CurrentActor(r *http.Request) (*Actor, bool) {
	a, ok := r.Context().Value(currentActorKey).(*Actor)
	return a, ok
}

// WithActor returns a copy of r carrying a. Used by the resolver and by tests
// that bypass credential parsing.
func WithActor(r *http.Request, a *Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentActorKey, a))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Resolver                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Resolver turns request credentials into an Actor. A Bearer token wins over
// the admin panel's session cookie. Either source may be nil.
type Resolver struct {
	tokens      *TokenVerifier
	sessions    sessions.Store
	sessionName string
	log         *zap.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(tokens *TokenVerifier, store sessions.Store, sessionName string, logger *zap.Logger) *Resolver {
	if sessionName == "" {
		sessionName = DefaultSessionName
	}
	return &Resolver{tokens: tokens, sessions: store, sessionName: sessionName, log: logger}
}

// LoadActor injects the actor into context if the request carries valid
// credentials. Requests without credentials continue anonymously; a present
// but invalid bearer token is rejected with 401.
func (rv *Resolver) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" && rv.tokens != nil {
			token, ok := strings.CutPrefix(h, bearerPrefix)
			if !ok {
				writeUnauthorized(w, "unsupported authorization scheme")
				return
			}
			a, err := rv.tokens.Verify(token)
			if err != nil {
				rv.log.Warn("rejected bearer token", zap.Error(err), zap.String("path", r.URL.Path))
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, WithActor(r, a))
			return
		}

		if rv.sessions != nil {
			sess, err := rv.sessions.Get(r, rv.sessionName)
			if err != nil {
				rv.log.Debug("session decode failed", zap.Error(err))
			}
			if sess != nil {
				if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
					r = WithActor(r, actorFromSession(sess))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is an actor in context (set by LoadActor).
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentActor(r); !ok {
			writeUnauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SaveSession stores a into the session cookie. The admin panel's login flow
// (external) calls this after verifying credentials.
func SaveSession(w http.ResponseWriter, r *http.Request, store sessions.Store, name string, a Actor) error {
	sess, err := store.Get(r, name)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[actorIDKey] = a.ID
	sess.Values[actorNameKey] = a.Name
	sess.Values[actorRoleKey] = a.Role
	sess.Values[actorPermsKey] = strings.Join(a.Permissions, permsSeparator)
	return sess.Save(r, w)
}

// NewCookieStore builds the session store used for admin panel cookies.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewCookieStore(sessionKey, domain string, secure bool, logger *zap.Logger) *sessions.CookieStore {
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	return store
}

// helpers

func actorFromSession(s *sessions.Session) *Actor {
	a := &Actor{
		ID:   getString(s, actorIDKey),
		Name: getString(s, actorNameKey),
		Role: getString(s, actorRoleKey),
	}
	if perms := getString(s, actorPermsKey); perms != "" {
		a.Permissions = strings.Split(perms, permsSeparator)
	}
	return a
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	jsonresp.Error(w, http.StatusUnauthorized, msg)
}
