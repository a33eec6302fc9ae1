package auth

import (
	"context"
	"net/http"
	"net/url"
)

// Identity is who is making the request: either anonymous or a specific
// authenticated user. It is an explicit value rather than a bare userID so
// "not logged in" is a first-class state instead of an empty string with
// implied meaning.
type Identity struct {
	userID string
}

// Anonymous is the identity of a request with no valid session.
var Anonymous = Identity{}

// Authenticated returns the identity of the given user.
func Authenticated(userID string) Identity {
	return Identity{userID: userID}
}

// IsAuthenticated reports whether this identity belongs to a logged-in user.
func (i Identity) IsAuthenticated() bool {
	return i.userID != ""
}

// UserID returns the authenticated user's ID, or "" for Anonymous.
func (i Identity) UserID() string {
	return i.userID
}

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the caller's identity. Requests that never
// passed through Identify or RequireAuth resolve to Anonymous.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id
	}
	return Anonymous
}

// WithIdentity stores an identity in the context. Exported for handler tests
// that exercise authenticated paths without running the middleware.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Identify resolves the session cookie (if any) and stores the resulting
// identity in the request context. It never blocks a request: an absent or
// invalid token just means the caller is Anonymous. Use it on public routes
// such as the listing page, where logged-in users see their own nav links.
func Identify(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := Anonymous
			if userID, err := extractUserID(r, sessions); err == nil && userID != "" {
				identity = Authenticated(userID)
			}
			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth gates a route to authenticated users.
//
// This is an HTML surface, so an unauthenticated caller is not handed a bare
// 401 — they are redirected to the login page, with the path they were after
// preserved in the "next" query parameter so login can send them back.
func RequireAuth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, sessions)
			if err != nil || userID == "" {
				http.Redirect(w, r, LoginRedirectURL(r.URL.Path), http.StatusSeeOther)
				return
			}

			ctx := WithIdentity(r.Context(), Authenticated(userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoginRedirectURL builds the login URL carrying the originally requested
// path, e.g. "/login?next=%2Fadd_game".
func LoginRedirectURL(next string) string {
	if next == "" || next == "/login" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// extractUserID reads the session cookie and validates its token.
// Shared by Identify and RequireAuth.
func extractUserID(r *http.Request, sessions *SessionService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — no session at all, the caller is anonymous
		return "", err
	}

	return sessions.Validate(cookie.Value)
}
