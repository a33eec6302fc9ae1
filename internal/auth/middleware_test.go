package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler records whether it ran and which identity it saw.
type okHandler struct {
	called   bool
	identity Identity
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.identity = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_NoCookieRedirectsToLogin(t *testing.T) {
	ss := newTestSessionService(t)
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/add_game", nil)
	rr := httptest.NewRecorder()

	RequireAuth(ss)(next).ServeHTTP(rr, req)

	if next.called {
		t.Error("protected handler ran for an anonymous request")
	}
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	// The original target must survive the round trip through login.
	if loc := rr.Header().Get("Location"); loc != "/login?next=%2Fadd_game" {
		t.Errorf("Location = %q, want %q", loc, "/login?next=%2Fadd_game")
	}
}

func TestRequireAuth_ValidCookiePassesIdentity(t *testing.T) {
	ss := newTestSessionService(t)
	next := &okHandler{}

	token, err := ss.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/add_game", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()

	RequireAuth(ss)(next).ServeHTTP(rr, req)

	if !next.called {
		t.Fatal("protected handler did not run for a valid session")
	}
	if !next.identity.IsAuthenticated() {
		t.Error("identity should be authenticated")
	}
	if got := next.identity.UserID(); got != "user-42" {
		t.Errorf("UserID() = %q, want %q", got, "user-42")
	}
}

func TestRequireAuth_InvalidTokenRedirects(t *testing.T) {
	ss := newTestSessionService(t)
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/my_games", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	rr := httptest.NewRecorder()

	RequireAuth(ss)(next).ServeHTTP(rr, req)

	if next.called {
		t.Error("protected handler ran for a garbage token")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
}

func TestIdentify_AnonymousIsNotBlocked(t *testing.T) {
	ss := newTestSessionService(t)
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	Identify(ss)(next).ServeHTTP(rr, req)

	if !next.called {
		t.Fatal("Identify must never block a request")
	}
	if next.identity.IsAuthenticated() {
		t.Error("identity should be Anonymous without a cookie")
	}
}

func TestIdentify_ValidCookieResolvesUser(t *testing.T) {
	ss := newTestSessionService(t)
	next := &okHandler{}

	token, _ := ss.Issue("user-7")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()

	Identify(ss)(next).ServeHTTP(rr, req)

	if got := next.identity.UserID(); got != "user-7" {
		t.Errorf("UserID() = %q, want %q", got, "user-7")
	}
}

func TestLoginRedirectURL(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/add_game", "/login?next=%2Fadd_game"},
		{"/my_games", "/login?next=%2Fmy_games"},
		{"", "/login"},
		{"/login", "/login"},
	}
	for _, tt := range tests {
		if got := LoginRedirectURL(tt.next); got != tt.want {
			t.Errorf("LoginRedirectURL(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}
