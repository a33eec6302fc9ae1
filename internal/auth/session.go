package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "session"

// sessionLifetime is how long a login stays valid before the user has to
// sign in again. Logout clears the cookie earlier.
const sessionLifetime = 7 * 24 * time.Hour

const issuer = "game-collection"

// SessionService issues and validates the signed tokens that represent a
// logged-in user.
//
// Tokens are stateless JWTs: the user ID lives in the "sub" claim and the
// HMAC signature makes the token tamper-proof without any server-side
// session table. The browser holds the token in an HttpOnly cookie, which
// JavaScript cannot read — that keeps XSS from stealing sessions.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given signing secret.
// The secret should be at least 32 bytes of random data in production:
//
//	SESSION_SECRET=$(openssl rand -hex 32)
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given user ID.
func (s *SessionService) Issue(userID string) (string, error) {
	return s.IssueWithDuration(userID, sessionLifetime)
}

// IssueWithDuration creates a token with a custom expiry. Used by tests to
// produce already-expired tokens.
func (s *SessionService) IssueWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the user ID it was
// issued for. It fails on a bad signature, expiry, a foreign issuer, or any
// signing algorithm other than HMAC — the last check blocks the classic
// alg-confusion attack where a token arrives signed with "none".
func (s *SessionService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || c.Subject == "" {
		return "", errors.New("auth: session token has no subject")
	}

	return c.Subject, nil
}

// SetCookie writes the session token to the response as an HttpOnly,
// SameSite=Lax cookie scoped to the whole site.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie. Used by logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
