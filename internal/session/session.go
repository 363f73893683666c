// Package session issues and validates session cookies. A session is a JWT
// signed with HS256 carried in an HTTP-only, SameSite=Lax cookie; there is no
// server-side session record.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mpetrenko/shortly/internal/apperr"
)

// Claims are the JWT claims of a session token: the standard claims plus the
// authenticated user's id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Manager issues, validates and clears session cookies.
type Manager struct {
	cookieName string
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// New creates a session manager. Cookies are named cookieName, tokens are
// signed with signingKey and expire after ttl.
func New(cookieName string, signingKey []byte, ttl time.Duration) *Manager {
	return &Manager{
		cookieName: cookieName,
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue returns a session cookie for the given user.
func (m *Manager) Issue(userID string) (*http.Cookie, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(m.now().Add(m.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.signingKey)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// UserID extracts and validates the session cookie of the request and
// returns the authenticated user's id.
func (m *Manager) UserID(request *http.Request) (string, error) {
	cookie, err := request.Cookie(m.cookieName)
	if err != nil {
		return "", apperr.Auth("authentication required")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.signingKey, nil
		},
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", apperr.Auth("authentication required")
	}
	// The parser checks expiry against the wall clock; re-check against the
	// manager's clock.
	if claims.ExpiresAt == nil || !m.now().Before(claims.ExpiresAt.Time) {
		return "", apperr.Auth("authentication required")
	}

	return claims.UserID, nil
}

// Clear returns a cookie that removes the session from the client.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
