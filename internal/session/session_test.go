package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/shortly/internal/apperr"
)

const testCookieName = "shortly_session"

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func requestWithCookie(cookie *http.Cookie) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/user", nil)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	return request
}

func TestIssueAndValidate(t *testing.T) {
	manager := New(testCookieName, testSigningKey, time.Hour)

	cookie, err := manager.Issue("user-1")
	require.NoError(t, err)

	assert.Equal(t, testCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	userID, err := manager.UserID(requestWithCookie(cookie))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestMissingCookie(t *testing.T) {
	manager := New(testCookieName, testSigningKey, time.Hour)

	_, err := manager.UserID(requestWithCookie(nil))
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}

func TestTamperedToken(t *testing.T) {
	manager := New(testCookieName, testSigningKey, time.Hour)

	cookie, err := manager.Issue("user-1")
	require.NoError(t, err)
	cookie.Value += "x"

	_, err = manager.UserID(requestWithCookie(cookie))
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}

func TestForeignSigningKeyRejected(t *testing.T) {
	issuer := New(testCookieName, []byte("another-signing-key-entirely!!!!"), time.Hour)
	manager := New(testCookieName, testSigningKey, time.Hour)

	cookie, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = manager.UserID(requestWithCookie(cookie))
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := New(testCookieName, testSigningKey, time.Hour)

	issuedAt := time.Now()
	manager.now = func() time.Time { return issuedAt }

	cookie, err := manager.Issue("user-1")
	require.NoError(t, err)

	manager.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }

	_, err = manager.UserID(requestWithCookie(cookie))
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}

func TestTokenWithoutExpiryRejected(t *testing.T) {
	manager := New(testCookieName, testSigningKey, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"})
	signed, err := token.SignedString(testSigningKey)
	require.NoError(t, err)

	_, err = manager.UserID(requestWithCookie(&http.Cookie{
		Name:  testCookieName,
		Value: signed,
	}))
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}

func TestClear(t *testing.T) {
	manager := New(testCookieName, testSigningKey, time.Hour)

	cookie := manager.Clear()
	assert.Equal(t, testCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
