package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/khabarhub/khabar/internal/ctxkeys"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, "test-secret", false, time.Hour, time.Hour, time.Hour)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func doRequest(t *testing.T, h http.HandlerFunc, cookie *http.Cookie) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	r := httptest.NewRequest("GET", "/protected", nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h(w, r)

	var env response.Envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func sessionCookie(t *testing.T, auth *service.AuthService, role model.Role) *http.Cookie {
	t.Helper()

	token, err := auth.GenerateJWT("user-1", role)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName(), Value: token}
}

func TestRequireAuthNoToken(t *testing.T) {
	auth := testAuthService()
	h := RequireAuth(auth)(okHandler)

	w, env := doRequest(t, h, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Unauthorized - no token provided", env.Message)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	auth := testAuthService()
	h := RequireAuth(auth)(okHandler)

	w, env := doRequest(t, h, &http.Cookie{Name: auth.CookieName(), Value: "garbage"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized - invalid token", env.Message)
}

func TestRequireAuthAttachesClaims(t *testing.T) {
	auth := testAuthService()

	var got *model.Claims
	h := RequireAuth(auth)(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.Claims(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w, _ := doRequest(t, h, sessionCookie(t, auth, model.RoleUser))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, model.RoleUser, got.Role)
}

func TestRequireAdmin(t *testing.T) {
	auth := testAuthService()
	h := RequireAuth(auth)(RequireAdmin(okHandler))

	w, env := doRequest(t, h, sessionCookie(t, auth, model.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized - not an admin", env.Message)

	w, _ = doRequest(t, h, sessionCookie(t, auth, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireUser(t *testing.T) {
	auth := testAuthService()
	h := RequireAuth(auth)(RequireUser(okHandler))

	w, env := doRequest(t, h, sessionCookie(t, auth, model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized - not a user", env.Message)

	w, _ = doRequest(t, h, sessionCookie(t, auth, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAnyRole(t *testing.T) {
	auth := testAuthService()
	h := RequireAuth(auth)(RequireAnyRole(okHandler))

	w, env := doRequest(t, h, sessionCookie(t, auth, model.Role("EDITOR")))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized - not an admin or user", env.Message)

	w, _ = doRequest(t, h, sessionCookie(t, auth, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doRequest(t, h, sessionCookie(t, auth, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other IPs are tracked independently
	assert.True(t, rl.Allow("5.6.7.8"))
}
