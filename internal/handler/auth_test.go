package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khabarhub/khabar/internal/ctxkeys"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingUserRepo returns the same error from every method, standing in
// for an unreachable database.
type failingUserRepo struct {
	err error
}

func (f *failingUserRepo) Create(user *model.User) error          { return f.err }
func (f *failingUserRepo) ByID(id string) (*model.User, error)    { return nil, f.err }
func (f *failingUserRepo) ByEmail(e string) (*model.User, error)  { return nil, f.err }
func (f *failingUserRepo) Update(user *model.User) error          { return f.err }
func (f *failingUserRepo) UpdatePassword(id, hash string) error   { return f.err }
func (f *failingUserRepo) TouchLastLogin(id string, at time.Time) error {
	return f.err
}
func (f *failingUserRepo) ConsumeVerificationCode(code string) (*model.User, error) {
	return nil, f.err
}
func (f *failingUserRepo) SetResetToken(id, token string, expiresAt time.Time) error {
	return f.err
}
func (f *failingUserRepo) ConsumeResetToken(token, hash string) (*model.User, error) {
	return nil, f.err
}
func (f *failingUserRepo) List() ([]model.User, error) { return nil, f.err }
func (f *failingUserRepo) Delete(id string) error      { return f.err }

var errStoreDown = errors.New("connection refused on host 10.0.0.5")

func newTestAuthService(repoErr error) *service.AuthService {
	repo := &failingUserRepo{err: repoErr}
	emails := service.NewEmailService("", "noreply@test.local", "http://localhost:3000", "Khabar", true)
	return service.NewAuthService(repo, emails, "test-secret", false, 168*time.Hour, 24*time.Hour, time.Hour)
}

type errorEnvelope struct {
	Success    bool           `json:"success"`
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Error      map[string]any `json:"error"`
}

func doJSON(t *testing.T, h http.HandlerFunc, method, url, body string, mutate func(*http.Request)) (*httptest.ResponseRecorder, errorEnvelope) {
	t.Helper()

	r := httptest.NewRequest(method, url, strings.NewReader(body))
	if mutate != nil {
		mutate(r)
	}
	w := httptest.NewRecorder()
	h(w, r)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestSignupStoreFailureIsHidden(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(errStoreDown))

	body := `{"email":"reader@khabar.com.np","password":"Abcdef1!","name":"Reader"}`
	w, env := doJSON(t, h.Signup, "POST", "/auth/signup", body, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong", env.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestResetPasswordStoreFailureIsHidden(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(errStoreDown))

	w, env := doJSON(t, h.ResetPassword, "POST", "/auth/reset-password/abc", `{"password":"Newpass1!"}`, func(r *http.Request) {
		r.SetPathValue("token", "abc")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong", env.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestResetPasswordInvalidToken(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(repository.ErrUserNotFound))

	w, env := doJSON(t, h.ResetPassword, "POST", "/auth/reset-password/abc", `{"password":"Newpass1!"}`, func(r *http.Request) {
		r.SetPathValue("token", "abc")
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired reset token", env.Message)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	h := NewAuthHandler(newTestAuthService(nil))

	w, env := doJSON(t, h.ResetPassword, "POST", "/auth/reset-password/abc", `{"password":"abc"}`, func(r *http.Request) {
		r.SetPathValue("token", "abc")
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters long", env.Message)
}

func TestUpdateProfileStoreFailureIsHidden(t *testing.T) {
	authService := newTestAuthService(errStoreDown)
	emails := service.NewEmailService("", "noreply@test.local", "http://localhost:3000", "Khabar", true)
	h := NewUserHandler(service.NewUserService(&failingUserRepo{err: errStoreDown}, emails), authService)

	w, env := doJSON(t, h.UpdateMe, "PUT", "/users/me", `{"name":"Reader"}`, func(r *http.Request) {
		claims := &model.Claims{UserID: "user-1", Role: model.RoleUser}
		*r = *r.WithContext(ctxkeys.WithClaims(r.Context(), claims))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong", env.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestChangePasswordStoreFailureIsHidden(t *testing.T) {
	authService := newTestAuthService(errStoreDown)
	emails := service.NewEmailService("", "noreply@test.local", "http://localhost:3000", "Khabar", true)
	h := NewUserHandler(service.NewUserService(&failingUserRepo{err: errStoreDown}, emails), authService)

	body := `{"oldPassword":"Abcdef1!","newPassword":"Newpass1!"}`
	w, env := doJSON(t, h.ChangePassword, "PUT", "/users/me/password", body, func(r *http.Request) {
		claims := &model.Claims{UserID: "user-1", Role: model.RoleUser}
		*r = *r.WithContext(ctxkeys.WithClaims(r.Context(), claims))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong", env.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
