package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository for flow tests.
type fakeUserRepo struct {
	users map[string]*model.User // by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) ByID(id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Update(user *model.User) error {
	u, ok := f.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Name = user.Name
	u.Role = user.Role
	u.IsVerified = user.IsVerified
	u.IsSuspended = user.IsSuspended
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(id string, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (f *fakeUserRepo) ConsumeVerificationCode(code string) (*model.User, error) {
	now := time.Now()
	for _, u := range f.users {
		if u.VerificationCode != nil && *u.VerificationCode == code &&
			u.VerificationExpiresAt != nil && u.VerificationExpiresAt.After(now) {
			u.IsVerified = true
			u.VerificationCode = nil
			u.VerificationExpiresAt = nil
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) SetResetToken(id, token string, expiresAt time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(token, passwordHash string) (*model.User, error) {
	now := time.Now()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetExpiresAt != nil && u.ResetExpiresAt.After(now) {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetExpiresAt = nil
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) List() ([]model.User, error) {
	users := []model.User{}
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUserRepo) Delete(id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	emails := NewEmailService("", "noreply@test.local", "http://localhost:3000", "Khabar", true)
	auth := NewAuthService(repo, emails, "test-secret", false, 168*time.Hour, 24*time.Hour, time.Hour)
	return auth, repo
}

func TestSignupCreatesUnverifiedUser(t *testing.T) {
	auth, _ := newTestAuthService()

	user, err := auth.Signup("Reader@Khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	assert.Equal(t, "reader@khabar.com.np", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "Abcdef1!", user.PasswordHash)
	assert.NoError(t, auth.ComparePassword("Abcdef1!", user.PasswordHash))

	require.NotNil(t, user.VerificationCode)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), *user.VerificationCode)
	require.NotNil(t, user.VerificationExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *user.VerificationExpiresAt, time.Minute)
}

func TestSignupDuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	_, err = auth.Signup("reader@khabar.com.np", "Abcdef1!", "Someone Else")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Signup("reader@khabar.com.np", "abc123", "Reader")
	require.Error(t, err)
	assert.Equal(t, "Password must contain at least one uppercase letter", err.Error())
}

func TestLoginErrorsAreIndistinguishable(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	_, unknownErr := auth.Login("nobody@khabar.com.np", "Abcdef1!")
	_, wrongPassErr := auth.Login("reader@khabar.com.np", "Wrong-pass1")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginSuspendedAccount(t *testing.T) {
	auth, repo := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)
	repo.users[user.ID].IsSuspended = true

	_, err = auth.Login("reader@khabar.com.np", "Abcdef1!")
	assert.ErrorIs(t, err, ErrAccountSuspended)
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	auth, repo := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	logged, err := auth.Login("reader@khabar.com.np", "Abcdef1!")
	require.NoError(t, err)

	require.NotNil(t, logged.LastLoginAt)
	assert.NotNil(t, repo.users[user.ID].LastLoginAt)
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	auth, _ := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)
	code := *user.VerificationCode

	verified, err := auth.VerifyEmail(code)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Nil(t, verified.VerificationCode)

	_, err = auth.VerifyEmail(code)
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	auth, repo := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)
	code := *user.VerificationCode

	past := time.Now().Add(-time.Minute)
	repo.users[user.ID].VerificationExpiresAt = &past

	_, err = auth.VerifyEmail(code)
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	auth, _ := newTestAuthService()

	// Never reveals whether the account exists
	err := auth.ForgotPassword("nobody@khabar.com.np")
	assert.NoError(t, err)
}

func TestResetPasswordFlow(t *testing.T) {
	auth, repo := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	err = auth.ForgotPassword("reader@khabar.com.np")
	require.NoError(t, err)

	token := *repo.users[user.ID].ResetToken
	assert.Len(t, token, 40) // 20 random bytes, hex encoded

	err = auth.ResetPassword(token, "Newpass1!")
	require.NoError(t, err)

	_, err = auth.Login("reader@khabar.com.np", "Newpass1!")
	assert.NoError(t, err)
	_, err = auth.Login("reader@khabar.com.np", "Abcdef1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Token is single use
	err = auth.ResetPassword(token, "Another1!")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	auth, repo := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	err = auth.ForgotPassword("reader@khabar.com.np")
	require.NoError(t, err)

	token := *repo.users[user.ID].ResetToken
	past := time.Now().Add(-time.Minute)
	repo.users[user.ID].ResetExpiresAt = &past

	err = auth.ResetPassword(token, "Newpass1!")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestChangePassword(t *testing.T) {
	auth, _ := newTestAuthService()

	user, err := auth.Signup("reader@khabar.com.np", "Abcdef1!", "Reader")
	require.NoError(t, err)

	err = auth.ChangePassword(user.ID, "wrong-old", "Newpass1!")
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = auth.ChangePassword(user.ID, "Abcdef1!", "Newpass1!")
	require.NoError(t, err)

	_, err = auth.Login("reader@khabar.com.np", "Newpass1!")
	assert.NoError(t, err)
}

func TestJWTRoundtrip(t *testing.T) {
	auth, _ := newTestAuthService()

	token, err := auth.GenerateJWT("user-1", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	_, err = auth.VerifyJWT(token + "tampered")
	assert.Error(t, err)
}
