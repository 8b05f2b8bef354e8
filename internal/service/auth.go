package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountSuspended   = errors.New("Account suspended")
	ErrEmailAlreadyExists = errors.New("Email already in use")
	ErrInvalidVerifyCode  = errors.New("Invalid or expired verification code")
	ErrInvalidResetToken  = errors.New("Invalid or expired reset token")
	ErrOldPasswordWrong   = errors.New("Old password is incorrect")
)

const cookieName = "token"

type AuthService struct {
	userRepository   repository.UserRepository
	emailService     *EmailService
	jwtSecret        string
	isProduction     bool
	jwtExpiry        time.Duration
	verifyCodeExpiry time.Duration
	resetTokenExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	verifyCodeExpiry time.Duration,
	resetTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:   userRepository,
		emailService:     emailService,
		jwtSecret:        jwtSecret,
		isProduction:     isProduction,
		jwtExpiry:        jwtExpiry,
		verifyCodeExpiry: verifyCodeExpiry,
		resetTokenExpiry: resetTokenExpiry,
	}
}

// Signup creates an unverified account with a pending verification code.
// The caller sets the session cookie and then triggers the verification
// email, in that order.
func (s *AuthService) Signup(email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.GenerateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.verifyCodeExpiry)
	user := &model.User{
		ID:                    uuid.New().String(),
		Email:                 email,
		Name:                  strings.TrimSpace(name),
		PasswordHash:          hash,
		Role:                  model.RoleUser,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "email", email)
	return user, nil
}

// SendVerificationEmail delivers the pending code. A failure is logged and
// swallowed: the account exists either way and the user can request a new
// code later.
func (s *AuthService) SendVerificationEmail(user *model.User) {
	if user.VerificationCode == nil {
		return
	}
	err := s.emailService.SendVerificationEmail(user.Email, user.Name, *user.VerificationCode)
	if err != nil {
		slog.Warn("failed to send verification email", "error", err, "user_id", user.ID)
	}
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the identical ErrInvalidCredentials, so responses never
// reveal whether an account exists.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsSuspended {
		return nil, ErrAccountSuspended
	}

	now := time.Now()
	err = s.userRepository.TouchLastLogin(user.ID, now)
	if err != nil {
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
	}
	user.LastLoginAt = &now

	return user, nil
}

// VerifyEmail redeems a verification code. The consume is a single atomic
// update, so a code can only ever succeed once; wrong and expired codes get
// the same error.
func (s *AuthService) VerifyEmail(code string) (*model.User, error) {
	user, err := s.userRepository.ConsumeVerificationCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidVerifyCode
		}
		return nil, fmt.Errorf("failed to consume verification code: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("email verified", "user_id", user.ID)
	return user, nil
}

// ForgotPassword issues a reset token and emails the reset link. It returns
// nil for unknown emails too, so the endpoint cannot be used to probe which
// addresses have accounts.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	err = s.userRepository.SetResetToken(user.ID, token, time.Now().Add(s.resetTokenExpiry))
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	err = s.emailService.SendPasswordResetEmail(user.Email, user.Name, token)
	if err != nil {
		slog.Warn("failed to send password reset email", "error", err, "user_id", user.ID)
	}

	return nil
}

// ResetPassword redeems a reset token and swaps in the new password in one
// atomic update. Wrong, expired, and already-used tokens all get the same
// error.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepository.ConsumeResetToken(token, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	err = s.emailService.SendPasswordChangedEmail(user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send password changed email", "error", err, "user_id", user.ID)
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

// ChangePassword rotates the password of an authenticated user.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(oldPassword, user.PasswordHash)
	if err != nil {
		return ErrOldPasswordWrong
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	err = s.emailService.SendPasswordChangedEmail(user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send password changed email", "error", err, "user_id", user.ID)
	}

	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateVerificationCode returns a 6-digit code, uniform over
// [100000, 999999].
func (s *AuthService) GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// GenerateResetToken returns a 40-char hex token (20 random bytes).
func (s *AuthService) GenerateResetToken() (string, error) {
	bytes := make([]byte, 20)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(userID string, role model.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*model.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, _ := mapClaims["user_id"].(string)
	roleStr, _ := mapClaims["role"].(string)
	if userID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &model.Claims{UserID: userID, Role: model.Role(roleStr)}, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(s.jwtExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteStrictMode,
	})
}

// CookieName is the session cookie read by the auth middleware.
func (s *AuthService) CookieName() string {
	return cookieName
}
