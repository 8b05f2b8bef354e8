package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			response.Error(w, http.StatusConflict, err.Error())
		case isValidationError(err):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			serverError(w, err)
		}
		return
	}

	// Persist first, then session, then email. The signup succeeds even if
	// the verification email cannot be delivered.
	token, err := h.authService.GenerateJWT(user.ID, user.Role)
	if err != nil {
		serverError(w, err)
		return
	}
	h.authService.SetJWTCookie(w, token)

	h.authService.SendVerificationEmail(user)

	response.JSON(w, http.StatusCreated, "User created successfully", map[string]any{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrAccountSuspended):
			response.Error(w, http.StatusForbidden, err.Error())
		default:
			serverError(w, err)
		}
		return
	}

	token, err := h.authService.GenerateJWT(user.ID, user.Role)
	if err != nil {
		serverError(w, err)
		return
	}
	h.authService.SetJWTCookie(w, token)

	response.JSON(w, http.StatusOK, "Logged in successfully", map[string]any{"user": user})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	response.JSON(w, http.StatusOK, "Logged out successfully", nil)
}

type verifyEmailRequest struct {
	Code string `json:"code"`
}

func (h *authHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.VerifyEmail(req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVerifyCode) {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Email verified successfully", map[string]any{"user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *authHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		slog.Warn("forgot password failed", "error", err)
	}

	// Identical answer whether or not the account exists
	response.JSON(w, http.StatusOK, "If an account with that email exists, a password reset link has been sent", nil)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.ResetPassword(token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken), isValidationError(err):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Password reset successfully", nil)
}
