package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/khabarhub/khabar/internal/ctxkeys"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/service"
)

type userHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *userHandler {
	return &userHandler{
		userService: userService,
		authService: authService,
	}
}

func (h *userHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	user, err := h.userService.ByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "User fetched successfully", map[string]any{"user": user})
}

type updateMeRequest struct {
	Name string `json:"name"`
}

func (h *userHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateName(claims.UserID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, http.StatusNotFound, "User not found")
		case isValidationError(err):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *userHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOldPasswordWrong), isValidationError(err):
			response.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, http.StatusNotFound, "User not found")
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Password changed successfully", nil)
}

func (h *userHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	err := h.userService.Delete(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, err)
		return
	}

	h.authService.ClearJWTCookie(w)
	response.JSON(w, http.StatusOK, "Account deleted successfully", nil)
}

// Admin operations below.

func (h *userHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List()
	if err != nil {
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Users fetched successfully", map[string]any{"users": users})
}

func (h *userHandler) ByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "User fetched successfully", map[string]any{"user": user})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *userHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateRole(r.PathValue("id"), model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, http.StatusNotFound, "User not found")
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Role updated successfully", map[string]any{"user": user})
}

func (h *userHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ApproveEmail(r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			response.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, http.StatusNotFound, "User not found")
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Email approved successfully", map[string]any{"user": user})
}

func (h *userHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Suspend(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "User suspended successfully", map[string]any{"user": user})
}

func (h *userHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "User deleted successfully", nil)
}
