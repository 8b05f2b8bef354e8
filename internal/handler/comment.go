package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/khabarhub/khabar/internal/ctxkeys"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/service"
)

type commentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *commentHandler {
	return &commentHandler{commentService: commentService}
}

func (h *commentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListBySlug(r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Comments fetched successfully", map[string]any{"comments": comments})
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (h *commentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.PathValue("slug"), claims, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			response.Error(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, service.ErrCommentEmpty):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, "Comment created successfully", map[string]any{"comment": comment})
}

func (h *commentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := ctxkeys.Claims(r.Context())

	err := h.commentService.Delete(r.PathValue("id"), claims)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCommentNotFound):
			response.Error(w, http.StatusNotFound, "Comment not found")
		case errors.Is(err, service.ErrCommentForbidden):
			response.Error(w, http.StatusForbidden, err.Error())
		default:
			serverError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Comment deleted successfully", nil)
}
