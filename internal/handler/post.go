package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/pagination"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/response"
	"github.com/khabarhub/khabar/internal/service"
)

const (
	defaultListLimit     = 10
	defaultRecentLimit   = 6
	defaultCategoryLimit = 5
)

type postHandler struct {
	postService *service.PostService
	apiURL      string
}

func NewPostHandler(postService *service.PostService, apiURL string) *postHandler {
	return &postHandler{
		postService: postService,
		apiURL:      strings.TrimRight(apiURL, "/"),
	}
}

// postPage is the body of every paginated post listing.
type postPage struct {
	pagination.Page
	Posts []model.Post `json:"posts"`
}

func (h *postHandler) List(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, defaultListLimit, h.apiURL+"/posts", "Posts fetched successfully")
}

func (h *postHandler) Recent(w http.ResponseWriter, r *http.Request) {
	h.listPosts(w, r, defaultRecentLimit, h.apiURL+"/posts/recent", "Recent posts fetched successfully")
}

func (h *postHandler) listPosts(w http.ResponseWriter, r *http.Request, defaultLimit int, baseURL, message string) {
	params := pagination.ParseParams(r, defaultLimit)

	posts, total, err := h.postService.List(params.Offset, params.Limit)
	if err != nil {
		serverError(w, err)
		return
	}

	h.respondPage(w, posts, total, params, baseURL, message)
}

func (h *postHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		response.Error(w, http.StatusBadRequest, "Search query is required")
		return
	}

	params := pagination.ParseParams(r, defaultListLimit)

	posts, total, err := h.postService.Search(q, params.Offset, params.Limit)
	if err != nil {
		serverError(w, err)
		return
	}

	baseURL := fmt.Sprintf("%s/posts/search?q=%s", h.apiURL, url.QueryEscape(q))
	h.respondPage(w, posts, total, params, baseURL, "Search results fetched successfully")
}

func (h *postHandler) Popular(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Popular()
	if err != nil {
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Popular posts fetched successfully", map[string]any{"posts": posts})
}

func (h *postHandler) BySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.BySlug(r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Post fetched successfully", map[string]any{"post": post})
}

func (h *postHandler) Related(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Related(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Related posts fetched successfully", map[string]any{"posts": posts})
}

func (h *postHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.postService.Categories()
	if err != nil {
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Categories fetched successfully", map[string]any{"categories": categories})
}

func (h *postHandler) TopByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	params := pagination.ParseParams(r, defaultCategoryLimit)

	posts, total, err := h.postService.TopByCategory(category, params.Offset, params.Limit)
	if err != nil {
		serverError(w, err)
		return
	}

	baseURL := fmt.Sprintf("%s/posts/category/%s", h.apiURL, url.PathEscape(category))
	h.respondPage(w, posts, total, params, baseURL, "Category posts fetched successfully")
}

func (h *postHandler) respondPage(w http.ResponseWriter, posts []model.Post, total int, params pagination.Params, baseURL, message string) {
	page, err := pagination.Paginate(total, len(posts), params.Page, params.Limit, baseURL)
	if err != nil {
		var oor *pagination.OutOfRangeError
		if errors.As(err, &oor) {
			response.ErrorDetail(w, http.StatusBadRequest, "Requested page exceeds total pages",
				map[string]int{"totalPages": oor.TotalPages})
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, message, postPage{Page: page, Posts: posts})
}

// Admin operations below.

func (h *postHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.Create(input)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			response.Error(w, http.StatusConflict, err.Error())
			return
		}
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, "Post created successfully", map[string]any{"post": post})
}

func (h *postHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.Update(r.PathValue("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			response.Error(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, service.ErrSlugTaken):
			response.Error(w, http.StatusConflict, err.Error())
		default:
			response.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	response.JSON(w, http.StatusOK, "Post updated successfully", map[string]any{"post": post})
}

func (h *postHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.postService.Delete(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			response.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		serverError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, "Post deleted successfully", nil)
}
