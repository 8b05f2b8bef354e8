package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khabarhub/khabar/internal/markdown"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
)

var (
	ErrSlugTaken     = errors.New("A post with this slug already exists")
	ErrInvalidStatus = errors.New("Invalid status")
	ErrPostInvalid   = errors.New("Title, slug, category and description are required")
)

const (
	popularLimit = 4
	relatedLimit = 4
)

type PostService struct {
	postRepository repository.PostRepository
	renderer       *markdown.Renderer
}

func NewPostService(postRepository repository.PostRepository, renderer *markdown.Renderer) *PostService {
	return &PostService{
		postRepository: postRepository,
		renderer:       renderer,
	}
}

// PostInput carries the writable post fields. When Markdown is set the
// description is rendered to HTML first; either way the stored description
// is sanitized.
type PostInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Markdown    bool   `json:"markdown"`
	Status      string `json:"status"`
}

func (s *PostService) List(offset, limit int) ([]model.Post, int, error) {
	total, err := s.postRepository.CountPublished()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	posts, err := s.postRepository.ListPublished(offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

func (s *PostService) Search(q string, offset, limit int) ([]model.Post, int, error) {
	total, err := s.postRepository.CountSearch(q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	posts, err := s.postRepository.Search(q, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search posts: %w", err)
	}

	return posts, total, nil
}

func (s *PostService) Popular() ([]model.Post, error) {
	return s.postRepository.Popular(popularLimit)
}

// BySlug returns the post and counts the visit. Drafts stay reachable by
// exact slug so editors can preview them.
func (s *PostService) BySlug(slug string) (*model.Post, error) {
	return s.postRepository.VisitBySlug(slug)
}

// Related returns up to four newest published posts sharing the base
// post's category, excluding the post itself.
func (s *PostService) Related(postID string) ([]model.Post, error) {
	post, err := s.postRepository.ByID(postID)
	if err != nil {
		return nil, err
	}

	return s.postRepository.Related(post.Category, post.ID, relatedLimit)
}

func (s *PostService) Categories() ([]model.CategoryCount, error) {
	return s.postRepository.Categories()
}

func (s *PostService) TopByCategory(category string, offset, limit int) ([]model.Post, int, error) {
	total, err := s.postRepository.CountByCategory(category)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count category posts: %w", err)
	}

	posts, err := s.postRepository.TopByCategory(category, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list category posts: %w", err)
	}

	return posts, total, nil
}

func (s *PostService) Create(input PostInput) (*model.Post, error) {
	post, err := s.build(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.ID = uuid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	err = s.postRepository.Create(post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.Slug)
	return post, nil
}

func (s *PostService) Update(id string, input PostInput) (*model.Post, error) {
	existing, err := s.postRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	post, err := s.build(input)
	if err != nil {
		return nil, err
	}

	post.ID = existing.ID
	post.VisitCount = existing.VisitCount
	post.CreatedAt = existing.CreatedAt

	err = s.postRepository.Update(post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	slog.Info("post updated", "post_id", post.ID, "slug", post.Slug)
	return post, nil
}

func (s *PostService) Delete(id string) error {
	err := s.postRepository.Delete(id)
	if err != nil {
		return err
	}

	slog.Info("post deleted", "post_id", id)
	return nil
}

func (s *PostService) build(input PostInput) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	slug := strings.TrimSpace(input.Slug)
	category := strings.TrimSpace(input.Category)

	if title == "" || slug == "" || category == "" || input.Description == "" {
		return nil, ErrPostInvalid
	}

	status := model.PostStatus(input.Status)
	if input.Status == "" {
		status = model.PostStatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	description := input.Description
	if input.Markdown {
		rendered, err := s.renderer.Render(description)
		if err != nil {
			return nil, fmt.Errorf("failed to render markdown: %w", err)
		}
		description = rendered
	} else {
		description = s.renderer.Sanitize(description)
	}

	return &model.Post{
		Title:       title,
		Slug:        slug,
		Image:       strings.TrimSpace(input.Image),
		Category:    category,
		Description: description,
		Status:      status,
	}, nil
}
