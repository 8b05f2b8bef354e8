package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
)

var (
	ErrCommentEmpty     = errors.New("Comment content is required")
	ErrCommentForbidden = errors.New("You can only delete your own comments")
)

type CommentService struct {
	commentRepository repository.CommentRepository
	postRepository    repository.PostRepository
	userRepository    repository.UserRepository
}

func NewCommentService(
	commentRepository repository.CommentRepository,
	postRepository repository.PostRepository,
	userRepository repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepository: commentRepository,
		postRepository:    postRepository,
		userRepository:    userRepository,
	}
}

func (s *CommentService) ListBySlug(slug string) ([]model.Comment, error) {
	post, err := s.postRepository.BySlug(slug)
	if err != nil {
		return nil, err
	}

	return s.commentRepository.ListByPost(post.ID)
}

func (s *CommentService) Create(slug string, claims *model.Claims, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	post, err := s.postRepository.BySlug(slug)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	comment := &model.Comment{
		ID:         uuid.New().String(),
		PostID:     post.ID,
		UserID:     user.ID,
		AuthorName: user.Name,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	err = s.commentRepository.Create(comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment. Authors may delete their own; admins may
// delete any.
func (s *CommentService) Delete(id string, claims *model.Claims) error {
	comment, err := s.commentRepository.ByID(id)
	if err != nil {
		return err
	}

	if comment.UserID != claims.UserID && !claims.IsAdmin() {
		return ErrCommentForbidden
	}

	return s.commentRepository.Delete(id)
}
