package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/khabarhub/khabar/internal/model"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicateSlug = errors.New("slug already exists")
)

type PostRepository interface {
	Create(post *model.Post) error
	Update(post *model.Post) error
	Delete(id string) error
	ByID(id string) (*model.Post, error)
	BySlug(slug string) (*model.Post, error)
	VisitBySlug(slug string) (*model.Post, error)
	CountPublished() (int, error)
	ListPublished(offset, limit int) ([]model.Post, error)
	CountSearch(q string) (int, error)
	Search(q string, offset, limit int) ([]model.Post, error)
	Popular(limit int) ([]model.Post, error)
	Related(category, excludeID string, limit int) ([]model.Post, error)
	Categories() ([]model.CategoryCount, error)
	CountByCategory(category string) (int, error)
	TopByCategory(category string, offset, limit int) ([]model.Post, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	query := `
		INSERT INTO posts (id, title, slug, image, category, description, status, visit_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		post.ID,
		post.Title,
		post.Slug,
		post.Image,
		post.Category,
		post.Description,
		post.Status,
		post.VisitCount,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateSlug
		}
		return err
	}

	return nil
}

func (r *postRepository) Update(post *model.Post) error {
	query := `
		UPDATE posts
		SET title = $1, slug = $2, image = $3, category = $4, description = $5, status = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.Exec(query,
		post.Title,
		post.Slug,
		post.Image,
		post.Category,
		post.Description,
		post.Status,
		time.Now(),
		post.ID,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateSlug
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *postRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *postRepository) ByID(id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.Get(post, `SELECT * FROM posts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}

	return post, err
}

func (r *postRepository) BySlug(slug string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.Get(post, `SELECT * FROM posts WHERE slug = $1`, slug)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}

	return post, err
}

// VisitBySlug increments the visit counter and returns the updated post in
// one statement, so concurrent reads never lose a count.
func (r *postRepository) VisitBySlug(slug string) (*model.Post, error) {
	post := &model.Post{}
	query := `
		UPDATE posts
		SET visit_count = visit_count + 1
		WHERE slug = $1
		RETURNING *
	`

	err := r.db.Get(post, query, slug)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepository) CountPublished() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM posts WHERE status = $1`, model.PostStatusPublished)
	return count, err
}

func (r *postRepository) ListPublished(offset, limit int) ([]model.Post, error) {
	posts := []model.Post{}
	query := `
		SELECT * FROM posts
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	err := r.db.Select(&posts, query, model.PostStatusPublished, limit, offset)
	return posts, err
}

func (r *postRepository) CountSearch(q string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM posts
		WHERE status = $1
		AND (title LIKE $2 OR category LIKE $2 OR description LIKE $2)
	`

	err := r.db.Get(&count, query, model.PostStatusPublished, "%"+q+"%")
	return count, err
}

func (r *postRepository) Search(q string, offset, limit int) ([]model.Post, error) {
	posts := []model.Post{}
	query := `
		SELECT * FROM posts
		WHERE status = $1
		AND (title LIKE $2 OR category LIKE $2 OR description LIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	err := r.db.Select(&posts, query, model.PostStatusPublished, "%"+q+"%", limit, offset)
	return posts, err
}

func (r *postRepository) Popular(limit int) ([]model.Post, error) {
	posts := []model.Post{}
	query := `
		SELECT * FROM posts
		WHERE status = $1
		ORDER BY visit_count DESC
		LIMIT $2
	`

	err := r.db.Select(&posts, query, model.PostStatusPublished, limit)
	return posts, err
}

func (r *postRepository) Related(category, excludeID string, limit int) ([]model.Post, error) {
	posts := []model.Post{}
	query := `
		SELECT * FROM posts
		WHERE status = $1
		AND category = $2
		AND id != $3
		ORDER BY created_at DESC
		LIMIT $4
	`

	err := r.db.Select(&posts, query, model.PostStatusPublished, category, excludeID, limit)
	return posts, err
}

func (r *postRepository) Categories() ([]model.CategoryCount, error) {
	categories := []model.CategoryCount{}
	query := `
		SELECT category, COUNT(*) AS count
		FROM posts
		WHERE status = $1
		GROUP BY category
		ORDER BY count DESC
	`

	err := r.db.Select(&categories, query, model.PostStatusPublished)
	return categories, err
}

func (r *postRepository) CountByCategory(category string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM posts WHERE status = $1 AND category = $2`

	err := r.db.Get(&count, query, model.PostStatusPublished, category)
	return count, err
}

func (r *postRepository) TopByCategory(category string, offset, limit int) ([]model.Post, error) {
	posts := []model.Post{}
	query := `
		SELECT * FROM posts
		WHERE status = $1
		AND category = $2
		ORDER BY visit_count DESC
		LIMIT $3 OFFSET $4
	`

	err := r.db.Select(&posts, query, model.PostStatusPublished, category, limit, offset)
	return posts, err
}
