package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/khabarhub/khabar/internal/model"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(comment *model.Comment) error
	ByID(id string) (*model.Comment, error)
	ListByPost(postID string) ([]model.Comment, error)
	Delete(id string) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, author_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.AuthorName,
		comment.Content,
		comment.CreatedAt,
	)
	return err
}

func (r *commentRepository) ByID(id string) (*model.Comment, error) {
	comment := &model.Comment{}
	err := r.db.Get(comment, `SELECT * FROM comments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}

	return comment, err
}

func (r *commentRepository) ListByPost(postID string) ([]model.Comment, error) {
	comments := []model.Comment{}
	query := `SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&comments, query, postID)
	return comments, err
}

func (r *commentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
