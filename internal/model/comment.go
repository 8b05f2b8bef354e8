package model

import (
	"time"
)

type Comment struct {
	ID         string    `db:"id" json:"id"`
	PostID     string    `db:"post_id" json:"postId"`
	UserID     string    `db:"user_id" json:"userId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
