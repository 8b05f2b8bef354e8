package model

import (
	"time"
)

// PostStatus is the closed set of publication states.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

type Post struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Image       string     `db:"image" json:"image"`
	Category    string     `db:"category" json:"category"`
	Description string     `db:"description" json:"description"` // sanitized HTML
	Status      PostStatus `db:"status" json:"status"`
	VisitCount  int        `db:"visit_count" json:"visitCount"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// CategoryCount is one row of the category aggregation.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}
