package model

import (
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role"`
	IsVerified   bool   `db:"is_verified" json:"isVerified"`
	IsSuspended  bool   `db:"is_suspended" json:"isSuspended"`

	// At most one active verification code and one active reset token
	// per user; issuing a new one overwrites the previous.
	VerificationCode      *string    `db:"verification_code" json:"-"`
	VerificationExpiresAt *time.Time `db:"verification_expires_at" json:"-"`
	ResetToken            *string    `db:"reset_token" json:"-"`
	ResetExpiresAt        *time.Time `db:"reset_expires_at" json:"-"`

	LastLoginAt *time.Time `db:"last_login_at" json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
