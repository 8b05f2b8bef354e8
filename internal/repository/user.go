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
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	UpdatePassword(id, passwordHash string) error
	TouchLastLogin(id string, at time.Time) error
	ConsumeVerificationCode(code string) (*model.User, error)
	SetResetToken(id, token string, expiresAt time.Time) error
	ConsumeResetToken(token, passwordHash string) (*model.User, error)
	List() ([]model.User, error)
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, is_verified, is_suspended,
			verification_code, verification_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.IsSuspended,
		user.VerificationCode,
		user.VerificationExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// Unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Update(user *model.User) error {
	query := `
		UPDATE users
		SET name = $1, role = $2, is_verified = $3, is_suspended = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(query, user.Name, user.Role, user.IsVerified, user.IsSuspended, time.Now(), user.ID)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func (r *userRepository) UpdatePassword(id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, passwordHash, time.Now(), id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func (r *userRepository) TouchLastLogin(id string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`

	_, err := r.db.Exec(query, at, id)
	return err
}

// ConsumeVerificationCode atomically marks the matching user verified and
// clears the code. A single UPDATE means only one request can win; a second
// attempt with the same code gets ErrUserNotFound, as does an expired code.
func (r *userRepository) ConsumeVerificationCode(code string) (*model.User, error) {
	user := &model.User{}
	now := time.Now()

	query := `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, verification_expires_at = NULL, updated_at = $1
		WHERE verification_code = $2
		AND verification_expires_at > $3
		RETURNING *
	`

	err := r.db.Get(user, query, now, code, now)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) SetResetToken(id, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_token = $1, reset_expires_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(query, token, expiresAt, time.Now(), id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// ConsumeResetToken atomically swaps in the new password hash and clears the
// token, so a reset link can only ever be redeemed once.
func (r *userRepository) ConsumeResetToken(token, passwordHash string) (*model.User, error) {
	user := &model.User{}
	now := time.Now()

	query := `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_expires_at = NULL, updated_at = $2
		WHERE reset_token = $3
		AND reset_expires_at > $4
		RETURNING *
	`

	err := r.db.Get(user, query, passwordHash, now, token, now)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) List() ([]model.User, error) {
	users := []model.User{}
	query := `SELECT * FROM users ORDER BY created_at DESC`

	err := r.db.Select(&users, query)
	return users, err
}

func (r *userRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
