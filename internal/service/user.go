package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/khabarhub/khabar/internal/model"
	"github.com/khabarhub/khabar/internal/repository"
	"github.com/khabarhub/khabar/internal/validation"
)

var (
	ErrInvalidRole     = errors.New("Invalid role")
	ErrAlreadyVerified = errors.New("Email is already verified")
)

type UserService struct {
	userRepository repository.UserRepository
	emailService   *EmailService
}

func NewUserService(userRepository repository.UserRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepository: userRepository,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) List() ([]model.User, error) {
	return s.userRepository.List()
}

func (s *UserService) UpdateName(id, name string) (*model.User, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdateRole changes an account's role. Only values from the closed role
// set are accepted.
func (s *UserService) UpdateRole(id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	slog.Info("user role updated", "user_id", id, "role", role)
	return user, nil
}

// ApproveEmail marks a user verified without a code. Admin shortcut for
// users whose verification email never arrived.
func (s *UserService) ApproveEmail(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	user.IsVerified = true
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to approve email: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("email approved by admin", "user_id", id)
	return user, nil
}

// Suspend blocks future logins. Existing sessions stay valid until their
// JWT expires; there is no server-side revocation.
func (s *UserService) Suspend(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	user.IsSuspended = true
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to suspend user: %w", err)
	}

	slog.Info("user suspended", "user_id", id)
	return user, nil
}

func (s *UserService) Delete(id string) error {
	err := s.userRepository.Delete(id)
	if err != nil {
		return err
	}

	slog.Info("user deleted", "user_id", id)
	return nil
}
