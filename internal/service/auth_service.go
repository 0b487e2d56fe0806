package service

import (
	"errors"

	"github.com/feedback-board/internal/forms"
	"github.com/feedback-board/internal/models"
	"github.com/feedback-board/internal/repository"
	"github.com/feedback-board/pkg/crypto"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. Callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
)

// AuthService handles registration and credential verification
type AuthService struct {
	userRepo repository.UserStore
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserStore) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register hashes the password and inserts the new user. The plaintext
// password is never stored. A uniqueness conflict comes back as
// ErrUsernameTaken or ErrEmailTaken so the handler can turn it into a
// field-level validation error instead of a hard failure.
func (s *AuthService) Register(form *forms.RegisterForm) (*models.User, error) {
	passwordHash, err := crypto.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: passwordHash,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Authenticate looks up the user and verifies the password hash.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
