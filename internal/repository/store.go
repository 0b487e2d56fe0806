package repository

import (
	"errors"

	"github.com/feedback-board/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already taken")
)

// UserStore is the data-access contract for users.
type UserStore interface {
	// GetByUsername retrieves a user by username.
	GetByUsername(username string) (*models.User, error)
	// Create inserts a new user. Uniqueness conflicts come back as
	// ErrUsernameTaken or ErrEmailTaken.
	Create(user *models.User) error
	// DeleteCascade removes a user together with every feedback row it owns.
	DeleteCascade(username string) error
}

// FeedbackStore is the data-access contract for feedback notes.
type FeedbackStore interface {
	GetByID(id uint) (*models.Feedback, error)
	ListByUsername(username string) ([]models.Feedback, error)
	Create(feedback *models.Feedback) error
	Update(feedback *models.Feedback) error
	Delete(id uint) error
}
