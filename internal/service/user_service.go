package service

import (
	"context"

	"github.com/feedback-board/internal/models"
	"github.com/feedback-board/internal/repository"
	"github.com/feedback-board/internal/session"
)

// UserService handles profile reads and account deletion
type UserService struct {
	userRepo     repository.UserStore
	feedbackRepo repository.FeedbackStore
	sessions     session.Store
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserStore, feedbackRepo repository.FeedbackStore, sessions session.Store) *UserService {
	return &UserService{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		sessions:     sessions,
	}
}

// Profile returns a user together with the feedback it owns.
func (s *UserService) Profile(username string) (*models.User, []models.Feedback, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, err
	}

	feedbacks, err := s.feedbackRepo.ListByUsername(username)
	if err != nil {
		return nil, nil, err
	}

	return user, feedbacks, nil
}

// Delete removes the user, cascading to all owned feedback, and clears every
// active session for that username.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.DeleteCascade(username); err != nil {
		return err
	}
	return s.sessions.ClearByIdentity(ctx, username)
}
