package service

import (
	"github.com/feedback-board/internal/models"
	"github.com/feedback-board/internal/repository"
)

// FeedbackService handles feedback CRUD
type FeedbackService struct {
	feedbackRepo repository.FeedbackStore
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedbackRepo repository.FeedbackStore) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// Get retrieves a feedback note by ID
func (s *FeedbackService) Get(id uint) (*models.Feedback, error) {
	return s.feedbackRepo.GetByID(id)
}

// Add creates a feedback note owned by username
func (s *FeedbackService) Add(username, title, content string) (*models.Feedback, error) {
	feedback := &models.Feedback{
		Title:    title,
		Content:  content,
		Username: username,
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Update saves new title and content on an existing note. Last write wins on
// concurrent updates.
func (s *FeedbackService) Update(feedback *models.Feedback, title, content string) error {
	feedback.Title = title
	feedback.Content = content
	return s.feedbackRepo.Update(feedback)
}

// Delete removes a feedback note
func (s *FeedbackService) Delete(id uint) error {
	return s.feedbackRepo.Delete(id)
}
