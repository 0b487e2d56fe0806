package repository

import (
	"errors"

	"github.com/feedback-board/internal/models"
	"gorm.io/gorm"
)

// FeedbackRepository handles feedback data access
type FeedbackRepository struct {
	db *gorm.DB
}

var _ FeedbackStore = (*FeedbackRepository)(nil)

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// GetByID retrieves a feedback note by ID
func (r *FeedbackRepository) GetByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	result := r.db.First(&feedback, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, result.Error
	}
	return &feedback, nil
}

// ListByUsername retrieves all feedback owned by a user, newest first
func (r *FeedbackRepository) ListByUsername(username string) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	result := r.db.Where("username = ?", username).
		Order("created_at DESC").
		Find(&feedbacks)
	if result.Error != nil {
		return nil, result.Error
	}
	return feedbacks, nil
}

// Create inserts a new feedback note
func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// Update saves title/content changes to an existing feedback note
func (r *FeedbackRepository) Update(feedback *models.Feedback) error {
	return r.db.Save(feedback).Error
}

// Delete removes a feedback note
func (r *FeedbackRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Feedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
