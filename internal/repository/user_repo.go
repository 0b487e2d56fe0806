package repository

import (
	"errors"
	"strings"

	"github.com/feedback-board/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository handles user data access
type UserRepository struct {
	db *gorm.DB
}

var _ UserStore = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// Create inserts a new user, translating uniqueness conflicts into
// ErrUsernameTaken / ErrEmailTaken so callers can surface field errors.
func (r *UserRepository) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return err
}

// DeleteCascade removes the user and all feedback it owns in one transaction.
func (r *UserRepository) DeleteCascade(username string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, "username = ?", username)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
