package models

import (
	"time"
)

// Feedback represents a single feedback note authored by a user.
// Ownership is exclusive: a feedback row cannot outlive its owner.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Username  string    `gorm:"size:20;index;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Feedback model
func (Feedback) TableName() string {
	return "feedbacks"
}
