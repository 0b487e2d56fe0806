package models

import (
	"time"
)

// User represents a registered user. The username is the primary key; it is
// what a session stores and what feedback rows reference as their owner.
type User struct {
	Username     string    `gorm:"primaryKey;size:20" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:30;not null" json:"first_name"`
	LastName     string    `gorm:"size:30;not null" json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Feedbacks []Feedback `gorm:"foreignKey:Username;constraint:OnDelete:CASCADE" json:"feedbacks,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
