package models

import (
	"strings"
	"time"
)

// User represents a registered customer.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(254)" validate:"required,min=3,max=254"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=8"`
	FirstName string    `json:"first_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail is the canonical form emails are stored and matched in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
