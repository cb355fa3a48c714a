package model

import "time"

// Role distinguishes administrator accounts from ordinary accounts.
type Role int

const (
	// RoleUser is the default role of accounts created through signup.
	RoleUser Role = 0
	// RoleAdmin marks an administrator account.
	RoleAdmin Role = 1
)

// User represents an account in the credential store.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Password   string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed
	Email      string    `json:"email,omitempty" gorm:"size:255;index"`
	Role       Role      `json:"role" gorm:"not null;default:0;index"`
	ExternalID *string   `json:"-" gorm:"size:255;uniqueIndex"` // linked OAuth subject
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account is an administrator.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
