package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmailTaken is returned when a signup reuses a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when a lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for a bad email or password. Both
	// cases share one error so a caller cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User represents an account (domain model)
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Public returns the externally visible view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PublicUser is the response shape for account endpoints. The password hash
// never leaves the service.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)
	Count() (int64, error)
}
