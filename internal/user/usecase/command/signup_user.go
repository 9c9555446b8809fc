package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/user/domain"
	"github.com/tunedeck/tunedeck/pkg/auth"
)

// SignupUserCommand represents the command to create a new account
type SignupUserCommand struct {
	Name     string
	Email    string
	Password string
}

// SignupUserHandler handles account signup
type SignupUserHandler struct {
	repo domain.UserRepository
}

// NewSignupUserHandler creates a new signup handler
func NewSignupUserHandler(repo domain.UserRepository) *SignupUserHandler {
	return &SignupUserHandler{repo: repo}
}

// Handle executes the signup command
func (h *SignupUserHandler) Handle(cmd SignupUserCommand) (*domain.User, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	// Pre-check for a friendlier error; the unique index on email is what
	// actually guarantees no duplicate under concurrent signups.
	if existing, _ := h.repo.FindByEmail(cmd.Email); existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:      cmd.Name,
		Email:     cmd.Email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
