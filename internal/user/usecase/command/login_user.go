package command

import (
	"fmt"

	"github.com/tunedeck/tunedeck/internal/user/domain"
	"github.com/tunedeck/tunedeck/pkg/auth"
)

// LoginUserCommand represents the command to log a user in
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
}

// LoginUserHandler handles user login
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login handler
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle executes the login command. An unknown email and a wrong password
// return the same domain.ErrInvalidCredentials.
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	user, err := h.repo.FindByEmail(cmd.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		Message:     "User logged in successfully",
	}, nil
}
