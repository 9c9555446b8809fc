//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tunedeck/tunedeck/internal/user/delivery/http"
	"github.com/tunedeck/tunedeck/internal/user/domain"
	"github.com/tunedeck/tunedeck/internal/user/repository"
	"github.com/tunedeck/tunedeck/internal/user/usecase/command"
	"github.com/tunedeck/tunedeck/internal/user/usecase/query"
	"github.com/tunedeck/tunedeck/kafka"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

func ProvideSignupUserHandler(repo domain.UserRepository) *command.SignupUserHandler {
	return command.NewSignupUserHandler(repo)
}

func ProvideLoginUserHandler(repo domain.UserRepository) *command.LoginUserHandler {
	return command.NewLoginUserHandler(repo)
}

func ProvideGetUserHandler(repo domain.UserRepository) *query.GetUserHandler {
	return query.NewGetUserHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var HandlerSet = wire.NewSet(
	ProvideSignupUserHandler,
	ProvideLoginUserHandler,
	ProvideGetUserHandler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, events *kafka.Publisher) (*http.UserHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewUserHandler,
	)
	return nil, nil
}
