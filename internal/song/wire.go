//go:build wireinject
// +build wireinject

package song

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tunedeck/tunedeck/internal/song/cache"
	"github.com/tunedeck/tunedeck/internal/song/delivery/http"
	"github.com/tunedeck/tunedeck/internal/song/domain"
	"github.com/tunedeck/tunedeck/internal/song/repository"
	"github.com/tunedeck/tunedeck/internal/song/usecase/command"
	"github.com/tunedeck/tunedeck/kafka"
	"github.com/tunedeck/tunedeck/pkg/storage"
)

// ProvideSongRepository provides the song repository
func ProvideSongRepository(db *gorm.DB) domain.SongRepository {
	return repository.NewGormSongRepository(db)
}

// ProvideFavoriteRepository provides the favorite repository
func ProvideFavoriteRepository(db *gorm.DB) domain.FavoriteRepository {
	return repository.NewGormFavoriteRepository(db)
}

func ProvideUploadSongHandler(songs domain.SongRepository, store storage.Client) *command.UploadSongHandler {
	return command.NewUploadSongHandler(songs, store)
}

func ProvideToggleFavoriteHandler(songs domain.SongRepository, favorites domain.FavoriteRepository) *command.ToggleFavoriteHandler {
	return command.NewToggleFavoriteHandler(songs, favorites)
}

func ProvideRemoveFavoriteHandler(favorites domain.FavoriteRepository) *command.RemoveFavoriteHandler {
	return command.NewRemoveFavoriteHandler(favorites)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSongRepository,
	ProvideFavoriteRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideUploadSongHandler,
	ProvideToggleFavoriteHandler,
	ProvideRemoveFavoriteHandler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, store storage.Client, listCache *cache.ListCache, events *kafka.Publisher) (*http.SongHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		http.NewSongHandler,
	)
	return nil, nil
}
