package command

import (
	"errors"
	"fmt"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

// ToggleFavoriteCommand represents the command to flip a favorite state
type ToggleFavoriteCommand struct {
	UserID uint
	SongID string
}

// ToggleFavoriteResult reports the state after the toggle.
type ToggleFavoriteResult struct {
	Favorited bool `json:"message"`
}

// ToggleFavoriteHandler handles the favorite toggle
type ToggleFavoriteHandler struct {
	songs     domain.SongRepository
	favorites domain.FavoriteRepository
}

// NewToggleFavoriteHandler creates a new toggle handler
func NewToggleFavoriteHandler(songs domain.SongRepository, favorites domain.FavoriteRepository) *ToggleFavoriteHandler {
	return &ToggleFavoriteHandler{songs: songs, favorites: favorites}
}

// Handle executes the toggle. If the pair exists it is removed, otherwise
// created; two racing togglers converge through the unique index rather than
// double-inserting.
func (h *ToggleFavoriteHandler) Handle(cmd ToggleFavoriteCommand) (*ToggleFavoriteResult, error) {
	if cmd.SongID == "" {
		return nil, domain.ErrSongNotFound
	}

	if _, err := h.songs.FindByID(cmd.SongID); err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to look up song: %w", err)
	}

	favorited, err := h.favorites.IsFavorited(cmd.UserID, cmd.SongID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}

	if favorited {
		if err := h.favorites.Remove(cmd.UserID, cmd.SongID); err != nil && !errors.Is(err, domain.ErrFavoriteNotFound) {
			return nil, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return &ToggleFavoriteResult{Favorited: false}, nil
	}

	if err := h.favorites.Add(cmd.UserID, cmd.SongID); err != nil {
		if errors.Is(err, domain.ErrAlreadyFavorited) {
			// Lost the insert race; the concurrent add wins and this call
			// completes the toggle by removing.
			if remErr := h.favorites.Remove(cmd.UserID, cmd.SongID); remErr != nil && !errors.Is(remErr, domain.ErrFavoriteNotFound) {
				return nil, fmt.Errorf("failed to remove favorite: %w", remErr)
			}
			return &ToggleFavoriteResult{Favorited: false}, nil
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	return &ToggleFavoriteResult{Favorited: true}, nil
}
