package command

import (
	"errors"
	"fmt"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

// RemoveFavoriteCommand represents the command to explicitly unfavorite
type RemoveFavoriteCommand struct {
	UserID uint
	SongID string
}

// RemoveFavoriteHandler handles explicit favorite removal, for callers that
// must not re-favorite when the pair is already gone.
type RemoveFavoriteHandler struct {
	favorites domain.FavoriteRepository
}

// NewRemoveFavoriteHandler creates a new remove handler
func NewRemoveFavoriteHandler(favorites domain.FavoriteRepository) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{favorites: favorites}
}

// Handle executes the removal
func (h *RemoveFavoriteHandler) Handle(cmd RemoveFavoriteCommand) error {
	if cmd.SongID == "" {
		return domain.ErrFavoriteNotFound
	}

	if err := h.favorites.Remove(cmd.UserID, cmd.SongID); err != nil {
		if errors.Is(err, domain.ErrFavoriteNotFound) {
			return domain.ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
