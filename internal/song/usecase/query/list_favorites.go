package query

import (
	"fmt"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

// ListFavoritesQuery represents the query for one user's favorited songs
type ListFavoritesQuery struct {
	UserID uint
}

// ListFavoritesHandler handles the favorites listing
type ListFavoritesHandler struct {
	repo domain.SongRepository
}

// NewListFavoritesHandler creates a new favorites list handler
func NewListFavoritesHandler(repo domain.SongRepository) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo}
}

// Handle returns the user's favorited songs, most recently favorited first.
// No favorites is an empty list, not an error.
func (h *ListFavoritesHandler) Handle(q ListFavoritesQuery) ([]domain.Song, error) {
	if q.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}

	songs, err := h.repo.FindFavoritedBy(q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return songs, nil
}
