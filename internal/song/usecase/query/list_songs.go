package query

import (
	"fmt"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

// ListSongsQuery represents the query to list the whole catalog
type ListSongsQuery struct{}

// ListSongsHandler handles the catalog listing
type ListSongsHandler struct {
	repo domain.SongRepository
}

// NewListSongsHandler creates a new list handler
func NewListSongsHandler(repo domain.SongRepository) *ListSongsHandler {
	return &ListSongsHandler{repo: repo}
}

// Handle returns every song, newest first. An empty catalog yields
// domain.ErrNoSongs.
func (h *ListSongsHandler) Handle(ListSongsQuery) ([]domain.Song, error) {
	songs, err := h.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	if len(songs) == 0 {
		return nil, domain.ErrNoSongs
	}
	return songs, nil
}
