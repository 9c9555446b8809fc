package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tunedeck/tunedeck/internal/song/domain"
	"github.com/tunedeck/tunedeck/pkg/logger"
	"github.com/tunedeck/tunedeck/pkg/storage"
)

// UploadSongCommand represents the command to upload a new song
type UploadSongCommand struct {
	UserID               uint
	Artist               string
	SongName             string
	HexColor             string
	Audio                []byte
	AudioContentType     string
	Thumbnail            []byte
	ThumbnailContentType string
}

// UploadSongHandler handles song upload
type UploadSongHandler struct {
	songs domain.SongRepository
	store storage.Client
}

// NewUploadSongHandler creates a new upload handler
func NewUploadSongHandler(songs domain.SongRepository, store storage.Client) *UploadSongHandler {
	return &UploadSongHandler{songs: songs, store: store}
}

// Handle executes the upload command. Both blobs are stored under the
// generated song id, audio first, so concurrent uploads never collide in
// storage.
func (h *UploadSongHandler) Handle(ctx context.Context, cmd UploadSongCommand) (*domain.Song, error) {
	if cmd.Artist == "" || cmd.SongName == "" || cmd.HexColor == "" {
		return nil, domain.ErrMissingFields
	}
	if len(cmd.Audio) == 0 || len(cmd.Thumbnail) == 0 {
		return nil, domain.ErrMissingFields
	}

	// Pre-check for a friendlier conflict; the composite unique index is the
	// real guard against racing duplicates.
	if existing, _ := h.songs.FindByNameAndUser(cmd.SongName, cmd.UserID); existing != nil {
		return nil, domain.ErrSongExists
	}

	songID := uuid.NewString()
	audioKey := fmt.Sprintf("songs/%s/audio", songID)
	thumbnailKey := fmt.Sprintf("songs/%s/thumbnail", songID)

	songURL, err := h.store.Upload(ctx, audioKey, cmd.AudioContentType, cmd.Audio)
	if err != nil {
		return nil, fmt.Errorf("song upload failed: %w", err)
	}

	thumbnailURL, err := h.store.Upload(ctx, thumbnailKey, cmd.ThumbnailContentType, cmd.Thumbnail)
	if err != nil {
		// Compensate so the audio blob is not left orphaned.
		if delErr := h.store.Delete(ctx, audioKey); delErr != nil {
			logger.Warn(ctx).Err(delErr).Str("key", audioKey).Msg("Failed to clean up orphaned audio object")
		}
		return nil, fmt.Errorf("thumbnail upload failed: %w", err)
	}

	song := &domain.Song{
		ID:           songID,
		SongName:     cmd.SongName,
		Artist:       cmd.Artist,
		HexColor:     cmd.HexColor,
		SongURL:      songURL,
		ThumbnailURL: thumbnailURL,
		UserID:       cmd.UserID,
		CreatedAt:    time.Now(),
	}

	if err := h.songs.Create(song); err != nil {
		if errors.Is(err, domain.ErrSongExists) {
			return nil, domain.ErrSongExists
		}
		return nil, fmt.Errorf("failed to create song: %w", err)
	}

	return song, nil
}
