package domain

import (
	"errors"
	"time"
)

var (
	// ErrSongExists is returned when a user already owns a song of that name.
	ErrSongExists = errors.New("a song with this name already exists for the user")
	// ErrSongNotFound is returned when a song lookup misses.
	ErrSongNotFound = errors.New("song not found")
	// ErrMissingFields is returned when required upload metadata is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNoSongs is returned when the catalog is empty. Listing an empty
	// catalog is an error in this API.
	ErrNoSongs = errors.New("no songs found")
)

// Song represents an uploaded track (domain model). Rows are immutable after
// creation.
type Song struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	SongName     string    `json:"song_name" gorm:"uniqueIndex:idx_songs_name_user;not null"`
	Artist       string    `json:"artist" gorm:"not null"`
	HexColor     string    `json:"hex_color" gorm:"not null"`
	SongURL      string    `json:"song" gorm:"not null"`
	ThumbnailURL string    `json:"thumbnail" gorm:"not null"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex:idx_songs_name_user;index;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Song) TableName() string {
	return "songs"
}

// SongRepository defines the contract for song data access
type SongRepository interface {
	Create(song *Song) error
	FindByID(id string) (*Song, error)
	FindByNameAndUser(songName string, userID uint) (*Song, error)
	// FindAll returns every song, newest first.
	FindAll() ([]Song, error)
	// FindFavoritedBy returns the songs userID has favorited, most recently
	// favorited first.
	FindFavoritedBy(userID uint) ([]Song, error)
	Count() (int64, error)
}
