package domain

import (
	"errors"
	"time"
)

var (
	// ErrFavoriteNotFound is returned when removing a favorite that is not set.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrAlreadyFavorited is returned when an insert loses a race with a
	// concurrent favorite of the same pair.
	ErrAlreadyFavorited = errors.New("song already favorited")
)

// Favorite marks a song as favorited by a user. At most one row exists per
// (user, song) pair; presence of the row is the toggle state.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_favorites_user_song;not null"`
	SongID    string    `json:"song_id" gorm:"uniqueIndex:idx_favorites_user_song;not null"`
	Song      Song      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteRepository defines the contract for favorite data access
type FavoriteRepository interface {
	// Add inserts the pair; ErrAlreadyFavorited if it already exists.
	Add(userID uint, songID string) error
	// Remove deletes the pair; ErrFavoriteNotFound if it does not exist.
	Remove(userID uint, songID string) error
	IsFavorited(userID uint, songID string) (bool, error)
}
