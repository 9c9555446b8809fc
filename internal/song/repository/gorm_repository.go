package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

// GormSongRepository implements SongRepository using GORM
type GormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new GORM song repository
func NewGormSongRepository(db *gorm.DB) *GormSongRepository {
	return &GormSongRepository{db: db}
}

// Create inserts a new song. The composite unique index on
// (song_name, user_id) turns a racing duplicate into domain.ErrSongExists.
func (r *GormSongRepository) Create(song *domain.Song) error {
	if err := r.db.Create(song).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSongExists
		}
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

// FindByID retrieves a song by ID
func (r *GormSongRepository) FindByID(id string) (*domain.Song, error) {
	var song domain.Song
	if err := r.db.Where("id = ?", id).First(&song).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to find song: %w", err)
	}
	return &song, nil
}

// FindByNameAndUser retrieves a song by its name within one user's catalog
func (r *GormSongRepository) FindByNameAndUser(songName string, userID uint) (*domain.Song, error) {
	var song domain.Song
	err := r.db.Where("song_name = ? AND user_id = ?", songName, userID).First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to find song: %w", err)
	}
	return &song, nil
}

// FindAll retrieves all songs, newest first
func (r *GormSongRepository) FindAll() ([]domain.Song, error) {
	var songs []domain.Song
	if err := r.db.Order("created_at DESC").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to find songs: %w", err)
	}
	return songs, nil
}

// FindFavoritedBy retrieves the songs a user has favorited, most recently
// favorited first
func (r *GormSongRepository) FindFavoritedBy(userID uint) ([]domain.Song, error) {
	var songs []domain.Song
	err := r.db.
		Joins("JOIN favorites ON favorites.song_id = songs.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorited songs: %w", err)
	}
	return songs, nil
}

// Count returns the total number of songs
func (r *GormSongRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Song{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations for songs and favorites
func (r *GormSongRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Song{}, &domain.Favorite{})
}

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM favorite repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add inserts the (user, song) pair. The composite unique index serializes
// concurrent togglers; a lost race surfaces as domain.ErrAlreadyFavorited.
func (r *GormFavoriteRepository) Add(userID uint, songID string) error {
	fav := domain.Favorite{UserID: userID, SongID: songID}
	if err := r.db.Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove deletes the (user, song) pair
func (r *GormFavoriteRepository) Remove(userID uint, songID string) error {
	result := r.db.Where("user_id = ? AND song_id = ?", userID, songID).Delete(&domain.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// IsFavorited reports whether the pair exists
func (r *GormFavoriteRepository) IsFavorited(userID uint, songID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}
