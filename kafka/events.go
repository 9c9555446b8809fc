package kafka

import "time"

// UserRegisteredEvent is published after a successful signup.
type UserRegisteredEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// SongUploadedEvent is published after a song and its assets are stored.
type SongUploadedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SongID    string    `json:"song_id"`
	UserID    uint      `json:"user_id"`
	SongName  string    `json:"song_name"`
	Artist    string    `json:"artist"`
	Timestamp time.Time `json:"timestamp"`
}

// FavoriteToggledEvent is published when a favorite flips state.
type FavoriteToggledEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	SongID    string    `json:"song_id"`
	Favorited bool      `json:"favorited"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeUserRegistered  = "user.registered"
	EventTypeSongUploaded    = "song.uploaded"
	EventTypeFavoriteToggled = "favorite.toggled"
)

// Kafka topics
const (
	TopicUserRegistered  = "user-registered"
	TopicSongUploaded    = "song-uploaded"
	TopicFavoriteToggled = "favorite-toggled"
)
