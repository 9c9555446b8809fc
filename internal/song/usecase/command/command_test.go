package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/tunedeck/tunedeck/internal/song/domain"
)

type fakeSongRepository struct {
	songs map[string]*domain.Song
}

func newFakeSongRepository() *fakeSongRepository {
	return &fakeSongRepository{songs: make(map[string]*domain.Song)}
}

func (f *fakeSongRepository) Create(song *domain.Song) error {
	for _, existing := range f.songs {
		if existing.SongName == song.SongName && existing.UserID == song.UserID {
			return domain.ErrSongExists
		}
	}
	copied := *song
	f.songs[song.ID] = &copied
	return nil
}

func (f *fakeSongRepository) FindByID(id string) (*domain.Song, error) {
	if song, ok := f.songs[id]; ok {
		return song, nil
	}
	return nil, domain.ErrSongNotFound
}

func (f *fakeSongRepository) FindByNameAndUser(songName string, userID uint) (*domain.Song, error) {
	for _, song := range f.songs {
		if song.SongName == songName && song.UserID == userID {
			return song, nil
		}
	}
	return nil, domain.ErrSongNotFound
}

func (f *fakeSongRepository) FindAll() ([]domain.Song, error) {
	out := make([]domain.Song, 0, len(f.songs))
	for _, song := range f.songs {
		out = append(out, *song)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSongRepository) FindFavoritedBy(userID uint) ([]domain.Song, error) {
	return nil, nil
}

func (f *fakeSongRepository) Count() (int64, error) {
	return int64(len(f.songs)), nil
}

type fakeFavoriteRepository struct {
	pairs map[string]bool
}

func newFakeFavoriteRepository() *fakeFavoriteRepository {
	return &fakeFavoriteRepository{pairs: make(map[string]bool)}
}

func pairKey(userID uint, songID string) string {
	return fmt.Sprintf("%d:%s", userID, songID)
}

func (f *fakeFavoriteRepository) Add(userID uint, songID string) error {
	key := pairKey(userID, songID)
	if f.pairs[key] {
		return domain.ErrAlreadyFavorited
	}
	f.pairs[key] = true
	return nil
}

func (f *fakeFavoriteRepository) Remove(userID uint, songID string) error {
	key := pairKey(userID, songID)
	if !f.pairs[key] {
		return domain.ErrFavoriteNotFound
	}
	delete(f.pairs, key)
	return nil
}

func (f *fakeFavoriteRepository) IsFavorited(userID uint, songID string) (bool, error) {
	return f.pairs[pairKey(userID, songID)], nil
}

type fakeStore struct {
	uploads     []string
	deletes     []string
	failOnKey   string
	failWithErr error
}

func (f *fakeStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if f.failOnKey != "" && key == f.failOnKey {
		return "", f.failWithErr
	}
	f.uploads = append(f.uploads, key)
	return "http://cdn.example.com/" + key, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func validUpload() UploadSongCommand {
	return UploadSongCommand{
		UserID:               1,
		Artist:               "Four Tet",
		SongName:             "Two Thousand and Seventeen",
		HexColor:             "#1db954",
		Audio:                []byte("mp3 bytes"),
		AudioContentType:     "audio/mpeg",
		Thumbnail:            []byte("jpeg bytes"),
		ThumbnailContentType: "image/jpeg",
	}
}

func TestUploadSongStoresBothObjects(t *testing.T) {
	songs := newFakeSongRepository()
	store := &fakeStore{}
	handler := NewUploadSongHandler(songs, store)

	song, err := handler.Handle(context.Background(), validUpload())
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if song.ID == "" {
		t.Fatal("expected a generated song id")
	}
	if len(store.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(store.uploads))
	}
	wantAudio := "songs/" + song.ID + "/audio"
	wantThumb := "songs/" + song.ID + "/thumbnail"
	if store.uploads[0] != wantAudio || store.uploads[1] != wantThumb {
		t.Fatalf("unexpected upload keys %v", store.uploads)
	}
	if song.SongURL != "http://cdn.example.com/"+wantAudio {
		t.Fatalf("unexpected song URL %q", song.SongURL)
	}
	if song.ThumbnailURL != "http://cdn.example.com/"+wantThumb {
		t.Fatalf("unexpected thumbnail URL %q", song.ThumbnailURL)
	}

	if _, err := songs.FindByID(song.ID); err != nil {
		t.Fatalf("expected song to be persisted: %v", err)
	}
}

func TestUploadSongRejectsMissingFields(t *testing.T) {
	handler := NewUploadSongHandler(newFakeSongRepository(), &fakeStore{})

	mutations := []func(*UploadSongCommand){
		func(cmd *UploadSongCommand) { cmd.Artist = "" },
		func(cmd *UploadSongCommand) { cmd.SongName = "" },
		func(cmd *UploadSongCommand) { cmd.HexColor = "" },
		func(cmd *UploadSongCommand) { cmd.Audio = nil },
		func(cmd *UploadSongCommand) { cmd.Thumbnail = nil },
	}
	for i, mutate := range mutations {
		cmd := validUpload()
		mutate(&cmd)
		if _, err := handler.Handle(context.Background(), cmd); !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("case %d: expected ErrMissingFields, got %v", i, err)
		}
	}
}

func TestUploadSongRejectsDuplicateNameForUser(t *testing.T) {
	songs := newFakeSongRepository()
	handler := NewUploadSongHandler(songs, &fakeStore{})

	if _, err := handler.Handle(context.Background(), validUpload()); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}

	if _, err := handler.Handle(context.Background(), validUpload()); !errors.Is(err, domain.ErrSongExists) {
		t.Fatalf("expected ErrSongExists, got %v", err)
	}

	// Same name by another user is fine.
	other := validUpload()
	other.UserID = 2
	if _, err := handler.Handle(context.Background(), other); err != nil {
		t.Fatalf("upload by another user failed: %v", err)
	}
}

func TestUploadSongCompensatesWhenThumbnailFails(t *testing.T) {
	songs := newFakeSongRepository()
	store := &fakeStore{}
	handler := NewUploadSongHandler(songs, &thumbnailFailingStore{inner: store})

	if _, err := handler.Handle(context.Background(), validUpload()); err == nil {
		t.Fatal("expected upload to fail")
	}

	if len(store.uploads) != 1 {
		t.Fatalf("expected only the audio upload, got %v", store.uploads)
	}
	if len(store.deletes) != 1 || store.deletes[0] != store.uploads[0] {
		t.Fatalf("expected the audio object to be cleaned up, got deletes %v", store.deletes)
	}

	count, _ := songs.Count()
	if count != 0 {
		t.Fatalf("expected no song rows, got %d", count)
	}
}

type thumbnailFailingStore struct {
	inner *fakeStore
}

func (s *thumbnailFailingStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if len(key) > 9 && key[len(key)-9:] == "thumbnail" {
		return "", errors.New("storage blew up")
	}
	return s.inner.Upload(ctx, key, contentType, body)
}

func (s *thumbnailFailingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	songs := newFakeSongRepository()
	favorites := newFakeFavoriteRepository()
	song := &domain.Song{ID: "song-1", SongName: "Song", Artist: "A", UserID: 2}
	if err := songs.Create(song); err != nil {
		t.Fatalf("seeding song: %v", err)
	}
	handler := NewToggleFavoriteHandler(songs, favorites)

	first, err := handler.Handle(ToggleFavoriteCommand{UserID: 1, SongID: "song-1"})
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !first.Favorited {
		t.Fatal("expected first toggle to favorite")
	}

	second, err := handler.Handle(ToggleFavoriteCommand{UserID: 1, SongID: "song-1"})
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if second.Favorited {
		t.Fatal("expected second toggle to unfavorite")
	}

	favorited, _ := favorites.IsFavorited(1, "song-1")
	if favorited {
		t.Fatal("expected pair to be gone after round trip")
	}
}

func TestToggleFavoriteUnknownSong(t *testing.T) {
	handler := NewToggleFavoriteHandler(newFakeSongRepository(), newFakeFavoriteRepository())

	if _, err := handler.Handle(ToggleFavoriteCommand{UserID: 1, SongID: "missing"}); !errors.Is(err, domain.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	if _, err := handler.Handle(ToggleFavoriteCommand{UserID: 1}); !errors.Is(err, domain.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound for empty id, got %v", err)
	}
}

func TestRemoveFavorite(t *testing.T) {
	favorites := newFakeFavoriteRepository()
	if err := favorites.Add(1, "song-1"); err != nil {
		t.Fatalf("seeding favorite: %v", err)
	}
	handler := NewRemoveFavoriteHandler(favorites)

	if err := handler.Handle(RemoveFavoriteCommand{UserID: 1, SongID: "song-1"}); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if err := handler.Handle(RemoveFavoriteCommand{UserID: 1, SongID: "song-1"}); !errors.Is(err, domain.ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound on second removal, got %v", err)
	}
}
