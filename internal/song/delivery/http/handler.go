package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tunedeck/tunedeck/internal/song/cache"
	"github.com/tunedeck/tunedeck/internal/song/domain"
	"github.com/tunedeck/tunedeck/internal/song/usecase/command"
	"github.com/tunedeck/tunedeck/internal/song/usecase/query"
	"github.com/tunedeck/tunedeck/kafka"
	"github.com/tunedeck/tunedeck/pkg/logger"
)

const maxFileSize = 10 << 20 // 10 MB per uploaded file

var allowedAudioTypes = map[string]bool{
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/wav":  true,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "song_requests_total",
			Help: "Total number of requests to song endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "song_request_duration_seconds",
			Help:    "Duration of song requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	totalSongs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_songs",
			Help: "Number of songs in the catalog",
		},
	)
)

func init() {
	prometheus.MustRegister(requestCounter, requestLatency, totalSongs)
}

// SongHandler handles HTTP requests for the catalog and favorites
type SongHandler struct {
	uploadHandler    *command.UploadSongHandler
	toggleHandler    *command.ToggleFavoriteHandler
	removeHandler    *command.RemoveFavoriteHandler
	listHandler      *query.ListSongsHandler
	favoritesHandler *query.ListFavoritesHandler

	repo      domain.SongRepository
	listCache *cache.ListCache // optional
	events    *kafka.Publisher // optional
}

// NewSongHandler creates a new song handler
func NewSongHandler(
	uploadHandler *command.UploadSongHandler,
	toggleHandler *command.ToggleFavoriteHandler,
	removeHandler *command.RemoveFavoriteHandler,
	repo domain.SongRepository,
	listCache *cache.ListCache,
	events *kafka.Publisher,
) *SongHandler {
	return &SongHandler{
		uploadHandler:    uploadHandler,
		toggleHandler:    toggleHandler,
		removeHandler:    removeHandler,
		listHandler:      query.NewListSongsHandler(repo),
		favoritesHandler: query.NewListFavoritesHandler(repo),
		repo:             repo,
		listCache:        listCache,
		events:           events,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *SongHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Upload handles POST /song/upload
func (h *SongHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid access")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	artist := r.FormValue("artist")
	songName := r.FormValue("song_name")
	hexColor := r.FormValue("hex_color")
	if artist == "" || songName == "" || hexColor == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	audio, audioType, err := readUploadedFile(r, "song", allowedAudioTypes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	thumbnail, thumbnailType, err := readUploadedFile(r, "thumbnail", allowedImageTypes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	song, err := h.uploadHandler.Handle(r.Context(), command.UploadSongCommand{
		UserID:               userID,
		Artist:               artist,
		SongName:             songName,
		HexColor:             hexColor,
		Audio:                audio,
		AudioContentType:     audioType,
		Thumbnail:            thumbnail,
		ThumbnailContentType: thumbnailType,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			h.respondError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, domain.ErrSongExists):
			h.respondError(w, http.StatusConflict, "A song with this name already exists for the user")
		default:
			logger.Error(r.Context()).Err(err).Msg("Song upload failed")
			h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.listCache.Invalidate(r.Context())

	if h.events != nil {
		if err := h.events.PublishSongUploaded(r.Context(), kafka.SongUploadedEvent{
			SongID:   song.ID,
			UserID:   song.UserID,
			SongName: song.SongName,
			Artist:   song.Artist,
		}); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Failed to publish upload event")
		}
	}

	h.updateTotalSongsMetric()
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Song uploaded successfully",
		"song":    song,
	})
}

// List handles GET /song/list
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	if songs, ok := h.listCache.Get(r.Context()); ok {
		h.respondJSON(w, http.StatusOK, songs)
		return
	}

	songs, err := h.listHandler.Handle(query.ListSongsQuery{})
	if err != nil {
		if errors.Is(err, domain.ErrNoSongs) {
			h.respondError(w, http.StatusNotFound, "No songs found")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Song listing failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.listCache.Set(r.Context(), songs)
	h.respondJSON(w, http.StatusOK, songs)
}

// ListFavorites handles GET /song/fav
func (h *SongHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid access")
		return
	}

	songs, err := h.favoritesHandler.Handle(query.ListFavoritesQuery{UserID: userID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Favorites listing failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if songs == nil {
		songs = []domain.Song{}
	}

	h.respondJSON(w, http.StatusOK, songs)
}

// ToggleFavorite handles POST /song/fav?song_id=...
func (h *SongHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid access")
		return
	}

	songID := r.URL.Query().Get("song_id")
	if songID == "" {
		h.respondError(w, http.StatusBadRequest, "song_id is required")
		return
	}

	result, err := h.toggleHandler.Handle(command.ToggleFavoriteCommand{
		UserID: userID,
		SongID: songID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			h.respondError(w, http.StatusNotFound, "Song not found")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Favorite toggle failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.events != nil {
		if err := h.events.PublishFavoriteToggled(r.Context(), kafka.FavoriteToggledEvent{
			UserID:    userID,
			SongID:    songID,
			Favorited: result.Favorited,
		}); err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Failed to publish favorite event")
		}
	}

	h.respondJSON(w, http.StatusCreated, map[string]bool{"message": result.Favorited})
}

// RemoveFavorite handles DELETE /song/fav/{song_id}
func (h *SongHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid access")
		return
	}

	songID := mux.Vars(r)["song_id"]
	err := h.removeHandler.Handle(command.RemoveFavoriteCommand{
		UserID: userID,
		SongID: songID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrFavoriteNotFound) {
			h.respondError(w, http.StatusNotFound, "Favorite not found")
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Favorite removal failed")
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Favorite removed successfully"})
}

// readUploadedFile pulls one file out of the multipart form, enforcing the
// content-type allow list and the per-file size cap.
func readUploadedFile(r *http.Request, field string, allowedTypes map[string]bool) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("missing %s file", field)
	}
	defer file.Close()

	if err := validateFileHeader(header, allowedTypes); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(file, maxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s file", field)
	}
	if len(data) > maxFileSize {
		return nil, "", fmt.Errorf("%s file too large, max allowed size is %dMB", field, maxFileSize>>20)
	}

	return data, header.Header.Get("Content-Type"), nil
}

func validateFileHeader(header *multipart.FileHeader, allowedTypes map[string]bool) error {
	contentType := header.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return fmt.Errorf("invalid file type: %s", contentType)
	}
	if header.Size > maxFileSize {
		return fmt.Errorf("file too large, max allowed size is %dMB", maxFileSize>>20)
	}
	return nil
}

// updateTotalSongsMetric updates the catalog size gauge
func (h *SongHandler) updateTotalSongsMetric() {
	if count, err := h.repo.Count(); err == nil {
		totalSongs.Set(float64(count))
	}
}

// respondJSON sends a JSON response
func (h *SongHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *SongHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all song routes. Every route requires a bearer
// token.
func (h *SongHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/song/upload", h.metricsMiddleware("/song/upload", AuthMiddleware(h.Upload))).Methods("POST")
	router.HandleFunc("/song/list", h.metricsMiddleware("/song/list", AuthMiddleware(h.List))).Methods("GET")
	router.HandleFunc("/song/fav", h.metricsMiddleware("/song/fav", AuthMiddleware(h.ListFavorites))).Methods("GET")
	router.HandleFunc("/song/fav", h.metricsMiddleware("/song/fav", AuthMiddleware(h.ToggleFavorite))).Methods("POST")
	router.HandleFunc("/song/fav/{song_id}", h.metricsMiddleware("/song/fav/{song_id}", AuthMiddleware(h.RemoveFavorite))).Methods("DELETE")
}
