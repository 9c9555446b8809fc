package http

// Upload godoc
// @Summary Upload a song
// @Description Upload a track and its thumbnail; assets land in object storage
// @Tags Songs
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param artist formData string true "Artist name"
// @Param song_name formData string true "Song name, unique per user"
// @Param hex_color formData string true "Accent color"
// @Param song formData file true "Audio file (mp3/wav, max 10MB)"
// @Param thumbnail formData file true "Thumbnail image (jpeg/png/webp, max 10MB)"
// @Success 201 {object} object{message=string,song=object}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /song/upload [post]
func (h *SongHandler) UploadDoc() {}

// List godoc
// @Summary List the catalog
// @Description All songs, newest first
// @Tags Songs
// @Security BearerAuth
// @Produce json
// @Success 200 {array} object{id=string,song_name=string,artist=string}
// @Failure 404 {object} object{error=string}
// @Router /song/list [get]
func (h *SongHandler) ListDoc() {}

// ListFavorites godoc
// @Summary List favorited songs
// @Description Songs the caller has favorited, most recent first
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Success 200 {array} object{id=string,song_name=string,artist=string}
// @Router /song/fav [get]
func (h *SongHandler) ListFavoritesDoc() {}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Favorite the song if not favorited, unfavorite it otherwise
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param song_id query string true "Song ID"
// @Success 201 {object} object{message=bool}
// @Failure 404 {object} object{error=string}
// @Router /song/fav [post]
func (h *SongHandler) ToggleFavoriteDoc() {}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Description Explicit, non-toggling removal
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param song_id path string true "Song ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /song/fav/{song_id} [delete]
func (h *SongHandler) RemoveFavoriteDoc() {}
