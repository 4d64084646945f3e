package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/library"
)

// FavoriteHandler handles requests for the caller's favorite tracks
type FavoriteHandler struct {
	scopedRequest
}

// NewFavoriteHandler creates a new favorite handler instance
func NewFavoriteHandler(timeout time.Duration) *FavoriteHandler {
	return &FavoriteHandler{scopedRequest{timeout: timeout}}
}

// AddFavorite handles POST /favorites. A new favorite answers 201, a repeated one 200.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	favorite, created, err := library.NewFavoriteService(client).Add(ctx, library.TrackFields{
		ID:                req.TrackID,
		Title:             req.Title,
		ArtistName:        req.ArtistName,
		DurationSeconds:   req.DurationSeconds,
		ExternalTrackID:   req.ExternalTrackID,
		ExternalStreamURL: req.ExternalStreamURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, FavoriteEnvelope{Favorite: toFavoriteResponse(favorite)})
}

// ListFavorites handles GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	favorites, err := library.NewFavoriteService(client).List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	response := FavoriteListResponse{Favorites: make([]*FavoriteResponse, 0, len(favorites))}
	for _, f := range favorites {
		response.Favorites = append(response.Favorites, toFavoriteResponse(f))
	}

	c.JSON(http.StatusOK, response)
}

// RemoveFavorite handles DELETE /favorites/:track_id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	if err := library.NewFavoriteService(client).Remove(ctx, c.Param("track_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Favorite removed"})
}
