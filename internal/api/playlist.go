package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/library"
)

// PlaylistHandler handles playlist and playlist item requests
type PlaylistHandler struct {
	scopedRequest
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(timeout time.Duration) *PlaylistHandler {
	return &PlaylistHandler{scopedRequest{timeout: timeout}}
}

// CreatePlaylist handles POST /playlists
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	playlist, err := library.NewPlaylistService(client).Create(ctx, library.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, PlaylistEnvelope{Playlist: toPlaylistResponse(playlist)})
}

// ListPlaylists handles GET /playlists
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	playlists, err := library.NewPlaylistService(client).ListOwned(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	response := PlaylistListResponse{Playlists: make([]*PlaylistResponse, 0, len(playlists))}
	for _, p := range playlists {
		response.Playlists = append(response.Playlists, toPlaylistResponse(p))
	}

	c.JSON(http.StatusOK, response)
}

// GetPlaylist handles GET /playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	detail, err := library.NewPlaylistService(client).Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	response := PlaylistDetailResponse{
		Playlist: toPlaylistResponse(detail.Playlist),
		Items:    make([]*PlaylistItemResponse, 0, len(detail.Items)),
	}
	for _, item := range detail.Items {
		response.Items = append(response.Items, toPlaylistItemResponse(item))
	}

	c.JSON(http.StatusOK, response)
}

// UpdatePlaylist handles PATCH /playlists/:id
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	playlist, err := library.NewPlaylistService(client).Update(ctx, id, library.PlaylistPatch{
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PlaylistEnvelope{Playlist: toPlaylistResponse(playlist)})
}

// DeletePlaylist handles DELETE /playlists/:id
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	if err := library.NewPlaylistService(client).Delete(ctx, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist deleted"})
}

// AddPlaylistItem handles POST /playlists/:id/items
func (h *PlaylistHandler) AddPlaylistItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AddPlaylistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	item, err := library.NewPlaylistService(client).AddItem(ctx, id, library.TrackFields{
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

	c.JSON(http.StatusCreated, PlaylistItemEnvelope{Item: toPlaylistItemResponse(item)})
}

// RemovePlaylistItem handles DELETE /playlists/:id/items/:item_id
func (h *PlaylistHandler) RemovePlaylistItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	client, ctx, cancel, ok := h.begin(c)
	if !ok {
		return
	}
	defer cancel()

	if err := library.NewPlaylistService(client).RemoveItem(ctx, id, itemID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from playlist"})
}
