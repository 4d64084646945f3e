package api

import (
	"time"

	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/models"
)

// Request DTOs

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Username *string `json:"username,omitempty"`
}

// LoginRequest represents a request to exchange credentials for tokens
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a request to exchange a refresh token for new tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// CreatePlaylistRequest represents a request to create a playlist
type CreatePlaylistRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// UpdatePlaylistRequest represents a partial playlist update
type UpdatePlaylistRequest struct {
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// AddPlaylistItemRequest represents a track to add to a playlist. Fields not listed here are ignored.
type AddPlaylistItemRequest struct {
	Title             string  `json:"title"`
	ArtistName        *string `json:"artist_name,omitempty"`
	DurationSeconds   *int    `json:"duration_seconds,omitempty"`
	ExternalTrackID   *string `json:"external_track_id,omitempty"`
	ExternalStreamURL *string `json:"external_stream_url,omitempty"`
}

// AddFavoriteRequest represents a track to favorite. Fields not listed here are ignored.
type AddFavoriteRequest struct {
	TrackID           string  `json:"track_id"`
	Title             string  `json:"title,omitempty"`
	ArtistName        *string `json:"artist_name,omitempty"`
	DurationSeconds   *int    `json:"duration_seconds,omitempty"`
	ExternalTrackID   *string `json:"external_track_id,omitempty"`
	ExternalStreamURL *string `json:"external_stream_url,omitempty"`
}

// Response DTOs

// UserResponse represents an account in API responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User    *UserResponse    `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Tokens  *identity.Tokens `json:"tokens"`
}

// TokensResponse is returned by refresh
type TokensResponse struct {
	Tokens *identity.Tokens `json:"tokens"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileEnvelope wraps a single profile
type ProfileEnvelope struct {
	Profile *ProfileResponse `json:"profile"`
}

// TrackResponse represents a track in API responses
type TrackResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	ArtistName        *string `json:"artist_name"`
	DurationSeconds   *int    `json:"duration_seconds"`
	ExternalTrackID   *string `json:"external_track_id"`
	ExternalStreamURL *string `json:"external_stream_url"`
}

// PlaylistResponse represents a playlist in API responses
type PlaylistResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaylistEnvelope wraps a single playlist
type PlaylistEnvelope struct {
	Playlist *PlaylistResponse `json:"playlist"`
}

// PlaylistListResponse represents the caller's playlists
type PlaylistListResponse struct {
	Playlists []*PlaylistResponse `json:"playlists"`
}

// PlaylistDetailResponse represents a playlist with its items, most recent first
type PlaylistDetailResponse struct {
	Playlist *PlaylistResponse      `json:"playlist"`
	Items    []*PlaylistItemResponse `json:"items"`
}

// PlaylistItemResponse represents a playlist item with its track
type PlaylistItemResponse struct {
	ID         string         `json:"id"`
	PlaylistID string         `json:"playlist_id"`
	TrackID    string         `json:"track_id"`
	AddedAt    time.Time      `json:"added_at"`
	Track      *TrackResponse `json:"track,omitempty"`
}

// PlaylistItemEnvelope wraps a single playlist item
type PlaylistItemEnvelope struct {
	Item *PlaylistItemResponse `json:"item"`
}

// FavoriteResponse represents a favorite with its track
type FavoriteResponse struct {
	UserID    string         `json:"user_id"`
	TrackID   string         `json:"track_id"`
	CreatedAt time.Time      `json:"created_at"`
	Track     *TrackResponse `json:"track,omitempty"`
}

// FavoriteEnvelope wraps a single favorite
type FavoriteEnvelope struct {
	Favorite *FavoriteResponse `json:"favorite"`
}

// FavoriteListResponse represents the caller's favorites, newest first
type FavoriteListResponse struct {
	Favorites []*FavoriteResponse `json:"favorites"`
}

func toUserResponse(u *models.AuthUser) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toProfileResponse(p *models.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		UserID:      p.UserID.String(),
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toTrackResponse(t *models.Track) *TrackResponse {
	if t == nil {
		return nil
	}
	return &TrackResponse{
		ID:                t.ID,
		Title:             t.Title,
		ArtistName:        t.ArtistName,
		DurationSeconds:   t.DurationSeconds,
		ExternalTrackID:   t.ExternalTrackID,
		ExternalStreamURL: t.ExternalStreamURL,
	}
}

func toPlaylistResponse(p *models.Playlist) *PlaylistResponse {
	return &PlaylistResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Description: p.Description,
		IsPublic:    p.IsPublic,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPlaylistItemResponse(item *models.PlaylistItem) *PlaylistItemResponse {
	return &PlaylistItemResponse{
		ID:         item.ID.String(),
		PlaylistID: item.PlaylistID.String(),
		TrackID:    item.TrackID,
		AddedAt:    item.AddedAt,
		Track:      toTrackResponse(item.Track),
	}
}

func toFavoriteResponse(f *models.Favorite) *FavoriteResponse {
	return &FavoriteResponse{
		UserID:    f.UserID.String(),
		TrackID:   f.TrackID,
		CreatedAt: f.CreatedAt,
		Track:     toTrackResponse(f.Track),
	}
}
