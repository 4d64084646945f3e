package library

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/models"
)

// PlaylistInput holds the fields of a new playlist
type PlaylistInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool   `json:"is_public"`
}

// PlaylistPatch holds the playlist fields a caller may change. Nil fields are left untouched.
type PlaylistPatch struct {
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool   `json:"is_public"`
}

// PlaylistDetail is a playlist with its items, most recently added first
type PlaylistDetail struct {
	Playlist *models.Playlist
	Items    []*models.PlaylistItem
}

// PlaylistService handles business logic for playlists and their items
type PlaylistService struct {
	client *db.Client
	repos  *db.Repositories
}

// NewPlaylistService creates a playlist service acting through client
func NewPlaylistService(client *db.Client) *PlaylistService {
	return &PlaylistService{
		client: client,
		repos:  db.NewRepositories(client),
	}
}

// Create creates a playlist owned by the principal. The principal must have a profile.
func (s *PlaylistService) Create(ctx context.Context, input PlaylistInput) (*models.Playlist, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	ownerID := s.client.UserID()
	_, found, err := s.repos.Profiles.Get(ctx, ownerID)
	if err != nil {
		return nil, s.unexpected(err, "Failed to look up playlist owner profile", uuid.Nil)
	}
	if !found {
		logger.Log.Warn().
			Str("user_id", ownerID.String()).
			Msg("Create playlist failed: profile not found")
		return nil, ErrProfileNotFound
	}

	report, err := db.EnsureSchema(ctx, s.client, db.TablePlaylists)
	if err != nil {
		return nil, s.schemaFailure(err)
	}

	description := ""
	if input.Description != nil {
		description = strings.TrimSpace(*input.Description)
	}
	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	playlist := models.NewPlaylist(ownerID, input.Name, description, isPublic)
	if err := s.repos.Playlists.Create(ctx, playlist, report.Missing(db.TablePlaylists)...); err != nil {
		if db.IsForeignKey(err) {
			return nil, ErrProfileNotFound
		}
		return nil, s.unexpected(err, "Failed to create playlist", playlist.ID)
	}

	logger.Log.Info().
		Str("playlist_id", playlist.ID.String()).
		Str("owner_id", ownerID.String()).
		Msg("Playlist created")

	return playlist, nil
}

// ListOwned returns the principal's playlists, newest first
func (s *PlaylistService) ListOwned(ctx context.Context) ([]*models.Playlist, error) {
	playlists, err := s.repos.Playlists.ListByOwner(ctx, s.client.UserID())
	if err != nil {
		return nil, s.unexpected(err, "Failed to list playlists", uuid.Nil)
	}
	return playlists, nil
}

// Get returns a playlist with its items. Private playlists are only readable by their owner.
func (s *PlaylistService) Get(ctx context.Context, id uuid.UUID) (*PlaylistDetail, error) {
	playlist, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !playlist.IsPublic && !playlist.OwnedBy(s.client.UserID()) {
		s.denied(id, "read")
		return nil, ErrPermissionDenied
	}

	items, err := s.repos.PlaylistItems.ListWithTracks(ctx, id)
	if err != nil {
		return nil, s.unexpected(err, "Failed to list playlist items", id)
	}

	return &PlaylistDetail{Playlist: playlist, Items: items}, nil
}

// Update applies a partial update to a playlist owned by the principal
func (s *PlaylistService) Update(ctx context.Context, id uuid.UUID, patch PlaylistPatch) (*models.Playlist, error) {
	if patch.Description == nil && patch.IsPublic == nil {
		return nil, &ValidationError{Field: "body", Message: "must contain at least one of description, is_public"}
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	report, err := db.EnsureSchema(ctx, s.client, db.TablePlaylists)
	if err != nil {
		return nil, s.schemaFailure(err)
	}
	if patch.Description != nil && slices.Contains(report.Missing(db.TablePlaylists), "description") {
		return nil, s.schemaFailure(db.MissingColumnError(db.TablePlaylists, "description"))
	}

	if _, err := s.fetchOwned(ctx, id, "update"); err != nil {
		return nil, err
	}

	updates := make(map[string]any, 2)
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.IsPublic != nil {
		updates["is_public"] = *patch.IsPublic
	}

	if err := s.repos.Playlists.Update(ctx, id, updates); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		return nil, s.unexpected(err, "Failed to update playlist", id)
	}

	logger.Log.Info().
		Str("playlist_id", id.String()).
		Msg("Playlist updated")

	return s.fetch(ctx, id)
}

// Delete removes a playlist owned by the principal together with its items
func (s *PlaylistService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.fetchOwned(ctx, id, "delete"); err != nil {
		return err
	}

	if err := s.repos.Playlists.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrPlaylistNotFound
		}
		return s.unexpected(err, "Failed to delete playlist", id)
	}

	logger.Log.Info().
		Str("playlist_id", id.String()).
		Msg("Playlist deleted")

	return nil
}

// AddItem adds a track to a playlist owned by the principal. The track is looked up by its
// catalogue id and created on first use. Adding a track twice fails with ErrTrackInCollection.
func (s *PlaylistService) AddItem(ctx context.Context, id uuid.UUID, fields TrackFields) (*models.PlaylistItem, error) {
	if err := fields.validateForItem(); err != nil {
		return nil, err
	}

	report, err := db.EnsureSchema(ctx, s.client, db.TableTracks, db.TablePlaylistItems)
	if err != nil {
		return nil, s.schemaFailure(err)
	}

	if _, err := s.fetchOwned(ctx, id, "add item to"); err != nil {
		return nil, err
	}

	track, err := resolveByExternalID(ctx, s.repos, &fields, report.Missing(db.TableTracks))
	if err != nil {
		if IsConflict(err) || IsValidation(err) {
			return nil, err
		}
		return nil, s.unexpected(err, "Failed to resolve track", id)
	}

	item, _, err := addToCollection(ctx, collection[*models.PlaylistItem]{
		find: func(ctx context.Context) (*models.PlaylistItem, bool, error) {
			return s.repos.PlaylistItems.Find(ctx, id, track.ID)
		},
		insert: func(ctx context.Context) (*models.PlaylistItem, error) {
			item := models.NewPlaylistItem(id, track.ID)
			return item, s.repos.PlaylistItems.Create(ctx, item)
		},
		policy:   rejectDuplicate,
		conflict: ErrTrackInCollection,
	})
	if err != nil {
		if IsConflict(err) {
			logger.Log.Warn().
				Str("playlist_id", id.String()).
				Str("track_id", track.ID).
				Msg("Add item failed: track already in playlist")
			return nil, ErrTrackInCollection
		}
		return nil, s.unexpected(err, "Failed to add playlist item", id)
	}
	item.Track = track

	logger.Log.Info().
		Str("playlist_id", id.String()).
		Str("playlist_item_id", item.ID.String()).
		Str("track_id", track.ID).
		Msg("Track added to playlist")

	return item, nil
}

// RemoveItem removes an item from a playlist owned by the principal
func (s *PlaylistService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) error {
	if _, err := s.fetchOwned(ctx, id, "remove item from"); err != nil {
		return err
	}

	if err := s.repos.PlaylistItems.Delete(ctx, id, itemID); err != nil {
		if db.IsNotFound(err) {
			return ErrPlaylistItemNotFound
		}
		return s.unexpected(err, "Failed to remove playlist item", id)
	}

	logger.Log.Info().
		Str("playlist_id", id.String()).
		Str("playlist_item_id", itemID.String()).
		Msg("Track removed from playlist")

	return nil
}

// fetch loads a playlist visible to the principal
func (s *PlaylistService) fetch(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	playlist, found, err := s.repos.Playlists.GetByID(ctx, id)
	if err != nil {
		return nil, s.unexpected(err, "Failed to get playlist", id)
	}
	if !found {
		return nil, ErrPlaylistNotFound
	}
	return playlist, nil
}

// fetchOwned loads a playlist and checks that the principal owns it
func (s *PlaylistService) fetchOwned(ctx context.Context, id uuid.UUID, action string) (*models.Playlist, error) {
	playlist, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !playlist.OwnedBy(s.client.UserID()) {
		s.denied(id, action)
		return nil, ErrPermissionDenied
	}
	return playlist, nil
}

func (s *PlaylistService) denied(id uuid.UUID, action string) {
	logger.Log.Warn().
		Str("playlist_id", id.String()).
		Str("user_id", s.client.UserID().String()).
		Str("action", action).
		Msg("Playlist access denied")
}

func (s *PlaylistService) schemaFailure(err error) error {
	logger.Log.Error().
		Err(err).
		Str("user_id", s.client.UserID().String()).
		Msg("Schema check failed")
	return err
}

func (s *PlaylistService) unexpected(err error, msg string, id uuid.UUID) error {
	if db.IsPermission(err) {
		return policyDenied(err, s.client.UserID())
	}
	event := logger.Log.Error().
		Err(err).
		Str("user_id", s.client.UserID().String())
	if id != uuid.Nil {
		event = event.Str("playlist_id", id.String())
	}
	event.Msg(msg)
	return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
}

