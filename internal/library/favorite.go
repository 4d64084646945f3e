package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/models"
)

// FavoriteService handles business logic for the principal's favorite tracks
type FavoriteService struct {
	client *db.Client
	repos  *db.Repositories
}

// NewFavoriteService creates a favorite service acting through client
func NewFavoriteService(client *db.Client) *FavoriteService {
	return &FavoriteService{
		client: client,
		repos:  db.NewRepositories(client),
	}
}

// Add favorites the track identified by fields.ID, creating the track on first use.
// Favoriting twice is not an error: the existing favorite is returned with created=false.
func (s *FavoriteService) Add(ctx context.Context, fields TrackFields) (favorite *models.Favorite, created bool, err error) {
	if err := fields.validateForFavorite(); err != nil {
		return nil, false, err
	}

	report, err := db.EnsureSchema(ctx, s.client, db.TableTracks, db.TableFavorites)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", s.client.UserID().String()).
			Msg("Schema check failed")
		return nil, false, err
	}

	userID := s.client.UserID()
	track, err := resolveByID(ctx, s.repos, &fields, report.Missing(db.TableTracks))
	if err != nil {
		if IsConflict(err) || IsValidation(err) {
			logger.Log.Warn().
				Err(err).
				Str("user_id", userID.String()).
				Str("track_id", fields.ID).
				Msg("Add favorite failed: track rejected")
			return nil, false, err
		}
		return nil, false, s.unexpected(err, "Failed to resolve track", fields.ID)
	}

	favorite, created, err = addToCollection(ctx, collection[*models.Favorite]{
		find: func(ctx context.Context) (*models.Favorite, bool, error) {
			return s.repos.Favorites.Find(ctx, userID, track.ID)
		},
		insert: func(ctx context.Context) (*models.Favorite, error) {
			f := models.NewFavorite(userID, track.ID)
			return f, s.repos.Favorites.Create(ctx, f)
		},
		policy:   returnExisting,
		conflict: ErrTrackConflict,
	})
	if err != nil {
		return nil, false, s.unexpected(err, "Failed to add favorite", track.ID)
	}
	favorite.Track = track

	if created {
		logger.Log.Info().
			Str("user_id", userID.String()).
			Str("track_id", track.ID).
			Msg("Track favorited")
	}

	return favorite, created, nil
}

// List returns the principal's favorites with their tracks, newest first
func (s *FavoriteService) List(ctx context.Context) ([]*models.Favorite, error) {
	favorites, err := s.repos.Favorites.ListWithTracks(ctx, s.client.UserID())
	if err != nil {
		return nil, s.unexpected(err, "Failed to list favorites", "")
	}
	return favorites, nil
}

// Remove unfavorites a track
func (s *FavoriteService) Remove(ctx context.Context, trackID string) error {
	fields := TrackFields{ID: trackID}
	if err := fields.validateForFavorite(); err != nil {
		return err
	}

	if err := s.repos.Favorites.Delete(ctx, s.client.UserID(), fields.ID); err != nil {
		if db.IsNotFound(err) {
			return ErrFavoriteNotFound
		}
		return s.unexpected(err, "Failed to remove favorite", fields.ID)
	}

	logger.Log.Info().
		Str("user_id", s.client.UserID().String()).
		Str("track_id", fields.ID).
		Msg("Track unfavorited")

	return nil
}

func (s *FavoriteService) unexpected(err error, msg, trackID string) error {
	if db.IsPermission(err) {
		return policyDenied(err, s.client.UserID())
	}
	event := logger.Log.Error().
		Err(err).
		Str("user_id", s.client.UserID().String())
	if trackID != "" {
		event = event.Str("track_id", trackID)
	}
	event.Msg(msg)
	return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
}
