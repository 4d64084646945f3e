package library

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/models"
)

// TrackFields are the only track attributes a caller can set. Anything else in a request is dropped.
type TrackFields struct {
	ID                string  `json:"id" validate:"omitempty,max=128,trackid"`
	Title             string  `json:"title" validate:"omitempty,max=300"`
	ArtistName        *string `json:"artist_name" validate:"omitempty,max=200"`
	DurationSeconds   *int    `json:"duration_seconds" validate:"omitempty,min=0"`
	ExternalTrackID   *string `json:"external_track_id" validate:"omitempty,max=255"`
	ExternalStreamURL *string `json:"external_stream_url" validate:"omitempty,http_url"`
}

func (f *TrackFields) normalize() {
	f.ID = strings.TrimSpace(f.ID)
	f.Title = strings.TrimSpace(f.Title)
	f.ArtistName = trimOrNil(f.ArtistName)
	f.ExternalTrackID = trimOrNil(f.ExternalTrackID)
	f.ExternalStreamURL = trimOrNil(f.ExternalStreamURL)
}

// validateForItem checks fields for a playlist item, which is keyed by catalogue id
func (f *TrackFields) validateForItem() error {
	f.normalize()
	if f.Title == "" {
		return required("title")
	}
	if f.ExternalTrackID == nil {
		return required("external_track_id")
	}
	if f.ExternalStreamURL == nil {
		return required("external_stream_url")
	}
	return validateStruct(f)
}

// validateForFavorite checks fields for a favorite, which is keyed by the caller's track id
func (f *TrackFields) validateForFavorite() error {
	f.normalize()
	if f.ID == "" {
		return required("track_id")
	}
	err := validateStruct(f)
	var validationErr *ValidationError
	if errors.As(err, &validationErr) && validationErr.Field == "id" {
		validationErr.Field = "track_id"
	}
	return err
}

// track builds the row inserted for these fields under id
func (f *TrackFields) track(id string) *models.Track {
	return &models.Track{
		ID:                id,
		Title:             f.Title,
		ArtistName:        f.ArtistName,
		DurationSeconds:   f.DurationSeconds,
		ExternalTrackID:   f.ExternalTrackID,
		ExternalStreamURL: f.ExternalStreamURL,
	}
}

// resolveByExternalID returns the track with the fields' catalogue id, creating it with a
// server-minted id when it does not exist yet
func resolveByExternalID(ctx context.Context, repos *db.Repositories, f *TrackFields, omit []string) (*models.Track, error) {
	externalID := *f.ExternalTrackID
	track, _, err := addToCollection(ctx, collection[*models.Track]{
		find: func(ctx context.Context) (*models.Track, bool, error) {
			return repos.Tracks.GetByExternalID(ctx, externalID)
		},
		insert: func(ctx context.Context) (*models.Track, error) {
			t := f.track(uuid.NewString())
			return t, repos.Tracks.Create(ctx, t, omit...)
		},
		policy:   returnExisting,
		conflict: ErrTrackConflict,
	})
	return track, err
}

// resolveByID returns the track with the caller-chosen id, creating it when it does not exist yet
func resolveByID(ctx context.Context, repos *db.Repositories, f *TrackFields, omit []string) (*models.Track, error) {
	track, _, err := addToCollection(ctx, collection[*models.Track]{
		find: func(ctx context.Context) (*models.Track, bool, error) {
			return repos.Tracks.GetByID(ctx, f.ID)
		},
		insert: func(ctx context.Context) (*models.Track, error) {
			if f.Title == "" {
				return nil, &ValidationError{Field: "title", Message: "is required for a track that does not exist yet"}
			}
			t := f.track(f.ID)
			return t, repos.Tracks.Create(ctx, t, omit...)
		},
		policy:   returnExisting,
		conflict: ErrTrackConflict,
	})
	return track, err
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
