package library

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/models"
)

var usernameStrip = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// ProfilePatch holds the profile fields a caller may change. Nil fields are left untouched.
type ProfilePatch struct {
	Username    *string `json:"username" validate:"omitempty,username"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,http_url"`
}

// ProfileService handles business logic for the principal's own profile
type ProfileService struct {
	client *db.Client
	repos  *db.Repositories
}

// NewProfileService creates a profile service acting through client
func NewProfileService(client *db.Client) *ProfileService {
	return &ProfileService{
		client: client,
		repos:  db.NewRepositories(client),
	}
}

// Ensure creates the principal's profile unless it already exists.
// created is false when an existing profile is returned.
func (s *ProfileService) Ensure(ctx context.Context, username string) (profile *models.Profile, created bool, err error) {
	username = strings.TrimSpace(username)
	if err := validateStruct(ProfilePatch{Username: &username}); err != nil {
		return nil, false, err
	}

	userID := s.client.UserID()
	profile, created, err = addToCollection(ctx, collection[*models.Profile]{
		find: func(ctx context.Context) (*models.Profile, bool, error) {
			return s.repos.Profiles.Get(ctx, userID)
		},
		insert: func(ctx context.Context) (*models.Profile, error) {
			p := models.NewProfile(userID, username)
			return p, s.repos.Profiles.Create(ctx, p)
		},
		policy: returnExisting,
		// The user's own row is visible, so an invisible duplicate is the username
		conflict: ErrUsernameTaken,
	})
	if err != nil {
		if IsConflict(err) {
			logger.Log.Warn().
				Str("user_id", userID.String()).
				Str("username", username).
				Msg("Profile creation failed: username taken")
			return nil, false, ErrUsernameTaken
		}
		if db.IsPermission(err) {
			return nil, false, policyDenied(err, userID)
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to ensure profile")
		return nil, false, fmt.Errorf("failed to ensure profile: %w", err)
	}

	if created {
		logger.Log.Info().
			Str("user_id", userID.String()).
			Str("username", username).
			Msg("Profile created")
	}

	return profile, created, nil
}

// Get returns the principal's profile
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	profile, found, err := s.repos.Profiles.Get(ctx, s.client.UserID())
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", s.client.UserID().String()).
			Msg("Failed to get profile")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !found {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// Update applies a partial update to the principal's profile
func (s *ProfileService) Update(ctx context.Context, patch ProfilePatch) (*models.Profile, error) {
	if patch.Username == nil && patch.DisplayName == nil && patch.AvatarURL == nil {
		return nil, &ValidationError{Field: "body", Message: "must contain at least one of username, display_name, avatar_url"}
	}

	updates := make(map[string]any, 3)
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		patch.Username = &username
		updates["username"] = username
	}
	if patch.DisplayName != nil {
		updates["display_name"] = trimOrNil(patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = trimOrNil(patch.AvatarURL)
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	userID := s.client.UserID()
	if err := s.repos.Profiles.Update(ctx, userID, updates); err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, ErrProfileNotFound
		case db.IsPermission(err):
			return nil, policyDenied(err, userID)
		case db.IsDuplicate(err):
			logger.Log.Warn().
				Str("user_id", userID.String()).
				Msg("Profile update failed: username taken")
			return nil, ErrUsernameTaken
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to update profile")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Msg("Profile updated")

	return s.Get(ctx)
}

// DefaultUsername derives a username for an account registered without one
func DefaultUsername(email string, userID uuid.UUID) string {
	local, _, _ := strings.Cut(email, "@")
	base := usernameStrip.ReplaceAllString(local, "")
	if len(base) > 20 {
		base = base[:20]
	}
	if base == "" {
		base = "user"
	}
	return base + "_" + strings.ReplaceAll(userID.String(), "-", "")[:8]
}
