// Package library implements the profile, playlist and favorite operations on top of a
// request-scoped data client.
package library

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/logger"
)

// Library errors
var (
	// ErrPermissionDenied indicates the principal does not own the resource
	ErrPermissionDenied = errors.New("permission denied")

	// ErrProfileNotFound indicates the principal has no profile yet
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPlaylistNotFound indicates the playlist does not exist or is not visible
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrPlaylistItemNotFound indicates the playlist item does not exist
	ErrPlaylistItemNotFound = errors.New("playlist item not found")

	// ErrFavoriteNotFound indicates the track is not among the principal's favorites
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrTrackInCollection indicates the track is already part of the playlist
	ErrTrackInCollection = errors.New("track already in collection")

	// ErrUsernameTaken indicates another profile uses the username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrTrackConflict indicates the track metadata collides with a different existing track
	ErrTrackConflict = errors.New("track conflicts with an existing track")
)

// ValidationError reports a rejected user-supplied field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// IsValidation checks if err carries a *ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsNotFound checks if err reports a missing or invisible resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrPlaylistNotFound) ||
		errors.Is(err, ErrPlaylistItemNotFound) ||
		errors.Is(err, ErrFavoriteNotFound)
}

// IsConflict checks if err reports a rejected duplicate
func IsConflict(err error) bool {
	return errors.Is(err, ErrTrackInCollection) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrTrackConflict)
}

// IsPermissionDenied checks if err reports an ownership mismatch
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// policyDenied reports a write rejected by a row-level policy as ErrPermissionDenied
func policyDenied(err error, userID uuid.UUID) error {
	logger.Log.Warn().
		Err(err).
		Str("user_id", userID.String()).
		Msg("Row-level policy rejected the request")
	return ErrPermissionDenied
}
