package models

// Track is an immutable catalogue entry. ID is opaque text: favorites let the client choose it,
// playlist items let the server mint it.
type Track struct {
	ID                string  `json:"id" gorm:"primaryKey;column:id"`
	Title             string  `json:"title" gorm:"not null;column:title"`
	ArtistName        *string `json:"artist_name,omitempty" gorm:"column:artist_name"`
	DurationSeconds   *int    `json:"duration_seconds,omitempty" gorm:"column:duration_seconds"`
	ExternalTrackID   *string `json:"external_track_id,omitempty" gorm:"uniqueIndex;column:external_track_id"`
	ExternalStreamURL *string `json:"external_stream_url,omitempty" gorm:"column:external_stream_url"`
}

// TableName returns the table backing Track
func (Track) TableName() string {
	return "tracks"
}
