package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewPlaylist(t *testing.T) {
	owner := uuid.New()
	p := NewPlaylist(owner, "Road Trip", "", true)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, owner, p.OwnerID)
	assert.True(t, p.IsPublic)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.True(t, p.OwnedBy(owner))
	assert.False(t, p.OwnedBy(uuid.New()))
}

func TestNewPlaylistItem(t *testing.T) {
	playlistID := uuid.New()
	item := NewPlaylistItem(playlistID, "track-1")

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, playlistID, item.PlaylistID)
	assert.Equal(t, "track-1", item.TrackID)
	assert.False(t, item.AddedAt.IsZero())
	assert.Nil(t, item.Track)
}

func TestPrincipalValid(t *testing.T) {
	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.Valid())
	assert.False(t, (&Principal{}).Valid())
	assert.True(t, (&Principal{ID: uuid.New()}).Valid())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "auth_users", AuthUser{}.TableName())
	assert.Equal(t, "profiles", Profile{}.TableName())
	assert.Equal(t, "tracks", Track{}.TableName())
	assert.Equal(t, "playlists", Playlist{}.TableName())
	assert.Equal(t, "playlist_items", PlaylistItem{}.TableName())
	assert.Equal(t, "favorites", Favorite{}.TableName())
}
