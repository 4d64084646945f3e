package library

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/db/dbtest"
)

const concurrentWriters = 12

// runConcurrently starts n calls of fn together and waits for all of them
func runConcurrently(n int, fn func()) {
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			fn()
		}()
	}
	close(start)
	wg.Wait()
}

func TestConcurrentFavoriteAddsCreateOnce(t *testing.T) {
	database := dbtest.NewSQLite(t)
	user := seedUser(t, database, "racer")
	ctx := context.Background()

	var (
		mu      sync.Mutex
		created int
		errs    []error
	)
	runConcurrently(concurrentWriters, func() {
		_, wasCreated, err := NewFavoriteService(user.client).Add(ctx, TrackFields{ID: "T1", Title: "Song B"})
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		if wasCreated {
			created++
		}
	})

	require.Empty(t, errs)
	assert.Equal(t, 1, created)

	favorites, err := NewFavoriteService(user.client).List(ctx)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestConcurrentItemAddsConflict(t *testing.T) {
	database := dbtest.NewSQLite(t)
	owner := seedUser(t, database, "racer")
	ctx := context.Background()

	playlist, err := NewPlaylistService(owner.client).Create(ctx, PlaylistInput{Name: "Race"})
	require.NoError(t, err)

	var (
		mu        sync.Mutex
		added     int
		conflicts int
		errs      []error
	)
	runConcurrently(concurrentWriters, func() {
		_, err := NewPlaylistService(owner.client).AddItem(ctx, playlist.ID, itemFields("Song A", "ext1"))
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			added++
		case IsConflict(err):
			conflicts++
		default:
			errs = append(errs, err)
		}
	})

	require.Empty(t, errs)
	assert.Equal(t, 1, added)
	assert.Equal(t, concurrentWriters-1, conflicts)

	detail, err := NewPlaylistService(owner.client).Get(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 1)
}
