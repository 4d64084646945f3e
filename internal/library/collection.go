package library

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/lyra/internal/db"
)

// duplicatePolicy decides what adding an already present member means
type duplicatePolicy int

const (
	// rejectDuplicate fails with the collection's conflict error
	rejectDuplicate duplicatePolicy = iota
	// returnExisting succeeds with the row that is already there
	returnExisting
)

// collection describes one idempotent insert: how to find the member and how to insert it
type collection[T any] struct {
	find   func(ctx context.Context) (T, bool, error)
	insert func(ctx context.Context) (T, error)
	policy duplicatePolicy
	// conflict is returned for rejected duplicates, and when the store reports a duplicate
	// that find still cannot see
	conflict error
}

// addToCollection inserts a member unless it is already present. A unique violation from a
// concurrent insert is resolved by fetching the winner's row and applying the duplicate policy.
// created reports whether this call inserted the row.
func addToCollection[T any](ctx context.Context, c collection[T]) (member T, created bool, err error) {
	var zero T

	existing, found, err := c.find(ctx)
	if err != nil {
		return zero, false, err
	}
	if found {
		return c.onDuplicate(existing)
	}

	inserted, err := c.insert(ctx)
	if err == nil {
		return inserted, true, nil
	}
	if !db.IsDuplicate(err) {
		return zero, false, err
	}

	// Lost a race with another insert of the same member
	existing, found, err = c.find(ctx)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, fmt.Errorf("%w: duplicate reported but no row visible", c.conflict)
	}
	return c.onDuplicate(existing)
}

func (c collection[T]) onDuplicate(existing T) (T, bool, error) {
	if c.policy == rejectDuplicate {
		var zero T
		return zero, false, c.conflict
	}
	return existing, false, nil
}
