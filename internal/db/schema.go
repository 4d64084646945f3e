package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/lyra/internal/logger"
	"gorm.io/gorm"
)

// Tables probed by EnsureSchema
const (
	TableProfiles      = "profiles"
	TableTracks        = "tracks"
	TablePlaylists     = "playlists"
	TablePlaylistItems = "playlist_items"
	TableFavorites     = "favorites"
)

const schemaHint = "run `lyra migrate` against this database to create the missing schema"

// SchemaError reports a table or required column the service cannot work without
type SchemaError struct {
	Table  string
	Column string
	Hint   string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema check failed: column %s.%s is missing", e.Table, e.Column)
	}
	return fmt.Sprintf("schema check failed: table %s is missing", e.Table)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports that column of table is absent
func MissingColumnError(table, column string) *SchemaError {
	return &SchemaError{Table: table, Column: column, Hint: schemaHint, Err: ErrMissingColumn}
}

// IsSchemaError checks if err carries a *SchemaError
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

type tableColumns struct {
	required []string
	optional []string
}

var expectedSchema = map[string]tableColumns{
	TableProfiles: {
		required: []string{"user_id", "username", "display_name", "avatar_url", "created_at", "updated_at"},
	},
	TableTracks: {
		required: []string{"id", "title", "external_track_id"},
		optional: []string{"artist_name", "duration_seconds", "external_stream_url"},
	},
	TablePlaylists: {
		required: []string{"id", "owner_id", "name", "is_public", "created_at", "updated_at"},
		optional: []string{"description"},
	},
	TablePlaylistItems: {
		required: []string{"id", "playlist_id", "track_id", "added_at"},
	},
	TableFavorites: {
		required: []string{"user_id", "track_id", "created_at"},
	},
}

// SchemaReport lists optional columns that are absent; writes should omit them
type SchemaReport struct {
	missingOptional map[string][]string
}

// Missing returns the absent optional columns of table
func (r *SchemaReport) Missing(table string) []string {
	if r == nil {
		return nil
	}
	return r.missingOptional[table]
}

// Complete reports whether no optional column is missing
func (r *SchemaReport) Complete() bool {
	return r == nil || len(r.missingOptional) == 0
}

// EnsureSchema probes the given tables through the scoped client. A missing table or required
// column yields a *SchemaError; a missing optional column is logged and recorded in the report.
func EnsureSchema(ctx context.Context, c *Client, tables ...string) (*SchemaReport, error) {
	report := &SchemaReport{missingOptional: make(map[string][]string)}

	for _, table := range tables {
		cols, ok := expectedSchema[table]
		if !ok {
			return nil, fmt.Errorf("no schema expectation for table %s", table)
		}

		// Happy path: one probe covering every column
		err := probe(ctx, c, table, append(append([]string{}, cols.required...), cols.optional...))
		if err == nil {
			continue
		}
		if errors.Is(err, ErrMissingTable) {
			return nil, &SchemaError{Table: table, Hint: schemaHint, Err: err}
		}
		if !errors.Is(err, ErrMissingColumn) {
			return nil, fmt.Errorf("failed to probe table %s: %w", table, err)
		}

		// Some column is missing; find out whether it matters
		if err := probe(ctx, c, table, cols.required); err != nil {
			if errors.Is(err, ErrMissingColumn) {
				return nil, &SchemaError{Table: table, Column: findMissing(ctx, c, table, cols.required), Hint: schemaHint, Err: err}
			}
			return nil, fmt.Errorf("failed to probe table %s: %w", table, err)
		}

		for _, column := range cols.optional {
			err := probe(ctx, c, table, []string{column})
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrMissingColumn) {
				return nil, fmt.Errorf("failed to probe column %s.%s: %w", table, column, err)
			}
			logger.Log.Warn().
				Str("table", table).
				Str("column", column).
				Msg("Optional column missing; writes will omit it")
			report.missingOptional[table] = append(report.missingOptional[table], column)
		}
	}

	return report, nil
}

// findMissing names the first required column that fails to probe
func findMissing(ctx context.Context, c *Client, table string, columns []string) string {
	for _, column := range columns {
		if err := probe(ctx, c, table, []string{column}); errors.Is(err, ErrMissingColumn) {
			return column
		}
	}
	return ""
}

// probe selects no rows from table; identifiers come from expectedSchema only
func probe(ctx context.Context, c *Client, table string, columns []string) error {
	query := fmt.Sprintf("SELECT %s FROM %s LIMIT 0", strings.Join(columns, ", "), table)
	err := c.Do(ctx, func(tx *gorm.DB) error {
		return tx.Exec(query).Error
	})
	return MapGormError(err)
}
