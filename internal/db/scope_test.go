package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const setConfigQuery = "SELECT set_config('request.jwt.claims', $1, true), set_config('request.jwt.claim.sub', $2, true)"

// setupMockPostgres wraps a sqlmock connection in a postgres-dialect DB
func setupMockPostgres(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return Wrap(gormDB, DialectPostgres), mock
}

func TestScopeRejectsMissingPrincipal(t *testing.T) {
	factory := NewScopeFactory(&DB{}, "authenticated")

	_, err := factory.Scope(nil)
	assert.ErrorIs(t, err, ErrNoPrincipal)

	_, err = factory.Scope(&models.Principal{})
	assert.ErrorIs(t, err, ErrNoPrincipal)
}

func TestScopeReturnsFreshClientPerPrincipal(t *testing.T) {
	factory := NewScopeFactory(&DB{}, "authenticated")
	a := &models.Principal{ID: uuid.New()}
	b := &models.Principal{ID: uuid.New()}

	clientA, err := factory.Scope(a)
	require.NoError(t, err)
	clientB, err := factory.Scope(b)
	require.NoError(t, err)

	assert.NotSame(t, clientA, clientB)
	assert.Equal(t, a.ID, clientA.UserID())
	assert.Equal(t, b.ID, clientB.UserID())

	// Mutating the caller's principal must not leak into an existing client
	a.ID = b.ID
	assert.NotEqual(t, b.ID, clientA.UserID())
}

func TestClientDoInstallsPrincipalOnPostgres(t *testing.T) {
	database, mock := setupMockPostgres(t)
	principal := &models.Principal{ID: uuid.New(), Email: "u@example.com"}

	client, err := NewScopeFactory(database, "authenticated").Scope(principal)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setConfigQuery)).
		WithArgs(sqlmock.AnyArg(), principal.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL ROLE "authenticated"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = client.Do(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM favorites").Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDoWithoutRoleOnlySetsClaims(t *testing.T) {
	database, mock := setupMockPostgres(t)
	principal := &models.Principal{ID: uuid.New()}

	client, err := NewScopeFactory(database, "").Scope(principal)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setConfigQuery)).
		WithArgs(sqlmock.AnyArg(), principal.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = client.Do(context.Background(), func(tx *gorm.DB) error { return nil })
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDoRollsBackOnError(t *testing.T) {
	database, mock := setupMockPostgres(t)
	client, err := NewScopeFactory(database, "authenticated").Scope(&models.Principal{ID: uuid.New()})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setConfigQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL ROLE "authenticated"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = client.Do(context.Background(), func(tx *gorm.DB) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientDoFailsClosedWhenScopingFails(t *testing.T) {
	database, mock := setupMockPostgres(t)
	client, err := NewScopeFactory(database, "authenticated").Scope(&models.Principal{ID: uuid.New()})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(setConfigQuery)).WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	called := false
	err = client.Do(context.Background(), func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called, "query must not run unscoped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientClaims(t *testing.T) {
	principal := &models.Principal{
		ID:     uuid.New(),
		Email:  "u@example.com",
		Claims: map[string]any{"sub": "spoofed", "aud": "lyra"},
	}
	client, err := NewScopeFactory(&DB{}, "authenticated").Scope(principal)
	require.NoError(t, err)

	claims := client.claims()
	assert.Equal(t, principal.ID.String(), claims["sub"])
	assert.Equal(t, "u@example.com", claims["email"])
	assert.Equal(t, "authenticated", claims["role"])
	assert.Equal(t, "lyra", claims["aud"])
}

func TestClientDoIsPlainTransactionOnSQLite(t *testing.T) {
	database := setupTestDB(t)
	client := seedUser(t, database, "scope_user")

	var count int64
	err := client.Do(context.Background(), func(tx *gorm.DB) error {
		return tx.Model(&models.Profile{}).Count(&count).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
