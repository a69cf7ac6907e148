package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func newConstraintConfigRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestConstraintConfigRepositoryList(t *testing.T) {
	db, mock, cleanup := newConstraintConfigRepoMock(t)
	defer cleanup()
	repo := NewConstraintConfigRepository(db)

	payload := types.JSONText(`{"hard":{}}`)
	rows := sqlmock.NewRows([]string{"id", "name", "term_id", "payload", "is_default", "created_at", "updated_at"}).
		AddRow("cfg-1", "Default", "term-1", payload, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, term_id, payload, is_default, created_at, updated_at FROM constraint_configs WHERE 1=1 AND (term_id = $1 OR term_id IS NULL) ORDER BY is_default DESC, created_at DESC")).
		WithArgs("term-1").
		WillReturnRows(rows)

	configs, err := repo.List(context.Background(), models.ConstraintConfigFilter{TermID: "term-1"})
	require.NoError(t, err)
	assert.Len(t, configs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintConfigRepositoryFindDefault(t *testing.T) {
	db, mock, cleanup := newConstraintConfigRepoMock(t)
	defer cleanup()
	repo := NewConstraintConfigRepository(db)

	payload := types.JSONText(`{"hard":{}}`)
	rows := sqlmock.NewRows([]string{"id", "name", "term_id", "payload", "is_default", "created_at", "updated_at"}).
		AddRow("cfg-1", "Default", "term-1", payload, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, term_id, payload, is_default, created_at, updated_at FROM constraint_configs")).
		WithArgs("term-1").
		WillReturnRows(rows)

	cfg, err := repo.FindDefault(context.Background(), "term-1")
	require.NoError(t, err)
	assert.Equal(t, "cfg-1", cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintConfigRepositoryUpsertAndDelete(t *testing.T) {
	db, mock, cleanup := newConstraintConfigRepoMock(t)
	defer cleanup()
	repo := NewConstraintConfigRepository(db)

	mock.ExpectExec("INSERT INTO constraint_configs").
		WithArgs(sqlmock.AnyArg(), "Default", sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cfg := &models.ConstraintConfig{Name: "Default", Payload: types.JSONText(`{"hard":{}}`), IsDefault: true}
	require.NoError(t, repo.Upsert(context.Background(), cfg))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM constraint_configs WHERE id = $1")).
		WithArgs(cfg.ID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), cfg.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
