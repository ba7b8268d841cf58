package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSet_OnlyPresentPairs(t *testing.T) {
	clause, args, err := BuildSet([]Assignment{
		Set("name", "Oats"),
		SetIf("calories", 350.0, false),
		SetIf("protein_g", nil, true),
		Set("meal_type", "breakfast"),
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, "name = $2, protein_g = $3, meal_type = $4", clause)
	assert.Equal(t, []any{"Oats", nil, "breakfast"}, args)
}

func TestBuildSet_EmptyUpdate(t *testing.T) {
	_, _, err := BuildSet(nil, 1)
	require.ErrorIs(t, err, common.ErrEmptyUpdate)

	_, _, err = BuildSet([]Assignment{SetIf("name", "x", false)}, 1)
	require.ErrorIs(t, err, common.ErrEmptyUpdate)
}

func TestScanRows_KeepsDriverValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	day := time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "calories", "meal_date", "image_url"}).
			AddRow("m1", "350.50", day, nil).
			AddRow("m2", int64(120), "2026-01-21", "https://x/y.png"),
	)

	rows, err := db.QueryContext(context.Background(), "SELECT id, calories, meal_date, image_url FROM meals")
	require.NoError(t, err)

	got, err := ScanRows(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "m1", got[0]["id"])
	assert.Equal(t, "350.50", got[0]["calories"])
	assert.Equal(t, day, got[0]["meal_date"])
	assert.Nil(t, got[0]["image_url"])
	assert.Equal(t, int64(120), got[1]["calories"])
}

func TestScanOne_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := db.QueryContext(context.Background(), "SELECT id FROM users")
	require.NoError(t, err)

	_, err = ScanOne(rows)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScanRows_RowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow("a").RowError(0, errors.New("broken row")),
	)

	rows, err := db.QueryContext(context.Background(), "SELECT id FROM users")
	require.NoError(t, err)

	_, err = ScanRows(rows)
	require.Error(t, err)
}

func TestOpen_AppliesPoolAndPings(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		assert.Equal(t, "postgres://x", dsn)
		return db, nil
	}

	got, err := Open(context.Background(), "pgx", "postgres://x", PoolConfig{MaxOpenConns: 4, PingTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stats().MaxOpenConnections)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("no route"))

	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driver, dsn string) (*sql.DB, error) { return db, nil }

	_, err = Open(context.Background(), "pgx", "dsn", PoolConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping error")
}

func TestOpen_OpenFailure(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driver, dsn string) (*sql.DB, error) { return nil, errors.New("unknown driver") }

	_, err := Open(context.Background(), "pgx", "dsn", PoolConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db open error")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", Placeholders(3, 1))
	assert.Equal(t, "$4", Placeholders(1, 4))
	assert.Equal(t, "", Placeholders(0, 1))
}

func TestQueryOne_PropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("conn reset"))

	_, err = QueryOne(context.Background(), db, "SELECT 1")
	require.EqualError(t, err, "conn reset")
}

func TestQueryAll_EmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := QueryAll(context.Background(), db, "SELECT id FROM meals WHERE user_id = $1", "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
