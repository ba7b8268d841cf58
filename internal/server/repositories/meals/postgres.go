// Package meals provides PostgreSQL-backed storage for logged meals.
package meals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/records"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (models.RawRow, error) {
	query := `SELECT ` + records.MealColumns + ` FROM meals WHERE id = $1`

	row, err := dbx.QueryOne(ctx, r.db, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("select meal", err)
	}
	return row, nil
}

// FindByUser returns every meal of userID, newest first.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) ([]models.RawRow, error) {
	query := `SELECT ` + records.MealColumns + ` FROM meals
		WHERE user_id = $1
		ORDER BY meal_date DESC, meal_time DESC, created_at DESC, id DESC`

	rows, err := dbx.QueryAll(ctx, r.db, query, userID)
	if err != nil {
		return nil, common.NewStorageError("select meals", err)
	}
	return rows, nil
}

// FindByUserAndDate returns the meals of userID logged on date (YYYY-MM-DD),
// latest time of day first.
func (r *PostgresRepository) FindByUserAndDate(ctx context.Context, userID, date string) ([]models.RawRow, error) {
	query := `SELECT ` + records.MealColumns + ` FROM meals
		WHERE user_id = $1 AND meal_date = $2
		ORDER BY meal_time DESC, created_at DESC, id DESC`

	rows, err := dbx.QueryAll(ctx, r.db, query, userID, date)
	if err != nil {
		return nil, common.NewStorageError("select meals by date", err)
	}
	return rows, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Meal) (models.RawRow, error) {
	cols := records.MealWriteColumns()
	query := fmt.Sprintf(`INSERT INTO meals (%s)
		VALUES (%s)
		RETURNING %s`, strings.Join(cols, ", "), dbx.Placeholders(len(cols), 1), records.MealColumns)

	row, err := dbx.QueryOne(ctx, r.db, query, records.MealWriteArgs(m)...)
	if err != nil {
		return nil, common.NewStorageError("insert meal", err)
	}
	return row, nil
}

// Update replaces the provided columns of the meal with id.
func (r *PostgresRepository) Update(ctx context.Context, id string, set []dbx.Assignment) (models.RawRow, error) {
	clause, args, err := dbx.BuildSet(set, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE meals SET %s
		WHERE id = $1
		RETURNING %s`, clause, records.MealColumns)

	row, err := dbx.QueryOne(ctx, r.db, query, append([]any{id}, args...)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("update meal", err)
	}
	return row, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return false, common.NewStorageError("delete meal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
