// Package profiles provides PostgreSQL-backed storage for user profiles,
// including the single-statement merge upsert.
package profiles

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

// PostgresRepository implements profile storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var upsertQuery = buildUpsertQuery(records.ProfileWriteTable)

// previousWeight selects the weight stored before the statement runs; the
// CTE reads the statement's snapshot, so it sees the row as it was.
const previousWeight = `WITH previous AS (SELECT weight FROM users WHERE id = $1)`

// returning lists the profile columns plus the weight held before the write.
var returning = fmt.Sprintf(`RETURNING %s,
		(SELECT weight FROM previous) AS %s`, records.ProfileColumns, records.PreviousWeightColumn)

// buildUpsertQuery renders the merge upsert for table. The merge decision
// for every column is part of the statement itself, so concurrent upserts
// of one identity are serialized by the row lock. The key column must come
// first so that it binds to $1.
func buildUpsertQuery(table []records.WriteColumn[models.ProfileWrite]) string {
	cols := make([]string, 0, len(table))
	sets := make([]string, 0, len(table)+1)
	for _, c := range table {
		cols = append(cols, c.Name)
		switch c.Policy {
		case records.Overwrite:
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c.Name, c.Name))
		case records.KeepIfAbsent:
			sets = append(sets, fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, users.%s)", c.Name, c.Name, c.Name))
		}
	}
	sets = append(sets, "updated_at = NOW()")

	return fmt.Sprintf(`%s
		INSERT INTO users (%s)
		VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET
			%s
		%s`,
		previousWeight,
		strings.Join(cols, ", "),
		dbx.Placeholders(len(cols), 1),
		strings.Join(sets, ",\n\t\t\t"),
		returning,
	)
}

// FindByID returns the users row for id, or common.ErrorNotFound.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (models.RawRow, error) {
	query := `SELECT ` + records.ProfileColumns + ` FROM users WHERE id = $1`

	row, err := dbx.QueryOne(ctx, r.db, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("select profile", err)
	}
	return row, nil
}

// Upsert inserts p or merges it into the existing row with the same id:
// required fields and the avatar are overwritten, optional fields only when
// p carries a value. updated_at is refreshed on every call. The returned row
// also carries records.PreviousWeightColumn.
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.ProfileWrite) (models.RawRow, error) {
	row, err := dbx.QueryOne(ctx, r.db, upsertQuery, records.ProfileWriteArgs(p)...)
	if err != nil {
		return nil, common.NewStorageError("upsert profile", err)
	}
	return row, nil
}

// EnsureExists inserts a bare profile for id unless one already exists.
func (r *PostgresRepository) EnsureExists(ctx context.Context, id, email, name string) error {
	query := `INSERT INTO users (id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, id, email, name); err != nil {
		return common.NewStorageError("ensure profile", err)
	}
	return nil
}

// Update applies the present assignments to the row with id and returns the
// updated row, including records.PreviousWeightColumn. It fails with common.ErrEmptyUpdate when nothing is present
// and with common.ErrorNotFound when no row matches.
func (r *PostgresRepository) Update(ctx context.Context, id string, set []dbx.Assignment) (models.RawRow, error) {
	clause, args, err := dbx.BuildSet(set, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`%s
		UPDATE users SET %s, updated_at = NOW()
		WHERE id = $1
		%s`, previousWeight, clause, returning)

	row, err := dbx.QueryOne(ctx, r.db, query, append([]any{id}, args...)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStorageError("update profile", err)
	}
	return row, nil
}

// Delete removes the profile; meals and weight history go with it through
// the foreign key cascade. It reports whether a row was removed.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, common.NewStorageError("delete profile", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
