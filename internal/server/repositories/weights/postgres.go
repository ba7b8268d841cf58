// Package weights provides PostgreSQL-backed storage for the append-only
// weight history of a profile.
package weights

import (
	"context"
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

// FindByUser returns the weight history of userID, most recent date first.
// Points of the same day are ordered by id, which is time-ordered, so the
// latest point of a day comes first.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) ([]models.RawRow, error) {
	query := `SELECT ` + records.WeightColumns + ` FROM weight_history
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`

	rows, err := dbx.QueryAll(ctx, r.db, query, userID)
	if err != nil {
		return nil, common.NewStorageError("select weight history", err)
	}
	return rows, nil
}

func (r *PostgresRepository) Append(ctx context.Context, w *models.WeightEntry) error {
	cols := records.WeightWriteColumns()
	query := fmt.Sprintf(`INSERT INTO weight_history (%s) VALUES (%s)`,
		strings.Join(cols, ", "), dbx.Placeholders(len(cols), 1))

	if _, err := r.db.ExecContext(ctx, query, records.WeightWriteArgs(w)...); err != nil {
		return common.NewStorageError("insert weight", err)
	}
	return nil
}
