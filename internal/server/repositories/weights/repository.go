package weights

import (
	"context"

	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

type Repository interface {
	FindByUser(ctx context.Context, userID string) ([]models.RawRow, error)
	Append(ctx context.Context, w *models.WeightEntry) error
}
