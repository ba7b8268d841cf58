package meals

import (
	"context"

	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (models.RawRow, error)
	FindByUser(ctx context.Context, userID string) ([]models.RawRow, error)
	FindByUserAndDate(ctx context.Context, userID, date string) ([]models.RawRow, error)
	Create(ctx context.Context, m *models.Meal) (models.RawRow, error)
	Update(ctx context.Context, id string, set []dbx.Assignment) (models.RawRow, error)
	Delete(ctx context.Context, id string) (bool, error)
}
