package profiles

import (
	"context"

	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (models.RawRow, error)
	Upsert(ctx context.Context, p *models.ProfileWrite) (models.RawRow, error)
	EnsureExists(ctx context.Context, id, email, name string) error
	Update(ctx context.Context, id string, set []dbx.Assignment) (models.RawRow, error)
	Delete(ctx context.Context, id string) (bool, error)
}
