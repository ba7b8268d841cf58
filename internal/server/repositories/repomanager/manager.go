package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/meals"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/weights"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	Meals(db dbx.DBTX) meals.Repository
	Weights(db dbx.DBTX) weights.Repository
}
