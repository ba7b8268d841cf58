// Package server assembles the nutrilog storage boundary: it opens the
// shared connection pool, applies the schema, wires the services and
// releases the pool on shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/logging"
	"github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/images"
	"github.com/dmitrijs2005/nutrilog/internal/server/inference"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutrilog/internal/server/services"
)

// Seams for tests.
var (
	openDB = dbx.Open

	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	Profiles  *services.ProfileService
	Meals     *services.MealService
	Weights   *services.WeightService
	Nutrition *services.NutritionService
}

// NewApp opens the pool, migrates the schema and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, "pgx", c.DatabaseDSN, dbx.PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		PingTimeout:     c.DBOperationTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	store := images.NewStore(c)
	estimator := inference.NewHTTPEstimator(c.InferenceURL, c.InferenceAPIKey, c.InferenceTimeout)

	weights := services.NewWeightService(db, rm, c, logger)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		Profiles:  services.NewProfileService(db, rm, c, store, weights, logger),
		Meals:     services.NewMealService(db, rm, c, store, estimator, logger),
		Weights:   weights,
		Nutrition: services.NewNutritionService(db, rm, c),
	}, nil
}

// Run blocks until ctx is cancelled or the process receives a termination
// signal, then releases the connection pool.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")
	<-ctx.Done()
	app.logger.Info(context.Background(), "Shutting down...")

	return app.Close()
}

// Close releases the connection pool.
func (app *App) Close() error {
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}
	return nil
}
