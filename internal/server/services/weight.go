package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/logging"
	"github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/records"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type WeightService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeout     time.Duration
	logger      logging.Logger
}

func NewWeightService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *WeightService {
	return &WeightService{
		db:          db,
		repomanager: m,
		timeout:     cfg.DBOperationTimeout,
		logger:      logger.With("module", "weights"),
	}
}

// History returns the weight history of userID, most recent first.
func (s *WeightService) History(ctx context.Context, userID string) ([]*models.WeightEntry, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repomanager.Weights(s.db).FindByUser(opCtx, userID)
	if err != nil {
		return nil, err
	}
	return records.MapWeightEntries(rows)
}

// Record appends a history point dated at's calendar day. Ids are UUIDv7,
// so several points of one day keep their insertion order.
func (s *WeightService) Record(ctx context.Context, userID string, weight float64, at time.Time) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight must be positive", common.ErrInvalidInput)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("weight id: %w", err)
	}
	entry := &models.WeightEntry{
		ID:     id.String(),
		UserID: userID,
		Weight: weight,
		Date:   at.Format(common.DateLayout),
	}

	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	if err := s.repomanager.Weights(s.db).Append(opCtx, entry); err != nil {
		return err
	}
	s.logger.Debug(ctx, "weight recorded", "user_id", userID, "date", entry.Date)
	return nil
}
