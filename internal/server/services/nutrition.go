package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/records"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/repomanager"
)

// NutritionService aggregates logged meals into totals.
type NutritionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeout     time.Duration
	now         func() time.Time
}

func NewNutritionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *NutritionService {
	return &NutritionService{
		db:          db,
		repomanager: m,
		timeout:     cfg.DBOperationTimeout,
		now:         time.Now,
	}
}

// DailyTotals sums calories and macros of every meal userID logged on date.
// A day without meals yields zero totals.
func (s *NutritionService) DailyTotals(ctx context.Context, userID, date string) (*models.Totals, error) {
	day, err := records.NormalizeDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", common.ErrInvalidInput, date)
	}

	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repomanager.Meals(s.db).FindByUserAndDate(opCtx, userID, day)
	if err != nil {
		return nil, err
	}
	meals, err := records.MapMeals(rows)
	if err != nil {
		return nil, err
	}

	var totals models.Totals
	for _, m := range meals {
		totals.Add(m)
	}
	return &totals, nil
}

// EntriesWithinLastNDays returns the meals of userID dated no earlier than
// n days before today, newest first. Entries with an unparseable date are
// skipped.
func (s *NutritionService) EntriesWithinLastNDays(ctx context.Context, userID string, n int) ([]*models.Meal, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative day count", common.ErrInvalidInput)
	}

	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repomanager.Meals(s.db).FindByUser(opCtx, userID)
	if err != nil {
		return nil, err
	}
	meals, err := records.MapMeals(rows)
	if err != nil {
		return nil, err
	}

	cutoff := startOfDay(s.now()).AddDate(0, 0, -n)
	out := make([]*models.Meal, 0, len(meals))
	for _, m := range meals {
		d, err := time.ParseInLocation(common.DateLayout, m.MealDate, cutoff.Location())
		if err != nil {
			continue
		}
		if !d.Before(cutoff) {
			out = append(out, m)
		}
	}
	return out, nil
}

// DailyHistory returns per-day totals for the n days ending today, oldest
// first. Days without meals are included with zero totals.
func (s *NutritionService) DailyHistory(ctx context.Context, userID string, n int) ([]models.DayTotals, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: day count must be positive", common.ErrInvalidInput)
	}

	meals, err := s.EntriesWithinLastNDays(ctx, userID, n-1)
	if err != nil {
		return nil, err
	}

	today := startOfDay(s.now())
	days := make([]models.DayTotals, n)
	index := make(map[string]int, n)
	for i := range days {
		date := today.AddDate(0, 0, i-n+1).Format(common.DateLayout)
		days[i].Date = date
		index[date] = i
	}

	for _, m := range meals {
		i, ok := index[m.MealDate]
		if !ok {
			continue
		}
		days[i].Add(m)
		days[i].Meals++
	}
	return days, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
