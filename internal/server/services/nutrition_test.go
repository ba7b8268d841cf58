package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNutritionService(rm *fakeRepoManager) *NutritionService {
	s := NewNutritionService(nil, rm, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestDailyTotals_NoMealsIsZero(t *testing.T) {
	s := newNutritionService(newFakeRepoManager())

	got, err := s.DailyTotals(context.Background(), "u1", "2026-01-21")
	require.NoError(t, err)
	assert.Equal(t, models.Totals{}, *got)
}

func TestDailyTotals_SumsMealsOfThatDate(t *testing.T) {
	rm := newFakeRepoManager()
	rm.m.seed("a", "u1", "2026-01-21", "08:00:00", "350")
	rm.m.seed("b", "u1", "2026-01-21", "13:00:00", int64(120))
	rm.m.seed("c", "u1", "2026-01-20", "13:00:00", "999")
	rm.m.seed("d", "u2", "2026-01-21", "13:00:00", "999")
	rm.m.rows[0]["protein_g"] = "12.5"
	rm.m.rows[1]["sugar_g"] = nil
	s := newNutritionService(rm)

	got, err := s.DailyTotals(context.Background(), "u1", "2026-01-21T05:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, 470.0, got.Calories)
	assert.Equal(t, 12.5, got.Protein)
	assert.Zero(t, got.Sugar)
}

func TestDailyTotals_BadDate(t *testing.T) {
	s := newNutritionService(newFakeRepoManager())
	_, err := s.DailyTotals(context.Background(), "u1", "today")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestEntriesWithinLastNDays(t *testing.T) {
	rm := newFakeRepoManager()
	rm.m.seed("today", "u1", "2026-01-21", "08:00:00", "100")
	rm.m.seed("edge", "u1", "2026-01-14", "08:00:00", "100")
	rm.m.seed("old", "u1", "2026-01-13", "23:59:00", "100")
	s := newNutritionService(rm)

	got, err := s.EntriesWithinLastNDays(context.Background(), "u1", 7)
	require.NoError(t, err)
	ids := []string{}
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"today", "edge"}, ids)

	got, err = s.EntriesWithinLastNDays(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.EntriesWithinLastNDays(context.Background(), "u1", -1)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDailyHistory_OldestFirstWithEmptyDays(t *testing.T) {
	rm := newFakeRepoManager()
	rm.m.seed("a", "u1", "2026-01-21", "08:00:00", "300")
	rm.m.seed("b", "u1", "2026-01-21", "12:00:00", "200")
	rm.m.seed("c", "u1", "2026-01-19", "12:00:00", "150")
	rm.m.seed("d", "u1", "2026-01-10", "12:00:00", "900")
	s := newNutritionService(rm)

	got, err := s.DailyHistory(context.Background(), "u1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2026-01-19", got[0].Date)
	assert.Equal(t, 150.0, got[0].Calories)
	assert.Equal(t, 1, got[0].Meals)

	assert.Equal(t, "2026-01-20", got[1].Date)
	assert.Zero(t, got[1].Calories)
	assert.Zero(t, got[1].Meals)

	assert.Equal(t, "2026-01-21", got[2].Date)
	assert.Equal(t, 500.0, got[2].Calories)
	assert.Equal(t, 2, got[2].Meals)

	_, err = s.DailyHistory(context.Background(), "u1", 0)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
