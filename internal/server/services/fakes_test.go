package services

import (
	"context"
	"database/sql"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/logging"
	"github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/images"
	"github.com/dmitrijs2005/nutrilog/internal/server/inference"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/records"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/meals"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/weights"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2026, 1, 21, 12, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		DBOperationTimeout:     time.Second,
		PlaceholderEmailDomain: "placeholder.test",
	}
}

// memProfiles emulates the users table, including the merge upsert.
type memProfiles struct {
	mu       sync.Mutex
	rows     map[string]models.RawRow
	err      error
	deadline bool
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: map[string]models.RawRow{}}
}

func (f *memProfiles) FindByID(ctx context.Context, id string) (models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return maps.Clone(row), nil
}

func (f *memProfiles) Upsert(ctx context.Context, p *models.ProfileWrite) (models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}

	args := records.ProfileWriteArgs(p)
	existing, ok := f.rows[p.ID]
	row := models.RawRow{}
	if ok {
		row = maps.Clone(existing)
	} else {
		row["created_at"] = fixedNow
	}
	for i, c := range records.ProfileWriteTable {
		switch {
		case !ok, c.Policy == records.Overwrite:
			row[c.Name] = args[i]
		case c.Policy == records.KeepIfAbsent && args[i] != nil:
			row[c.Name] = args[i]
		}
	}
	row["updated_at"] = fixedNow
	f.rows[p.ID] = row
	return withPrevious(row, existing), nil
}

func (f *memProfiles) EnsureExists(ctx context.Context, id, email, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		f.rows[id] = models.RawRow{"id": id, "email": email, "name": name, "created_at": fixedNow, "updated_at": fixedNow}
	}
	return nil
}

func applyAssignments(row models.RawRow, set []dbx.Assignment) {
	for _, a := range set {
		if a.Present {
			row[a.Column] = a.Value
		}
	}
}

func (f *memProfiles) Update(ctx context.Context, id string, set []dbx.Assignment) (models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, _, err := dbx.BuildSet(set, 2); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	before := maps.Clone(row)
	applyAssignments(row, set)
	row["updated_at"] = fixedNow
	return withPrevious(row, before), nil
}

// withPrevious copies row and adds the weight held by before, the way the
// write statements return it.
func withPrevious(row, before models.RawRow) models.RawRow {
	out := maps.Clone(row)
	out[records.PreviousWeightColumn] = before["weight"]
	return out
}

func (f *memProfiles) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.rows[id]
	delete(f.rows, id)
	return ok, nil
}

// memMeals emulates the meals table.
type memMeals struct {
	mu   sync.Mutex
	rows []models.RawRow
	err  error
}

func (f *memMeals) sorted(keep func(models.RawRow) bool) []models.RawRow {
	var out []models.RawRow
	for _, r := range f.rows {
		if keep(r) {
			out = append(out, maps.Clone(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i]["meal_date"].(string), out[j]["meal_date"].(string)
		if di != dj {
			return di > dj
		}
		return out[i]["meal_time"].(string) > out[j]["meal_time"].(string)
	})
	return out
}

func (f *memMeals) FindByID(ctx context.Context, id string) (models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r["id"] == id {
			return maps.Clone(r), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *memMeals) FindByUser(ctx context.Context, userID string) ([]models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(func(r models.RawRow) bool { return r["user_id"] == userID }), nil
}

func (f *memMeals) FindByUserAndDate(ctx context.Context, userID, date string) ([]models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(func(r models.RawRow) bool { return r["user_id"] == userID && r["meal_date"] == date }), nil
}

func (f *memMeals) Create(ctx context.Context, m *models.Meal) (models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	row := models.RawRow{"created_at": fixedNow}
	args := records.MealWriteArgs(m)
	for i, c := range records.MealWriteColumns() {
		row[c] = args[i]
	}
	f.rows = append(f.rows, row)
	return maps.Clone(row), nil
}

func (f *memMeals) Update(ctx context.Context, id string, set []dbx.Assignment) (models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, _, err := dbx.BuildSet(set, 2); err != nil {
		return nil, err
	}
	for _, r := range f.rows {
		if r["id"] == id {
			applyAssignments(r, set)
			return maps.Clone(r), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *memMeals) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r["id"] == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// seed stores a raw meal row as the driver would return it.
func (f *memMeals) seed(id, userID, date, at string, calories any) {
	f.rows = append(f.rows, models.RawRow{
		"id": id, "user_id": userID, "name": "meal " + id, "meal_type": "lunch",
		"meal_time": at, "meal_date": date, "calories": calories,
	})
}

// memWeights emulates weight_history.
type memWeights struct {
	mu   sync.Mutex
	rows []models.RawRow
	err  error
}

func (f *memWeights) FindByUser(ctx context.Context, userID string) ([]models.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RawRow
	for _, r := range f.rows {
		if r["user_id"] == userID {
			out = append(out, maps.Clone(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := strings.Compare(out[i]["date"].(string), out[j]["date"].(string)); c != 0 {
			return c > 0
		}
		return out[i]["id"].(string) > out[j]["id"].(string)
	})
	return out, nil
}

func (f *memWeights) Append(ctx context.Context, w *models.WeightEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	row := models.RawRow{}
	args := records.WeightWriteArgs(w)
	for i, c := range records.WeightWriteColumns() {
		row[c] = args[i]
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeRepoManager struct {
	p *memProfiles
	m *memMeals
	w *memWeights
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{p: newMemProfiles(), m: &memMeals{}, w: &memWeights{}}
}

func (r *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (r *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository     { return r.p }
func (r *fakeRepoManager) Meals(db dbx.DBTX) meals.Repository           { return r.m }
func (r *fakeRepoManager) Weights(db dbx.DBTX) weights.Repository       { return r.w }

type fakeUploader struct {
	prefix  string
	payload string
	err     error
}

func (f *fakeUploader) PresignedPutURL(ctx context.Context, prefix string) (*images.Upload, error) {
	f.prefix = prefix
	if f.err != nil {
		return nil, f.err
	}
	key := prefix + "/obj"
	return &images.Upload{Key: key, URL: "https://s3.test/" + key + "?sig=1", PublicURL: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) UploadInline(ctx context.Context, prefix, dataURL string) (string, error) {
	f.prefix, f.payload = prefix, dataURL
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + prefix + "/img.png", nil
}

type fakeEstimator struct {
	out *inference.Estimate
	err error
	got inference.Evidence
}

func (f *fakeEstimator) Estimate(ctx context.Context, ev inference.Evidence) (*inference.Estimate, error) {
	f.got = ev
	return f.out, f.err
}

type fakeRecorder struct {
	calls []float64
	err   error
}

func (f *fakeRecorder) Record(ctx context.Context, userID string, weight float64, at time.Time) error {
	f.calls = append(f.calls, weight)
	return f.err
}

func nopLogger() logging.Logger { return logging.Nop() }
