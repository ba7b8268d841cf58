package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/logging"
	"github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/images"
	"github.com/dmitrijs2005/nutrilog/internal/server/inference"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/records"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutrilog/internal/server/sanitize"
	"github.com/google/uuid"
)

// PlaceholderName is the display name of a profile created implicitly by a
// meal write.
const PlaceholderName = "New User"

// MealInput is a meal as submitted by a caller. Empty ID, MealDate and
// MealTime are filled in on create; nil macros are stored as 0.
type MealInput struct {
	ID       string
	UserID   string
	Name     string
	MealType string
	MealTime string
	MealDate string
	Calories float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
	Sugar    *float64
	Image    string
	Notes    *string
}

type MealService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	images            ImageUploader
	estimator         inference.Estimator
	timeout           time.Duration
	placeholderDomain string
	logger            logging.Logger
	now               func() time.Time
}

func NewMealService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	uploader ImageUploader, estimator inference.Estimator, logger logging.Logger) *MealService {
	return &MealService{
		db:                db,
		repomanager:       m,
		images:            uploader,
		estimator:         estimator,
		timeout:           cfg.DBOperationTimeout,
		placeholderDomain: cfg.PlaceholderEmailDomain,
		logger:            logger.With("module", "meals"),
		now:               time.Now,
	}
}

// PlaceholderEmail is the synthesized address of an implicitly created profile.
func (s *MealService) PlaceholderEmail(userID string) string {
	return userID + "@" + s.placeholderDomain
}

func macroValue(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", common.ErrInvalidInput, name)
	}
	return *v, nil
}

func (s *MealService) buildMeal(in MealInput) (*models.Meal, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}

	now := s.now()
	m := &models.Meal{
		ID:       in.ID,
		UserID:   strings.TrimSpace(in.UserID),
		Name:     strings.TrimSpace(in.Name),
		MealType: records.MealType(in.MealType),
		MealDate: now.Format(common.DateLayout),
		MealTime: now.Format(common.TimeOfDayLayout),
		ImageURL: sanitize.ImageRef(in.Image),
		Notes:    sanitize.String(in.Notes),
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	var err error
	if in.MealDate != "" {
		if m.MealDate, err = records.NormalizeDate(in.MealDate); err != nil {
			return nil, fmt.Errorf("%w: meal date %q", common.ErrInvalidInput, in.MealDate)
		}
	}
	if in.MealTime != "" {
		if m.MealTime, err = records.NormalizeTimeOfDay(in.MealTime); err != nil {
			return nil, fmt.Errorf("%w: meal time %q", common.ErrInvalidInput, in.MealTime)
		}
	}

	if m.Calories, err = macroValue("calories", &in.Calories); err != nil {
		return nil, err
	}
	if m.Protein, err = macroValue("protein", in.Protein); err != nil {
		return nil, err
	}
	if m.Carbs, err = macroValue("carbs", in.Carbs); err != nil {
		return nil, err
	}
	if m.Fat, err = macroValue("fat", in.Fat); err != nil {
		return nil, err
	}
	if m.Sugar, err = macroValue("sugar", in.Sugar); err != nil {
		return nil, err
	}
	return m, nil
}

// Create logs a meal. An unknown owner gets a placeholder profile first; an
// inline image is dropped rather than stored.
func (s *MealService) Create(ctx context.Context, in MealInput) (*models.Meal, error) {
	m, err := s.buildMeal(in)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	if err := s.repomanager.Profiles(s.db).EnsureExists(opCtx, m.UserID, s.PlaceholderEmail(m.UserID), PlaceholderName); err != nil {
		return nil, err
	}

	row, err := s.repomanager.Meals(s.db).Create(opCtx, m)
	if err != nil {
		return nil, err
	}
	meal, err := records.MapMeal(row)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "meal created", "meal_id", meal.ID, "user_id", meal.UserID)
	return meal, nil
}

func (s *MealService) Get(ctx context.Context, id string) (*models.Meal, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	row, err := s.repomanager.Meals(s.db).FindByID(opCtx, id)
	if err != nil {
		return nil, err
	}
	return records.MapMeal(row)
}

// ListByUser returns every meal of userID ordered by date and time, newest first.
func (s *MealService) ListByUser(ctx context.Context, userID string) ([]*models.Meal, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	rows, err := s.repomanager.Meals(s.db).FindByUser(opCtx, userID)
	if err != nil {
		return nil, err
	}
	return records.MapMeals(rows)
}

func (s *MealService) ListByUserAndDate(ctx context.Context, userID, date string) ([]*models.Meal, error) {
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
	return records.MapMeals(rows)
}

// Update replaces every field p provides. There is no merge: a provided
// value always wins, and a provided inline image clears the stored one.
func (s *MealService) Update(ctx context.Context, id string, p models.MealPatch) (*models.Meal, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrInvalidInput)
	}
	if p.MealDate != nil {
		d, err := records.NormalizeDate(*p.MealDate)
		if err != nil {
			return nil, fmt.Errorf("%w: meal date %q", common.ErrInvalidInput, *p.MealDate)
		}
		p.MealDate = &d
	}
	if p.MealTime != nil {
		t, err := records.NormalizeTimeOfDay(*p.MealTime)
		if err != nil {
			return nil, fmt.Errorf("%w: meal time %q", common.ErrInvalidInput, *p.MealTime)
		}
		p.MealTime = &t
	}
	for name, v := range map[string]*float64{
		"calories": p.Calories, "protein": p.Protein, "carbs": p.Carbs, "fat": p.Fat, "sugar": p.Sugar,
	} {
		if _, err := macroValue(name, v); err != nil {
			return nil, err
		}
	}

	return s.update(ctx, id, records.MealPatchAssignments(p))
}

func (s *MealService) update(ctx context.Context, id string, set []dbx.Assignment) (*models.Meal, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	row, err := s.repomanager.Meals(s.db).Update(opCtx, id, set)
	if err != nil {
		return nil, err
	}
	return records.MapMeal(row)
}

func (s *MealService) Delete(ctx context.Context, id string) (bool, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	return s.repomanager.Meals(s.db).Delete(opCtx, id)
}

// AttachImage sets the image of a meal. An inline payload is uploaded to
// object storage and replaced by its URL.
func (s *MealService) AttachImage(ctx context.Context, id, payload string) (*models.Meal, error) {
	url := payload
	if sanitize.IsInlinePayload(payload) {
		if s.images == nil {
			return nil, fmt.Errorf("%w: image uploads are not configured", common.ErrInvalidInput)
		}
		u, err := s.images.UploadInline(ctx, "meals/"+id, payload)
		if err != nil {
			return nil, fmt.Errorf("upload meal image: %w", err)
		}
		url = u
	} else if sanitize.ImageRef(payload) == nil {
		return nil, fmt.Errorf("%w: image reference is empty", common.ErrInvalidInput)
	}

	return s.update(ctx, id, []dbx.Assignment{dbx.Set("image_url", url)})
}

// ImageUploadURL prepares a direct upload of the image of meal id. The
// caller PUTs the image to the returned URL and then stores PublicURL with
// AttachImage.
func (s *MealService) ImageUploadURL(ctx context.Context, id string) (*images.Upload, error) {
	if s.images == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", common.ErrInvalidInput)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	up, err := s.images.PresignedPutURL(ctx, "meals/"+id)
	if err != nil {
		return nil, fmt.Errorf("presign meal image: %w", err)
	}
	return up, nil
}

// Recognize asks the inference service for a nutrition estimate.
func (s *MealService) Recognize(ctx context.Context, ev inference.Evidence) (*inference.Estimate, error) {
	if s.estimator == nil {
		return nil, fmt.Errorf("%w: inference is not configured", common.ErrInvalidInput)
	}
	est, err := s.estimator.Estimate(ctx, ev)
	if err != nil {
		s.logger.Warn(ctx, "food recognition failed", "error", err)
		return nil, err
	}
	s.logger.Debug(ctx, "food recognized", "name", est.Name, "confidence", est.Confidence)
	return est, nil
}

// InputFromEstimate prefills a MealInput for userID from an estimate.
func InputFromEstimate(userID, mealType string, est *inference.Estimate) MealInput {
	return MealInput{
		UserID:   userID,
		Name:     est.Name,
		MealType: mealType,
		Calories: est.Calories,
		Protein:  &est.Protein,
		Carbs:    &est.Carbs,
		Fat:      &est.Fat,
		Sugar:    &est.Sugar,
	}
}
