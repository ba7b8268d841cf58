package records

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/sanitize"
)

// macro assigns a numeric column that reads as 0 when NULL.
func macro(set func(*models.Meal, float64)) func(*models.Meal, any) error {
	return func(m *models.Meal, v any) error {
		f, _, err := toFloat(v)
		if err != nil {
			return err
		}
		set(m, f)
		return nil
	}
}

var mealReadTable = []readColumn[models.Meal]{
	{column: "id", required: true, assign: func(m *models.Meal, v any) error {
		return requiredText(func(s string) { m.ID = s })(v)
	}},
	{column: "user_id", required: true, assign: func(m *models.Meal, v any) error {
		return requiredText(func(s string) { m.UserID = s })(v)
	}},
	{column: "name", required: true, assign: func(m *models.Meal, v any) error {
		return requiredText(func(s string) { m.Name = s })(v)
	}},
	{column: "meal_type", assign: func(m *models.Meal, v any) error {
		s, err := toOptionalString(v)
		if err != nil {
			return err
		}
		if s == nil {
			m.MealType = models.MealTypeOther
			return nil
		}
		t := strings.ToLower(strings.TrimSpace(*s))
		if !slices.Contains(models.MealTypes, t) {
			return fmt.Errorf("%w: %q", errBadMealType, *s)
		}
		m.MealType = t
		return nil
	}},
	{column: "meal_time", required: true, assign: func(m *models.Meal, v any) error {
		s, ok, err := toTimeOfDay(v)
		if err != nil {
			return err
		}
		if !ok {
			return errMissing
		}
		m.MealTime = s
		return nil
	}},
	{column: "meal_date", required: true, assign: func(m *models.Meal, v any) error {
		d, ok, err := toDate(v)
		if err != nil {
			return err
		}
		if !ok {
			return errMissing
		}
		m.MealDate = d
		return nil
	}},
	{column: "calories", assign: macro(func(m *models.Meal, f float64) { m.Calories = f })},
	{column: "protein_g", assign: macro(func(m *models.Meal, f float64) { m.Protein = f })},
	{column: "carbs_g", assign: macro(func(m *models.Meal, f float64) { m.Carbs = f })},
	{column: "fat_g", assign: macro(func(m *models.Meal, f float64) { m.Fat = f })},
	{column: "sugar_g", assign: macro(func(m *models.Meal, f float64) { m.Sugar = f })},
	{column: "image_url", assign: func(m *models.Meal, v any) (err error) {
		m.ImageURL, err = toImageRef(v)
		return err
	}},
	{column: "notes", assign: func(m *models.Meal, v any) (err error) {
		m.Notes, err = toOptionalString(v)
		return err
	}},
	{column: "created_at", assign: func(m *models.Meal, v any) (err error) {
		m.CreatedAt, err = toTimestamp(v)
		return err
	}},
}

// MealColumns is the column list every meal read selects.
const MealColumns = `id, user_id, name, meal_type, meal_time, meal_date, calories,
	protein_g, carbs_g, fat_g, sugar_g, image_url, notes, created_at`

// MapMeal maps a meals row to a Meal.
func MapMeal(row models.RawRow) (*models.Meal, error) {
	return mapRow(EntityMeal, row, mealReadTable)
}

// MapMeals maps every row, failing on the first invalid one.
func MapMeals(rows []models.RawRow) ([]*models.Meal, error) {
	return mapRows(rows, MapMeal)
}

// MealType returns t lowercased when it names a known category and "other"
// otherwise.
func MealType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if slices.Contains(models.MealTypes, t) {
		return t
	}
	return models.MealTypeOther
}

// imageArg drops inline payloads so they never reach the relational store.
func imageArg(p *string) any {
	if p == nil || strings.TrimSpace(*p) == "" || sanitize.IsInlinePayload(*p) {
		return nil
	}
	return *p
}

var mealWriteTable = []WriteColumn[models.Meal]{
	{Name: "id", Policy: Key, Value: func(m *models.Meal) any { return m.ID }},
	{Name: "user_id", Value: func(m *models.Meal) any { return m.UserID }},
	{Name: "name", Value: func(m *models.Meal) any { return m.Name }},
	{Name: "meal_type", Value: func(m *models.Meal) any { return MealType(m.MealType) }},
	{Name: "meal_time", Value: func(m *models.Meal) any { return m.MealTime }},
	{Name: "meal_date", Value: func(m *models.Meal) any { return m.MealDate }},
	{Name: "calories", Value: func(m *models.Meal) any { return m.Calories }},
	{Name: "protein_g", Value: func(m *models.Meal) any { return m.Protein }},
	{Name: "carbs_g", Value: func(m *models.Meal) any { return m.Carbs }},
	{Name: "fat_g", Value: func(m *models.Meal) any { return m.Fat }},
	{Name: "sugar_g", Value: func(m *models.Meal) any { return m.Sugar }},
	{Name: "image_url", Value: func(m *models.Meal) any { return imageArg(m.ImageURL) }},
	{Name: "notes", Value: func(m *models.Meal) any { return ptrValue(m.Notes) }},
}

// MealWriteColumns returns the columns of a meal insert, in statement order.
func MealWriteColumns() []string {
	return columnNames(mealWriteTable)
}

// MealWriteArgs returns the insert arguments for m, aligned with
// MealWriteColumns. The category is normalized and an inline image becomes NULL.
func MealWriteArgs(m *models.Meal) []any {
	return columnArgs(mealWriteTable, m)
}

// MealPatchAssignments returns the SET pairs for the fields p provides.
// A provided image that is an inline payload clears the stored reference.
func MealPatchAssignments(p models.MealPatch) []dbx.Assignment {
	var mealType any
	if p.MealType != nil {
		mealType = MealType(*p.MealType)
	}
	return []dbx.Assignment{
		dbx.SetIf("name", ptrValue(p.Name), p.Name != nil),
		dbx.SetIf("meal_type", mealType, p.MealType != nil),
		dbx.SetIf("meal_time", ptrValue(p.MealTime), p.MealTime != nil),
		dbx.SetIf("meal_date", ptrValue(p.MealDate), p.MealDate != nil),
		dbx.SetIf("calories", ptrValue(p.Calories), p.Calories != nil),
		dbx.SetIf("protein_g", ptrValue(p.Protein), p.Protein != nil),
		dbx.SetIf("carbs_g", ptrValue(p.Carbs), p.Carbs != nil),
		dbx.SetIf("fat_g", ptrValue(p.Fat), p.Fat != nil),
		dbx.SetIf("sugar_g", ptrValue(p.Sugar), p.Sugar != nil),
		dbx.SetIf("image_url", imageArg(p.ImageURL), p.ImageURL != nil),
		dbx.SetIf("notes", ptrValue(p.Notes), p.Notes != nil),
	}
}
