package records

import (
	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/sanitize"
)

var profileReadTable = []readColumn[models.Profile]{
	{column: "id", required: true, assign: func(p *models.Profile, v any) error {
		return requiredText(func(s string) { p.ID = s })(v)
	}},
	{column: "email", required: true, assign: func(p *models.Profile, v any) error {
		return requiredText(func(s string) { p.Email = s })(v)
	}},
	{column: "name", required: true, assign: func(p *models.Profile, v any) error {
		return requiredText(func(s string) { p.Name = s })(v)
	}},
	{column: "gender", assign: func(p *models.Profile, v any) (err error) {
		p.Gender, err = toOptionalString(v)
		return err
	}},
	{column: "date_of_birth", assign: func(p *models.Profile, v any) error {
		d, ok, err := toDate(v)
		if ok {
			p.DateOfBirth = &d
		}
		return err
	}},
	{column: "height", assign: func(p *models.Profile, v any) (err error) {
		p.Height, err = toPositiveInt(v)
		return err
	}},
	{column: "weight", assign: func(p *models.Profile, v any) (err error) {
		p.Weight, err = toPositiveFloat(v)
		return err
	}},
	{column: "goal", assign: func(p *models.Profile, v any) (err error) {
		p.Goal, err = toOptionalString(v)
		return err
	}},
	{column: "photo_url", assign: func(p *models.Profile, v any) (err error) {
		p.PhotoURL, err = toImageRef(v)
		return err
	}},
	{column: "daily_calories", assign: func(p *models.Profile, v any) (err error) {
		p.DailyCalories, err = toPositiveInt(v)
		return err
	}},
	{column: "daily_protein", assign: func(p *models.Profile, v any) (err error) {
		p.DailyProtein, err = toPositiveInt(v)
		return err
	}},
	{column: "daily_carbs", assign: func(p *models.Profile, v any) (err error) {
		p.DailyCarbs, err = toPositiveInt(v)
		return err
	}},
	{column: "daily_sugar", assign: func(p *models.Profile, v any) (err error) {
		p.DailySugar, err = toPositiveInt(v)
		return err
	}},
	{column: "created_at", assign: func(p *models.Profile, v any) (err error) {
		p.CreatedAt, err = toTimestamp(v)
		return err
	}},
	{column: "updated_at", assign: func(p *models.Profile, v any) (err error) {
		p.UpdatedAt, err = toTimestamp(v)
		return err
	}},
}

// ProfileColumns is the column list every profile read selects.
const ProfileColumns = `id, email, name, gender, date_of_birth, height, weight, goal, photo_url,
	daily_calories, daily_protein, daily_carbs, daily_sugar, created_at, updated_at`

// PreviousWeightColumn carries the weight stored before a profile write in
// the row the write returns. MapProfile ignores it.
const PreviousWeightColumn = "previous_weight"

// PreviousWeight returns the weight the profile held before the write that
// produced row, or nil when there was none.
func PreviousWeight(row models.RawRow) (*float64, error) {
	w, err := toPositiveFloat(row[PreviousWeightColumn])
	if err != nil {
		return nil, &ValidationError{Entity: EntityProfile, Column: PreviousWeightColumn, Row: row, Err: err}
	}
	return w, nil
}

// MapProfile maps a users row to a Profile.
func MapProfile(row models.RawRow) (*models.Profile, error) {
	return mapRow(EntityProfile, row, profileReadTable)
}

// ProfileWriteTable lists the columns a profile write binds, in statement
// order, with the merge policy applied on upsert conflict. Required fields
// and the avatar slot are overwritten; every optional stat is kept when the
// incoming value is absent.
var ProfileWriteTable = []WriteColumn[models.ProfileWrite]{
	{Name: "id", Policy: Key, Value: func(p *models.ProfileWrite) any { return p.ID }},
	{Name: "email", Policy: Overwrite, Value: func(p *models.ProfileWrite) any { return p.Email }},
	{Name: "name", Policy: Overwrite, Value: func(p *models.ProfileWrite) any { return p.Name }},
	{Name: "photo_url", Policy: Overwrite, Value: func(p *models.ProfileWrite) any { return ptrValue(p.PhotoURL) }},
	{Name: "gender", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.Gender) }},
	{Name: "date_of_birth", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.DateOfBirth) }},
	{Name: "height", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.Height) }},
	{Name: "weight", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.Weight) }},
	{Name: "goal", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.Goal) }},
	{Name: "daily_calories", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.DailyCalories) }},
	{Name: "daily_protein", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.DailyProtein) }},
	{Name: "daily_carbs", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.DailyCarbs) }},
	{Name: "daily_sugar", Policy: KeepIfAbsent, Value: func(p *models.ProfileWrite) any { return ptrValue(p.DailySugar) }},
}

// ProfileWriteColumns returns the column names of ProfileWriteTable.
func ProfileWriteColumns() []string {
	return columnNames(ProfileWriteTable)
}

// ProfileWriteArgs returns the statement arguments for p, aligned with
// ProfileWriteColumns.
func ProfileWriteArgs(p *models.ProfileWrite) []any {
	return columnArgs(ProfileWriteTable, p)
}

// ProfileUpdateAssignments returns the SET pairs of a targeted partial
// update: only the fields p actually carries.
func ProfileUpdateAssignments(p *models.ProfileWrite) []dbx.Assignment {
	return assignments(ProfileWriteTable, p)
}

func toImageRef(v any) (*string, error) {
	s, err := toOptionalString(v)
	if err != nil || s == nil || sanitize.IsInlinePayload(*s) {
		return nil, err
	}
	return s, nil
}
