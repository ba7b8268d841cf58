package sanitize

import (
	"strings"

	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

// ProfileInput is an untyped profile write as received from a caller.
// Optional fields hold whatever the request carried (nil when the key was
// missing, or a string, float64, json.Number, bool, ...).
type ProfileInput struct {
	ID    string
	Email string
	Name  string

	Gender      any
	DateOfBirth any
	Goal        any
	PhotoURL    any

	Height        any
	Weight        any
	DailyCalories any
	DailyProtein  any
	DailyCarbs    any
	DailySugar    any
}

// ProfileFieldCategories lists the rule applied to every optional profile
// field, keyed by its canonical (request) name.
var ProfileFieldCategories = map[string]Category{
	"gender":        CategoryString,
	"dateOfBirth":   CategoryString,
	"goal":          CategoryString,
	"photoUrl":      CategoryImageRef,
	"height":        CategoryInt,
	"weight":        CategoryDecimal,
	"dailyCalories": CategoryInt,
	"dailyProtein":  CategoryInt,
	"dailyCarbs":    CategoryInt,
	"dailySugar":    CategoryInt,
}

// Field sanitizes a single optional profile field by canonical name.
// Unknown fields are always absent.
func Field(name string, v any) (any, bool) {
	c, ok := ProfileFieldCategories[name]
	if !ok {
		return nil, false
	}
	return Apply(c, v)
}

var profileInputKeys = map[string]func(*ProfileInput, any){
	"email":         func(p *ProfileInput, v any) { p.Email = stringOrEmpty(v) },
	"name":          func(p *ProfileInput, v any) { p.Name = stringOrEmpty(v) },
	"gender":        func(p *ProfileInput, v any) { p.Gender = v },
	"dateOfBirth":   func(p *ProfileInput, v any) { p.DateOfBirth = v },
	"goal":          func(p *ProfileInput, v any) { p.Goal = v },
	"photoUrl":      func(p *ProfileInput, v any) { p.PhotoURL = v },
	"height":        func(p *ProfileInput, v any) { p.Height = v },
	"weight":        func(p *ProfileInput, v any) { p.Weight = v },
	"dailyCalories": func(p *ProfileInput, v any) { p.DailyCalories = v },
	"dailyProtein":  func(p *ProfileInput, v any) { p.DailyProtein = v },
	"dailyCarbs":    func(p *ProfileInput, v any) { p.DailyCarbs = v },
	"dailySugar":    func(p *ProfileInput, v any) { p.DailySugar = v },
}

// ProfileInputFromMap reads a decoded JSON object into a ProfileInput.
// Keys outside the known set are ignored; a missing key stays nil.
func ProfileInputFromMap(id string, body map[string]any) ProfileInput {
	in := ProfileInput{ID: id}
	for k, v := range body {
		if set, ok := profileInputKeys[k]; ok {
			set(&in, v)
		}
	}
	return in
}

// profileSlot moves one optional field from a ProfileInput into a
// ProfileWrite. The value handed to set is already sanitized by the field's
// category in ProfileFieldCategories.
type profileSlot struct {
	get func(*ProfileInput) any
	set func(*models.ProfileWrite, any)
}

var profileSlots = map[string]profileSlot{
	"gender":        {func(in *ProfileInput) any { return in.Gender }, func(p *models.ProfileWrite, v any) { p.Gender = asString(v) }},
	"dateOfBirth":   {func(in *ProfileInput) any { return in.DateOfBirth }, func(p *models.ProfileWrite, v any) { p.DateOfBirth = asString(v) }},
	"goal":          {func(in *ProfileInput) any { return in.Goal }, func(p *models.ProfileWrite, v any) { p.Goal = asString(v) }},
	"photoUrl":      {func(in *ProfileInput) any { return in.PhotoURL }, func(p *models.ProfileWrite, v any) { p.PhotoURL = asString(v) }},
	"height":        {func(in *ProfileInput) any { return in.Height }, func(p *models.ProfileWrite, v any) { p.Height = asInt(v) }},
	"weight":        {func(in *ProfileInput) any { return in.Weight }, func(p *models.ProfileWrite, v any) { p.Weight = asFloat(v) }},
	"dailyCalories": {func(in *ProfileInput) any { return in.DailyCalories }, func(p *models.ProfileWrite, v any) { p.DailyCalories = asInt(v) }},
	"dailyProtein":  {func(in *ProfileInput) any { return in.DailyProtein }, func(p *models.ProfileWrite, v any) { p.DailyProtein = asInt(v) }},
	"dailyCarbs":    {func(in *ProfileInput) any { return in.DailyCarbs }, func(p *models.ProfileWrite, v any) { p.DailyCarbs = asInt(v) }},
	"dailySugar":    {func(in *ProfileInput) any { return in.DailySugar }, func(p *models.ProfileWrite, v any) { p.DailySugar = asInt(v) }},
}

// Profile sanitizes every optional field of in through Field, so
// ProfileFieldCategories decides each field's rule. Required fields are
// trimmed but otherwise passed through; validating them is the caller's job.
func Profile(in ProfileInput) models.ProfileWrite {
	out := models.ProfileWrite{
		ID:    strings.TrimSpace(in.ID),
		Email: strings.TrimSpace(in.Email),
		Name:  strings.TrimSpace(in.Name),
	}
	for name, slot := range profileSlots {
		if v, ok := Field(name, slot.get(&in)); ok {
			slot.set(&out, v)
		}
	}
	return out
}

func asInt(v any) *int {
	if n, ok := v.(int); ok {
		return &n
	}
	return nil
}

func asFloat(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func asString(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func stringOrEmpty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
