package sanitize

import (
	"math"
	"testing"

	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestField_UsesCategoryTable(t *testing.T) {
	tests := []struct {
		field  string
		in     any
		want   any
		wantOK bool
	}{
		{field: "height", in: "", wantOK: false},
		{field: "height", in: 180.2, want: 180, wantOK: true},
		{field: "weight", in: nil, wantOK: false},
		{field: "weight", in: math.NaN(), wantOK: false},
		{field: "weight", in: 70.3, want: 70.3, wantOK: true},
		{field: "dailySugar", in: -1, wantOK: false},
		{field: "dailyProtein", in: "120", want: 120, wantOK: true},
		{field: "gender", in: "  ", wantOK: false},
		{field: "goal", in: "maintain", want: "maintain", wantOK: true},
		{field: "photoUrl", in: "data:image/png;base64,AAAA", wantOK: false},
		{field: "email", in: "a@b.co", wantOK: false},
		{field: "unknown", in: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := Field(tt.field, tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileInputFromMap_MissingKeysStayNil(t *testing.T) {
	in := ProfileInputFromMap("u1", map[string]any{
		"email":    "ann@example.com",
		"name":     "Ann",
		"height":   180.0,
		"weight":   "",
		"unknown":  "ignored",
		"photoUrl": nil,
	})

	assert.Equal(t, "u1", in.ID)
	assert.Equal(t, "ann@example.com", in.Email)
	assert.Equal(t, "Ann", in.Name)
	assert.Equal(t, 180.0, in.Height)
	assert.Equal(t, "", in.Weight)
	assert.Nil(t, in.PhotoURL)
	assert.Nil(t, in.Goal)
	assert.Nil(t, in.DailyCalories)
}

func TestProfile_AppliesEveryCategory(t *testing.T) {
	got := Profile(ProfileInput{
		ID:            " u1 ",
		Email:         " ann@example.com",
		Name:          "Ann ",
		Gender:        "",
		DateOfBirth:   "1990-04-02",
		Goal:          nil,
		PhotoURL:      "data:image/png;base64,AAAA",
		Height:        "180",
		Weight:        "",
		DailyCalories: 2000.4,
		DailyProtein:  0,
		DailyCarbs:    "abc",
		DailySugar:    math.NaN(),
	})

	want := models.ProfileWrite{
		ID:            "u1",
		Email:         "ann@example.com",
		Name:          "Ann",
		DateOfBirth:   ptr("1990-04-02"),
		Height:        ptr(180),
		DailyCalories: ptr(2000),
	}
	assert.Equal(t, want, got)
}

func TestProfile_EveryOptionalFieldHasACategory(t *testing.T) {
	assert.Len(t, profileSlots, len(ProfileFieldCategories))
	for name := range profileSlots {
		assert.Contains(t, ProfileFieldCategories, name)
	}
}

func TestProfile_FollowsCategoryTable(t *testing.T) {
	orig := ProfileFieldCategories["goal"]
	t.Cleanup(func() { ProfileFieldCategories["goal"] = orig })

	ProfileFieldCategories["goal"] = CategoryImageRef
	got := Profile(ProfileInput{ID: "u1", Goal: "data:text/plain;base64,AAAA"})
	assert.Nil(t, got.Goal)

	ProfileFieldCategories["goal"] = CategoryString
	got = Profile(ProfileInput{ID: "u1", Goal: "data:text/plain;base64,AAAA"})
	assert.Equal(t, ptr("data:text/plain;base64,AAAA"), got.Goal)
}

func TestProfile_OutOfRangeStatsAreAbsent(t *testing.T) {
	got := Profile(ProfileInput{ID: "u1", Height: "3e10", Weight: 12000.0, DailyCalories: "0x1p4"})
	assert.Nil(t, got.Height)
	assert.Nil(t, got.Weight)
	assert.Nil(t, got.DailyCalories)
}
