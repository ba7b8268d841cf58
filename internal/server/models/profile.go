package models

// Profile is the canonical user profile. Optional fields are either a
// semantically valid value or nil; never an empty string or a zero stat.
type Profile struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Gender        *string  `json:"gender,omitempty"`
	DateOfBirth   *string  `json:"dateOfBirth,omitempty"`
	Height        *int     `json:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Goal          *string  `json:"goal,omitempty"`
	PhotoURL      *string  `json:"photoUrl,omitempty"`
	DailyCalories *int     `json:"dailyCalories,omitempty"`
	DailyProtein  *int     `json:"dailyProtein,omitempty"`
	DailyCarbs    *int     `json:"dailyCarbs,omitempty"`
	DailySugar    *int     `json:"dailySugar,omitempty"`
	CreatedAt     *string  `json:"createdAt,omitempty"`
	UpdatedAt     *string  `json:"updatedAt,omitempty"`
}

// ProfileWrite is a sanitized profile write: required fields plus every
// optional field either present (non-nil) or absent (nil).
type ProfileWrite struct {
	ID            string
	Email         string
	Name          string
	Gender        *string
	DateOfBirth   *string
	Height        *int
	Weight        *float64
	Goal          *string
	PhotoURL      *string
	DailyCalories *int
	DailyProtein  *int
	DailyCarbs    *int
	DailySugar    *int
}
