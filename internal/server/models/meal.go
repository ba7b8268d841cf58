package models

// Meal categories.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
	MealTypeOther     = "other"
)

// MealTypes is the closed set of accepted meal categories.
var MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeOther}

// Meal is one logged meal. Calories and macros are always numeric; a value
// the storage holds as NULL reads back as 0.
type Meal struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Name      string  `json:"name"`
	MealType  string  `json:"mealType"`
	MealTime  string  `json:"mealTime"`
	MealDate  string  `json:"mealDate"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	Sugar     float64 `json:"sugar"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt *string `json:"createdAt,omitempty"`
}

// MealPatch carries the fields of a partial meal update. A nil field is not
// part of the update; a non-nil field fully replaces the stored value.
type MealPatch struct {
	Name     *string
	MealType *string
	MealTime *string
	MealDate *string
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
	Sugar    *float64
	ImageURL *string
	Notes    *string
}
