package models

// Totals is the sum of energy and macros over a set of meals.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Sugar    float64 `json:"sugar"`
}

// Add accumulates m into t.
func (t *Totals) Add(m *Meal) {
	t.Calories += m.Calories
	t.Protein += m.Protein
	t.Carbs += m.Carbs
	t.Fat += m.Fat
	t.Sugar += m.Sugar
}

// DayTotals are the totals of a single calendar date.
type DayTotals struct {
	Date string `json:"date"`
	Totals
	Meals int `json:"meals"`
}
