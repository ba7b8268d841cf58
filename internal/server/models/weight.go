package models

// WeightEntry is one point of a profile's weight history.
type WeightEntry struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
}
