package records

import (
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

var weightReadTable = []readColumn[models.WeightEntry]{
	{column: "id", required: true, assign: func(w *models.WeightEntry, v any) error {
		return requiredText(func(s string) { w.ID = s })(v)
	}},
	{column: "user_id", required: true, assign: func(w *models.WeightEntry, v any) error {
		return requiredText(func(s string) { w.UserID = s })(v)
	}},
	{column: "weight", required: true, assign: func(w *models.WeightEntry, v any) error {
		f, ok, err := toFloat(v)
		if err != nil {
			return err
		}
		if !ok {
			return errMissing
		}
		w.Weight = f
		return nil
	}},
	{column: "date", required: true, assign: func(w *models.WeightEntry, v any) error {
		d, ok, err := toDate(v)
		if err != nil {
			return err
		}
		if !ok {
			return errMissing
		}
		w.Date = d
		return nil
	}},
}

// WeightColumns is the column list every weight history read selects.
const WeightColumns = `id, user_id, weight, date`

// MapWeightEntry maps a weight_history row to a WeightEntry.
func MapWeightEntry(row models.RawRow) (*models.WeightEntry, error) {
	return mapRow(EntityWeight, row, weightReadTable)
}

// MapWeightEntries maps every row, failing on the first invalid one.
func MapWeightEntries(rows []models.RawRow) ([]*models.WeightEntry, error) {
	return mapRows(rows, MapWeightEntry)
}

var weightWriteTable = []WriteColumn[models.WeightEntry]{
	{Name: "id", Policy: Key, Value: func(w *models.WeightEntry) any { return w.ID }},
	{Name: "user_id", Value: func(w *models.WeightEntry) any { return w.UserID }},
	{Name: "weight", Value: func(w *models.WeightEntry) any { return w.Weight }},
	{Name: "date", Value: func(w *models.WeightEntry) any { return w.Date }},
}

// WeightWriteColumns returns the columns of a weight history insert.
func WeightWriteColumns() []string {
	return columnNames(weightWriteTable)
}

// WeightWriteArgs returns the insert arguments for w.
func WeightWriteArgs(w *models.WeightEntry) []any {
	return columnArgs(weightWriteTable, w)
}
