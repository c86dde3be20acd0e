package services

import "math"

// PercentStatus reports whether a section's work-type percentages add up
// to a full 100%. Advisory only: an incomplete section is flagged in the
// board response but never blocks a commit or delete.
type PercentStatus struct {
	Sum        float64 `json:"sum"`
	IsComplete bool    `json:"is_complete"`
}

// CheckPercentages sums the percentage across all rows, placeholders
// included (they contribute 0). The sum is rounded to two decimal places
// before the comparison so splits like 33.33+33.33+33.34 report complete
// instead of failing on floating-point residue.
func CheckPercentages(rows []WorkTypeRow) PercentStatus {
	var sum float64
	for _, row := range rows {
		sum += row.Percentage()
	}
	sum = math.Round(sum*100) / 100
	return PercentStatus{Sum: sum, IsComplete: sum == 100}
}
