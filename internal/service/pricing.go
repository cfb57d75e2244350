package service

import (
	"math"
	"time"

	"autorent/internal/apperrors"
)

// DateLayout is the wire format for rental dates. Time of day is ignored.
const DateLayout = "2006-01-02"

// ComputeDays returns the number of billable days between two dates,
// rounding any partial day up. Callers must reject ranges where end is not
// strictly after start before invoking pricing.
func ComputeDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// ComputeTotal multiplies the daily rate by the day count and rounds to
// currency precision. A non-positive result is rejected even though ranges
// are validated upstream.
func ComputeTotal(dailyRate float64, days int) (float64, error) {
	total := math.Round(dailyRate*float64(days)*100) / 100
	if total <= 0 {
		return 0, apperrors.InvalidRange("total price must be positive")
	}
	return total, nil
}
