package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorent/internal/apperrors"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse(DateLayout, value)
	require.NoError(t, err)
	return date
}

func TestComputeDays(t *testing.T) {
	testCases := []struct {
		start        string
		end          string
		expectedDays int
	}{
		{"2024-01-01", "2024-01-03", 2},
		{"2024-01-01", "2024-01-02", 1},
		{"2024-02-27", "2024-03-02", 4},
		{"2024-01-01", "2024-12-31", 365},
	}
	for _, tt := range testCases {
		days := ComputeDays(mustDate(t, tt.start), mustDate(t, tt.end))
		assert.Equal(t, tt.expectedDays, days, "%s -> %s", tt.start, tt.end)
	}
}

func TestComputeDaysRoundsPartialDaysUp(t *testing.T) {
	start := mustDate(t, "2024-01-01")
	end := start.Add(25 * time.Hour)
	assert.Equal(t, 2, ComputeDays(start, end))
}

func TestComputeTotal(t *testing.T) {
	testCases := []struct {
		dailyRate     float64
		days          int
		expectedTotal float64
	}{
		{50.00, 2, 100.00},
		{99.99, 1, 99.99},
		{10.555, 3, 31.67},
		{0.01, 1, 0.01},
	}
	for _, tt := range testCases {
		total, err := ComputeTotal(tt.dailyRate, tt.days)
		require.NoError(t, err)
		assert.Equal(t, tt.expectedTotal, total)
	}
}

func TestComputeTotalRejectsNonPositive(t *testing.T) {
	testCases := []struct {
		dailyRate float64
		days      int
	}{
		{50.00, 0},
		{50.00, -1},
		{0, 3},
	}
	for _, tt := range testCases {
		_, err := ComputeTotal(tt.dailyRate, tt.days)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidRange, apperrors.KindOf(err))
	}
}
