// internal/domain/analytics/series_test.go
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortBuckets_OrdersChronologically(t *testing.T) {
	buckets := []RevenueBucket{
		{Date: "2025-01-15", Revenue: 300},
		{Date: "2025-01-13", Revenue: 100},
		{Date: "2025-01-14", Revenue: 200},
	}

	SortBuckets(buckets)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2025-01-13", buckets[0].Date)
	assert.Equal(t, "2025-01-14", buckets[1].Date)
	assert.Equal(t, "2025-01-15", buckets[2].Date)
}

func TestLastN(t *testing.T) {
	buckets := []RevenueBucket{
		{Date: "2025-01-01"}, {Date: "2025-01-02"}, {Date: "2025-01-03"},
	}

	assert.Len(t, LastN(buckets, 2), 2)
	assert.Equal(t, "2025-01-02", LastN(buckets, 2)[0].Date)
	assert.Len(t, LastN(buckets, 5), 3)
	assert.Empty(t, LastN(buckets, 0))
}

func TestSumRevenue(t *testing.T) {
	buckets := []RevenueBucket{
		{Revenue: 100}, {Revenue: 250}, {Revenue: 0},
	}
	assert.Equal(t, int64(350), SumRevenue(buckets))
	assert.Equal(t, int64(0), SumRevenue(nil))
}

func TestFillDays_InsertsZeroBucketsForEmptyDays(t *testing.T) {
	scanned := []RevenueBucket{
		{Date: "2025-01-05", Revenue: 500, OrderCount: 2},
		{Date: "2025-01-02", Revenue: 200, OrderCount: 1},
	}

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	filled := FillDays(scanned, from, to)

	require.Len(t, filled, 6)
	assert.Equal(t, "2025-01-01", filled[0].Date)
	assert.Equal(t, int64(0), filled[0].Revenue)
	assert.Equal(t, int64(200), filled[1].Revenue)
	assert.Equal(t, int64(0), filled[2].Revenue)
	assert.Equal(t, int64(0), filled[3].Revenue)
	assert.Equal(t, int64(500), filled[4].Revenue)
	assert.Equal(t, int64(2), filled[4].OrderCount)
	assert.Equal(t, "2025-01-06", filled[5].Date)
	assert.Equal(t, int64(0), filled[5].Revenue)
}

func TestFillDays_SparseMonthWindowsCalendarWeeks(t *testing.T) {
	// Three order days scattered over a month. Without the fill the
	// trailing 7-bucket window would span the whole month; with it the
	// current week only counts revenue inside the last 7 calendar days.
	scanned := []RevenueBucket{
		{Date: "2025-01-03", Revenue: 1000},
		{Date: "2025-01-17", Revenue: 2000},
		{Date: "2025-01-29", Revenue: 4000},
	}

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)

	filled := FillDays(scanned, from, to)
	require.Len(t, filled, 30)

	cmp := WeekOverWeek(filled)
	assert.Equal(t, int64(4000), cmp.CurrentWeek)
	assert.Equal(t, int64(2000), cmp.PreviousWeek)
	assert.InDelta(t, 100.0, cmp.GrowthPct, 0.001)
	assert.True(t, cmp.Comparable)
}

func daysOf(dates []string, revenue int64) []RevenueBucket {
	buckets := make([]RevenueBucket, len(dates))
	for i, d := range dates {
		buckets[i] = RevenueBucket{Date: d, Revenue: revenue}
	}
	return buckets
}

func TestWeekOverWeek_Growth(t *testing.T) {
	var buckets []RevenueBucket
	buckets = append(buckets, daysOf([]string{
		"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04",
		"2025-01-05", "2025-01-06", "2025-01-07",
	}, 100)...)
	buckets = append(buckets, daysOf([]string{
		"2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11",
		"2025-01-12", "2025-01-13", "2025-01-14",
	}, 200)...)

	cmp := WeekOverWeek(buckets)

	assert.Equal(t, int64(1400), cmp.CurrentWeek)
	assert.Equal(t, int64(700), cmp.PreviousWeek)
	assert.InDelta(t, 100.0, cmp.GrowthPct, 0.001)
	assert.True(t, cmp.Comparable)
}

func TestWeekOverWeek_UnsortedInputGivesSameResult(t *testing.T) {
	sorted := append(
		daysOf([]string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05", "2025-01-06", "2025-01-07"}, 100),
		daysOf([]string{"2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11", "2025-01-12", "2025-01-13", "2025-01-14"}, 200)...,
	)

	shuffled := []RevenueBucket{
		sorted[9], sorted[3], sorted[13], sorted[0], sorted[7], sorted[11],
		sorted[5], sorted[1], sorted[12], sorted[8], sorted[4], sorted[10],
		sorted[2], sorted[6],
	}

	assert.Equal(t, WeekOverWeek(sorted), WeekOverWeek(shuffled))
}

func TestWeekOverWeek_NoPreviousWeek(t *testing.T) {
	buckets := daysOf([]string{"2025-01-10", "2025-01-11", "2025-01-12"}, 500)

	cmp := WeekOverWeek(buckets)

	assert.Equal(t, int64(1500), cmp.CurrentWeek)
	assert.Equal(t, int64(0), cmp.PreviousWeek)
	assert.Equal(t, 0.0, cmp.GrowthPct)
	assert.False(t, cmp.Comparable)
}

func TestWeekOverWeek_DoesNotMutateInput(t *testing.T) {
	buckets := []RevenueBucket{
		{Date: "2025-01-15", Revenue: 300},
		{Date: "2025-01-13", Revenue: 100},
	}

	WeekOverWeek(buckets)

	assert.Equal(t, "2025-01-15", buckets[0].Date)
}
