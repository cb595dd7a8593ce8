// internal/domain/analytics/series.go
package analytics

import (
	"sort"
	"time"
)

// RevenueBucket is one day of revenue, Date formatted as 2006-01-02
type RevenueBucket struct {
	Date       string `json:"date"`
	Revenue    int64  `json:"revenue"`
	OrderCount int64  `json:"order_count"`
}

// SortBuckets orders buckets chronologically by date. The scan order of
// aggregation rows is never trusted; every consumer gets a sorted
// series.
func SortBuckets(buckets []RevenueBucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
}

// FillDays expands a scanned series to one bucket per calendar day from
// from through to inclusive, inserting zero buckets for days without
// orders. The result is sorted oldest first, so trailing windows always
// cover calendar days rather than non-empty days.
func FillDays(buckets []RevenueBucket, from, to time.Time) []RevenueBucket {
	byDate := make(map[string]RevenueBucket, len(buckets))
	for _, b := range buckets {
		byDate[b.Date] = b
	}

	filled := make([]RevenueBucket, 0, len(byDate))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		if b, ok := byDate[date]; ok {
			filled = append(filled, b)
			continue
		}
		filled = append(filled, RevenueBucket{Date: date})
	}
	return filled
}

// LastN returns the trailing n buckets of a chronologically sorted
// series
func LastN(buckets []RevenueBucket, n int) []RevenueBucket {
	if n <= 0 {
		return []RevenueBucket{}
	}
	if len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

// SumRevenue folds a bucket slice into a revenue total
func SumRevenue(buckets []RevenueBucket) int64 {
	var total int64
	for _, b := range buckets {
		total += b.Revenue
	}
	return total
}

// WeekOverWeek compares the trailing 7 days of a sorted series against
// the 7 days before them. Growth is a percentage; when the previous
// week had no revenue the growth is 0 and Comparable is false.
type WeekComparison struct {
	CurrentWeek  int64   `json:"current_week"`
	PreviousWeek int64   `json:"previous_week"`
	GrowthPct    float64 `json:"growth_pct"`
	Comparable   bool    `json:"comparable"`
}

// WeekOverWeek derives the week comparison from a bucket series. The
// series is sorted here as well so callers cannot feed an unsorted scan
// into the window math.
func WeekOverWeek(buckets []RevenueBucket) WeekComparison {
	sorted := make([]RevenueBucket, len(buckets))
	copy(sorted, buckets)
	SortBuckets(sorted)

	current := SumRevenue(LastN(sorted, 7))

	var previous int64
	if len(sorted) > 7 {
		prevWindow := sorted[:len(sorted)-7]
		previous = SumRevenue(LastN(prevWindow, 7))
	}

	cmp := WeekComparison{
		CurrentWeek:  current,
		PreviousWeek: previous,
	}
	if previous > 0 {
		cmp.GrowthPct = float64(current-previous) / float64(previous) * 100
		cmp.Comparable = true
	}
	return cmp
}
