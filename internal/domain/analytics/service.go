// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
)

// Service handles admin analytics aggregation.
// Revenue figures always exclude cancelled orders.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DashboardStats represents the admin dashboard summary
type DashboardStats struct {
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
	TotalRevenue  int64 `json:"total_revenue"`
	RevenueToday  int64 `json:"revenue_today"`
	AvgOrderValue int64 `json:"avg_order_value"`
	TotalProducts int64 `json:"total_products"`
	TotalUsers    int64 `json:"total_users"`

	OrdersByStatus []StatusCount `json:"orders_by_status"`
}

// StatusCount is the order count per status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Value  int64  `json:"value"`
}

// RevenueReport is the revenue-by-day series with the week-over-week
// comparison derived from it
type RevenueReport struct {
	Days       int             `json:"days"`
	Buckets    []RevenueBucket `json:"buckets"`
	Total      int64           `json:"total"`
	WeekOnWeek WeekComparison  `json:"week_on_week"`
}

// GetDashboardStats retrieves the admin dashboard summary
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	s.db.Raw("SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL").Scan(&stats.TotalOrders)
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE status = 'pending' AND deleted_at IS NULL").Scan(&stats.PendingOrders)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled' AND deleted_at IS NULL").Scan(&stats.TotalRevenue)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled' AND deleted_at IS NULL AND created_at >= ?", today).Scan(&stats.RevenueToday)

	var countedOrders int64
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE status != 'cancelled' AND deleted_at IS NULL").Scan(&countedOrders)
	if countedOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / countedOrders
	}

	s.db.Raw("SELECT COUNT(*) FROM products WHERE deleted_at IS NULL").Scan(&stats.TotalProducts)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE deleted_at IS NULL").Scan(&stats.TotalUsers)

	statusRows, err := s.db.Raw(`
		SELECT
			status,
			COUNT(*) as count,
			COALESCE(SUM(total_amount), 0) as value
		FROM orders
		WHERE deleted_at IS NULL
		GROUP BY status
		ORDER BY count DESC
	`).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders by status: %w", err)
	}
	defer statusRows.Close()

	for statusRows.Next() {
		var sc StatusCount
		if err := statusRows.Scan(&sc.Status, &sc.Count, &sc.Value); err != nil {
			continue
		}
		stats.OrdersByStatus = append(stats.OrdersByStatus, sc)
	}

	return stats, nil
}

// GetRevenueReport retrieves the revenue-by-day series over the last
// days days. Days without orders appear as zero buckets and the series
// is date-sorted before any windowing.
func (s *Service) GetRevenueReport(days int) (*RevenueReport, error) {
	if days <= 0 {
		days = 30
	}

	now := time.Now().UTC()
	startDate := now.AddDate(0, 0, -days)

	rows, err := s.db.Raw(`
		SELECT
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COALESCE(SUM(total_amount), 0) as revenue,
			COUNT(*) as order_count
		FROM orders
		WHERE created_at >= ? AND status != 'cancelled' AND deleted_at IS NULL
		GROUP BY DATE(created_at)
	`, startDate).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily revenue: %w", err)
	}
	defer rows.Close()

	var buckets []RevenueBucket
	for rows.Next() {
		var b RevenueBucket
		if err := rows.Scan(&b.Date, &b.Revenue, &b.OrderCount); err != nil {
			continue
		}
		buckets = append(buckets, b)
	}

	// The first day of the window is partial but still queried, so the
	// fill starts there rather than dropping its bucket
	buckets = FillDays(buckets, startDate, now)

	return &RevenueReport{
		Days:       days,
		Buckets:    buckets,
		Total:      SumRevenue(buckets),
		WeekOnWeek: WeekOverWeek(buckets),
	}, nil
}
