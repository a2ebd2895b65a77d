package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsResponse aggregates request volumes across barangays for the
// superadmin dashboard, bounded by a time range.
type StatisticsResponse struct {
	TotalRequests      int64             `json:"total_requests"`
	CountsByStatus     map[string]int64  `json:"counts_by_status"`
	CountsByType       map[string]int64  `json:"counts_by_type"`
	FeesCollected      decimal.Decimal   `json:"fees_collected"` // sum of fees on Accepted requests
	PerBarangay        []BarangayRanking `json:"per_barangay"`
	MonthlyTrend       []MonthlyCount    `json:"monthly_trend"`
	TimeRangeStartDate time.Time         `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time         `json:"time_range_end_date"`
}

// BarangayRanking represents one barangay's request volume within the range
type BarangayRanking struct {
	BarangayID   string          `json:"barangay_id"`
	BarangayName string          `json:"barangay_name"`
	Total        int64           `json:"total"`
	Accepted     int64           `json:"accepted"`
	Declined     int64           `json:"declined"`
	Fees         decimal.Decimal `json:"fees"`
}

// MonthlyCount is one month's bucket in the trend series
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Total int64  `json:"total"`
}
