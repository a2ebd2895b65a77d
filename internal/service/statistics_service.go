package service

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatisticsService computes the superadmin dashboard: request volumes and
// collected fees across all barangays, bounded by a time range.
type StatisticsService interface {
	GetStatistics(ctx context.Context, actor Actor, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

func (s *statisticsService) GetStatistics(ctx context.Context, actor Actor, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	if actor.Role != model.RoleSuperadmin {
		return model.StatisticsResponse{}, ErrNotAuthorized
	}

	response := model.StatisticsResponse{
		CountsByStatus:     map[string]int64{},
		CountsByType:       map[string]int64{},
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}

	inRange := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.DocumentRequest{}).
			Where("request_date >= ? AND request_date <= ?", startDate, endDate)
	}

	if err := inRange().Count(&response.TotalRequests).Error; err != nil {
		return response, err
	}

	// Counts by lifecycle status
	var statusRows []struct {
		Status string
		Total  int64
	}
	if err := inRange().
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return response, err
	}
	for _, row := range statusRows {
		response.CountsByStatus[row.Status] = row.Total
	}

	// Counts by certificate type
	var typeRows []struct {
		CertificateType string
		Total           int64
	}
	if err := inRange().
		Select("certificate_type, COUNT(*) as total").
		Group("certificate_type").
		Scan(&typeRows).Error; err != nil {
		return response, err
	}
	for _, row := range typeRows {
		response.CountsByType[row.CertificateType] = row.Total
	}

	// Fees are only collected once a request is Accepted
	var fees struct {
		Value float64
	}
	if err := inRange().
		Select("COALESCE(SUM(fee), 0) as value").
		Where("status = ?", model.StatusAccepted).
		Scan(&fees).Error; err != nil {
		return response, err
	}
	response.FeesCollected = decimal.NewFromFloat(fees.Value).Round(2)

	// Per-barangay volumes, highest first
	var perBarangay []struct {
		BarangayID   string
		BarangayName string
		Total        int64
		Accepted     int64
		Declined     int64
		Fees         float64
	}
	if err := s.db.WithContext(ctx).Table("document_requests").
		Select(`barangays.id as barangay_id,
			barangays.name as barangay_name,
			COUNT(*) as total,
			SUM(CASE WHEN document_requests.status = ? THEN 1 ELSE 0 END) as accepted,
			SUM(CASE WHEN document_requests.status = ? THEN 1 ELSE 0 END) as declined,
			COALESCE(SUM(CASE WHEN document_requests.status = ? THEN document_requests.fee ELSE 0 END), 0) as fees`,
			model.StatusAccepted, model.StatusDeclined, model.StatusAccepted).
		Joins("JOIN barangays ON barangays.id = document_requests.barangay_id").
		Where("document_requests.request_date >= ? AND document_requests.request_date <= ?", startDate, endDate).
		Where("document_requests.deleted_at IS NULL").
		Group("barangays.id, barangays.name").
		Order("total DESC").
		Scan(&perBarangay).Error; err != nil {
		return response, err
	}
	for _, row := range perBarangay {
		response.PerBarangay = append(response.PerBarangay, model.BarangayRanking{
			BarangayID:   row.BarangayID,
			BarangayName: row.BarangayName,
			Total:        row.Total,
			Accepted:     row.Accepted,
			Declined:     row.Declined,
			Fees:         decimal.NewFromFloat(row.Fees).Round(2),
		})
	}

	// Monthly trend, bucketed in Go to stay dialect-neutral
	var requestDates []time.Time
	if err := inRange().
		Order("request_date ASC").
		Pluck("request_date", &requestDates).Error; err != nil {
		return response, err
	}
	buckets := map[string]int64{}
	var order []string
	for _, d := range requestDates {
		key := d.UTC().Format("2006-01")
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key]++
	}
	for _, key := range order {
		response.MonthlyTrend = append(response.MonthlyTrend, model.MonthlyCount{Month: key, Total: buckets[key]})
	}

	return response, nil
}
