package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRepository is the store adapter for document requests. Lists are
// filtered by barangay, a status set (the active view uses Pending and
// Processing together) and optionally certificate type.
type RequestRepository interface {
	Create(ctx context.Context, req *model.DocumentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error)
	FindByIDWithBarangay(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error)
	ListByStatuses(ctx context.Context, barangayID uuid.UUID, statuses []string, certificateType string, page, limit int) ([]model.DocumentRequest, int64, error)
	Update(ctx context.Context, req *model.DocumentRequest) error
	NextRequestNo(ctx context.Context, year int) (int, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.DocumentRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error) {
	var req model.DocumentRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDWithBarangay(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error) {
	var req model.DocumentRequest
	if err := GetDB(ctx, r.db).Preload("Barangay").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByStatuses(ctx context.Context, barangayID uuid.UUID, statuses []string, certificateType string, page, limit int) ([]model.DocumentRequest, int64, error) {
	var requests []model.DocumentRequest
	var total int64

	db := GetDB(ctx, r.db)
	base := func() *gorm.DB {
		q := db.Model(&model.DocumentRequest{}).
			Where("barangay_id = ?", barangayID).
			Where("status IN ?", statuses)
		if certificateType != "" {
			q = q.Where("certificate_type = ?", certificateType)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base().
		Order("request_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) Update(ctx context.Context, req *model.DocumentRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

// NextRequestNo returns max(request_no)+1 for the given year. Two concurrent
// creations can compute the same number; the unique (request_year,
// request_no) index rejects the second insert so no display ID is ever
// shared.
func (r *requestRepository) NextRequestNo(ctx context.Context, year int) (int, error) {
	var max int
	err := GetDB(ctx, r.db).Model(&model.DocumentRequest{}).
		Where("request_year = ?", year).
		Select("COALESCE(MAX(request_no), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
