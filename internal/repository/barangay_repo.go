package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BarangayRepository interface {
	Create(ctx context.Context, barangay *model.Barangay) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Barangay, error)
	List(ctx context.Context) ([]model.Barangay, error)
	Update(ctx context.Context, barangay *model.Barangay) error
}

type barangayRepository struct {
	db *gorm.DB
}

func NewBarangayRepository(db *gorm.DB) BarangayRepository {
	return &barangayRepository{db: db}
}

func (r *barangayRepository) Create(ctx context.Context, barangay *model.Barangay) error {
	return GetDB(ctx, r.db).Create(barangay).Error
}

func (r *barangayRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Barangay, error) {
	var barangay model.Barangay
	if err := GetDB(ctx, r.db).First(&barangay, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &barangay, nil
}

func (r *barangayRepository) List(ctx context.Context) ([]model.Barangay, error) {
	var barangays []model.Barangay
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&barangays).Error; err != nil {
		return nil, err
	}
	return barangays, nil
}

func (r *barangayRepository) Update(ctx context.Context, barangay *model.Barangay) error {
	return GetDB(ctx, r.db).Save(barangay).Error
}
