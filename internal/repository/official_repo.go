package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfficialRepository interface {
	Create(ctx context.Context, official *model.Official) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Official, error)
	ListByBarangay(ctx context.Context, barangayID uuid.UUID) ([]model.Official, error)
	Update(ctx context.Context, official *model.Official) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type officialRepository struct {
	db *gorm.DB
}

func NewOfficialRepository(db *gorm.DB) OfficialRepository {
	return &officialRepository{db: db}
}

func (r *officialRepository) Create(ctx context.Context, official *model.Official) error {
	return GetDB(ctx, r.db).Create(official).Error
}

func (r *officialRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Official, error) {
	var official model.Official
	if err := GetDB(ctx, r.db).First(&official, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &official, nil
}

func (r *officialRepository) ListByBarangay(ctx context.Context, barangayID uuid.UUID) ([]model.Official, error) {
	var officials []model.Official
	if err := GetDB(ctx, r.db).
		Where("barangay_id = ?", barangayID).
		Order("position ASC").
		Find(&officials).Error; err != nil {
		return nil, err
	}
	return officials, nil
}

func (r *officialRepository) Update(ctx context.Context, official *model.Official) error {
	return GetDB(ctx, r.db).Save(official).Error
}

func (r *officialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Official{}, "id = ?", id).Error
}
