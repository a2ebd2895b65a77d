package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Official is an elected or appointed barangay officer. Position is free
// text as encoded by superadmin staff; the roster matcher maps it onto the
// canonical certificate positions. Whether an official is "active" is
// derived from TermEnd, never stored.
type Official struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BarangayID uuid.UUID      `gorm:"type:uuid;not null;index" json:"barangay_id"`
	Barangay   *Barangay      `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Position   string         `gorm:"type:varchar(255);not null" json:"position"`
	TermStart  *time.Time     `json:"term_start"`
	TermEnd    *time.Time     `json:"term_end"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Official) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
