package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Barangay is the tenant boundary: every request, official and admin account
// belongs to exactly one barangay. The display fields feed the certificate
// masthead.
type Barangay struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Municipality string         `gorm:"type:varchar(255);not null" json:"municipality"`
	Province     string         `gorm:"type:varchar(255);not null" json:"province"`
	ContactEmail string         `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string         `gorm:"type:varchar(50)" json:"contact_phone"`
	LogoPath     string         `gorm:"type:varchar(512)" json:"logo_path"` // optional; certificates render without it
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Barangay) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
