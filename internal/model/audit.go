package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateRequest    = "CREATE_REQUEST"
	ActionUpdateRequest    = "UPDATE_REQUEST"
	ActionProcessRequest   = "PROCESS_REQUEST"
	ActionAcceptRequest    = "ACCEPT_REQUEST"
	ActionDeclineRequest   = "DECLINE_REQUEST"
	ActionRestoreRequest   = "RESTORE_REQUEST"
	ActionPrintCertificate = "PRINT_CERTIFICATE"

	ActionCreateOfficial = "CREATE_OFFICIAL"
	ActionUpdateOfficial = "UPDATE_OFFICIAL"
	ActionDeleteOfficial = "DELETE_OFFICIAL"
	ActionCreateBarangay = "CREATE_BARANGAY"
	ActionUpdateBarangay = "UPDATE_BARANGAY"
)

// AuditLog tracks Who, What, and When for critical portal changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for system actions
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	BarangayID *uuid.UUID `gorm:"type:uuid;index" json:"barangay_id"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable label
	Details    string     `gorm:"type:text" json:"details"`                       // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
