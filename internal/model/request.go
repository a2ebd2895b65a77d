package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Certificate type constants — the discriminant selecting template and
// required-field set.
const (
	CertTypeClearance = "Barangay Clearance"
	CertTypeResidency = "Certificate of Residency"
	CertTypeIndigency = "Certificate of Indigency"
)

// Request lifecycle statuses. Pending → Processing → Accepted, or
// Pending → Declined → (restore) → Pending.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusAccepted   = "Accepted"
	StatusDeclined   = "Declined"
)

// DocumentRequest is a walk-in document request moving through the lifecycle.
// Residency-only fields are nullable and unused for the other types. Each
// audit At/By pair is set only when its transition fires; restore nulls the
// declined pair again.
type DocumentRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BarangayID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"barangay_id"`
	Barangay        *Barangay  `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
	CertificateType string     `gorm:"type:varchar(40);not null;index" json:"certificate_type"`
	Status          string     `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`

	// Stable per-year sequence assigned at creation, shown as REQ-<year>-<no>.
	// The composite unique index turns a concurrent-create number collision
	// into a store error instead of two requests sharing a display ID.
	RequestYear int `gorm:"not null;uniqueIndex:idx_request_year_no" json:"request_year"`
	RequestNo   int `gorm:"not null;uniqueIndex:idx_request_year_no" json:"request_no"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Age         int    `gorm:"not null" json:"age"`
	CivilStatus string `gorm:"type:varchar(50);not null" json:"civil_status"`
	Purpose     string `gorm:"type:varchar(255);not null" json:"purpose"`

	// Residency only. Age is derived from BirthDate whenever it is set.
	BirthDate  *time.Time `json:"birth_date"`
	BirthPlace string     `gorm:"type:varchar(255)" json:"birth_place"`
	MotherName string     `gorm:"type:varchar(255)" json:"mother_name"`
	FatherName string     `gorm:"type:varchar(255)" json:"father_name"`

	Fee         decimal.Decimal `gorm:"type:decimal(10,2)" json:"fee"`
	RequestDate time.Time       `gorm:"not null" json:"request_date"`

	ProcessedAt *time.Time `json:"processed_at"`
	ProcessedBy *string    `gorm:"type:varchar(255)" json:"processed_by"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	AcceptedBy  *string    `gorm:"type:varchar(255)" json:"accepted_by"`
	DeclinedAt  *time.Time `json:"declined_at"`
	DeclinedBy  *string    `gorm:"type:varchar(255)" json:"declined_by"`
	RestoredAt  *time.Time `json:"restored_at"`
	RestoredBy  *string    `gorm:"type:varchar(255)" json:"restored_by"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *DocumentRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DisplayID renders the stable human-facing request number, e.g. REQ-2026-0042.
func (r *DocumentRequest) DisplayID() string {
	return fmt.Sprintf("REQ-%d-%04d", r.RequestYear, r.RequestNo)
}

// CertificateFee returns the fee charged for a certificate type. Stamped onto
// the request at creation so later schedule changes don't rewrite history.
func CertificateFee(certificateType string) decimal.Decimal {
	switch certificateType {
	case CertTypeClearance:
		return decimal.NewFromInt(50)
	case CertTypeResidency:
		return decimal.NewFromInt(30)
	case CertTypeIndigency:
		// Indigency certificates are free of charge.
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// ValidCertificateType reports whether t is one of the three supported types.
func ValidCertificateType(t string) bool {
	return t == CertTypeClearance || t == CertTypeResidency || t == CertTypeIndigency
}
