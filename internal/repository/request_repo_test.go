package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backend/internal/database"
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedRequest(t *testing.T, db *gorm.DB, barangayID uuid.UUID, status string, year, no int, requestDate time.Time) model.DocumentRequest {
	t.Helper()
	req := model.DocumentRequest{
		BarangayID:      barangayID,
		CertificateType: model.CertTypeClearance,
		Status:          status,
		RequestYear:     year,
		RequestNo:       no,
		Name:            "Juan Dela Cruz",
		Age:             30,
		CivilStatus:     "Single",
		Purpose:         "Employment",
		RequestDate:     requestDate,
	}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}
	return req
}

func TestNextRequestNoPerYear(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()
	barangayID := uuid.New()
	now := time.Now()

	no, err := repo.NextRequestNo(ctx, 2026)
	if err != nil {
		t.Fatalf("NextRequestNo on empty table failed: %v", err)
	}
	if no != 1 {
		t.Errorf("first number = %d, want 1", no)
	}

	seedRequest(t, db, barangayID, model.StatusPending, 2026, 1, now)
	seedRequest(t, db, barangayID, model.StatusPending, 2026, 2, now)
	seedRequest(t, db, barangayID, model.StatusPending, 2025, 40, now)

	no, err = repo.NextRequestNo(ctx, 2026)
	if err != nil {
		t.Fatalf("NextRequestNo failed: %v", err)
	}
	if no != 3 {
		t.Errorf("next 2026 number = %d, want 3", no)
	}

	// Each year carries its own sequence.
	no, err = repo.NextRequestNo(ctx, 2025)
	if err != nil {
		t.Fatalf("NextRequestNo failed: %v", err)
	}
	if no != 41 {
		t.Errorf("next 2025 number = %d, want 41", no)
	}
}

func TestListByStatuses(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()
	mine := uuid.New()
	theirs := uuid.New()
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	seedRequest(t, db, mine, model.StatusPending, 2026, 1, base)
	seedRequest(t, db, mine, model.StatusProcessing, 2026, 2, base.AddDate(0, 0, 1))
	seedRequest(t, db, mine, model.StatusAccepted, 2026, 3, base.AddDate(0, 0, 2))
	seedRequest(t, db, mine, model.StatusDeclined, 2026, 4, base.AddDate(0, 0, 3))
	seedRequest(t, db, theirs, model.StatusPending, 2026, 5, base)

	active := []string{model.StatusPending, model.StatusProcessing}
	requests, total, err := repo.ListByStatuses(ctx, mine, active, "", 1, 20)
	if err != nil {
		t.Fatalf("ListByStatuses failed: %v", err)
	}
	if total != 2 || len(requests) != 2 {
		t.Fatalf("active list: got %d entries (total %d), want 2", len(requests), total)
	}
	// Newest request date first.
	if requests[0].Status != model.StatusProcessing {
		t.Errorf("list not ordered by request_date desc, first status = %q", requests[0].Status)
	}
	for _, r := range requests {
		if r.BarangayID != mine {
			t.Errorf("foreign barangay request leaked into list")
		}
	}

	// Certificate type filter yields nothing for a type never seeded.
	requests, total, err = repo.ListByStatuses(ctx, mine, active, model.CertTypeIndigency, 1, 20)
	if err != nil {
		t.Fatalf("ListByStatuses with type filter failed: %v", err)
	}
	if total != 0 || len(requests) != 0 {
		t.Errorf("type filter matched %d requests, want 0", len(requests))
	}

	// Pagination window.
	requests, total, err = repo.ListByStatuses(ctx, mine, active, "", 2, 1)
	if err != nil {
		t.Fatalf("ListByStatuses page 2 failed: %v", err)
	}
	if total != 2 || len(requests) != 1 {
		t.Fatalf("page 2 of limit 1: got %d entries (total %d)", len(requests), total)
	}
	if requests[0].Status != model.StatusPending {
		t.Errorf("page 2 entry status = %q, want Pending", requests[0].Status)
	}
}

func TestRequestNumberUniquePerYear(t *testing.T) {
	db := newTestDB(t)
	barangayID := uuid.New()
	now := time.Now()

	seedRequest(t, db, barangayID, model.StatusPending, 2026, 1, now)

	dup := model.DocumentRequest{
		BarangayID:      barangayID,
		CertificateType: model.CertTypeClearance,
		Status:          model.StatusPending,
		RequestYear:     2026,
		RequestNo:       1,
		Name:            "Maria Santos",
		Age:             28,
		CivilStatus:     "Single",
		Purpose:         "Employment",
		RequestDate:     now,
	}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("duplicate (year, number) pair accepted by the store")
	}

	// The same number is free in a different year.
	seedRequest(t, db, barangayID, model.StatusPending, 2027, 1, now)
}

func TestTransactionRollback(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	err := tm.RunInTx(ctx, func(txCtx context.Context) error {
		req := model.DocumentRequest{
			BarangayID:      uuid.New(),
			CertificateType: model.CertTypeClearance,
			Status:          model.StatusPending,
			RequestYear:     2026,
			RequestNo:       1,
			Name:            "Juan Dela Cruz",
			Age:             30,
			CivilStatus:     "Single",
			Purpose:         "Employment",
			RequestDate:     time.Now(),
		}
		if err := repo.Create(txCtx, &req); err != nil {
			return err
		}
		return fmt.Errorf("forced rollback")
	})
	if err == nil {
		t.Fatal("expected the forced error to surface")
	}

	var count int64
	if err := db.Model(&model.DocumentRequest{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("row survived a rolled-back transaction")
	}
}
