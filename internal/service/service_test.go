package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the service layer against an in-memory sqlite database using
// the same migrations as the production connection.
type testEnv struct {
	db *gorm.DB

	requestRepo  repository.RequestRepository
	officialRepo repository.OfficialRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager

	requests     RequestService
	lifecycle    LifecycleService
	certificates CertificateService

	barangay   model.Barangay
	admin      Actor
	superadmin Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A uniquely named shared-cache database keeps every pooled connection on
	// the same in-memory store while isolating tests from each other.
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

	env := &testEnv{db: db}
	env.requestRepo = repository.NewRequestRepository(db)
	env.officialRepo = repository.NewOfficialRepository(db)
	env.auditRepo = repository.NewAuditRepository(db)
	env.txManager = repository.NewTransactionManager(db)

	env.requests = NewRequestService(env.requestRepo, env.auditRepo, env.txManager, nil)
	env.lifecycle = NewLifecycleService(env.requestRepo, env.auditRepo, env.txManager, nil)
	env.certificates = NewCertificateService(env.requestRepo, env.officialRepo, env.auditRepo)

	env.barangay = model.Barangay{
		Name:         "San Isidro",
		Municipality: "Calamba",
		Province:     "Laguna",
		ContactEmail: "sanisidro@calamba.gov.ph",
	}
	if err := db.Create(&env.barangay).Error; err != nil {
		t.Fatalf("failed to seed barangay: %v", err)
	}

	adminUser := model.User{
		Email:      "clerk@sanisidro.gov.ph",
		Name:       "Barangay Clerk",
		Password:   "irrelevant",
		Role:       model.RoleAdmin,
		BarangayID: &env.barangay.ID,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		t.Fatalf("failed to seed admin user: %v", err)
	}

	env.admin = Actor{
		UID:        adminUser.ID.String(),
		Email:      adminUser.Email,
		Role:       model.RoleAdmin,
		BarangayID: env.barangay.ID,
	}
	env.superadmin = Actor{
		UID:   uuid.NewString(),
		Email: "root@province.gov.ph",
		Role:  model.RoleSuperadmin,
	}

	return env
}

// createClearance inserts a minimal valid clearance request through the
// service so the full creation path (numbering, audit, validation) runs.
func (e *testEnv) createClearance(t *testing.T, name string) RequestResponse {
	t.Helper()
	resp, err := e.requests.Create(context.Background(), e.admin, CreateRequestDTO{
		CertificateType: model.CertTypeClearance,
		Name:            name,
		Age:             30,
		CivilStatus:     "Single",
		Purpose:         "Employment",
	})
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return resp
}

// reload fetches the current stored row for a request id.
func (e *testEnv) reload(t *testing.T, id string) model.DocumentRequest {
	t.Helper()
	var req model.DocumentRequest
	if err := e.db.First(&req, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload request %s: %v", id, err)
	}
	return req
}

// auditCount returns how many audit rows exist for an action.
func (e *testEnv) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&count).Error; err != nil {
		t.Fatalf("failed to count audit rows: %v", err)
	}
	return count
}
