package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type BarangayDTO struct {
	Name         string `json:"name" binding:"required"`
	Municipality string `json:"municipality" binding:"required"`
	Province     string `json:"province" binding:"required"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LogoPath     string `json:"logo_path"`
}

type UpdateBarangayDTO struct {
	Name         string `json:"name"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LogoPath     string `json:"logo_path"`
}

type BarangayResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LogoPath     string `json:"logo_path"`
}

type BarangayService interface {
	Create(ctx context.Context, actor Actor, req BarangayDTO) (BarangayResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateBarangayDTO) (BarangayResponse, error)
	GetByID(ctx context.Context, id string) (BarangayResponse, error)
	List(ctx context.Context) ([]BarangayResponse, error)
}

type barangayService struct {
	barangayRepo repository.BarangayRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewBarangayService(
	barangayRepo repository.BarangayRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BarangayService {
	return &barangayService{
		barangayRepo: barangayRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *barangayService) Create(ctx context.Context, actor Actor, req BarangayDTO) (BarangayResponse, error) {
	if actor.Role != model.RoleSuperadmin {
		return BarangayResponse{}, ErrNotAuthorized
	}

	barangay := model.Barangay{
		Name:         req.Name,
		Municipality: req.Municipality,
		Province:     req.Province,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		LogoPath:     req.LogoPath,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.barangayRepo.Create(txCtx, &barangay); err != nil {
			return fmt.Errorf("failed to create barangay: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionCreateBarangay, &barangay)
	})
	if err != nil {
		return BarangayResponse{}, err
	}

	return toBarangayResponse(&barangay), nil
}

func (s *barangayService) Update(ctx context.Context, actor Actor, id string, req UpdateBarangayDTO) (BarangayResponse, error) {
	if actor.Role != model.RoleSuperadmin {
		return BarangayResponse{}, ErrNotAuthorized
	}

	barangayID, err := uuid.Parse(id)
	if err != nil {
		return BarangayResponse{}, fmt.Errorf("invalid barangay id: %w", err)
	}

	var barangay *model.Barangay
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		barangay, err = s.barangayRepo.FindByID(txCtx, barangayID)
		if err != nil {
			return fmt.Errorf("barangay not found: %w", err)
		}

		if req.Name != "" {
			barangay.Name = req.Name
		}
		if req.Municipality != "" {
			barangay.Municipality = req.Municipality
		}
		if req.Province != "" {
			barangay.Province = req.Province
		}
		if req.ContactEmail != "" {
			barangay.ContactEmail = req.ContactEmail
		}
		if req.ContactPhone != "" {
			barangay.ContactPhone = req.ContactPhone
		}
		if req.LogoPath != "" {
			barangay.LogoPath = req.LogoPath
		}

		if err := s.barangayRepo.Update(txCtx, barangay); err != nil {
			return fmt.Errorf("failed to update barangay: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionUpdateBarangay, barangay)
	})
	if err != nil {
		return BarangayResponse{}, err
	}

	return toBarangayResponse(barangay), nil
}

func (s *barangayService) GetByID(ctx context.Context, id string) (BarangayResponse, error) {
	barangayID, err := uuid.Parse(id)
	if err != nil {
		return BarangayResponse{}, fmt.Errorf("invalid barangay id: %w", err)
	}
	barangay, err := s.barangayRepo.FindByID(ctx, barangayID)
	if err != nil {
		return BarangayResponse{}, fmt.Errorf("barangay not found: %w", err)
	}
	return toBarangayResponse(barangay), nil
}

func (s *barangayService) List(ctx context.Context) ([]BarangayResponse, error) {
	barangays, err := s.barangayRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch barangays: %w", err)
	}

	result := make([]BarangayResponse, 0, len(barangays))
	for i := range barangays {
		result = append(result, toBarangayResponse(&barangays[i]))
	}
	return result, nil
}

func (s *barangayService) writeAudit(ctx context.Context, actor Actor, action string, barangay *model.Barangay) error {
	details, _ := json.Marshal(map[string]interface{}{"name": barangay.Name})

	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actor.UID); err == nil {
		userID = &parsed
	}
	barangayID := barangay.ID

	entry := model.AuditLog{
		UserID:     userID,
		BarangayID: &barangayID,
		Action:     action,
		EntityID:   barangay.ID.String(),
		EntityName: barangay.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toBarangayResponse(b *model.Barangay) BarangayResponse {
	return BarangayResponse{
		ID:           b.ID.String(),
		Name:         b.Name,
		Municipality: b.Municipality,
		Province:     b.Province,
		ContactEmail: b.ContactEmail,
		ContactPhone: b.ContactPhone,
		LogoPath:     b.LogoPath,
	}
}
