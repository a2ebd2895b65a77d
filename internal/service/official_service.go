package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/roster"

	"github.com/google/uuid"
)

// --- DTOs ---

type OfficialDTO struct {
	BarangayID string `json:"barangay_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Position   string `json:"position" binding:"required"`
	TermStart  string `json:"term_start"` // YYYY-MM-DD
	TermEnd    string `json:"term_end"`   // YYYY-MM-DD
}

type UpdateOfficialDTO struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	TermStart string `json:"term_start"`
	TermEnd   string `json:"term_end"`
}

type OfficialResponse struct {
	ID         string  `json:"id"`
	BarangayID string  `json:"barangay_id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	TermStart  *string `json:"term_start"`
	TermEnd    *string `json:"term_end"`
	IsActive   bool    `json:"is_active"`
}

// OfficialService manages the officials roster. Creation and editing are
// superadmin tooling; the lifecycle and certificate paths only read it.
type OfficialService interface {
	Create(ctx context.Context, actor Actor, req OfficialDTO) (OfficialResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateOfficialDTO) (OfficialResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	ListByBarangay(ctx context.Context, actor Actor, barangayID string) ([]OfficialResponse, error)
}

type officialService struct {
	officialRepo repository.OfficialRepository
	barangayRepo repository.BarangayRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewOfficialService(
	officialRepo repository.OfficialRepository,
	barangayRepo repository.BarangayRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) OfficialService {
	return &officialService{
		officialRepo: officialRepo,
		barangayRepo: barangayRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *officialService) Create(ctx context.Context, actor Actor, req OfficialDTO) (OfficialResponse, error) {
	if actor.Role != model.RoleSuperadmin {
		return OfficialResponse{}, ErrNotAuthorized
	}

	barangayID, err := uuid.Parse(req.BarangayID)
	if err != nil {
		return OfficialResponse{}, fmt.Errorf("invalid barangay_id: %w", err)
	}
	if _, err := s.barangayRepo.FindByID(ctx, barangayID); err != nil {
		return OfficialResponse{}, fmt.Errorf("barangay not found: %w", err)
	}

	official := model.Official{
		BarangayID: barangayID,
		Name:       req.Name,
		Position:   req.Position,
	}
	if official.TermStart, err = parseOptionalDate(req.TermStart); err != nil {
		return OfficialResponse{}, err
	}
	if official.TermEnd, err = parseOptionalDate(req.TermEnd); err != nil {
		return OfficialResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.officialRepo.Create(txCtx, &official); err != nil {
			return fmt.Errorf("failed to create official: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionCreateOfficial, &official)
	})
	if err != nil {
		return OfficialResponse{}, err
	}

	return toOfficialResponse(&official), nil
}

func (s *officialService) Update(ctx context.Context, actor Actor, id string, req UpdateOfficialDTO) (OfficialResponse, error) {
	if actor.Role != model.RoleSuperadmin {
		return OfficialResponse{}, ErrNotAuthorized
	}

	officialID, err := uuid.Parse(id)
	if err != nil {
		return OfficialResponse{}, fmt.Errorf("invalid official id: %w", err)
	}

	var official *model.Official
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		official, err = s.officialRepo.FindByID(txCtx, officialID)
		if err != nil {
			return fmt.Errorf("official not found: %w", err)
		}

		if req.Name != "" {
			official.Name = req.Name
		}
		if req.Position != "" {
			official.Position = req.Position
		}
		if req.TermStart != "" {
			if official.TermStart, err = parseOptionalDate(req.TermStart); err != nil {
				return err
			}
		}
		if req.TermEnd != "" {
			if official.TermEnd, err = parseOptionalDate(req.TermEnd); err != nil {
				return err
			}
		}

		if err := s.officialRepo.Update(txCtx, official); err != nil {
			return fmt.Errorf("failed to update official: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionUpdateOfficial, official)
	})
	if err != nil {
		return OfficialResponse{}, err
	}

	return toOfficialResponse(official), nil
}

func (s *officialService) Delete(ctx context.Context, actor Actor, id string) error {
	if actor.Role != model.RoleSuperadmin {
		return ErrNotAuthorized
	}

	officialID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid official id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		official, err := s.officialRepo.FindByID(txCtx, officialID)
		if err != nil {
			return fmt.Errorf("official not found: %w", err)
		}
		if err := s.officialRepo.Delete(txCtx, officialID); err != nil {
			return fmt.Errorf("failed to delete official: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionDeleteOfficial, official)
	})
}

func (s *officialService) ListByBarangay(ctx context.Context, actor Actor, barangayID string) ([]OfficialResponse, error) {
	id, err := uuid.Parse(barangayID)
	if err != nil {
		return nil, fmt.Errorf("invalid barangay_id: %w", err)
	}
	if !actor.CanAccessBarangay(id) {
		return nil, ErrNotAuthorized
	}

	officials, err := s.officialRepo.ListByBarangay(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch officials: %w", err)
	}

	result := make([]OfficialResponse, 0, len(officials))
	for i := range officials {
		result = append(result, toOfficialResponse(&officials[i]))
	}
	return result, nil
}

func (s *officialService) writeAudit(ctx context.Context, actor Actor, action string, official *model.Official) error {
	details, _ := json.Marshal(map[string]interface{}{
		"name":     official.Name,
		"position": official.Position,
	})

	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actor.UID); err == nil {
		userID = &parsed
	}
	barangayID := official.BarangayID

	entry := model.AuditLog{
		UserID:     userID,
		BarangayID: &barangayID,
		Action:     action,
		EntityID:   official.ID.String(),
		EntityName: official.Position,
		Details:    string(details),
	}
	if err := s.auditRepo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date, expected YYYY-MM-DD: %w", err)
	}
	return &parsed, nil
}

func toOfficialResponse(o *model.Official) OfficialResponse {
	resp := OfficialResponse{
		ID:         o.ID.String(),
		BarangayID: o.BarangayID.String(),
		Name:       o.Name,
		Position:   o.Position,
		IsActive:   roster.IsTermActive(o.TermEnd, time.Now()),
	}
	if o.TermStart != nil {
		formatted := o.TermStart.Format("2006-01-02")
		resp.TermStart = &formatted
	}
	if o.TermEnd != nil {
		formatted := o.TermEnd.Format("2006-01-02")
		resp.TermEnd = &formatted
	}
	return resp
}
