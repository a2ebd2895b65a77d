package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/dates"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateRequestDTO struct {
	CertificateType string `json:"certificate_type" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Age             int    `json:"age"`
	CivilStatus     string `json:"civil_status" binding:"required"`
	Purpose         string `json:"purpose" binding:"required"`
	BirthDate       string `json:"birth_date"` // YYYY-MM-DD, residency only
	BirthPlace      string `json:"birth_place"`
	MotherName      string `json:"mother_name"`
	FatherName      string `json:"father_name"`
}

type UpdateRequestDTO struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	CivilStatus string `json:"civil_status"`
	Purpose     string `json:"purpose"`
	BirthDate   string `json:"birth_date"`
	BirthPlace  string `json:"birth_place"`
	MotherName  string `json:"mother_name"`
	FatherName  string `json:"father_name"`
}

type RequestResponse struct {
	ID              string  `json:"id"`
	DisplayID       string  `json:"display_id"`
	BarangayID      string  `json:"barangay_id"`
	CertificateType string  `json:"certificate_type"`
	Status          string  `json:"status"`
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	CivilStatus     string  `json:"civil_status"`
	Purpose         string  `json:"purpose"`
	BirthDate       *string `json:"birth_date,omitempty"`
	BirthPlace      string  `json:"birth_place,omitempty"`
	MotherName      string  `json:"mother_name,omitempty"`
	FatherName      string  `json:"father_name,omitempty"`
	Fee             string  `json:"fee"`
	RequestDate     string  `json:"request_date"`
	ProcessedAt     *string `json:"processed_at"`
	ProcessedBy     *string `json:"processed_by"`
	AcceptedAt      *string `json:"accepted_at"`
	AcceptedBy      *string `json:"accepted_by"`
	DeclinedAt      *string `json:"declined_at"`
	DeclinedBy      *string `json:"declined_by"`
	RestoredAt      *string `json:"restored_at"`
	RestoredBy      *string `json:"restored_by"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// RequestFilter selects one of the three table views: Active
// (Pending+Processing), History (Accepted) or Archive (Declined), optionally
// narrowed to one certificate type.
type RequestFilter struct {
	Statuses        []string
	CertificateType string
	Page            int
	Limit           int
}

// --- Interface ---

type RequestService interface {
	Create(ctx context.Context, actor Actor, req CreateRequestDTO) (RequestResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateRequestDTO) (RequestResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	List(ctx context.Context, actor Actor, filter RequestFilter) ([]RequestResponse, int64, error)
}

type requestService struct {
	requestRepo repository.RequestRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, actor Actor, req CreateRequestDTO) (RequestResponse, error) {
	if !actor.IsAdmin() {
		return RequestResponse{}, ErrNotAuthorized
	}
	if !model.ValidCertificateType(req.CertificateType) {
		return RequestResponse{}, fmt.Errorf("unknown certificate type %q", req.CertificateType)
	}

	now := time.Now()

	request := model.DocumentRequest{
		BarangayID:      actor.BarangayID,
		CertificateType: req.CertificateType,
		Status:          model.StatusPending,
		Name:            strings.TrimSpace(req.Name),
		Age:             req.Age,
		CivilStatus:     strings.TrimSpace(req.CivilStatus),
		Purpose:         strings.TrimSpace(req.Purpose),
		BirthPlace:      strings.TrimSpace(req.BirthPlace),
		MotherName:      strings.TrimSpace(req.MotherName),
		FatherName:      strings.TrimSpace(req.FatherName),
		Fee:             model.CertificateFee(req.CertificateType),
		RequestDate:     now,
		RequestYear:     now.Year(),
	}

	if req.CertificateType == model.CertTypeResidency {
		birthDate, err := parseBirthDate(req.BirthDate)
		if err != nil {
			return RequestResponse{}, err
		}
		request.BirthDate = &birthDate
		// Age is always derived for residency, never taken from the form.
		request.Age = dates.Age(birthDate, now)
	}

	if err := validateRequiredFields(&request); err != nil {
		return RequestResponse{}, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		no, err := s.requestRepo.NextRequestNo(txCtx, request.RequestYear)
		if err != nil {
			return fmt.Errorf("failed to assign request number: %w", err)
		}
		request.RequestNo = no

		if err := s.requestRepo.Create(txCtx, &request); err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		return s.writeAudit(txCtx, actor, model.ActionCreateRequest, &request, map[string]interface{}{
			"certificate_type": request.CertificateType,
			"display_id":       request.DisplayID(),
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.publishChange(&request)
	return toRequestResponse(&request), nil
}

func (s *requestService) Update(ctx context.Context, actor Actor, id string, req UpdateRequestDTO) (RequestResponse, error) {
	if !actor.IsAdmin() {
		return RequestResponse{}, ErrNotAuthorized
	}
	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}

	var request *model.DocumentRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, err = s.requestRepo.FindByID(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("request not found: %w", err)
		}
		if !actor.CanAccessBarangay(request.BarangayID) {
			return ErrNotAuthorized
		}

		if req.Name != "" {
			request.Name = strings.TrimSpace(req.Name)
		}
		if req.CivilStatus != "" {
			request.CivilStatus = strings.TrimSpace(req.CivilStatus)
		}
		if req.Purpose != "" {
			request.Purpose = strings.TrimSpace(req.Purpose)
		}
		if req.BirthPlace != "" {
			request.BirthPlace = strings.TrimSpace(req.BirthPlace)
		}
		if req.MotherName != "" {
			request.MotherName = strings.TrimSpace(req.MotherName)
		}
		if req.FatherName != "" {
			request.FatherName = strings.TrimSpace(req.FatherName)
		}

		if request.CertificateType == model.CertTypeResidency {
			if req.BirthDate != "" {
				birthDate, parseErr := parseBirthDate(req.BirthDate)
				if parseErr != nil {
					return parseErr
				}
				request.BirthDate = &birthDate
			}
			// Recompute on every edit that touches the birth date.
			if request.BirthDate != nil {
				request.Age = dates.Age(*request.BirthDate, time.Now())
			}
		} else if req.Age > 0 {
			request.Age = req.Age
		}

		if err := validateRequiredFields(request); err != nil {
			return err
		}
		if err := s.requestRepo.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		return s.writeAudit(txCtx, actor, model.ActionUpdateRequest, request, map[string]interface{}{
			"display_id": request.DisplayID(),
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.publishChange(request)
	return toRequestResponse(request), nil
}

func (s *requestService) GetByID(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("request not found: %w", err)
	}
	if !actor.CanAccessBarangay(request.BarangayID) {
		return RequestResponse{}, ErrNotAuthorized
	}
	return toRequestResponse(request), nil
}

func (s *requestService) List(ctx context.Context, actor Actor, filter RequestFilter) ([]RequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if len(filter.Statuses) == 0 {
		filter.Statuses = []string{model.StatusPending, model.StatusProcessing}
	}

	requests, total, err := s.requestRepo.ListByStatuses(ctx, actor.BarangayID, filter.Statuses, filter.CertificateType, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch requests: %w", err)
	}

	result := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toRequestResponse(&requests[i]))
	}
	return result, total, nil
}

// --- helpers shared by the request and lifecycle services ---

func parseBirthDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("birth_date is required for %s", model.CertTypeResidency)
	}
	birthDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid birth_date, expected YYYY-MM-DD: %w", err)
	}
	return birthDate, nil
}

// validateRequiredFields enforces the per-type required field set before any
// store write.
func validateRequiredFields(r *model.DocumentRequest) error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	// Residency age is derived from the birth date, so zero is legitimate for
	// an infant; negative means a future birth date.
	if r.CertificateType == model.CertTypeResidency {
		if r.Age < 0 {
			return fmt.Errorf("birth_date cannot be in the future")
		}
	} else if r.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if r.CivilStatus == "" {
		return fmt.Errorf("civil_status is required")
	}
	if r.Purpose == "" {
		return fmt.Errorf("purpose is required")
	}
	if r.CertificateType == model.CertTypeResidency {
		if r.BirthDate == nil {
			return fmt.Errorf("birth_date is required for %s", model.CertTypeResidency)
		}
		if r.BirthPlace == "" {
			return fmt.Errorf("birth_place is required for %s", model.CertTypeResidency)
		}
		if r.MotherName == "" {
			return fmt.Errorf("mother_name is required for %s", model.CertTypeResidency)
		}
		if r.FatherName == "" {
			return fmt.Errorf("father_name is required for %s", model.CertTypeResidency)
		}
	}
	return nil
}

func (s *requestService) writeAudit(ctx context.Context, actor Actor, action string, request *model.DocumentRequest, payload map[string]interface{}) error {
	return writeRequestAudit(ctx, s.auditRepo, actor, action, request, payload)
}

func writeRequestAudit(ctx context.Context, auditRepo repository.AuditRepository, actor Actor, action string, request *model.DocumentRequest, payload map[string]interface{}) error {
	details, _ := json.Marshal(payload)

	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actor.UID); err == nil {
		userID = &parsed
	}
	barangayID := request.BarangayID

	entry := model.AuditLog{
		UserID:     userID,
		BarangayID: &barangayID,
		Action:     action,
		EntityID:   request.ID.String(),
		EntityName: request.CertificateType,
		Details:    string(details),
	}
	if err := auditRepo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *requestService) publishChange(request *model.DocumentRequest) {
	s.hub.Publish(ws.Event{
		Type:            ws.EventRequestsChanged,
		BarangayID:      request.BarangayID.String(),
		RequestID:       request.ID.String(),
		Status:          request.Status,
		CertificateType: request.CertificateType,
	})
}

func toRequestResponse(r *model.DocumentRequest) RequestResponse {
	resp := RequestResponse{
		ID:              r.ID.String(),
		DisplayID:       r.DisplayID(),
		BarangayID:      r.BarangayID.String(),
		CertificateType: r.CertificateType,
		Status:          r.Status,
		Name:            r.Name,
		Age:             r.Age,
		CivilStatus:     r.CivilStatus,
		Purpose:         r.Purpose,
		BirthPlace:      r.BirthPlace,
		MotherName:      r.MotherName,
		FatherName:      r.FatherName,
		Fee:             r.Fee.StringFixed(2),
		RequestDate:     r.RequestDate.Format("2006-01-02"),
		ProcessedAt:     formatTimePtr(r.ProcessedAt),
		ProcessedBy:     r.ProcessedBy,
		AcceptedAt:      formatTimePtr(r.AcceptedAt),
		AcceptedBy:      r.AcceptedBy,
		DeclinedAt:      formatTimePtr(r.DeclinedAt),
		DeclinedBy:      r.DeclinedBy,
		RestoredAt:      formatTimePtr(r.RestoredAt),
		RestoredBy:      r.RestoredBy,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.BirthDate != nil {
		formatted := r.BirthDate.Format("2006-01-02")
		resp.BirthDate = &formatted
	}
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
