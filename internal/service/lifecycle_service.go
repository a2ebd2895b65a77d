package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
)

// Lifecycle actions. Each is valid from exactly one status:
//
//	Pending    --process--> Processing
//	Pending    --decline--> Declined
//	Processing --accept---> Accepted
//	Declined   --restore--> Pending
//
// Accepted requests stay Accepted; their certificate can be printed again on
// demand through the certificate service.
const (
	ActionProcess = "process"
	ActionAccept  = "accept"
	ActionDecline = "decline"
	ActionRestore = "restore"
)

type transition struct {
	From   string
	To     string
	Action string // audit-log action constant
}

var transitions = map[string]transition{
	ActionProcess: {From: model.StatusPending, To: model.StatusProcessing, Action: model.ActionProcessRequest},
	ActionAccept:  {From: model.StatusProcessing, To: model.StatusAccepted, Action: model.ActionAcceptRequest},
	ActionDecline: {From: model.StatusPending, To: model.StatusDeclined, Action: model.ActionDeclineRequest},
	ActionRestore: {From: model.StatusDeclined, To: model.StatusPending, Action: model.ActionRestoreRequest},
}

// LifecycleService moves a document request through its statuses. Every
// action is gated on the admin role and the actor's barangay; a rejected
// action performs no store write.
type LifecycleService interface {
	Process(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	Accept(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	Decline(ctx context.Context, actor Actor, id string) (RequestResponse, error)
	Restore(ctx context.Context, actor Actor, id string) (RequestResponse, error)
}

type lifecycleService struct {
	requestRepo repository.RequestRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewLifecycleService(
	requestRepo repository.RequestRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) LifecycleService {
	return &lifecycleService{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

func (s *lifecycleService) Process(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, ActionProcess)
}

func (s *lifecycleService) Accept(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, ActionAccept)
}

func (s *lifecycleService) Decline(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, ActionDecline)
}

func (s *lifecycleService) Restore(ctx context.Context, actor Actor, id string) (RequestResponse, error) {
	return s.apply(ctx, actor, id, ActionRestore)
}

// apply runs one transition from the table: role gate, tenant gate, status
// guard, audit pair, audit-log row — the status write and the audit row
// commit together.
func (s *lifecycleService) apply(ctx context.Context, actor Actor, id, action string) (RequestResponse, error) {
	if !actor.IsAdmin() {
		return RequestResponse{}, ErrNotAuthorized
	}

	requestID, err := uuid.Parse(id)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid request id: %w", err)
	}

	tr, ok := transitions[action]
	if !ok {
		return RequestResponse{}, fmt.Errorf("unknown lifecycle action %q", action)
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
		if request.Status != tr.From {
			return fmt.Errorf("%w: cannot %s a request that is %s", ErrInvalidTransition, action, request.Status)
		}

		now := time.Now()
		email := actor.Email
		request.Status = tr.To

		switch action {
		case ActionProcess:
			request.ProcessedAt = &now
			request.ProcessedBy = &email
		case ActionAccept:
			request.AcceptedAt = &now
			request.AcceptedBy = &email
		case ActionDecline:
			request.DeclinedAt = &now
			request.DeclinedBy = &email
		case ActionRestore:
			request.RestoredAt = &now
			request.RestoredBy = &email
			// Restore returns the request to the queue as if never declined.
			request.DeclinedAt = nil
			request.DeclinedBy = nil
		}

		if err := s.requestRepo.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		return writeRequestAudit(txCtx, s.auditRepo, actor, tr.Action, request, map[string]interface{}{
			"display_id": request.DisplayID(),
			"from":       tr.From,
			"to":         tr.To,
		})
	})
	if err != nil {
		return RequestResponse{}, err
	}

	s.hub.Publish(ws.Event{
		Type:            ws.EventRequestsChanged,
		BarangayID:      request.BarangayID.String(),
		RequestID:       request.ID.String(),
		Status:          request.Status,
		CertificateType: request.CertificateType,
	})

	return toRequestResponse(request), nil
}
