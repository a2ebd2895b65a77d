package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
)

func TestLifecycleHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.createClearance(t, "Juan Dela Cruz")

	if created.Status != model.StatusPending {
		t.Fatalf("new request status = %q, want %q", created.Status, model.StatusPending)
	}

	processed, err := env.lifecycle.Process(ctx, env.admin, created.ID)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if processed.Status != model.StatusProcessing {
		t.Errorf("status after process = %q, want %q", processed.Status, model.StatusProcessing)
	}
	if processed.ProcessedBy == nil || *processed.ProcessedBy != env.admin.Email {
		t.Errorf("ProcessedBy = %v, want %q", processed.ProcessedBy, env.admin.Email)
	}
	if processed.ProcessedAt == nil {
		t.Error("ProcessedAt not set after process")
	}

	accepted, err := env.lifecycle.Accept(ctx, env.admin, created.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if accepted.Status != model.StatusAccepted {
		t.Errorf("status after accept = %q, want %q", accepted.Status, model.StatusAccepted)
	}
	if accepted.AcceptedBy == nil || *accepted.AcceptedBy != env.admin.Email {
		t.Errorf("AcceptedBy = %v, want %q", accepted.AcceptedBy, env.admin.Email)
	}
	// The earlier audit pair survives later transitions.
	if accepted.ProcessedBy == nil || *accepted.ProcessedBy != env.admin.Email {
		t.Errorf("ProcessedBy lost after accept: %v", accepted.ProcessedBy)
	}

	if got := env.auditCount(t, model.ActionProcessRequest); got != 1 {
		t.Errorf("process audit rows = %d, want 1", got)
	}
	if got := env.auditCount(t, model.ActionAcceptRequest); got != 1 {
		t.Errorf("accept audit rows = %d, want 1", got)
	}
}

func TestLifecycleRejectsNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.createClearance(t, "Maria Santos")

	actions := map[string]func(context.Context, Actor, string) (RequestResponse, error){
		"process": env.lifecycle.Process,
		"accept":  env.lifecycle.Accept,
		"decline": env.lifecycle.Decline,
		"restore": env.lifecycle.Restore,
	}
	for name, action := range actions {
		if _, err := action(ctx, env.superadmin, created.ID); !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("%s as superadmin: err = %v, want ErrNotAuthorized", name, err)
		}
	}

	// A rejected action must leave the stored request untouched.
	stored := env.reload(t, created.ID)
	if stored.Status != model.StatusPending {
		t.Errorf("status after rejected actions = %q, want %q", stored.Status, model.StatusPending)
	}
	if stored.ProcessedAt != nil || stored.AcceptedAt != nil || stored.DeclinedAt != nil || stored.RestoredAt != nil {
		t.Error("audit pair set despite rejected action")
	}
	if got := env.auditCount(t, model.ActionProcessRequest); got != 0 {
		t.Errorf("audit rows written for rejected action: %d", got)
	}
}

func TestLifecycleRejectsForeignBarangay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.createClearance(t, "Pedro Reyes")

	other := model.Barangay{Name: "Poblacion", Municipality: "Calamba", Province: "Laguna"}
	if err := env.db.Create(&other).Error; err != nil {
		t.Fatalf("failed to seed second barangay: %v", err)
	}
	outsider := Actor{UID: env.admin.UID, Email: "clerk@poblacion.gov.ph", Role: model.RoleAdmin, BarangayID: other.ID}

	if _, err := env.lifecycle.Process(ctx, outsider, created.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("process from foreign barangay: err = %v, want ErrNotAuthorized", err)
	}
	if stored := env.reload(t, created.ID); stored.Status != model.StatusPending {
		t.Errorf("status = %q after rejected foreign action, want Pending", stored.Status)
	}
}

func TestLifecycleInvalidTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		from   string
		action func(context.Context, Actor, string) (RequestResponse, error)
	}{
		{"accept pending", model.StatusPending, env.lifecycle.Accept},
		{"restore pending", model.StatusPending, env.lifecycle.Restore},
		{"decline processing", model.StatusProcessing, env.lifecycle.Decline},
		{"process processing", model.StatusProcessing, env.lifecycle.Process},
		{"process accepted", model.StatusAccepted, env.lifecycle.Process},
		{"decline accepted", model.StatusAccepted, env.lifecycle.Decline},
		{"accept declined", model.StatusDeclined, env.lifecycle.Accept},
		{"process declined", model.StatusDeclined, env.lifecycle.Process},
	}

	for _, tc := range cases {
		created := env.createClearance(t, "Transition Case")
		if err := env.db.Model(&model.DocumentRequest{}).Where("id = ?", created.ID).Update("status", tc.from).Error; err != nil {
			t.Fatalf("failed to force status %q: %v", tc.from, err)
		}

		if _, err := tc.action(ctx, env.admin, created.ID); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: err = %v, want ErrInvalidTransition", tc.name, err)
		}
		if stored := env.reload(t, created.ID); stored.Status != tc.from {
			t.Errorf("%s: status changed to %q despite invalid transition", tc.name, stored.Status)
		}
	}
}

func TestDeclineAndRestore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.createClearance(t, "Ana Lim")

	declined, err := env.lifecycle.Decline(ctx, env.admin, created.ID)
	if err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if declined.Status != model.StatusDeclined {
		t.Errorf("status after decline = %q, want %q", declined.Status, model.StatusDeclined)
	}
	if declined.DeclinedBy == nil || *declined.DeclinedBy != env.admin.Email {
		t.Errorf("DeclinedBy = %v, want %q", declined.DeclinedBy, env.admin.Email)
	}

	// Declined requests leave the active view and appear in the archive view.
	active, _, err := env.requests.List(ctx, env.admin, RequestFilter{})
	if err != nil {
		t.Fatalf("List active failed: %v", err)
	}
	for _, r := range active {
		if r.ID == created.ID {
			t.Error("declined request still listed in active view")
		}
	}
	archive, _, err := env.requests.List(ctx, env.admin, RequestFilter{Statuses: []string{model.StatusDeclined}})
	if err != nil {
		t.Fatalf("List archive failed: %v", err)
	}
	if len(archive) != 1 || archive[0].ID != created.ID {
		t.Fatalf("archive view = %d entries, want the declined request", len(archive))
	}

	restored, err := env.lifecycle.Restore(ctx, env.admin, created.ID)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Status != model.StatusPending {
		t.Errorf("status after restore = %q, want %q", restored.Status, model.StatusPending)
	}
	if restored.RestoredBy == nil || *restored.RestoredBy != env.admin.Email {
		t.Errorf("RestoredBy = %v, want %q", restored.RestoredBy, env.admin.Email)
	}

	// Restore clears the declined pair so the request reads as never declined.
	stored := env.reload(t, created.ID)
	if stored.DeclinedAt != nil || stored.DeclinedBy != nil {
		t.Error("declined pair not cleared by restore")
	}
	if stored.RestoredAt == nil {
		t.Error("RestoredAt not set by restore")
	}

	// The request number is unchanged across the whole round trip.
	if got := stored.DisplayID(); got != created.DisplayID {
		t.Errorf("display id changed from %q to %q", created.DisplayID, got)
	}
}

func TestLifecycleUnknownRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.lifecycle.Process(ctx, env.admin, "not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
	if _, err := env.lifecycle.Process(ctx, env.admin, "2b1c8f9e-59c3-4d2a-9f41-000000000000"); err == nil {
		t.Error("expected error for unknown id")
	}
}
