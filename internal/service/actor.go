package service

import (
	"errors"

	"backend/internal/model"

	"github.com/google/uuid"
)

// Actor identifies who is performing an operation, taken from the verified
// token claims. BarangayID is uuid.Nil for superadmins.
type Actor struct {
	UID        string
	Email      string
	Role       string
	BarangayID uuid.UUID
}

// IsAdmin reports whether the actor may move requests through the lifecycle.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanAccessBarangay reports whether the actor may touch records owned by the
// given barangay. Superadmins read everything; admins only their own.
func (a Actor) CanAccessBarangay(barangayID uuid.UUID) bool {
	if a.Role == model.RoleSuperadmin {
		return true
	}
	return a.BarangayID == barangayID
}

var (
	// ErrNotAuthorized is returned when the actor's role does not permit the
	// operation. The store is never written in that case.
	ErrNotAuthorized = errors.New("not authorized to perform this action")

	// ErrInvalidTransition is returned when a lifecycle action does not apply
	// to the request's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
