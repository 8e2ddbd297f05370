package domain

import (
	"context"
	"errors"
	"time"
)

// Claim statuses as recorded in the Reclamos worksheet.
const (
	ClaimStatusPending    = "Pendiente"
	ClaimStatusInProgress = "En curso"
	ClaimStatusReferred   = "Derivado"
	ClaimStatusResolved   = "Resuelto"
)

var (
	ErrClaimNotFound  = errors.New("claim not found")
	ErrDuplicateClaim = errors.New("client already has an open claim")
	ErrInvalidClaim   = errors.New("invalid claim")
	ErrInvalidStatus  = errors.New("invalid claim status")
)

// Claim is one customer complaint.
type Claim struct {
	ClaimID      string    `json:"claim_id"`
	ClientNumber string    `json:"client_number"`
	Sector       string    `json:"sector"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Type         string    `json:"type"`
	Details      string    `json:"details"`
	Status       string    `json:"status"`
	Technician   string    `json:"technician,omitempty"`
	SealNumber   string    `json:"seal_number,omitempty"`
	AttendedBy   string    `json:"attended_by"`
	CreatedAt    time.Time `json:"created_at"`
	Priority     string    `json:"priority"`
	Notes        string    `json:"notes,omitempty"`
	Materials    string    `json:"materials,omitempty"`
}

// Open reports whether the claim still needs work.
func (c Claim) Open() bool {
	return c.Status != ClaimStatusResolved
}

// StoredClaim pairs a claim with its current grid row. Like
// notifications, the row is transient addressing only.
type StoredClaim struct {
	Claim
	Row int
}

// ClaimClosure carries the fields written when a claim is resolved.
type ClaimClosure struct {
	SealNumber string `json:"seal_number"`
	Notes      string `json:"notes"`
	Materials  string `json:"materials"`
}

// ClaimStore is the repository boundary for claims.
type ClaimStore interface {
	Load(ctx context.Context) ([]StoredClaim, error)
	Append(ctx context.Context, c Claim) error
	UpdateStatus(ctx context.Context, row int, status string) error
	AssignTechnician(ctx context.Context, row int, technician string) error
	Close(ctx context.Context, row int, closure ClaimClosure) error
}

// ClaimFilter narrows List results. Zero values match everything.
type ClaimFilter struct {
	Status       string
	Technician   string
	ClientNumber string
	Limit        int
}

func validClaimStatus(status string) bool {
	switch status {
	case ClaimStatusPending, ClaimStatusInProgress, ClaimStatusReferred, ClaimStatusResolved:
		return true
	default:
		return false
	}
}
