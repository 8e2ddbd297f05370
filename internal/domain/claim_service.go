package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/pkg/validator"
)

// ClaimService runs the complaint workflow: intake with duplicate
// detection, technician assignment, status transitions and closure.
// Each state change emits a notification through the notification
// service; emission is best effort and never fails the claim operation.
type ClaimService struct {
	store         ClaimStore
	notifications *NotificationService
	logger        *zap.Logger
	loc           *time.Location
	now           func() time.Time
}

// NewClaimService creates the service.
func NewClaimService(store ClaimStore, notifications *NotificationService, loc *time.Location, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		store:         store,
		notifications: notifications,
		logger:        logger,
		loc:           loc,
		now:           time.Now,
	}
}

// CreateClaimParams is the intake form payload.
type CreateClaimParams struct {
	ClientNumber string `json:"client_number"`
	Sector       string `json:"sector"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Type         string `json:"type"`
	Details      string `json:"details"`
	Priority     string `json:"priority"`
	AttendedBy   string `json:"attended_by"`
}

func (p CreateClaimParams) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !validator.ValidateClientNumber(p.ClientNumber) {
		errs.Add("client_number", "must be a number")
	}
	if !validator.ValidateName(p.Name) {
		errs.Add("name", "must be between 2 and 100 characters")
	}
	if strings.TrimSpace(p.Type) == "" {
		errs.Add("type", "is required")
	}
	if p.Phone != "" && !validator.ValidatePhone(p.Phone) {
		errs.Add("phone", "is not a valid phone number")
	}
	return errs
}

// Create registers a new claim. A client with an open claim on record
// is rejected: the duplicate attempt is surfaced to the admin feed and
// ErrDuplicateClaim returned.
func (s *ClaimService) Create(ctx context.Context, p CreateClaimParams) (*Claim, error) {
	if errs := p.validate(); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClaim, errs.Error())
	}

	existing, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	clientNumber := strings.TrimSpace(p.ClientNumber)
	for _, c := range existing {
		if c.ClientNumber == clientNumber && c.Open() {
			s.notifications.Add(ctx, AddParams{
				Type:       "duplicate_claim",
				Message:    fmt.Sprintf("Intento de reclamo duplicado para cliente %s", clientNumber),
				TargetUser: "admin",
				ClaimID:    c.ClaimID,
			})
			return nil, ErrDuplicateClaim
		}
	}

	priority := p.Priority
	if priority == "" {
		priority = "Normal"
	}

	claim := Claim{
		ClaimID:      newClaimID(),
		ClientNumber: clientNumber,
		Sector:       strings.TrimSpace(p.Sector),
		Name:         validator.SanitizeString(p.Name, 100),
		Address:      validator.SanitizeString(p.Address, 200),
		Phone:        strings.TrimSpace(p.Phone),
		Type:         strings.TrimSpace(p.Type),
		Details:      validator.SanitizeString(p.Details, 1000),
		Status:       ClaimStatusPending,
		AttendedBy:   strings.TrimSpace(p.AttendedBy),
		CreatedAt:    s.now().In(s.loc),
		Priority:     priority,
	}

	if err := s.store.Append(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	s.notifications.Add(ctx, AddParams{
		Type:    "nuevo_reclamo",
		Message: fmt.Sprintf("Nuevo reclamo %s - %s para cliente %s", claim.ClaimID, claim.Type, claim.ClientNumber),
		ClaimID: claim.ClaimID,
		Action:  "reclamos:" + claim.ClaimID,
	})

	s.logger.Info("claim created",
		zap.String("claim_id", claim.ClaimID),
		zap.String("client", claim.ClientNumber),
		zap.String("attended_by", claim.AttendedBy),
	)
	return &claim, nil
}

// Get returns one claim by its stable id.
func (s *ClaimService) Get(ctx context.Context, claimID string) (*Claim, error) {
	stored, err := s.find(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return &stored.Claim, nil
}

// List returns claims matching the filter, most recent first.
func (s *ClaimService) List(ctx context.Context, filter ClaimFilter) ([]Claim, error) {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	matched := make([]Claim, 0, len(stored))
	for _, c := range stored {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Technician != "" && c.Technician != filter.Technician {
			continue
		}
		if filter.ClientNumber != "" && c.ClientNumber != filter.ClientNumber {
			continue
		}
		matched = append(matched, c.Claim)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// UpdateStatus moves a claim to a new status and announces the change.
func (s *ClaimService) UpdateStatus(ctx context.Context, claimID, status string) error {
	if !validClaimStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	stored, err := s.find(ctx, claimID)
	if err != nil {
		return err
	}
	if stored.Status == status {
		return nil
	}

	if err := s.store.UpdateStatus(ctx, stored.Row, status); err != nil {
		return fmt.Errorf("failed to update claim %s: %w", claimID, err)
	}

	s.notifications.Add(ctx, AddParams{
		Type:    "status_change",
		Message: fmt.Sprintf("El reclamo %s cambió de estado: %s → %s", claimID, stored.Status, status),
		ClaimID: claimID,
	})
	return nil
}

// AssignTechnician hands a claim to a technician. Everyone is told
// about the assignment; the technician additionally gets a direct
// notification in their own feed.
func (s *ClaimService) AssignTechnician(ctx context.Context, claimID, technician string) error {
	technician = strings.TrimSpace(technician)
	if technician == "" {
		return fmt.Errorf("%w: technician is required", ErrInvalidClaim)
	}

	stored, err := s.find(ctx, claimID)
	if err != nil {
		return err
	}

	if err := s.store.AssignTechnician(ctx, stored.Row, technician); err != nil {
		return fmt.Errorf("failed to assign claim %s: %w", claimID, err)
	}

	s.notifications.Add(ctx, AddParams{
		Type:    "reclamo_asignado",
		Message: fmt.Sprintf("El cliente N° %s fue asignado al técnico %s", stored.ClientNumber, technician),
		ClaimID: claimID,
	})
	s.notifications.Add(ctx, AddParams{
		Type:       "trabajo_asignado",
		Message:    fmt.Sprintf("Se te asignó el reclamo %s (%s)", claimID, stored.Type),
		TargetUser: technician,
		ClaimID:    claimID,
		Action:     "reclamos:" + claimID,
	})
	return nil
}

// Close resolves a claim, recording seal number, notes and materials.
func (s *ClaimService) Close(ctx context.Context, claimID string, closure ClaimClosure) error {
	stored, err := s.find(ctx, claimID)
	if err != nil {
		return err
	}
	if !stored.Open() {
		return nil
	}

	if err := s.store.Close(ctx, stored.Row, closure); err != nil {
		return fmt.Errorf("failed to close claim %s: %w", claimID, err)
	}

	s.notifications.Add(ctx, AddParams{
		Type:    "cierre_exitoso",
		Message: fmt.Sprintf("Reclamo %s cerrado - cliente N° %s", claimID, stored.ClientNumber),
		ClaimID: claimID,
	})
	return nil
}

func (s *ClaimService) find(ctx context.Context, claimID string) (*StoredClaim, error) {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	for _, c := range stored {
		if c.ClaimID == claimID {
			return &c, nil
		}
	}
	return nil, ErrClaimNotFound
}

// newClaimID generates the short uppercase id format the CRM has always
// used for claims.
func newClaimID() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
