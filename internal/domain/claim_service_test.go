package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/repository"
	"github.com/cablesur/crm-backend/internal/testutil"
)

const claimWorksheet = "Reclamos"

func claimHeader() []string {
	return []string{
		"Fecha y hora", "Nº Cliente", "Sector", "Nombre",
		"Dirección", "Teléfono", "Tipo de reclamo", "Detalles",
		"Estado", "Técnico", "N° de Precinto", "Atendido por",
		"Fecha_formateada", "ID Reclamo", "Prioridad", "Notas", "Materiales_Utilizados",
	}
}

func claimRow(claimID, clientNumber, status, technician string, when time.Time) []string {
	return []string{
		when.UTC().Format("02/01/2006 15:04"), clientNumber, "Centro", "Cliente " + clientNumber,
		"Calle 123", "2944000000", "Sin señal", "detalle",
		status, technician, "", "maria",
		when.UTC().Format("02/01/2006"), claimID, "Normal", "", "",
	}
}

func newClaimService(t *testing.T) (*domain.ClaimService, *testutil.FakeSheetStore) {
	t.Helper()
	store := testutil.NewFakeSheetStore()
	store.Seed(claimWorksheet, [][]string{claimHeader()})
	store.Seed(notifWorksheet, [][]string{notifHeader()})

	claimRepo := repository.NewClaimRepository(store, claimWorksheet, time.UTC)
	notifRepo := repository.NewNotificationRepository(store, notifWorksheet, time.UTC)
	notifSvc := domain.NewNotificationService(notifRepo, testConfig(), zap.NewNop())
	return domain.NewClaimService(claimRepo, notifSvc, time.UTC, zap.NewNop()), store
}

// notifTypes extracts the Tipo column of every stored notification.
func notifTypes(store *testutil.FakeSheetStore) []string {
	var types []string
	for _, row := range store.Snapshot(notifWorksheet)[1:] {
		types = append(types, row[1])
	}
	return types
}

func TestCreateClaim(t *testing.T) {
	svc, store := newClaimService(t)

	claim, err := svc.Create(context.Background(), domain.CreateClaimParams{
		ClientNumber: "12345",
		Name:         "Juan Pérez",
		Type:         "Sin señal",
		AttendedBy:   "maria",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if claim.Status != domain.ClaimStatusPending {
		t.Errorf("Status = %q, want %q", claim.Status, domain.ClaimStatusPending)
	}
	if len(claim.ClaimID) != 8 {
		t.Errorf("ClaimID = %q, want 8 characters", claim.ClaimID)
	}

	rows := store.Snapshot(claimWorksheet)
	if len(rows) != 2 {
		t.Fatalf("claims worksheet has %d rows, want 2", len(rows))
	}

	types := notifTypes(store)
	if len(types) != 1 || types[0] != "nuevo_reclamo" {
		t.Errorf("emitted notifications = %v, want [nuevo_reclamo]", types)
	}
	notif := store.Snapshot(notifWorksheet)[1]
	if notif[4] != "all" {
		t.Errorf("nuevo_reclamo target = %q, want broadcast", notif[4])
	}
	if notif[8] != "reclamos:"+claim.ClaimID {
		t.Errorf("nuevo_reclamo action = %q", notif[8])
	}
}

func TestCreateClaimValidation(t *testing.T) {
	svc, _ := newClaimService(t)

	_, err := svc.Create(context.Background(), domain.CreateClaimParams{
		ClientNumber: "not-a-number",
		Name:         "Juan",
		Type:         "Sin señal",
	})
	if !errors.Is(err, domain.ErrInvalidClaim) {
		t.Errorf("Create() error = %v, want ErrInvalidClaim", err)
	}
}

func TestCreateDuplicateClaimFlagsAdmin(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusPending, "", time.Now()),
	})

	_, err := svc.Create(context.Background(), domain.CreateClaimParams{
		ClientNumber: "12345",
		Name:         "Juan Pérez",
		Type:         "Sin señal",
	})
	if !errors.Is(err, domain.ErrDuplicateClaim) {
		t.Fatalf("Create() error = %v, want ErrDuplicateClaim", err)
	}

	if len(store.Snapshot(claimWorksheet)) != 2 {
		t.Error("duplicate claim was stored")
	}
	notif := store.Snapshot(notifWorksheet)
	if len(notif) != 2 || notif[1][1] != "duplicate_claim" {
		t.Fatalf("notifications = %v, want one duplicate_claim", notif[1:])
	}
	if notif[1][4] != "admin" {
		t.Errorf("duplicate_claim target = %q, want admin", notif[1][4])
	}
}

func TestCreateAllowedWhenPreviousClaimResolved(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusResolved, "carlos", time.Now().AddDate(0, 0, -5)),
	})

	if _, err := svc.Create(context.Background(), domain.CreateClaimParams{
		ClientNumber: "12345",
		Name:         "Juan Pérez",
		Type:         "Sin señal",
	}); err != nil {
		t.Fatalf("Create() error = %v, want nil for resolved previous claim", err)
	}
}

func TestUpdateStatusEmitsChange(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusPending, "", time.Now()),
	})

	if err := svc.UpdateStatus(context.Background(), "AB12CD34", domain.ClaimStatusInProgress); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if got := store.Snapshot(claimWorksheet)[1][8]; got != domain.ClaimStatusInProgress {
		t.Errorf("Estado = %q, want %q", got, domain.ClaimStatusInProgress)
	}
	types := notifTypes(store)
	if len(types) != 1 || types[0] != "status_change" {
		t.Errorf("emitted notifications = %v, want [status_change]", types)
	}
}

func TestUpdateStatusNoOpWhenUnchanged(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusPending, "", time.Now()),
	})

	if err := svc.UpdateStatus(context.Background(), "AB12CD34", domain.ClaimStatusPending); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got := notifTypes(store); len(got) != 0 {
		t.Errorf("emitted notifications = %v, want none", got)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newClaimService(t)

	err := svc.UpdateStatus(context.Background(), "AB12CD34", "Perdido")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("UpdateStatus() error = %v, want ErrInvalidStatus", err)
	}
}

func TestAssignTechnicianEmitsBoth(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusPending, "", time.Now()),
	})

	if err := svc.AssignTechnician(context.Background(), "AB12CD34", "carlos"); err != nil {
		t.Fatalf("AssignTechnician() error = %v", err)
	}

	if got := store.Snapshot(claimWorksheet)[1][9]; got != "carlos" {
		t.Errorf("Técnico = %q, want carlos", got)
	}

	types := notifTypes(store)
	if len(types) != 2 || types[0] != "reclamo_asignado" || types[1] != "trabajo_asignado" {
		t.Fatalf("emitted notifications = %v, want [reclamo_asignado trabajo_asignado]", types)
	}
	direct := store.Snapshot(notifWorksheet)[2]
	if direct[4] != "carlos" {
		t.Errorf("trabajo_asignado target = %q, want carlos", direct[4])
	}
}

func TestCloseClaim(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusInProgress, "carlos", time.Now()),
	})

	err := svc.Close(context.Background(), "AB12CD34", domain.ClaimClosure{
		SealNumber: "P-2291",
		Notes:      "cable cortado",
		Materials:  "10m coaxil",
	})
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	row := store.Snapshot(claimWorksheet)[1]
	if row[8] != domain.ClaimStatusResolved {
		t.Errorf("Estado = %q, want %q", row[8], domain.ClaimStatusResolved)
	}
	if row[10] != "P-2291" || row[15] != "cable cortado" || row[16] != "10m coaxil" {
		t.Errorf("closure cells = %q %q %q", row[10], row[15], row[16])
	}
	types := notifTypes(store)
	if len(types) != 1 || types[0] != "cierre_exitoso" {
		t.Errorf("emitted notifications = %v, want [cierre_exitoso]", types)
	}
}

func TestCloseAlreadyResolvedIsNoOp(t *testing.T) {
	svc, store := newClaimService(t)
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AB12CD34", "12345", domain.ClaimStatusResolved, "carlos", time.Now()),
	})

	if err := svc.Close(context.Background(), "AB12CD34", domain.ClaimClosure{}); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := notifTypes(store); len(got) != 0 {
		t.Errorf("emitted notifications = %v, want none", got)
	}
}

func TestListClaimsFilterAndOrder(t *testing.T) {
	svc, store := newClaimService(t)
	now := time.Now()
	store.Seed(claimWorksheet, [][]string{
		claimHeader(),
		claimRow("AAAA1111", "1", domain.ClaimStatusPending, "", now.Add(-2*time.Hour)),
		claimRow("BBBB2222", "2", domain.ClaimStatusResolved, "carlos", now.Add(-1*time.Hour)),
		claimRow("CCCC3333", "3", domain.ClaimStatusPending, "", now),
	})

	pending, err := svc.List(context.Background(), domain.ClaimFilter{Status: domain.ClaimStatusPending})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pending) != 2 || pending[0].ClaimID != "CCCC3333" || pending[1].ClaimID != "AAAA1111" {
		t.Errorf("pending claims = %v, want CCCC3333 then AAAA1111", pending)
	}

	limited, err := svc.List(context.Background(), domain.ClaimFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 1 || limited[0].ClaimID != "CCCC3333" {
		t.Errorf("limited claims = %v, want only CCCC3333", limited)
	}
}

func TestGetClaimNotFound(t *testing.T) {
	svc, _ := newClaimService(t)

	_, err := svc.Get(context.Background(), "ZZZZ9999")
	if !errors.Is(err, domain.ErrClaimNotFound) {
		t.Errorf("Get() error = %v, want ErrClaimNotFound", err)
	}
}
