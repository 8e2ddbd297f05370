package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/testutil"
)

const testWorksheet = "Notificaciones"

func notificationHeader() []string {
	return []string{"ID", "Tipo", "Prioridad", "Mensaje", "Usuario_Destino", "ID_Reclamo", "Fecha_Hora", "Leída", "Acción", "Color"}
}

func newTestRepo(t *testing.T) (*NotificationRepository, *testutil.FakeSheetStore) {
	t.Helper()
	store := testutil.NewFakeSheetStore()
	store.Seed(testWorksheet, [][]string{notificationHeader()})
	return NewNotificationRepository(store, testWorksheet, time.UTC), store
}

func TestLoadEmptyWorksheet(t *testing.T) {
	repo, _ := newTestRepo(t)

	notifs, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if notifs == nil {
		t.Fatal("Load() = nil, want empty slice")
	}
	if len(notifs) != 0 {
		t.Errorf("Load() returned %d rows, want 0", len(notifs))
	}
}

func TestLoadNormalizesRows(t *testing.T) {
	repo, store := newTestRepo(t)
	store.Seed(testWorksheet, [][]string{
		notificationHeader(),
		{"1", "nuevo_reclamo", "medium", "Nuevo reclamo", "all", "AB12CD34", "15/03/2026 10:30", "FALSE", "reclamos:AB12CD34", "#3498db"},
		{"2.0", "status_change", "medium", "Estado actualizado", "maria", "", "no es fecha", "verdadero", "", ""},
		// short row, only id and type
		{"abc", "alerta_urgente"},
	})

	notifs, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(notifs) != 3 {
		t.Fatalf("Load() returned %d rows, want 3", len(notifs))
	}

	first := notifs[0]
	if first.ID != 1 || first.Row != 1 {
		t.Errorf("first row: ID=%d Row=%d, want ID=1 Row=1", first.ID, first.Row)
	}
	want := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	if !first.CreatedAt.Equal(want) {
		t.Errorf("first row CreatedAt = %v, want %v", first.CreatedAt, want)
	}
	if first.Read {
		t.Error("first row Read = true, want false")
	}
	if first.Icon == "" {
		t.Error("first row Icon not derived from type table")
	}

	second := notifs[1]
	if second.ID != 2 {
		t.Errorf("float id parsed as %d, want 2", second.ID)
	}
	if !second.Read {
		t.Error("spanish boolean not recognized as read")
	}
	if !second.CreatedAt.IsZero() {
		t.Errorf("unparseable timestamp = %v, want zero", second.CreatedAt)
	}

	third := notifs[2]
	if third.ID != 0 {
		t.Errorf("invalid id parsed as %d, want 0", third.ID)
	}
	if third.Row != 3 {
		t.Errorf("third row position = %d, want 3", third.Row)
	}
}

func TestAppendEncodesAllColumns(t *testing.T) {
	repo, store := newTestRepo(t)

	created := time.Date(2026, 7, 1, 14, 5, 0, 0, time.UTC)
	err := repo.Append(context.Background(), domain.Notification{
		ID:         7,
		Type:       "trabajo_asignado",
		Priority:   "medium",
		Message:    "Se te asignó un trabajo",
		TargetUser: "carlos",
		ClaimID:    "XY98ZW76",
		CreatedAt:  created,
		Read:       false,
		Action:     "reclamos:XY98ZW76",
		Color:      "#9b59b6",
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rows := store.Snapshot(testWorksheet)
	if len(rows) != 2 {
		t.Fatalf("worksheet has %d rows, want 2", len(rows))
	}
	got := rows[1]
	wantRow := []string{"7", "trabajo_asignado", "medium", "Se te asignó un trabajo", "carlos", "XY98ZW76", "01/07/2026 14:05", "FALSE", "reclamos:XY98ZW76", "#9b59b6"}
	if len(got) != len(wantRow) {
		t.Fatalf("appended row has %d cells, want %d", len(got), len(wantRow))
	}
	for i := range wantRow {
		if got[i] != wantRow[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], wantRow[i])
		}
	}
}

func TestMarkReadWritesReadColumn(t *testing.T) {
	repo, store := newTestRepo(t)
	store.Seed(testWorksheet, [][]string{
		notificationHeader(),
		{"1", "nuevo_reclamo", "medium", "a", "all", "", "15/03/2026 10:30", "FALSE", "", ""},
		{"2", "nuevo_reclamo", "medium", "b", "all", "", "16/03/2026 10:30", "FALSE", "", ""},
	})

	if err := repo.MarkRead(context.Background(), []int{1, 2}); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	rows := store.Snapshot(testWorksheet)
	for i := 1; i <= 2; i++ {
		if rows[i][7] != "TRUE" {
			t.Errorf("row %d Leída = %q, want TRUE", i, rows[i][7])
		}
	}
	if store.UpdateCalls != 1 {
		t.Errorf("UpdateCells called %d times, want 1 batch", store.UpdateCalls)
	}
}

func TestDeleteRowsRemovesPositions(t *testing.T) {
	repo, store := newTestRepo(t)
	store.Seed(testWorksheet, [][]string{
		notificationHeader(),
		{"1", "nuevo_reclamo", "medium", "a", "all", "", "", "FALSE", "", ""},
		{"2", "nuevo_reclamo", "medium", "b", "all", "", "", "FALSE", "", ""},
		{"3", "nuevo_reclamo", "medium", "c", "all", "", "", "FALSE", "", ""},
	})

	// deleting 1 then 3 must not shift under itself
	if err := repo.DeleteRows(context.Background(), []int{1, 3}); err != nil {
		t.Fatalf("DeleteRows() error = %v", err)
	}

	rows := store.Snapshot(testWorksheet)
	if len(rows) != 2 {
		t.Fatalf("worksheet has %d rows, want 2", len(rows))
	}
	if rows[1][0] != "2" {
		t.Errorf("surviving row id = %q, want 2", rows[1][0])
	}
}
