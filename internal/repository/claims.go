package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/sheets"
)

// claimColumns is the Reclamos worksheet layout, inherited from the
// spreadsheet and kept byte-for-byte compatible with it.
var claimColumns = []string{
	"Fecha y hora", "Nº Cliente", "Sector", "Nombre",
	"Dirección", "Teléfono", "Tipo de reclamo", "Detalles",
	"Estado", "Técnico", "N° de Precinto", "Atendido por",
	"Fecha_formateada", "ID Reclamo", "Prioridad", "Notas", "Materiales_Utilizados",
}

// 0-based column indexes for targeted cell updates.
const (
	claimColStatus     = 8
	claimColTechnician = 9
	claimColSeal       = 10
	claimColNotes      = 15
	claimColMaterials  = 16
)

// ClaimRepository implements domain.ClaimStore over the Reclamos
// worksheet.
type ClaimRepository struct {
	store     RowStore
	worksheet string
	loc       *time.Location
}

func NewClaimRepository(store RowStore, worksheet string, loc *time.Location) *ClaimRepository {
	return &ClaimRepository{store: store, worksheet: worksheet, loc: loc}
}

// Load reads and normalizes every claim row.
func (r *ClaimRepository) Load(ctx context.Context) ([]domain.StoredClaim, error) {
	data, err := r.store.Rows(ctx, r.worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	if len(data) <= 1 {
		return []domain.StoredClaim{}, nil
	}

	stored := make([]domain.StoredClaim, 0, len(data)-1)
	for i, raw := range data[1:] {
		row := padRow(raw, len(claimColumns))
		stored = append(stored, domain.StoredClaim{
			Claim: domain.Claim{
				CreatedAt:    parseTimestamp(row[0], r.loc),
				ClientNumber: row[1],
				Sector:       row[2],
				Name:         row[3],
				Address:      row[4],
				Phone:        row[5],
				Type:         row[6],
				Details:      row[7],
				Status:       row[8],
				Technician:   row[9],
				SealNumber:   row[10],
				AttendedBy:   row[11],
				ClaimID:      row[13],
				Priority:     row[14],
				Notes:        row[15],
				Materials:    row[16],
			},
			Row: i + 1,
		})
	}
	return stored, nil
}

// Append writes one claim after the last row.
func (r *ClaimRepository) Append(ctx context.Context, c domain.Claim) error {
	row := []string{
		formatTimestamp(c.CreatedAt, r.loc),
		c.ClientNumber,
		c.Sector,
		c.Name,
		c.Address,
		c.Phone,
		c.Type,
		c.Details,
		c.Status,
		c.Technician,
		c.SealNumber,
		c.AttendedBy,
		formatDate(c.CreatedAt, r.loc),
		c.ClaimID,
		c.Priority,
		c.Notes,
		c.Materials,
	}
	if err := r.store.Append(ctx, r.worksheet, row); err != nil {
		return fmt.Errorf("failed to append claim %s: %w", c.ClaimID, err)
	}
	return nil
}

// UpdateStatus rewrites the Estado cell of one grid row.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, row int, status string) error {
	return r.store.UpdateCells(ctx, r.worksheet, []sheets.CellUpdate{
		cellAt(claimColStatus, row, status),
	})
}

// AssignTechnician rewrites the Técnico cell of one grid row.
func (r *ClaimRepository) AssignTechnician(ctx context.Context, row int, technician string) error {
	return r.store.UpdateCells(ctx, r.worksheet, []sheets.CellUpdate{
		cellAt(claimColTechnician, row, technician),
	})
}

// Close marks one grid row resolved and records the closure details in
// a single batch.
func (r *ClaimRepository) Close(ctx context.Context, row int, closure domain.ClaimClosure) error {
	updates := []sheets.CellUpdate{
		cellAt(claimColStatus, row, domain.ClaimStatusResolved),
	}
	if closure.SealNumber != "" {
		updates = append(updates, cellAt(claimColSeal, row, closure.SealNumber))
	}
	if closure.Notes != "" {
		updates = append(updates, cellAt(claimColNotes, row, closure.Notes))
	}
	if closure.Materials != "" {
		updates = append(updates, cellAt(claimColMaterials, row, closure.Materials))
	}
	return r.store.UpdateCells(ctx, r.worksheet, updates)
}

// cellAt builds the A1 address of (column, grid row).
func cellAt(col, row int, value string) sheets.CellUpdate {
	return sheets.CellUpdate{
		Range: fmt.Sprintf("%s%d", columnLetter(col), row+1),
		Value: value,
	}
}

// formatDate renders the date-only companion column.
func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("02/01/2006")
}
