package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cablesur/crm-backend/internal/config"
	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/sheets"
)

// notificationColumns is the persisted row layout. Order is the wire
// contract: cell updates and the read-flag column letter depend on it.
var notificationColumns = []string{
	"ID", "Tipo", "Prioridad", "Mensaje",
	"Usuario_Destino", "ID_Reclamo", "Fecha_Hora", "Leída", "Acción", "Color",
}

// readColumn is the A1 letter of the Leída column.
const readColumn = "H"

// NotificationRepository implements domain.NotificationStore over one
// worksheet of the CRM spreadsheet.
type NotificationRepository struct {
	store     RowStore
	worksheet string
	loc       *time.Location
}

// NewNotificationRepository creates the repository. loc is the zone all
// timestamps are read and written in.
func NewNotificationRepository(store RowStore, worksheet string, loc *time.Location) *NotificationRepository {
	return &NotificationRepository{store: store, worksheet: worksheet, loc: loc}
}

// Load reads and normalizes every notification row. A worksheet with no
// data rows yields an empty slice.
func (r *NotificationRepository) Load(ctx context.Context) ([]domain.StoredNotification, error) {
	data, err := r.store.Rows(ctx, r.worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	if len(data) <= 1 {
		return []domain.StoredNotification{}, nil
	}

	stored := make([]domain.StoredNotification, 0, len(data)-1)
	for i, raw := range data[1:] {
		row := padRow(raw, len(notificationColumns))
		// the icon is display metadata derived from the type table,
		// never persisted
		icon := ""
		if info, ok := config.NotificationTypes[row[1]]; ok {
			icon = info.Icon
		}
		stored = append(stored, domain.StoredNotification{
			Notification: domain.Notification{
				ID:         parseID(row[0]),
				Type:       row[1],
				Icon:       icon,
				Priority:   row[2],
				Message:    row[3],
				TargetUser: row[4],
				ClaimID:    row[5],
				CreatedAt:  parseTimestamp(row[6], r.loc),
				Read:       parseBool(row[7]),
				Action:     row[8],
				Color:      row[9],
			},
			// header is grid row 0, first data row is 1
			Row: i + 1,
		})
	}
	return stored, nil
}

// Append writes one notification after the last row.
func (r *NotificationRepository) Append(ctx context.Context, n domain.Notification) error {
	row := []string{
		strconv.Itoa(n.ID),
		n.Type,
		n.Priority,
		n.Message,
		n.TargetUser,
		n.ClaimID,
		formatTimestamp(n.CreatedAt, r.loc),
		formatBool(n.Read),
		n.Action,
		n.Color,
	}
	if err := r.store.Append(ctx, r.worksheet, row); err != nil {
		return fmt.Errorf("failed to append notification %d: %w", n.ID, err)
	}
	return nil
}

// MarkRead sets the Leída cell of the given grid rows in one batch.
func (r *NotificationRepository) MarkRead(ctx context.Context, rows []int) error {
	updates := make([]sheets.CellUpdate, 0, len(rows))
	for _, row := range rows {
		updates = append(updates, sheets.CellUpdate{
			// grid rows are 0-based, A1 rows are 1-based
			Range: fmt.Sprintf("%s%d", readColumn, row+1),
			Value: formatBool(true),
		})
	}
	return r.store.UpdateCells(ctx, r.worksheet, updates)
}

// DeleteRows removes the given grid rows.
func (r *NotificationRepository) DeleteRows(ctx context.Context, rows []int) error {
	return r.store.DeleteRows(ctx, r.worksheet, rows)
}
