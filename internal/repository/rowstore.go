// Package repository maps between worksheet rows and typed CRM records.
// All schema normalization lives here: booleans, timestamps and numeric
// ids are parsed permissively at this boundary so the services above
// never see a missing column or a surprising cell value.
package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cablesur/crm-backend/internal/sheets"
)

// RowStore is the store adapter contract the repositories depend on.
// *sheets.Client satisfies it; tests substitute an in-memory fake.
type RowStore interface {
	Rows(ctx context.Context, worksheet string) ([][]string, error)
	Append(ctx context.Context, worksheet string, row []string) error
	UpdateCells(ctx context.Context, worksheet string, updates []sheets.CellUpdate) error
	DeleteRows(ctx context.Context, worksheet string, positions []int) error
}

// timestampLayouts are tried in order when parsing Fecha_Hora cells.
// The first one is also the write format.
var timestampLayouts = []string{
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
}

// padRow extends a short row with empty cells so positional access is
// always safe. The Sheets API omits trailing empty cells.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// parseBool understands the spreadsheet's spanish and english boolean
// spellings. Anything unrecognized is false.
func parseBool(cell string) bool {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "TRUE", "VERDADERO", "1", "SI", "SÍ":
		return true
	default:
		return false
	}
}

// formatBool writes booleans the way the spreadsheet UI shows them.
func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// parseTimestamp parses a Fecha_Hora cell. The zero time means the
// value could not be parsed; callers treat it as "unknown".
func parseTimestamp(cell string, loc *time.Location) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, cell, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// formatTimestamp renders a timestamp in the sheet's write format. The
// zero time becomes an empty cell.
func formatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(timestampLayouts[0])
}

// parseID parses a numeric id cell. Sheets sometimes renders integers
// as floats ("3.0"); both spellings are accepted. Unparseable ids
// yield 0, which id assignment ignores.
func parseID(cell string) int {
	cell = strings.TrimSpace(cell)
	if n, err := strconv.Atoi(cell); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

// columnLetter converts a 0-based column index to its A1 letter. The
// CRM worksheets never exceed 26 columns.
func columnLetter(index int) string {
	return string(rune('A' + index))
}
