// Package testutil provides an in-memory stand-in for the Google
// Sheets client so repository and service tests run without network.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cablesur/crm-backend/internal/sheets"
)

// FakeSheetStore implements repository.RowStore over in-memory
// worksheets. Errors can be injected per operation to exercise the
// fail-open paths.
type FakeSheetStore struct {
	mu         sync.Mutex
	worksheets map[string][][]string

	RowsErr   error
	AppendErr error
	UpdateErr error
	DeleteErr error

	// AppendFailures makes the next N Append calls fail before the
	// store starts accepting writes again. Used for retry tests.
	AppendFailures int

	RowsCalls   int
	AppendCalls int
	UpdateCalls int
	DeleteCalls int
}

func NewFakeSheetStore() *FakeSheetStore {
	return &FakeSheetStore{worksheets: make(map[string][][]string)}
}

// Seed replaces the contents of a worksheet, header row included.
func (f *FakeSheetStore) Seed(worksheet string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	f.worksheets[worksheet] = copied
}

// Snapshot returns a copy of a worksheet's current rows.
func (f *FakeSheetStore) Snapshot(worksheet string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.worksheets[worksheet]
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied
}

func (f *FakeSheetStore) Rows(ctx context.Context, worksheet string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RowsCalls++
	if f.RowsErr != nil {
		return nil, f.RowsErr
	}
	rows := f.worksheets[worksheet]
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied, nil
}

func (f *FakeSheetStore) Append(ctx context.Context, worksheet string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AppendCalls++
	if f.AppendFailures > 0 {
		f.AppendFailures--
		return fmt.Errorf("append rejected")
	}
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.worksheets[worksheet] = append(f.worksheets[worksheet], append([]string(nil), row...))
	return nil
}

func (f *FakeSheetStore) UpdateCells(ctx context.Context, worksheet string, updates []sheets.CellUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	rows := f.worksheets[worksheet]
	for _, u := range updates {
		col, rowNum, err := parseA1(u.Range)
		if err != nil {
			return err
		}
		idx := rowNum - 1
		if idx < 0 || idx >= len(rows) {
			return fmt.Errorf("range %s outside worksheet %s", u.Range, worksheet)
		}
		for len(rows[idx]) <= col {
			rows[idx] = append(rows[idx], "")
		}
		rows[idx][col] = u.Value
	}
	f.worksheets[worksheet] = rows
	return nil
}

func (f *FakeSheetStore) DeleteRows(ctx context.Context, worksheet string, positions []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	rows := f.worksheets[worksheet]
	sorted := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, pos := range sorted {
		if pos < 0 || pos >= len(rows) {
			return fmt.Errorf("position %d outside worksheet %s", pos, worksheet)
		}
		rows = append(rows[:pos], rows[pos+1:]...)
	}
	f.worksheets[worksheet] = rows
	return nil
}

// parseA1 splits a relative A1 reference like "H5" into a zero-based
// column index and a one-based row number.
func parseA1(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("bad cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("bad cell reference %q", ref)
	}
	return col - 1, row, nil
}
