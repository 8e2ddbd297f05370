// Package sheets is the store adapter for the Google Sheets spreadsheet
// that persists all CRM data. It exposes the four row operations the
// repositories need and normalizes every failure into a plain error.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// CellUpdate addresses one cell inside a worksheet using A1 notation
// relative to the worksheet (e.g. "H5").
type CellUpdate struct {
	Range string
	Value string
}

// Config holds what the client needs to reach one spreadsheet.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	// Delay is inserted before every call to stay under the API quota.
	Delay time.Duration
}

// Client performs row operations against one spreadsheet. All methods
// are blocking network calls; cancellation comes from the caller's ctx.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	delay         time.Duration
	tracker       tracker

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewClient authorizes a service account and connects to the spreadsheet.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	jwtCfg, err := google.JWTConfigFromJSON(cfg.CredentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		delay:         cfg.Delay,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// Rows reads every row of the worksheet, header included. Cells are
// returned as display strings.
func (c *Client) Rows(ctx context.Context, worksheet string) ([][]string, error) {
	if err := c.pause(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, worksheet).Context(ctx).Do()
	if c.tracker.record(err); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", worksheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds one row after the last data row of the worksheet.
func (c *Client) Append(ctx context.Context, worksheet string, row []string) error {
	if err := c.pause(ctx); err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, worksheet, &sheetsapi.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if c.tracker.record(err); err != nil {
		return fmt.Errorf("failed to append to %s: %w", worksheet, err)
	}
	return nil
}

// UpdateCells applies a batch of single-cell writes in one round trip.
// An empty batch is a no-op success.
func (c *Client) UpdateCells(ctx context.Context, worksheet string, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	if err := c.pause(ctx); err != nil {
		return err
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{
			Range:  fmt.Sprintf("%s!%s", worksheet, u.Range),
			Values: [][]interface{}{{u.Value}},
		})
	}

	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if c.tracker.record(err); err != nil {
		return fmt.Errorf("failed to batch update %s: %w", worksheet, err)
	}
	return nil
}

// DeleteRows removes the given 0-based grid rows from the worksheet in a
// single batch. Rows are deleted highest first so earlier deletions do
// not shift the positions of later ones.
func (c *Client) DeleteRows(ctx context.Context, worksheet string, positions []int) error {
	if len(positions) == 0 {
		return nil
	}

	sheetID, err := c.sheetID(ctx, worksheet)
	if err != nil {
		return err
	}
	if err := c.pause(ctx); err != nil {
		return err
	}

	sorted := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	requests := make([]*sheetsapi.Request, 0, len(sorted))
	for _, pos := range sorted {
		requests = append(requests, &sheetsapi.Request{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(pos),
					EndIndex:   int64(pos) + 1,
				},
			},
		})
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if c.tracker.record(err); err != nil {
		return fmt.Errorf("failed to delete rows from %s: %w", worksheet, err)
	}
	return nil
}

// Stats returns read-only call telemetry.
func (c *Client) Stats() Stats {
	return c.tracker.snapshot()
}

// sheetID resolves the numeric grid id of a worksheet, caching results.
func (c *Client) sheetID(ctx context.Context, worksheet string) (int64, error) {
	c.mu.Lock()
	if id, ok := c.sheetIDs[worksheet]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	if err := c.pause(ctx); err != nil {
		return 0, err
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if c.tracker.record(err); err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := c.sheetIDs[worksheet]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found", worksheet)
	}
	return id, nil
}

// pause waits the configured quota delay, giving up early if ctx ends.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
