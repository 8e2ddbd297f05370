package repository

import (
	"testing"
	"time"
)

func TestParseBoolSpellings(t *testing.T) {
	trues := []string{"TRUE", "true", "Verdadero", "VERDADERO", "1", "si", "SÍ", " true "}
	for _, cell := range trues {
		if !parseBool(cell) {
			t.Errorf("parseBool(%q) = false, want true", cell)
		}
	}

	falses := []string{"FALSE", "false", "Falso", "FALSO", "0", "", "no", "garbage"}
	for _, cell := range falses {
		if parseBool(cell) {
			t.Errorf("parseBool(%q) = true, want false", cell)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	loc := time.UTC

	got := parseTimestamp("25/12/2025 08:00", loc)
	want := time.Date(2025, 12, 25, 8, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("parseTimestamp = %v, want %v", got, want)
	}

	if !parseTimestamp("2025-12-25 08:00:00", loc).Equal(want) {
		t.Error("ISO layout not accepted")
	}

	if !parseTimestamp("", loc).IsZero() {
		t.Error("empty cell should parse to zero time")
	}
	if !parseTimestamp("ayer", loc).IsZero() {
		t.Error("unparseable cell should parse to zero time")
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2026, 1, 5, 23, 59, 0, 0, loc)

	cell := formatTimestamp(ts, loc)
	if cell != "05/01/2026 23:59" {
		t.Fatalf("formatTimestamp = %q", cell)
	}
	if !parseTimestamp(cell, loc).Equal(ts) {
		t.Error("write format does not round-trip")
	}

	if formatTimestamp(time.Time{}, loc) != "" {
		t.Error("zero time should format as empty cell")
	}
}

func TestParseID(t *testing.T) {
	cases := map[string]int{
		"3":    3,
		" 12 ": 12,
		"3.0":  3,
		"3.5":  0,
		"x":    0,
		"":     0,
	}
	for cell, want := range cases {
		if got := parseID(cell); got != want {
			t.Errorf("parseID(%q) = %d, want %d", cell, got, want)
		}
	}
}
