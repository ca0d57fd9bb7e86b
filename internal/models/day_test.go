package models

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid day", "2025-03-15", false},
		{"leap day", "2024-02-29", false},
		{"invalid leap day", "2025-02-29", true},
		{"wrong format", "15/03/2025", true},
		{"timestamp rejected", "2025-03-15T10:00:00Z", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDay(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDay(%q) failed: %v", tt.input, err)
			}
			if got != tt.input {
				t.Errorf("ParseDay(%q) = %q", tt.input, got)
			}
		})
	}
}

func TestPrevDay(t *testing.T) {
	tests := []struct {
		day  string
		prev string
	}{
		{"2025-03-15", "2025-03-14"},
		{"2025-03-01", "2025-02-28"},
		{"2024-03-01", "2024-02-29"},
		{"2025-01-01", "2024-12-31"},
	}

	for _, tt := range tests {
		got, err := PrevDay(tt.day)
		if err != nil {
			t.Fatalf("PrevDay(%s) failed: %v", tt.day, err)
		}
		if got != tt.prev {
			t.Errorf("PrevDay(%s) = %s, want %s", tt.day, got, tt.prev)
		}
	}
}

func TestFormatDay(t *testing.T) {
	ts := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)
	if got := FormatDay(ts); got != "2025-03-15" {
		t.Errorf("FormatDay() = %s, want 2025-03-15", got)
	}
}
