package habits

import (
	"testing"

	"github.com/disciplehub/disciplehub/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name            string
		record          models.StreakRecord
		day             string
		expectedCurrent int
		expectedBest    int
		expectedChanged bool
	}{
		{
			name: "continues unbroken streak from yesterday",
			record: models.StreakRecord{
				CurrentStreak:     5,
				BestStreak:        8,
				LastCompletedDate: strPtr("2025-03-14"),
			},
			day:             "2025-03-15",
			expectedCurrent: 6,
			expectedBest:    8,
			expectedChanged: true,
		},
		{
			name: "new best when current passes it",
			record: models.StreakRecord{
				CurrentStreak:     8,
				BestStreak:        8,
				LastCompletedDate: strPtr("2025-03-14"),
			},
			day:             "2025-03-15",
			expectedCurrent: 9,
			expectedBest:    9,
			expectedChanged: true,
		},
		{
			name: "no-op when day already recorded",
			record: models.StreakRecord{
				CurrentStreak:     5,
				BestStreak:        8,
				LastCompletedDate: strPtr("2025-03-15"),
			},
			day:             "2025-03-15",
			expectedCurrent: 5,
			expectedBest:    8,
			expectedChanged: false,
		},
		{
			name: "resets to 1 after a gap",
			record: models.StreakRecord{
				CurrentStreak:     30,
				BestStreak:        30,
				LastCompletedDate: strPtr("2025-03-11"),
			},
			day:             "2025-03-15",
			expectedCurrent: 1,
			expectedBest:    30,
			expectedChanged: true,
		},
		{
			name:            "starts at 1 with no prior record",
			record:          models.StreakRecord{},
			day:             "2025-03-15",
			expectedCurrent: 1,
			expectedBest:    1,
			expectedChanged: true,
		},
		{
			name: "crosses a month boundary",
			record: models.StreakRecord{
				CurrentStreak:     3,
				BestStreak:        3,
				LastCompletedDate: strPtr("2025-02-28"),
			},
			day:             "2025-03-01",
			expectedCurrent: 4,
			expectedBest:    4,
			expectedChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed, err := advance(tt.record, tt.day)
			if err != nil {
				t.Fatalf("advance() failed: %v", err)
			}

			if changed != tt.expectedChanged {
				t.Errorf("Expected changed=%v, got %v", tt.expectedChanged, changed)
			}
			if next.CurrentStreak != tt.expectedCurrent {
				t.Errorf("Expected current streak %d, got %d", tt.expectedCurrent, next.CurrentStreak)
			}
			if next.BestStreak != tt.expectedBest {
				t.Errorf("Expected best streak %d, got %d", tt.expectedBest, next.BestStreak)
			}
			if changed {
				if next.LastCompletedDate == nil || *next.LastCompletedDate != tt.day {
					t.Errorf("Expected last completed date %q, got %v", tt.day, next.LastCompletedDate)
				}
			}
		})
	}
}

func TestAdvance_InvalidDay(t *testing.T) {
	_, _, err := advance(models.StreakRecord{}, "not-a-date")
	if err == nil {
		t.Error("Expected error for invalid day")
	}
}

func TestAdvance_BestNeverDecreases(t *testing.T) {
	// Walk a streak up, break it, walk it up again; best must never drop.
	record := models.StreakRecord{}
	days := []string{
		"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04",
		"2025-01-10", // gap: reset
		"2025-01-11", "2025-01-12",
	}

	best := 0
	for _, day := range days {
		next, _, err := advance(record, day)
		if err != nil {
			t.Fatalf("advance(%s) failed: %v", day, err)
		}
		if next.BestStreak < best {
			t.Errorf("Best streak decreased from %d to %d on %s", best, next.BestStreak, day)
		}
		best = next.BestStreak
		record = next
	}

	if record.CurrentStreak != 3 {
		t.Errorf("Expected current streak 3 after rebuild, got %d", record.CurrentStreak)
	}
	if record.BestStreak != 4 {
		t.Errorf("Expected best streak 4, got %d", record.BestStreak)
	}
}
