package habits

import (
	"github.com/disciplehub/disciplehub/internal/models"
)

// advance applies the streak rule for a day that just became fully
// complete. Semantics are calendar days, not timestamps:
//
//   - last completed yesterday: the streak continues, current + 1;
//   - last completed today: duplicate trigger, no change;
//   - anything else (gap of two or more days, or no prior record): the
//     streak restarts at 1, representing today.
//
// Best streak is the running maximum of current and therefore never
// decreases. The returned bool reports whether the record changed and
// needs persisting.
func advance(record models.StreakRecord, day string) (models.StreakRecord, bool, error) {
	yesterday, err := models.PrevDay(day)
	if err != nil {
		return record, false, err
	}

	last := ""
	if record.LastCompletedDate != nil {
		last = *record.LastCompletedDate
	}

	switch last {
	case day:
		// Already recorded as complete today; defends against double-invocation.
		return record, false, nil
	case yesterday:
		record.CurrentStreak++
	default:
		record.CurrentStreak = 1
	}

	if record.CurrentStreak > record.BestStreak {
		record.BestStreak = record.CurrentStreak
	}
	record.LastCompletedDate = &day

	return record, true, nil
}
