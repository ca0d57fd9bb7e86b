package achievements

import (
	"time"

	"github.com/disciplehub/disciplehub/internal/models"
)

// Evaluate determines which achievements newly qualify for a user given a
// progress snapshot and the set of ids already granted. Every qualifying
// definition yields a grant; there is no stop-at-first-match rule. The
// alreadyGranted set is the sole gate against re-granting, so a metric
// that regressed and re-exceeded its threshold never produces a duplicate.
//
// Definitions of type "special" carry no numeric metric and never
// auto-qualify; they are reserved for manual awards.
func Evaluate(
	userID string,
	snapshot models.ProgressSnapshot,
	defs []models.AchievementDefinition,
	alreadyGranted map[string]bool,
) []models.AchievementGrant {
	now := time.Now()

	var grants []models.AchievementGrant
	for _, def := range defs {
		if alreadyGranted[def.ID] {
			continue
		}

		value, ok := snapshot.Metric(def.Type)
		if !ok {
			continue
		}

		if value >= def.Requirement {
			grants = append(grants, models.AchievementGrant{
				UserID:        userID,
				AchievementID: def.ID,
				GrantedAt:     now,
				StreakDays:    snapshot.Streak,
			})
		}
	}

	return grants
}
