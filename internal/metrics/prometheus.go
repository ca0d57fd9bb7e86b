// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the habit and achievement engine.
var (
	// Counters.
	HabitTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_toggles_total",
			Help: "Total number of habit toggles applied",
		},
		[]string{"habit_id", "action"},
	)

	DaysCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "days_completed_total",
			Help: "Total number of fully-complete habit days recorded",
		},
	)

	AchievementsGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_granted_total",
			Help: "Total number of achievements granted",
		},
		[]string{"achievement_id", "tier"},
	)

	// Gauges.
	AchievementHolders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "achievement_holders",
			Help: "Current number of users holding each achievement",
		},
		[]string{"achievement_id"},
	)

	// Histograms.
	StreakLengthDays = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streak_length_days",
			Help:    "Current streak length observed on each streak advance",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 to ~512 days
		},
	)

	// Sweep job metrics.
	SweepJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievement_sweep_jobs_run_total",
			Help: "Total achievement sweep job executions",
		},
		[]string{"status"},
	)

	SweepDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "achievement_sweep_duration_seconds",
			Help:    "Time taken to execute the achievement sweep job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s to ~128s
		},
	)
)

// RecordHabitToggle records a habit toggle event.
func RecordHabitToggle(habitID, action string) {
	HabitTogglesTotal.WithLabelValues(habitID, action).Inc()
}

// RecordDayCompleted records a fully-complete habit day.
func RecordDayCompleted() {
	DaysCompletedTotal.Inc()
}

// RecordAchievementGranted records an achievement grant event.
func RecordAchievementGranted(achievementID, tier string) {
	AchievementsGrantedTotal.WithLabelValues(achievementID, tier).Inc()
}

// SetAchievementHolders sets the number of holders for an achievement.
func SetAchievementHolders(achievementID string, count int) {
	AchievementHolders.WithLabelValues(achievementID).Set(float64(count))
}

// ObserveStreakLength observes a streak length after an advance.
func ObserveStreakLength(days int) {
	StreakLengthDays.Observe(float64(days))
}

// RecordSweepRun records an achievement sweep job execution.
func RecordSweepRun(status string) {
	SweepJobsRunTotal.WithLabelValues(status).Inc()
}

// ObserveSweepDuration observes the duration of an achievement sweep job.
func ObserveSweepDuration(seconds float64) {
	SweepDurationSeconds.Observe(seconds)
}
