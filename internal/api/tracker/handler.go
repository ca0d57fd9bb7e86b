// Package tracker provides REST API handlers for the habit tracker:
// daily habits, streaks, achievements, and reporting summaries.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/internal/service/achievements"
	"github.com/disciplehub/disciplehub/internal/service/habits"
	"github.com/disciplehub/disciplehub/internal/service/reports"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// HabitService interface for habit operations.
type HabitService interface {
	ListHabitsForDay(ctx context.Context, userID, day string) ([]models.HabitStatus, error)
	ToggleHabit(ctx context.Context, userID, habitID, day string) (*habits.ToggleResult, error)
	GetStreak(ctx context.Context, userID string) (*models.StreakRecord, error)
}

// AchievementService interface for achievement operations.
type AchievementService interface {
	GetUserAchievements(ctx context.Context, userID string) ([]achievements.GrantedAchievement, error)
	GetCatalog(ctx context.Context) ([]models.AchievementDefinition, error)
}

// ReportService interface for reporting operations.
type ReportService interface {
	GetStreakLeaderboard(ctx context.Context, metric string, limit int) ([]reports.Entry, error)
	GetUserSummary(ctx context.Context, userID string) (*reports.UserSummary, error)
}

// Handler handles tracker API requests.
type Handler struct {
	habitService       HabitService
	achievementService AchievementService
	reportService      ReportService
	log                *logger.Logger
}

// NewHandler creates a new tracker handler.
func NewHandler(habitService HabitService, achievementService AchievementService, reportService ReportService, log *logger.Logger) *Handler {
	return &Handler{
		habitService:       habitService,
		achievementService: achievementService,
		reportService:      reportService,
		log:                log,
	}
}

// ListHabits returns the active habit catalog with completion flags.
// GET /api/v1/habits?date=2025-03-15.
func (h *Handler) ListHabits(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	day := c.DefaultQuery("date", models.FormatDay(time.Now()))

	statuses, err := h.habitService.ListHabitsForDay(c.Request.Context(), userID, day)
	if err != nil {
		h.serviceError(c, err, "Failed to list habits")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": statuses,
		"date":   day,
	})
}

// ToggleHabit marks or unmarks a habit as done for a day.
// POST /api/v1/habits/:id/toggle?date=2025-03-15.
func (h *Handler) ToggleHabit(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	habitID := c.Param("id")
	day := c.DefaultQuery("date", models.FormatDay(time.Now()))

	result, err := h.habitService.ToggleHabit(c.Request.Context(), userID, habitID, day)
	if err != nil {
		h.serviceError(c, err, "Failed to toggle habit")
		return
	}

	h.log.Info().
		Str("user_id", userID).
		Str("habit_id", habitID).
		Str("date", day).
		Bool("day_complete", result.DayComplete).
		Int("new_achievements", len(result.NewAchievements)).
		Msg("Habit toggled")

	c.JSON(http.StatusOK, result)
}

// GetStreak returns the caller's streak record.
// GET /api/v1/streak.
func (h *Handler) GetStreak(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	streak, err := h.habitService.GetStreak(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to get streak")
		return
	}

	c.JSON(http.StatusOK, streak)
}

// GetAchievements returns the caller's granted achievements.
// GET /api/v1/achievements.
func (h *Handler) GetAchievements(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	granted, err := h.achievementService.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to get achievements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": granted,
		"total":        len(granted),
	})
}

// GetAchievementCatalog returns all achievement definitions.
// GET /api/v1/achievements/catalog.
func (h *Handler) GetAchievementCatalog(c *gin.Context) {
	defs, err := h.achievementService.GetCatalog(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "Failed to get achievement catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": defs,
		"total":        len(defs),
	})
}

// GetStreakLeaderboard returns the top streaks.
// GET /api/v1/reports/streaks?metric=current&limit=10.
func (h *Handler) GetStreakLeaderboard(c *gin.Context) {
	metric := c.DefaultQuery("metric", "current")
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if metric != "current" && metric != "best" {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid metric: %s (valid: current, best)", metric))
		return
	}

	entries, err := h.reportService.GetStreakLeaderboard(c.Request.Context(), metric, limit)
	if err != nil {
		h.serviceError(c, err, "Failed to get streak leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":  entries,
		"metric":       metric,
		"generated_at": time.Now().UTC(),
	})
}

// GetUserSummary returns engine totals for a user.
// GET /api/v1/reports/users/:id/summary.
func (h *Handler) GetUserSummary(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		h.errorResponse(c, http.StatusBadRequest, "user id is required")
		return
	}

	summary, err := h.reportService.GetUserSummary(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to get user summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions

// requireUser extracts the user id injected by the hosting app's auth
// layer. Authentication itself happens upstream.
func (h *Handler) requireUser(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		h.errorResponse(c, http.StatusBadRequest, "X-User-ID header is required")
		return "", false
	}
	return userID, true
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}
	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}
	return limit, nil
}

// serviceError maps service errors onto HTTP statuses.
func (h *Handler) serviceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrHabitNotFound), errors.Is(err, models.ErrAchievementNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case isInvalidDay(err):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(logMsg)
		h.errorResponse(c, http.StatusInternalServerError, logMsg)
	}
}

func isInvalidDay(err error) bool {
	var parseErr *time.ParseError
	return errors.As(err, &parseErr)
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
