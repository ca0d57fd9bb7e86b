// Package api assembles the gin router for the tracker service.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/disciplehub/disciplehub/internal/api/tracker"
	"github.com/disciplehub/disciplehub/internal/config"
)

// HealthChecker reports storage health for the health endpoint.
type HealthChecker interface {
	Health() error
}

// NewRouter builds the HTTP router.
func NewRouter(cfg *config.Config, handler *tracker.Handler, db HealthChecker) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/habits", handler.ListHabits)
		v1.POST("/habits/:id/toggle", handler.ToggleHabit)
		v1.GET("/streak", handler.GetStreak)
		v1.GET("/achievements", handler.GetAchievements)
		v1.GET("/achievements/catalog", handler.GetAchievementCatalog)
		v1.GET("/reports/streaks", handler.GetStreakLeaderboard)
		v1.GET("/reports/users/:id/summary", handler.GetUserSummary)
	}

	return router
}
