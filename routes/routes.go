package routes

import (
	"net/http"
	"time"

	"github.com/nikolasamardzija/busNS-rest-api/handlers"
	"github.com/nikolasamardzija/busNS-rest-api/middleware"
	"github.com/nikolasamardzija/busNS-rest-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterLineRoutes registers the line listing endpoints.
func RegisterLineRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/lines")
	{
		api.GET("/city", hb.GetCityLinesHandler)
		api.GET("/intercity", hb.GetIntercityLinesHandler)
	}
}

// RegisterTimetableRoutes registers the timetable endpoints.
func RegisterTimetableRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/timetables")
	{
		api.GET("/:line", hb.GetTimetableHandler)
		api.GET("/:line/stored", hb.GetStoredTimetableHandler)
	}
	r.GET("/api/stored/timetables", hb.ListStoredTimetablesHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware(hb.JWTSecret))
		adminGroup.POST("/refresh", hb.RefreshTimetablesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.OK() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterMetricsRoute exposes the Prometheus registry.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	RegisterLineRoutes(r, hb)
	RegisterTimetableRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
