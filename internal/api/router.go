package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"dorm-housing-backend/config"
	"dorm-housing-backend/internal/mw"
	"dorm-housing-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. Collectors are
// registered with reg, which is also served on /metrics.
func NewRouter(s store.Store, cfg *config.ServerConfig, reg *prometheus.Registry) *gin.Engine {
	r := gin.Default()

	metrics := mw.NewMetrics(reg)
	handler := NewHandler(s, metrics)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	responses := mw.NewResponseCache(cfg.CacheTTL)
	caching := responses.Handler()

	r.Use(metrics.Handler(), responses.Invalidate())

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Public channel
	public := r.Group("/api")
	public.Use(rateLimiter)
	{
		public.POST("/applications", handler.SubmitApplication)
		public.GET("/applications/status/:code", handler.GetApplicationStatus)
	}

	admin := r.Group("/api/admin")
	{
		admin.GET("/stats", caching, handler.GetStats)
		admin.GET("/occupancy", caching, handler.GetOccupancy)

		admin.GET("/rooms", handler.ListRooms)
		admin.POST("/rooms", handler.CreateRoom)
		admin.GET("/rooms/:id", handler.GetRoom)
		admin.PUT("/rooms/:id", handler.UpdateRoom)
		admin.DELETE("/rooms/:id", handler.DeleteRoom)
		admin.PUT("/rooms/:id/capacity", handler.ResizeRoom)

		admin.GET("/students", handler.ListStudents)
		admin.POST("/students", handler.CreateStudent)
		admin.GET("/students/:id", handler.GetStudent)
		admin.PUT("/students/:id", handler.UpdateStudent)
		admin.DELETE("/students/:id", handler.DeleteStudent)

		admin.GET("/applications", handler.ListApplications)
		admin.GET("/applications/:id", handler.GetApplication)
		admin.POST("/applications/:id/approve", handler.ApproveApplication)
		admin.POST("/applications/:id/reject", handler.RejectApplication)

		admin.GET("/beds/free", handler.ListFreeBeds)
		admin.GET("/beds/occupied", handler.ListOccupiedBeds)
		admin.POST("/beds/:id/free", handler.FreeBed)
	}

	return r
}
