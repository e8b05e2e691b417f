package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/auth"
)

// SetupDashboardRoutes 设置审计日志与仪表盘路由，所有已登录用户可访问
func SetupDashboardRoutes(router *gin.RouterGroup, h *Handlers) {
	apiV1 := router.Group("/v1")

	auditGroup := apiV1.Group("/audit")
	auditGroup.Use(auth.SessionMiddleware(h.Sessions))
	{
		// GET /api/v1/audit
		auditGroup.GET("", h.Audit.ListRecent)
		// GET /api/v1/audit/:entityType/:entityId
		auditGroup.GET("/:entityType/:entityId", h.Audit.ListByEntity)
	}

	dashboardGroup := apiV1.Group("/dashboard")
	dashboardGroup.Use(auth.SessionMiddleware(h.Sessions))
	{
		// GET /api/v1/dashboard/stats
		dashboardGroup.GET("/stats", h.Dashboard.GetStats)
	}
}
