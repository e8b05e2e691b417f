package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/auth"
	"github.com/qms_management/internal/models"
)

// SetupDMTRoutes 设置 DMT 记录相关路由。
// 关闭、删除、导出仅限 Admin 与 Quality Manager；重新打开仅限 Admin 与 Inspector；
// 其余操作对所有已登录用户开放。
func SetupDMTRoutes(router *gin.RouterGroup, h *Handlers) {
	apiV1 := router.Group("/v1")

	dmtGroup := apiV1.Group("/dmt")
	dmtGroup.Use(auth.SessionMiddleware(h.Sessions))
	{
		// GET /api/v1/dmt
		dmtGroup.GET("", h.DMT.ListDMTRecords)
		// POST /api/v1/dmt
		dmtGroup.POST("", h.DMT.CreateDMTRecord)
		// GET /api/v1/dmt/export/:format
		dmtGroup.GET("/export/:format",
			auth.RequireRoles(models.RoleAdmin, models.RoleQualityManager),
			h.DMT.ExportDMTRecords)
		// GET /api/v1/dmt/:id
		dmtGroup.GET("/:id", h.DMT.GetDMTRecord)
		// PUT /api/v1/dmt/:id
		dmtGroup.PUT("/:id", h.DMT.UpdateDMTRecord)
		// DELETE /api/v1/dmt/:id
		dmtGroup.DELETE("/:id",
			auth.RequireRoles(models.RoleAdmin, models.RoleQualityManager),
			h.DMT.DeleteDMTRecord)
		// POST /api/v1/dmt/:id/close
		dmtGroup.POST("/:id/close",
			auth.RequireRoles(models.RoleAdmin, models.RoleQualityManager),
			h.DMT.CloseDMTRecord)
		// POST /api/v1/dmt/:id/reopen
		dmtGroup.POST("/:id/reopen",
			auth.RequireRoles(models.RoleAdmin, models.RoleInspector),
			h.DMT.ReopenDMTRecord)
	}
}
